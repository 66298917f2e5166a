package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildwatch/internal/db"
)

func setup(t *testing.T) db.DB {
	t.Helper()

	database, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background()))
	t.Cleanup(func() { database.Close() })

	return database
}

func TestRegisterGuild(t *testing.T) {
	database := setup(t)

	err := database.RegisterGuild(&db.Guild{ID: "1", Name: "first"})
	require.NoError(t, err)

	registered, err := database.IsRegistered("1")
	require.NoError(t, err)
	assert.True(t, registered)

	registered, err = database.IsRegistered("2")
	require.NoError(t, err)
	assert.False(t, registered)

	err = database.RegisterGuild(&db.Guild{ID: "1", Name: "again"})
	assert.ErrorIs(t, err, db.ErrAlreadyRegistered)

	guild, err := database.GetGuild("1")
	require.NoError(t, err)
	assert.Equal(t, "first", guild.Name)
	assert.False(t, guild.RegisteredAt.IsZero())

	_, err = database.GetGuild("2")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestUnregisterGuildCascades(t *testing.T) {
	database := setup(t)

	require.NoError(t, database.RegisterGuild(&db.Guild{ID: "1", Name: "g"}))
	require.NoError(t, database.SetChannel("1", db.ChannelEmojiList, "c1"))
	require.NoError(t, database.SetListMessages("1", []string{"m1", "m2"}))
	require.NoError(t, database.SetEmojiSnapshot("1", []db.Emoji{{GuildID: "1", ID: "e1", Name: "blob"}}))
	require.NoError(t, database.SetStickerSnapshot("1", []db.Sticker{{GuildID: "1", ID: "s1", Name: "peek"}}))

	require.NoError(t, database.UnregisterGuild("1"))

	registered, err := database.IsRegistered("1")
	require.NoError(t, err)
	assert.False(t, registered)

	channelID, err := database.GetChannel("1", db.ChannelEmojiList)
	require.NoError(t, err)
	assert.Empty(t, channelID)

	messages, err := database.GetListMessages("1")
	require.NoError(t, err)
	assert.Empty(t, messages)

	emojis, err := database.GetEmojiSnapshot("1")
	require.NoError(t, err)
	assert.Empty(t, emojis)

	stickers, err := database.GetStickerSnapshot("1")
	require.NoError(t, err)
	assert.Empty(t, stickers)
}

func TestChannels(t *testing.T) {
	database := setup(t)
	require.NoError(t, database.RegisterGuild(&db.Guild{ID: "1", Name: "g"}))

	channelID, err := database.GetChannel("1", db.ChannelEmojiList)
	require.NoError(t, err)
	assert.Empty(t, channelID)

	require.NoError(t, database.SetChannel("1", db.ChannelEmojiList, "c1"))
	require.NoError(t, database.SetChannel("1", db.ChannelEmojiNotify, "c2"))

	// setting the same type again replaces the channel
	require.NoError(t, database.SetChannel("1", db.ChannelEmojiList, "c3"))

	channelID, err = database.GetChannel("1", db.ChannelEmojiList)
	require.NoError(t, err)
	assert.Equal(t, "c3", channelID)

	channels, err := database.GetChannels("1")
	require.NoError(t, err)
	assert.Equal(t, map[db.ChannelType]string{
		db.ChannelEmojiList:   "c3",
		db.ChannelEmojiNotify: "c2",
	}, channels)

	require.NoError(t, database.RemoveChannel("1", db.ChannelEmojiList))
	assert.ErrorIs(t, database.RemoveChannel("1", db.ChannelEmojiList), db.ErrNotFound)

	channelID, err = database.GetChannel("1", db.ChannelEmojiList)
	require.NoError(t, err)
	assert.Empty(t, channelID)
}

func TestListMessages(t *testing.T) {
	database := setup(t)

	messages, err := database.GetListMessages("1")
	require.NoError(t, err)
	assert.Empty(t, messages)

	require.NoError(t, database.SetListMessages("1", []string{"m3", "m1", "m2"}))

	messages, err = database.GetListMessages("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m1", "m2"}, messages)

	// overwrite replaces the whole sequence
	require.NoError(t, database.SetListMessages("1", []string{"m9"}))

	messages, err = database.GetListMessages("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m9"}, messages)

	require.NoError(t, database.DeleteListMessages("1"))

	messages, err = database.GetListMessages("1")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestEmojiSnapshots(t *testing.T) {
	database := setup(t)

	require.NoError(t, database.SetEmojiSnapshot("1", []db.Emoji{
		{GuildID: "1", ID: "e1", Name: "blob", Animated: true},
		{GuildID: "1", ID: "e2", Name: "wave"},
	}))
	require.NoError(t, database.SetEmojiSnapshot("2", []db.Emoji{
		{GuildID: "2", ID: "e3", Name: "blob"},
	}))

	snapshot, err := database.GetEmojiSnapshot("1")
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	matches, err := database.FindEmojisByName("blob")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = database.FindEmojisByName("nope")
	require.NoError(t, err)
	assert.Empty(t, matches)

	// snapshot writes replace, they never accumulate
	require.NoError(t, database.SetEmojiSnapshot("1", []db.Emoji{
		{GuildID: "1", ID: "e1", Name: "blob", Animated: true},
	}))

	snapshot, err = database.GetEmojiSnapshot("1")
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.True(t, snapshot[0].Animated)
}

func TestStickerSnapshots(t *testing.T) {
	database := setup(t)

	require.NoError(t, database.SetStickerSnapshot("1", []db.Sticker{
		{GuildID: "1", ID: "s1", Name: "peek", Description: "a cat"},
	}))

	snapshot, err := database.GetStickerSnapshot("1")
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "a cat", snapshot[0].Description)

	require.NoError(t, database.SetStickerSnapshot("1", nil))

	snapshot, err = database.GetStickerSnapshot("1")
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}

func TestParseChannelType(t *testing.T) {
	tc := []struct {
		input string
		want  db.ChannelType
		err   error
	}{
		{input: "list-emoji", want: db.ChannelEmojiList},
		{input: "notifier-emoji", want: db.ChannelEmojiNotify},
		{input: "notifier-sticker", want: db.ChannelStickerNotify},
		{input: "notifier-sound-board", want: db.ChannelSoundboardNotify},
		{input: "garbage", err: db.ErrInvalidChannelType},
		{input: "", err: db.ErrInvalidChannelType},
	}

	for _, c := range tc {
		got, err := db.ParseChannelType(c.input)
		if c.err != nil {
			assert.ErrorIs(t, err, c.err)
		} else {
			assert.NoError(t, err)
			assert.Equal(t, c.want, got)
		}
	}
}
