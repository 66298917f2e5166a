package notify_test

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildwatch/internal/db"
	"guildwatch/internal/notify"
)

func TestDiffEmojis(t *testing.T) {
	old := []db.Emoji{
		{GuildID: "g", ID: "1", Name: "keep"},
		{GuildID: "g", ID: "2", Name: "before"},
		{GuildID: "g", ID: "3", Name: "gone"},
	}
	current := []db.Emoji{
		{GuildID: "g", ID: "1", Name: "keep"},
		{GuildID: "g", ID: "2", Name: "after"},
		{GuildID: "g", ID: "4", Name: "fresh"},
	}

	changes := notify.DiffEmojis(old, current)

	require.Len(t, changes.Created, 1)
	assert.Equal(t, "fresh", changes.Created[0].Name)

	require.Len(t, changes.Updated, 1)
	assert.Equal(t, "before", changes.Updated[0].Old.Name)
	assert.Equal(t, "after", changes.Updated[0].New.Name)

	require.Len(t, changes.Deleted, 1)
	assert.Equal(t, "gone", changes.Deleted[0].Name)

	assert.False(t, changes.Empty())
}

func TestDiffEmojisNoChanges(t *testing.T) {
	snapshot := []db.Emoji{
		{GuildID: "g", ID: "1", Name: "a"},
		{GuildID: "g", ID: "2", Name: "b"},
	}

	assert.True(t, notify.DiffEmojis(snapshot, snapshot).Empty())
	assert.True(t, notify.DiffEmojis(nil, nil).Empty())
}

func TestDiffEmojisFromEmptySnapshot(t *testing.T) {
	current := []db.Emoji{
		{GuildID: "g", ID: "1", Name: "a"},
		{GuildID: "g", ID: "2", Name: "b"},
	}

	changes := notify.DiffEmojis(nil, current)
	assert.Len(t, changes.Created, 2)
	assert.Empty(t, changes.Updated)
	assert.Empty(t, changes.Deleted)
}

func TestDiffStickers(t *testing.T) {
	old := []db.Sticker{
		{GuildID: "g", ID: "1", Name: "same", Description: "old text"},
		{GuildID: "g", ID: "2", Name: "bye"},
	}
	current := []db.Sticker{
		{GuildID: "g", ID: "1", Name: "same", Description: "new text"},
		{GuildID: "g", ID: "3", Name: "hi"},
	}

	changes := notify.DiffStickers(old, current)

	require.Len(t, changes.Created, 1)
	assert.Equal(t, "hi", changes.Created[0].Name)

	require.Len(t, changes.Updated, 1)
	assert.Equal(t, "old text", changes.Updated[0].Old.Description)
	assert.Equal(t, "new text", changes.Updated[0].New.Description)

	require.Len(t, changes.Deleted, 1)
	assert.Equal(t, "bye", changes.Deleted[0].Name)
}

func TestMention(t *testing.T) {
	assert.Equal(t, "<:blob:123>", notify.Mention(db.Emoji{ID: "123", Name: "blob"}))
	assert.Equal(t, "<a:blob:123>", notify.Mention(db.Emoji{ID: "123", Name: "blob", Animated: true}))
}

func TestSlotCaps(t *testing.T) {
	assert.Equal(t, 50, notify.MaxEmojis(discordgo.PremiumTierNone))
	assert.Equal(t, 100, notify.MaxEmojis(discordgo.PremiumTier1))
	assert.Equal(t, 150, notify.MaxEmojis(discordgo.PremiumTier2))
	assert.Equal(t, 250, notify.MaxEmojis(discordgo.PremiumTier3))

	assert.Equal(t, 5, notify.MaxStickers(discordgo.PremiumTierNone))
	assert.Equal(t, 15, notify.MaxStickers(discordgo.PremiumTier1))
	assert.Equal(t, 30, notify.MaxStickers(discordgo.PremiumTier2))
	assert.Equal(t, 60, notify.MaxStickers(discordgo.PremiumTier3))
}

func TestEmojiCreatedDuplicateWarning(t *testing.T) {
	emoji := db.Emoji{GuildID: "g", ID: "1", Name: "blob"}

	embed := notify.EmojiCreated(emoji, nil, nil)
	assert.Empty(t, embed.Fields)

	embed = notify.EmojiCreated(emoji, nil, []db.Emoji{{GuildID: "other", ID: "9", Name: "blob"}})
	require.Len(t, embed.Fields, 1)
	assert.Contains(t, embed.Fields[0].Value, "1 other server")
}
