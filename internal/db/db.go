package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyRegistered = errors.New("guild already registered")
)

type DB interface {
	Close() error
	Migrate(context.Context) error

	RegisterGuild(*Guild) error
	UnregisterGuild(guildID string) error
	GetGuild(guildID string) (*Guild, error)
	IsRegistered(guildID string) (bool, error)
	RegisteredGuilds() ([]Guild, error)

	SetChannel(guildID string, kind ChannelType, channelID string) error
	RemoveChannel(guildID string, kind ChannelType) error
	GetChannel(guildID string, kind ChannelType) (string, error)
	GetChannels(guildID string) (map[ChannelType]string, error)

	GetListMessages(guildID string) ([]string, error)
	SetListMessages(guildID string, messageIDs []string) error
	DeleteListMessages(guildID string) error

	GetEmojiSnapshot(guildID string) ([]Emoji, error)
	SetEmojiSnapshot(guildID string, emojis []Emoji) error
	FindEmojisByName(name string) ([]Emoji, error)

	GetStickerSnapshot(guildID string) ([]Sticker, error)
	SetStickerSnapshot(guildID string, stickers []Sticker) error
}

// ChannelType identifies what a configured channel is used for.
type ChannelType string

const (
	// ChannelEmojiList receives the auto-maintained emoji list messages.
	ChannelEmojiList ChannelType = "list-emoji"
	// ChannelEmojiNotify receives emoji create/update/delete notifications.
	ChannelEmojiNotify ChannelType = "notifier-emoji"
	// ChannelStickerNotify receives sticker create/update/delete notifications.
	ChannelStickerNotify ChannelType = "notifier-sticker"
	// ChannelSoundboardNotify receives soundboard change notifications.
	ChannelSoundboardNotify ChannelType = "notifier-sound-board"
)

var ChannelTypes = []ChannelType{
	ChannelEmojiList,
	ChannelEmojiNotify,
	ChannelStickerNotify,
	ChannelSoundboardNotify,
}

var ErrInvalidChannelType = errors.New("invalid channel type")

func ParseChannelType(s string) (ChannelType, error) {
	for _, kind := range ChannelTypes {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChannelType, s)
}

func (t ChannelType) String() string {
	return string(t)
}

type Guild struct {
	ID           string
	Name         string
	RegisteredAt time.Time
}

// Emoji is a persisted snapshot of a guild emoji, used to diff gateway
// emoji-set updates into individual change notifications and to detect
// name collisions across guilds.
type Emoji struct {
	GuildID  string
	ID       string
	Name     string
	Animated bool
}

type Sticker struct {
	GuildID     string
	ID          string
	Name        string
	Description string
}
