package notify

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"guildwatch/internal/db"
)

const (
	ColorCreated = 0x00ff00
	ColorUpdated = 0xffa500
	ColorDeleted = 0xff0000
)

// Mention renders the inline mention token for a snapshot emoji.
func Mention(emoji db.Emoji) string {
	if emoji.Animated {
		return "<a:" + emoji.Name + ":" + emoji.ID + ">"
	}
	return "<:" + emoji.Name + ":" + emoji.ID + ">"
}

// EmojiCreated builds the NEW EMOJI embed. duplicates are same-named emojis
// known from other guilds' snapshots; if any exist a warning field is added.
func EmojiCreated(emoji db.Emoji, uploader *discordgo.User, duplicates []db.Emoji) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf(":new: NEW EMOJI : %s (`%s`)", Mention(emoji), emoji.Name),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: emojiURL(emoji),
		},
		Author:    embedAuthor(uploader),
		Color:     ColorCreated,
		Timestamp: timestamp(),
	}

	if len(duplicates) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "⚠️ Duplicate name",
			Value: fmt.Sprintf("An emoji named `%s` already exists in %d other server(s).", emoji.Name, len(duplicates)),
		})
	}

	return embed
}

func EmojiUpdated(update EmojiUpdate, updatedBy *discordgo.User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf(":repeat: UPDATED EMOJI : %s", Mention(update.New)),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: emojiURL(update.New),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Before", Value: "`" + update.Old.Name + "`", Inline: true},
			{Name: "After", Value: "`" + update.New.Name + "`", Inline: true},
		},
		Author:    embedAuthor(updatedBy),
		Color:     ColorUpdated,
		Timestamp: timestamp(),
	}
}

func EmojiDeleted(emoji db.Emoji, deletedBy *discordgo.User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf(":wave: DELETED EMOJI : `%s`", emoji.Name),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: emojiURL(emoji),
		},
		Author:    embedAuthor(deletedBy),
		Color:     ColorDeleted,
		Timestamp: timestamp(),
	}
}

// StickerCreated builds the NEW STICKER embed. used and max describe the
// guild's sticker slot consumption after the change; max depends on the
// guild's premium tier.
func StickerCreated(sticker db.Sticker, uploader *discordgo.User, used, max int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf(":new: NEW STICKER : `%s`", sticker.Name),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: stickerURL(sticker),
		},
		Author:    embedAuthor(uploader),
		Color:     ColorCreated,
		Timestamp: timestamp(),
	}

	if sticker.Description != "" {
		embed.Description = sticker.Description
	}
	if max > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d/%d sticker slots used", used, max),
		}
	}

	return embed
}

func StickerUpdated(update StickerUpdate, updatedBy *discordgo.User) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf(":repeat: UPDATED STICKER : `%s`", update.New.Name),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: stickerURL(update.New),
		},
		Author:    embedAuthor(updatedBy),
		Color:     ColorUpdated,
		Timestamp: timestamp(),
	}

	if update.Old.Name != update.New.Name {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Before", Value: "`" + update.Old.Name + "`", Inline: true},
			&discordgo.MessageEmbedField{Name: "After", Value: "`" + update.New.Name + "`", Inline: true},
		)
	}
	if update.Old.Description != update.New.Description {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Description", Value: update.New.Description},
		)
	}

	return embed
}

func StickerDeleted(sticker db.Sticker, deletedBy *discordgo.User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf(":wave: DELETED STICKER : `%s`", sticker.Name),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: stickerURL(sticker),
		},
		Author:    embedAuthor(deletedBy),
		Color:     ColorDeleted,
		Timestamp: timestamp(),
	}
}

// MaxEmojis returns the guild's emoji slot cap for its premium tier.
func MaxEmojis(tier discordgo.PremiumTier) int {
	switch tier {
	case discordgo.PremiumTier1:
		return 100
	case discordgo.PremiumTier2:
		return 150
	case discordgo.PremiumTier3:
		return 250
	default:
		return 50
	}
}

// MaxStickers returns the guild's sticker slot cap for its premium tier.
func MaxStickers(tier discordgo.PremiumTier) int {
	switch tier {
	case discordgo.PremiumTier1:
		return 15
	case discordgo.PremiumTier2:
		return 30
	case discordgo.PremiumTier3:
		return 60
	default:
		return 5
	}
}

func emojiURL(emoji db.Emoji) string {
	if emoji.Animated {
		return discordgo.EndpointEmojiAnimated(emoji.ID)
	}
	return discordgo.EndpointEmoji(emoji.ID)
}

func stickerURL(sticker db.Sticker) string {
	return discordgo.EndpointCDN + "stickers/" + sticker.ID + ".png"
}

func embedAuthor(user *discordgo.User) *discordgo.MessageEmbedAuthor {
	if user == nil {
		return nil
	}
	return &discordgo.MessageEmbedAuthor{
		Name:    user.String(),
		URL:     "https://discord.com/users/" + user.ID,
		IconURL: user.AvatarURL(""),
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
