package bot

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

func LogWith(v any, more ...any) *slog.Logger {
	switch v := v.(type) {
	case *discordgo.GuildEmojisUpdate:
		return slog.With(append([]any{"guild_id", v.GuildID, "emojis", len(v.Emojis)}, more...)...)
	case *discordgo.GuildStickersUpdate:
		return slog.With(append([]any{"guild_id", v.GuildID, "stickers", len(v.Stickers)}, more...)...)
	case *discordgo.GuildCreate:
		return slog.With(append([]any{"guild_id", v.ID, "guild", v.Name}, more...)...)
	case *discordgo.InteractionCreate:
		args := []any{
			"guild_id", v.GuildID,
			"channel_id", v.ChannelID,
		}
		if v.User != nil {
			args = append(args, "user", v.User.String())
		} else if v.Member != nil {
			args = append(args, "user", v.Member.User.String())
		}
		if v.Type == discordgo.InteractionApplicationCommand {
			args = append(args, "cmd", v.ApplicationCommandData().Name)
		}
		return slog.With(append(args, more...)...)
	default:
		return slog.With(more...)
	}
}
