package looper

import (
	"context"
	"log/slog"
	"time"

	"guildwatch/internal/bot"
	"guildwatch/internal/db"
)

// TickRefresh is how often every registered guild's snapshots and emoji list
// are reconverged, catching drift that no gateway event will repair.
const TickRefresh = 1 * time.Hour

type Looper struct {
	db  db.DB
	bot *bot.Bot
}

func New(database db.DB, bot *bot.Bot) *Looper {
	return &Looper{database, bot}
}

func (l *Looper) Refresh(ctx context.Context) {
	ticker := time.NewTicker(TickRefresh)
	defer ticker.Stop()

	log := slog.With("component", "looper.refresh")
	log.Info("starting loop", "tick", TickRefresh)

	for {
		select {
		case <-ctx.Done():
			log.Info("context done, stopping")
			return
		case <-ticker.C:
			guilds, err := l.db.RegisteredGuilds()
			if err != nil {
				log.Error("failed to list registered guilds", "err", err)
				continue
			}

			for _, guild := range guilds {
				if err := l.refreshGuild(ctx, guild.ID); err != nil {
					log.Error("failed to refresh guild", "guild_id", guild.ID, "err", err)
				}
			}
		}
	}
}

func (l *Looper) refreshGuild(ctx context.Context, guildID string) error {
	session := l.bot.Session()

	emojis, err := session.GuildEmojis(guildID)
	if err != nil {
		return err
	}

	snapshot := make([]db.Emoji, 0, len(emojis))
	for _, emoji := range emojis {
		snapshot = append(snapshot, db.Emoji{
			GuildID:  guildID,
			ID:       emoji.ID,
			Name:     emoji.Name,
			Animated: emoji.Animated,
		})
	}
	if err := l.db.SetEmojiSnapshot(guildID, snapshot); err != nil {
		return err
	}

	// sticker sets ride along with the cached guild, no dedicated fetch
	if guild, err := session.State.Guild(guildID); err == nil {
		stickers := make([]db.Sticker, 0, len(guild.Stickers))
		for _, sticker := range guild.Stickers {
			stickers = append(stickers, db.Sticker{
				GuildID:     guildID,
				ID:          sticker.ID,
				Name:        sticker.Name,
				Description: sticker.Description,
			})
		}
		if err := l.db.SetStickerSnapshot(guildID, stickers); err != nil {
			return err
		}
	}

	return l.bot.Lists.Generate(ctx, guildID)
}
