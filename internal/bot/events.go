package bot

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"guildwatch/internal/db"
	"guildwatch/internal/notify"
)

// The gateway delivers emoji and sticker changes as whole-set updates, so the
// handlers below diff the payload against the persisted snapshot to recover
// individual create/update/delete notifications, refresh the snapshot, and
// kick off list regeneration.

func (b *Bot) onGuildEmojisUpdate(s *discordgo.Session, e *discordgo.GuildEmojisUpdate) {
	log := LogWith(e)

	current := make([]db.Emoji, 0, len(e.Emojis))
	for _, emoji := range e.Emojis {
		current = append(current, db.Emoji{
			GuildID:  e.GuildID,
			ID:       emoji.ID,
			Name:     emoji.Name,
			Animated: emoji.Animated,
		})
	}

	previous, err := b.DB.GetEmojiSnapshot(e.GuildID)
	if err != nil {
		log.Error("failed to load emoji snapshot", "err", err)
		return
	}

	changes := notify.DiffEmojis(previous, current)

	if err := b.DB.SetEmojiSnapshot(e.GuildID, current); err != nil {
		log.Error("failed to refresh emoji snapshot", "err", err)
	}

	if changes.Empty() {
		return
	}
	log.Info("emoji set changed",
		"created", len(changes.Created), "updated", len(changes.Updated), "deleted", len(changes.Deleted))

	b.notifyEmojiChanges(s, e.GuildID, changes, log)

	go func() {
		if err := b.Lists.Generate(context.Background(), e.GuildID); err != nil {
			log.Error("failed to regenerate emoji list", "err", err)
		}
	}()
}

func (b *Bot) notifyEmojiChanges(s *discordgo.Session, guildID string, changes notify.EmojiChanges, log *slog.Logger) {
	channelID, err := b.notifyChannel(guildID, db.ChannelEmojiNotify)
	if err != nil {
		log.Error("failed to resolve notifier channel", "err", err)
		return
	}
	if channelID == "" {
		return
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(changes.Created)+len(changes.Updated)+len(changes.Deleted))

	for _, emoji := range changes.Created {
		duplicates, err := b.duplicateEmojis(emoji)
		if err != nil {
			log.Error("failed to check duplicate emoji names", "err", err)
		}
		uploader := b.executor(s, guildID, emoji.ID, discordgo.AuditLogActionEmojiCreate)
		embeds = append(embeds, notify.EmojiCreated(emoji, uploader, duplicates))
	}
	for _, update := range changes.Updated {
		updatedBy := b.executor(s, guildID, update.New.ID, discordgo.AuditLogActionEmojiUpdate)
		embeds = append(embeds, notify.EmojiUpdated(update, updatedBy))
	}
	for _, emoji := range changes.Deleted {
		deletedBy := b.executor(s, guildID, emoji.ID, discordgo.AuditLogActionEmojiDelete)
		embeds = append(embeds, notify.EmojiDeleted(emoji, deletedBy))
	}

	for _, embed := range embeds {
		if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
			log.Error("failed to send emoji notification", "err", err)
		}
	}
}

func (b *Bot) onGuildStickersUpdate(s *discordgo.Session, e *discordgo.GuildStickersUpdate) {
	log := LogWith(e)

	current := make([]db.Sticker, 0, len(e.Stickers))
	for _, sticker := range e.Stickers {
		current = append(current, db.Sticker{
			GuildID:     e.GuildID,
			ID:          sticker.ID,
			Name:        sticker.Name,
			Description: sticker.Description,
		})
	}

	previous, err := b.DB.GetStickerSnapshot(e.GuildID)
	if err != nil {
		log.Error("failed to load sticker snapshot", "err", err)
		return
	}

	changes := notify.DiffStickers(previous, current)

	if err := b.DB.SetStickerSnapshot(e.GuildID, current); err != nil {
		log.Error("failed to refresh sticker snapshot", "err", err)
	}

	if changes.Empty() {
		return
	}
	log.Info("sticker set changed",
		"created", len(changes.Created), "updated", len(changes.Updated), "deleted", len(changes.Deleted))

	channelID, err := b.notifyChannel(e.GuildID, db.ChannelStickerNotify)
	if err != nil {
		log.Error("failed to resolve notifier channel", "err", err)
		return
	}
	if channelID == "" {
		return
	}

	used := len(e.Stickers)
	max := 0
	if guild, err := s.State.Guild(e.GuildID); err == nil {
		max = notify.MaxStickers(guild.PremiumTier)
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(changes.Created)+len(changes.Updated)+len(changes.Deleted))
	for _, sticker := range changes.Created {
		uploader := b.executor(s, e.GuildID, sticker.ID, discordgo.AuditLogActionStickerCreate)
		embeds = append(embeds, notify.StickerCreated(sticker, uploader, used, max))
	}
	for _, update := range changes.Updated {
		updatedBy := b.executor(s, e.GuildID, update.New.ID, discordgo.AuditLogActionStickerUpdate)
		embeds = append(embeds, notify.StickerUpdated(update, updatedBy))
	}
	for _, sticker := range changes.Deleted {
		deletedBy := b.executor(s, e.GuildID, sticker.ID, discordgo.AuditLogActionStickerDelete)
		embeds = append(embeds, notify.StickerDeleted(sticker, deletedBy))
	}

	for _, embed := range embeds {
		if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
			log.Error("failed to send sticker notification", "err", err)
		}
	}
}

// onGuildCreate registers the slash commands for the guild and seeds the
// emoji and sticker snapshots the first time a guild is seen, so the next
// whole-set update diffs against reality instead of an empty snapshot.
func (b *Bot) onGuildCreate(s *discordgo.Session, e *discordgo.GuildCreate) {
	log := LogWith(e)
	log.Info("guild available")

	b.syncCommands(e.ID, log)

	snapshot, err := b.DB.GetEmojiSnapshot(e.ID)
	if err != nil {
		log.Error("failed to load emoji snapshot", "err", err)
		return
	}
	if len(snapshot) == 0 && len(e.Emojis) > 0 {
		emojis := make([]db.Emoji, 0, len(e.Emojis))
		for _, emoji := range e.Emojis {
			emojis = append(emojis, db.Emoji{GuildID: e.ID, ID: emoji.ID, Name: emoji.Name, Animated: emoji.Animated})
		}
		if err := b.DB.SetEmojiSnapshot(e.ID, emojis); err != nil {
			log.Error("failed to seed emoji snapshot", "err", err)
		}
	}

	stickers, err := b.DB.GetStickerSnapshot(e.ID)
	if err != nil {
		log.Error("failed to load sticker snapshot", "err", err)
		return
	}
	if len(stickers) == 0 && len(e.Stickers) > 0 {
		seed := make([]db.Sticker, 0, len(e.Stickers))
		for _, sticker := range e.Stickers {
			seed = append(seed, db.Sticker{GuildID: e.ID, ID: sticker.ID, Name: sticker.Name, Description: sticker.Description})
		}
		if err := b.DB.SetStickerSnapshot(e.ID, seed); err != nil {
			log.Error("failed to seed sticker snapshot", "err", err)
		}
	}
}

// notifyChannel returns the configured notifier channel for the guild, or ""
// when the guild is unregistered or the channel type is unset.
func (b *Bot) notifyChannel(guildID string, kind db.ChannelType) (string, error) {
	registered, err := b.DB.IsRegistered(guildID)
	if err != nil || !registered {
		return "", err
	}
	return b.DB.GetChannel(guildID, kind)
}

// duplicateEmojis looks up same-named emojis known from other guilds.
func (b *Bot) duplicateEmojis(emoji db.Emoji) ([]db.Emoji, error) {
	matches, err := b.DB.FindEmojisByName(emoji.Name)
	if err != nil {
		return nil, err
	}

	duplicates := matches[:0]
	for _, match := range matches {
		if match.GuildID != emoji.GuildID {
			duplicates = append(duplicates, match)
		}
	}
	return duplicates, nil
}

// executor resolves who performed an emoji/sticker change from the guild's
// audit log. Best effort: missing permission or no matching entry yields nil.
func (b *Bot) executor(s *discordgo.Session, guildID, targetID string, action discordgo.AuditLogAction) *discordgo.User {
	auditLog, err := s.GuildAuditLog(guildID, "", "", int(action), 5)
	if err != nil {
		return nil
	}

	var userID string
	for _, entry := range auditLog.AuditLogEntries {
		if entry.TargetID == targetID {
			userID = entry.UserID
		}
	}
	if userID == "" {
		return nil
	}

	for _, user := range auditLog.Users {
		if user.ID == userID {
			return user
		}
	}

	user, err := s.User(userID)
	if err != nil {
		return nil
	}
	return user
}
