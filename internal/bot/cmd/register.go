package cmd

import (
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"guildwatch/internal/db"
)

func NewRegister(database db.DB) Handler {
	return &Register{database}
}

type Register struct {
	db db.DB
}

func (cmd *Register) Name() string {
	return "register"
}

func (cmd *Register) Description() string {
	return "Put this server under guildwatch monitoring."
}

func (cmd *Register) Permissions() int64 {
	return discordgo.PermissionAdministrator
}

func (cmd *Register) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	if err := deferReply(s, i); err != nil {
		return err
	}

	if i.GuildID == "" {
		return editEmbed(s, i, failureEmbed("❌ Registration failed", "This command can only be used inside a server."))
	}

	perms, err := s.UserChannelPermissions(s.State.User.ID, i.ChannelID)
	if err != nil {
		return err
	}
	if perms&discordgo.PermissionViewAuditLogs == 0 {
		return editEmbed(s, i, failureEmbed("❌ Registration failed",
			"guildwatch needs the **View Audit Log** permission to attribute emoji and sticker changes."))
	}

	guild := &db.Guild{ID: i.GuildID, Name: guildName(s, i.GuildID)}
	if err := cmd.db.RegisterGuild(guild); err != nil {
		if errors.Is(err, db.ErrAlreadyRegistered) {
			return editEmbed(s, i, failureEmbed("❌ Registration failed", "This server is already registered."))
		}
		return err
	}

	slog.Info("registered guild", "guild_id", guild.ID, "guild", guild.Name)

	embed := successEmbed("✅ Registered", "This server is now monitored by guildwatch.")
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: "Configure notification channels with /set-channel to start receiving updates.",
	}
	return editEmbed(s, i, embed)
}

func guildName(s *discordgo.Session, guildID string) string {
	if guild, err := s.State.Guild(guildID); err == nil {
		return guild.Name
	}
	if guild, err := s.Guild(guildID); err == nil {
		return guild.Name
	}
	return ""
}
