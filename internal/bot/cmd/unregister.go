package cmd

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"guildwatch/internal/db"
)

func NewUnregister(database db.DB) Handler {
	return &Unregister{database}
}

type Unregister struct {
	db db.DB
}

func (cmd *Unregister) Name() string {
	return "unregister"
}

func (cmd *Unregister) Description() string {
	return "Remove this server from guildwatch monitoring."
}

func (cmd *Unregister) Permissions() int64 {
	return discordgo.PermissionAdministrator
}

func (cmd *Unregister) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	if err := deferReply(s, i); err != nil {
		return err
	}

	if i.GuildID == "" {
		return editEmbed(s, i, failureEmbed("❌ Unregistration failed", "This command can only be used inside a server."))
	}

	registered, err := cmd.db.IsRegistered(i.GuildID)
	if err != nil {
		return err
	}
	if !registered {
		return editEmbed(s, i, failureEmbed("❌ Unregistration failed", "This server is not registered."))
	}

	if err := cmd.db.UnregisterGuild(i.GuildID); err != nil {
		return err
	}

	slog.Info("unregistered guild", "guild_id", i.GuildID)

	return editEmbed(s, i, successEmbed("✅ Unregistered",
		"This server is no longer monitored. Channel settings and snapshots were removed."))
}
