package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"guildwatch/internal/db"
)

func NewRemoveChannel(database db.DB) Handler {
	return &RemoveChannel{database}
}

type RemoveChannel struct {
	db db.DB
}

func (cmd *RemoveChannel) Name() string {
	return "remove-channel"
}

func (cmd *RemoveChannel) Description() string {
	return "Clear the destination channel for a notification type."
}

func (cmd *RemoveChannel) Permissions() int64 {
	return discordgo.PermissionManageServer
}

func (cmd *RemoveChannel) Options() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "type",
			Description: "Which channel configuration to clear",
			Required:    true,
			Choices:     channelTypeChoices(),
		},
	}
}

func (cmd *RemoveChannel) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	if err := deferReply(s, i); err != nil {
		return err
	}

	if i.GuildID == "" {
		return editEmbed(s, i, failureEmbed("❌ Configuration failed", "This command can only be used inside a server."))
	}

	registered, err := cmd.db.IsRegistered(i.GuildID)
	if err != nil {
		return err
	}
	if !registered {
		return editEmbed(s, i, failureEmbed("❌ Configuration failed",
			"This server is not registered. Run `/register` first."))
	}

	kind, err := db.ParseChannelType(options(i)["type"].StringValue())
	if err != nil {
		return editEmbed(s, i, failureEmbed("❌ Configuration failed", "Unknown channel type."))
	}

	if err := cmd.db.RemoveChannel(i.GuildID, kind); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return editEmbed(s, i, failureEmbed("❌ Configuration failed",
				fmt.Sprintf("No %s channel is configured.", kind)))
		}
		return err
	}

	slog.Info("channel configuration removed", "guild_id", i.GuildID, "type", kind)

	return editEmbed(s, i, successEmbed("✅ Channel removed",
		fmt.Sprintf("The %s channel configuration was cleared.", kind)))
}
