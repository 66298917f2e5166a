package cmd

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"guildwatch/internal/db"
)

func NewSetChannel(database db.DB) Handler {
	return &SetChannel{database}
}

type SetChannel struct {
	db db.DB
}

func (cmd *SetChannel) Name() string {
	return "set-channel"
}

func (cmd *SetChannel) Description() string {
	return "Set the destination channel for a notification type."
}

func (cmd *SetChannel) Permissions() int64 {
	return discordgo.PermissionManageServer
}

func (cmd *SetChannel) Options() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "type",
			Description: "What the channel will be used for",
			Required:    true,
			Choices:     channelTypeChoices(),
		},
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "Destination channel",
			Required:    true,
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
				discordgo.ChannelTypeGuildNews,
			},
		},
	}
}

func (cmd *SetChannel) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
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

	opts := options(i)
	kind, err := db.ParseChannelType(opts["type"].StringValue())
	if err != nil {
		return editEmbed(s, i, failureEmbed("❌ Configuration failed", "Unknown channel type."))
	}

	target := opts["channel"].ChannelValue(s)
	channel, err := s.Channel(target.ID)
	if err != nil {
		return editEmbed(s, i, failureEmbed("❌ Configuration failed", "The selected channel could not be resolved."))
	}
	if channel.GuildID != i.GuildID {
		return editEmbed(s, i, failureEmbed("❌ Configuration failed", "The selected channel does not belong to this server."))
	}

	if missing := missingChannelPermissions(s, channel.ID); missing != "" {
		return editEmbed(s, i, failureEmbed("❌ Configuration failed",
			fmt.Sprintf("guildwatch is missing the **%s** permission in <#%s>.", missing, channel.ID)))
	}

	if err := cmd.db.SetChannel(i.GuildID, kind, channel.ID); err != nil {
		return err
	}

	slog.Info("channel configured", "guild_id", i.GuildID, "type", kind, "channel_id", channel.ID)

	return editEmbed(s, i, successEmbed("✅ Channel configured",
		fmt.Sprintf("<#%s> is now the %s channel.", channel.ID, kind)))
}

func channelTypeChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(db.ChannelTypes))
	for _, kind := range db.ChannelTypes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(kind),
			Value: string(kind),
		})
	}
	return choices
}
