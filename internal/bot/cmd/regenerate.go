package cmd

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"guildwatch/internal/db"
	"guildwatch/internal/listgen"
)

func NewRegenerate(database db.DB, lists *listgen.Generator) Handler {
	return &Regenerate{database, lists}
}

type Regenerate struct {
	db    db.DB
	lists *listgen.Generator
}

func (cmd *Regenerate) Name() string {
	return "regenerate"
}

func (cmd *Regenerate) Description() string {
	return "Rebuild the emoji list in the configured channel."
}

func (cmd *Regenerate) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	if err := deferReply(s, i); err != nil {
		return err
	}

	if i.GuildID == "" {
		return editEmbed(s, i, failureEmbed("❌ Regeneration failed", "This command can only be used inside a server."))
	}

	registered, err := cmd.db.IsRegistered(i.GuildID)
	if err != nil {
		return err
	}
	if !registered {
		return editEmbed(s, i, failureEmbed("❌ Regeneration failed",
			"This server is not registered. Run `/register` first."))
	}

	channelID, err := cmd.db.GetChannel(i.GuildID, db.ChannelEmojiList)
	if err != nil {
		return err
	}
	if channelID == "" {
		return editEmbed(s, i, failureEmbed("❌ Regeneration failed",
			"No emoji list channel is configured. Set one with `/set-channel list-emoji`."))
	}

	slog.Info("regenerating emoji list", "guild_id", i.GuildID, "channel_id", channelID)

	if err := cmd.lists.Generate(context.Background(), i.GuildID); err != nil {
		slog.Error("regeneration failed", "guild_id", i.GuildID, "err", err)
		return editEmbed(s, i, failureEmbed("❌ Regeneration failed",
			"Some list messages could not be published. Check the bot's channel permissions and try again."))
	}

	return editEmbed(s, i, successEmbed("✅ Regenerated",
		"The emoji list was rebuilt in <#"+channelID+">."))
}
