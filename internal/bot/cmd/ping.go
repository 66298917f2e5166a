package cmd

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

func NewPing() Handler {
	return &ping{}
}

type ping struct{}

func (cmd *ping) Name() string {
	return "ping"
}

func (cmd *ping) Description() string {
	return "Ping the bot"
}

func (cmd *ping) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("🏓 pong! (heartbeat: %s)", s.HeartbeatLatency().Round(time.Millisecond)),
		},
	})
}
