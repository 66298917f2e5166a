package cmd

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

type Handler interface {
	Name() string
	Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error
}

func ToApplicationCommand(h Handler) *discordgo.ApplicationCommand {
	command := &discordgo.ApplicationCommand{
		Name: h.Name(),
		Type: discordgo.ChatApplicationCommand,
	}

	if h, ok := h.(interface {
		Description() string
	}); ok {
		command.Description = h.Description()
	}

	if h, ok := h.(interface {
		Options() []*discordgo.ApplicationCommandOption
	}); ok {
		command.Options = h.Options()
	}

	if h, ok := h.(interface {
		Permissions() int64
	}); ok {
		perms := h.Permissions()
		command.DefaultMemberPermissions = &perms
	}

	return command
}

func UserID(i *discordgo.InteractionCreate) string {
	if i == nil {
		return ""
	}
	if i.User != nil {
		return i.User.ID
	} else if i.Member != nil {
		return i.Member.User.ID
	}
	return ""
}

// options indexes the interaction's command options by name.
func options(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// deferReply acknowledges the interaction so the handler has time to do real
// work before editing in the final response.
func deferReply(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func editEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	return err
}

func successEmbed(title, description string) *discordgo.MessageEmbed {
	return statusEmbed(title, description, 0x00ff00)
}

func failureEmbed(title, description string) *discordgo.MessageEmbed {
	return statusEmbed(title, description, 0xff0000)
}

func statusEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}
