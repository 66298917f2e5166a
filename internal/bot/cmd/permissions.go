package cmd

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"guildwatch/internal/db"
)

// The requirement tables are ordered maps so the report always lists
// permissions in the same order.

func guildPermissions() *orderedmap.OrderedMap[int64, string] {
	m := orderedmap.New[int64, string]()
	m.Set(discordgo.PermissionViewAuditLogs, "View Audit Log")
	m.Set(discordgo.PermissionManageEmojis, "Manage Emojis and Stickers")
	return m
}

func channelPermissions() *orderedmap.OrderedMap[int64, string] {
	m := orderedmap.New[int64, string]()
	m.Set(discordgo.PermissionViewChannel, "View Channel")
	m.Set(discordgo.PermissionSendMessages, "Send Messages")
	m.Set(discordgo.PermissionEmbedLinks, "Embed Links")
	m.Set(discordgo.PermissionReadMessageHistory, "Read Message History")
	return m
}

// missingChannelPermissions returns the label of the first channel permission
// the bot lacks, or "" when everything needed is granted.
func missingChannelPermissions(s *discordgo.Session, channelID string) string {
	perms, err := s.UserChannelPermissions(s.State.User.ID, channelID)
	if err != nil {
		return "View Channel"
	}

	for pair := channelPermissions().Oldest(); pair != nil; pair = pair.Next() {
		if perms&pair.Key == 0 {
			return pair.Value
		}
	}
	return ""
}

func NewPermissions(database db.DB) Handler {
	return &Permissions{database}
}

type Permissions struct {
	db db.DB
}

func (cmd *Permissions) Name() string {
	return "permissions"
}

func (cmd *Permissions) Description() string {
	return "Check whether guildwatch has the permissions it needs."
}

func (cmd *Permissions) Permissions() int64 {
	return discordgo.PermissionManageServer
}

func (cmd *Permissions) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	if err := deferReply(s, i); err != nil {
		return err
	}

	if i.GuildID == "" {
		return editEmbed(s, i, failureEmbed("❌ Check failed", "This command can only be used inside a server."))
	}

	allGranted := true
	var fields []*discordgo.MessageEmbedField

	botPerms, err := s.UserChannelPermissions(s.State.User.ID, i.ChannelID)
	if err != nil {
		return err
	}

	var report strings.Builder
	for pair := guildPermissions().Oldest(); pair != nil; pair = pair.Next() {
		granted := botPerms&pair.Key != 0
		allGranted = allGranted && granted
		fmt.Fprintf(&report, "%s **%s**\n", checkmark(granted), pair.Value)
	}
	fields = append(fields, &discordgo.MessageEmbedField{
		Name:  "Server permissions",
		Value: report.String(),
	})

	registered, err := cmd.db.IsRegistered(i.GuildID)
	if err != nil {
		return err
	}
	if registered {
		channels, err := cmd.db.GetChannels(i.GuildID)
		if err != nil {
			return err
		}

		for _, kind := range db.ChannelTypes {
			channelID, ok := channels[kind]
			if !ok {
				continue
			}

			perms, err := s.UserChannelPermissions(s.State.User.ID, channelID)
			if err != nil {
				allGranted = false
				fields = append(fields, &discordgo.MessageEmbedField{
					Name:   fmt.Sprintf("%s channel: <#%s>", kind, channelID),
					Value:  "❌ channel could not be resolved",
					Inline: true,
				})
				continue
			}

			var channelReport strings.Builder
			for pair := channelPermissions().Oldest(); pair != nil; pair = pair.Next() {
				granted := perms&pair.Key != 0
				allGranted = allGranted && granted
				fmt.Fprintf(&channelReport, "%s **%s**\n", checkmark(granted), pair.Value)
			}
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   fmt.Sprintf("%s channel: <#%s>", kind, channelID),
				Value:  channelReport.String(),
				Inline: true,
			})
		}
	}

	var embed *discordgo.MessageEmbed
	if allGranted {
		embed = successEmbed("✅ Permission check", "guildwatch has every permission it needs.")
	} else {
		embed = failureEmbed("❌ Permission check", "guildwatch is missing permissions it needs to operate.")
	}
	embed.Fields = fields

	return editEmbed(s, i, embed)
}

func checkmark(granted bool) string {
	if granted {
		return "✅"
	}
	return "❌"
}
