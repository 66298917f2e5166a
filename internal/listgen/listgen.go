package listgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"

	"guildwatch/internal/db"
)

// Client is the subset of the Discord session the generator needs. It is
// satisfied by *discordgo.Session.
type Client interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEdit(channelID, messageID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	GuildEmojis(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Emoji, error)
}

// Generator maintains a channel's worth of messages that together list every
// emoji in a guild. Successive runs converge: unchanged emoji sets re-edit
// identical content, shrunken sets delete surplus messages, and externally
// deleted messages trigger a full republish.
type Generator struct {
	client Client
	db     db.DB

	locks sync.Map // guild id -> *sync.Mutex
}

func New(client Client, database db.DB) *Generator {
	return &Generator{client: client, db: database}
}

// Generate recomputes the emoji list for the guild and reconciles the
// configured channel against it. It is a no-op for unregistered guilds and
// guilds without a list channel. Concurrent calls for the same guild are
// serialized; the persisted message-id sequence has no other writer.
func (g *Generator) Generate(ctx context.Context, guildID string) error {
	unlock := g.lock(guildID)
	defer unlock()

	log := slog.With("component", "listgen", "guild_id", guildID)

	registered, err := g.db.IsRegistered(guildID)
	if err != nil {
		return err
	}
	if !registered {
		return nil
	}

	channelID, err := g.db.GetChannel(guildID, db.ChannelEmojiList)
	if err != nil {
		return err
	}
	if channelID == "" {
		return nil
	}

	channel, err := g.client.Channel(channelID)
	if err != nil {
		log.Warn("list channel not found", "channel_id", channelID, "err", err)
		return nil
	}
	if !postable(channel) {
		log.Warn("list channel is not a guild text channel", "channel_id", channelID, "type", channel.Type)
		return nil
	}

	messageIDs, err := g.db.GetListMessages(guildID)
	if err != nil {
		return err
	}

	messages := g.fetchMessages(ctx, channelID, messageIDs)

	if refreshed, err := g.refreshIfDrifted(ctx, guildID, channelID, messages); err != nil {
		return err
	} else if refreshed {
		log.Info("tracked message missing, republishing from scratch")
		messages = nil
	}

	emojis, err := g.client.GuildEmojis(guildID)
	if err != nil {
		return fmt.Errorf("fetching emojis: %w", err)
	}

	pages := Paginate(Lines(emojis), MessageLimit)
	log.Info("rendered emoji list", "emojis", len(emojis), "pages", len(pages))

	newIDs, reconcileErr := g.reconcile(ctx, channelID, messages, pages)

	if err := g.db.SetListMessages(guildID, newIDs); err != nil {
		return err
	}

	g.prune(ctx, channelID, messages, newIDs)

	return reconcileErr
}

// fetchMessages resolves tracked ids to live messages concurrently. A fetch
// failure (deleted externally, permission race) yields a nil entry.
func (g *Generator) fetchMessages(ctx context.Context, channelID string, messageIDs []string) []*discordgo.Message {
	messages := make([]*discordgo.Message, len(messageIDs))

	eg, _ := errgroup.WithContext(ctx)
	for i, messageID := range messageIDs {
		eg.Go(func() error {
			message, err := g.client.ChannelMessage(channelID, messageID)
			if err == nil {
				messages[i] = message
			}
			return nil
		})
	}
	_ = eg.Wait()

	return messages
}

// refreshIfDrifted checks whether any tracked message vanished. If so, the
// whole previous page set is void: every survivor is deleted best-effort and
// the persisted id list is cleared.
func (g *Generator) refreshIfDrifted(ctx context.Context, guildID, channelID string, messages []*discordgo.Message) (bool, error) {
	drifted := false
	for _, message := range messages {
		if message == nil {
			drifted = true
			break
		}
	}
	if !drifted {
		return false, nil
	}

	eg, _ := errgroup.WithContext(ctx)
	for _, message := range messages {
		if message == nil {
			continue
		}
		eg.Go(func() error {
			// best effort, a failed delete leaves an orphan until the next run
			_ = g.client.ChannelMessageDelete(channelID, message.ID)
			return nil
		})
	}
	_ = eg.Wait()

	if err := g.db.DeleteListMessages(guildID); err != nil {
		return false, err
	}

	return true, nil
}

// reconcile edits surviving messages in place, page for page, and sends new
// messages for pages beyond the surviving set. Failures are isolated per
// page: the returned ids cover only pages that succeeded, in page order, and
// the error aggregates everything that failed.
func (g *Generator) reconcile(ctx context.Context, channelID string, messages []*discordgo.Message, pages []string) ([]string, error) {
	ids := make([]string, len(pages))
	errs := make([]error, len(pages))

	eg, _ := errgroup.WithContext(ctx)
	for i, page := range pages {
		eg.Go(func() error {
			var (
				message *discordgo.Message
				err     error
			)
			if i < len(messages) && messages[i] != nil {
				message, err = g.client.ChannelMessageEdit(channelID, messages[i].ID, page)
			} else {
				message, err = g.client.ChannelMessageSend(channelID, page)
			}
			if err != nil {
				errs[i] = fmt.Errorf("page %d: %w", i, err)
				return nil
			}
			ids[i] = message.ID
			return nil
		})
	}
	_ = eg.Wait()

	succeeded := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			succeeded = append(succeeded, id)
		}
	}

	// errors.Join drops nil entries and returns nil when every page succeeded
	return succeeded, errors.Join(errs...)
}

// prune deletes surviving messages that no longer back any page, e.g. after
// the emoji set shrank. Failures are swallowed.
func (g *Generator) prune(ctx context.Context, channelID string, messages []*discordgo.Message, keep []string) {
	kept := make(map[string]bool, len(keep))
	for _, id := range keep {
		kept[id] = true
	}

	eg, _ := errgroup.WithContext(ctx)
	for _, message := range messages {
		if message == nil || kept[message.ID] {
			continue
		}
		eg.Go(func() error {
			_ = g.client.ChannelMessageDelete(channelID, message.ID)
			return nil
		})
	}
	_ = eg.Wait()
}

func (g *Generator) lock(guildID string) func() {
	v, _ := g.locks.LoadOrStore(guildID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func postable(channel *discordgo.Channel) bool {
	switch channel.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return true
	default:
		return false
	}
}
