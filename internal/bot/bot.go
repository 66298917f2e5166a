package bot

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/bwmarrin/discordgo"

	"guildwatch/internal/bot/cmd"
	"guildwatch/internal/db"
	"guildwatch/internal/listgen"
)

type Bot struct {
	DB    db.DB
	Lists *listgen.Generator

	session  *discordgo.Session
	handlers map[string]cmd.Handler

	register func(guild string) error
	synced   sync.Map // guild id -> struct{}
}

func New(token string, database db.DB) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.UserAgent = "guildwatch (https://github.com/guildwatch/guildwatch)"
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildEmojis |
		discordgo.IntentGuildMessages

	b := &Bot{
		DB:      database,
		Lists:   listgen.New(session, database),
		session: session,
	}

	b.handlers = buildHandlers(
		cmd.NewPing(),
		cmd.NewRegister(database),
		cmd.NewUnregister(database),
		cmd.NewSetChannel(database),
		cmd.NewRemoveChannel(database),
		cmd.NewRegenerate(database, b.Lists),
		cmd.NewPermissions(database),
	)
	b.register = b.Register

	return b, nil
}

// syncCommands registers the slash commands for a guild the first time it is
// seen this session. GuildCreate fires for every guild on every connect, so
// the guard keeps reconnects from rewriting commands over and over.
func (b *Bot) syncCommands(guildID string, log *slog.Logger) {
	if _, seen := b.synced.LoadOrStore(guildID, struct{}{}); seen {
		return
	}
	if err := b.register(guildID); err != nil {
		log.Error("failed to register commands", "err", err)
		b.synced.Delete(guildID)
	}
}

func (b *Bot) Start() error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("ready to go", "bot_user", r.User.String(), "guilds", len(r.Guilds))
	})
	b.session.AddHandler(b.onGuildCreate)
	b.session.AddHandler(b.onGuildEmojisUpdate)
	b.session.AddHandler(b.onGuildStickersUpdate)
	b.session.AddHandler(b.onInteractionCreate)

	return b.session.Open()
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// Session exposes the underlying gateway session for collaborators that need
// message or guild access beyond the command surface.
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	log := LogWith(i, "interaction_type", i.Type.String())

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic", "err", r, "stack", string(debug.Stack()))
		}
	}()

	if i.Type != discordgo.InteractionApplicationCommand {
		log.Warn("unknown interaction type")
		return
	}

	handler, ok := b.handlers[i.ApplicationCommandData().Name]
	if !ok {
		log.Warn("no handler found")
		return
	}

	log.Info("invoking command")
	if err := handler.Handle(s, i); err != nil {
		log.Error("failed", "err", err)
	}
}

func (b *Bot) Unregister(guild string) error {
	if guild == "" {
		return nil
	}

	if guild == "global" {
		guild = ""
	}

	appID := b.session.State.User.ID
	existing, err := b.session.ApplicationCommands(appID, guild)
	if err != nil {
		return err
	}

	for _, c := range existing {
		log := slog.With("cmd", c.Name, "guild_id", guild)
		if err := b.session.ApplicationCommandDelete(appID, guild, c.ID); err != nil {
			log.Error("failed to unregister")
			return err
		}
		log.Info("unregistered")
	}

	return nil
}

func (b *Bot) Register(guild string) error {
	if guild == "" {
		return nil
	}

	if guild == "global" {
		guild = ""
	}

	appID := b.session.State.User.ID
	for _, h := range b.handlers {
		log := slog.With("cmd", h.Name(), "guild_id", guild)
		_, err := b.session.ApplicationCommandCreate(
			appID,
			guild,
			cmd.ToApplicationCommand(h),
		)
		if err != nil {
			log.Error("failed to register")
			return err
		}
		log.Info("registered")
	}

	return nil
}

func buildHandlers(handlers ...cmd.Handler) map[string]cmd.Handler {
	m := make(map[string]cmd.Handler, len(handlers))
	for _, h := range handlers {
		m[h.Name()] = h
	}
	return m
}
