package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/lmittmann/tint"

	"guildwatch/internal/bot"
	"guildwatch/internal/db"
	"guildwatch/internal/looper"
)

type Config struct {
	DiscordToken string `envconfig:"DISCORD_TOKEN" required:"true"`
	Database     string `envconfig:"DATABASE" default:"guildwatch.db"`
}

func init() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}),
	))
}

func main() {
	if err := run(); err != nil {
		slog.Error("guildwatch failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return err
	}

	dbFile := flag.String("db", "", "path to the database file (overrides DATABASE)")
	register := flag.String("register", "", "guild to register commands (or 'global')")
	unregister := flag.String("unregister", "", "guild to unregister commands (or 'global')")
	flag.Parse()

	if *dbFile != "" {
		cfg.Database = *dbFile
	}

	database, err := db.NewSQLite(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}

	b, err := bot.New(cfg.DiscordToken, database)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.Start(); err != nil {
		return err
	}

	exitEarly := false

	if *register != "" {
		if err := b.Register(*register); err != nil {
			return err
		}
		exitEarly = true
	}

	if *unregister != "" {
		if err := b.Unregister(*unregister); err != nil {
			return err
		}
		exitEarly = true
	}

	if exitEarly {
		return nil
	}

	slog.Info("guildwatch is initialized")

	l := looper.New(database, b)
	go l.Refresh(ctx)

	wait()
	return nil
}

func wait() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	sig := <-done
	slog.Warn("received signal, shutting down", "signal", sig.String())
}
