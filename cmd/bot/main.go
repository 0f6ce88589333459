package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-pkgz/lgr"

	"github.com/agalitsyn/dailyflow/internal/app"
	"github.com/agalitsyn/dailyflow/internal/config"
	"github.com/agalitsyn/dailyflow/internal/storage/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := ParseFlags()
	setupLogger(cfg.Debug)

	if cfg.Debug {
		log.Printf("DEBUG running with config")
		fmt.Fprintln(os.Stdout, cfg.String())
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("ERROR %s", err)
	}
}

func run(ctx context.Context, cfg Config) error {
	defaults, err := config.Load(cfg.SettingsPath)
	if err != nil {
		return fmt.Errorf("could not load settings: %w", err)
	}
	loc, err := defaults.Location()
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	defer db.Close()

	storage := app.Storage{
		Tasks:      sqlite.NewTaskStorage(db),
		Users:      sqlite.NewUserStorage(db),
		Settings:   sqlite.NewSettingsStorage(db),
		Categories: sqlite.NewCategoryStorage(db),
	}

	bot, err := app.NewBot(app.BotConfig{
		UpdateTimeout:     cfg.UpdateTimeout,
		MessagesPerSecond: cfg.MessagesPerSecond,
		ViewCacheSize:     cfg.ViewCacheSize,
		Location:          loc,
		DefaultSettings:   defaults.Priority,
	}, cfg.Token.Unmask(), BotDebugLogger{}, storage)
	if err != nil {
		return fmt.Errorf("could not init bot: %w", err)
	}
	bot.SetDebug(cfg.Debug)
	log.Printf("INFO authorized as %s, timezone %s", bot.Username(), loc)

	bot.Start(ctx)
	return nil
}

func setupLogger(debug bool) {
	opts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if debug {
		opts = append(opts, lgr.Debug, lgr.CallerFile, lgr.CallerFunc)
	}
	lgr.Setup(opts...)
	lgr.SetupStdLogger(opts...)
}

type BotDebugLogger struct{}

func (l BotDebugLogger) Printf(msg string, args ...interface{}) {
	log.Printf("DEBUG "+msg, args...)
}

func (l BotDebugLogger) Println(v ...interface{}) {
	log.Printf("DEBUG %s", fmt.Sprint(v...))
}
