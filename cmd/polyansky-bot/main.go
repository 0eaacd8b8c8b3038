// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/vpolyany/polyansky-bot/internal/api"
	"github.com/vpolyany/polyansky-bot/internal/bot"
	"github.com/vpolyany/polyansky-bot/internal/config"
	"github.com/vpolyany/polyansky-bot/internal/health"
	"github.com/vpolyany/polyansky-bot/internal/log"
	"github.com/vpolyany/polyansky-bot/internal/ratelimit"
	"github.com/vpolyany/polyansky-bot/internal/storage/sqlite"
	"github.com/vpolyany/polyansky-bot/internal/transit"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe defaults until the config is loaded.
	log.Configure(log.Config{
		Level:   "info",
		Service: "polyansky-bot",
		Version: version,
	})
	logger := log.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}
	log.SetLevel(cfg.LogLevel)

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("db_path", cfg.DBPath).
		Str("ops_listen", cfg.OpsListen).
		Bool("webhook", cfg.WebhookURL != "").
		Int("admin_ids", len(cfg.AdminIDs)).
		Msg("starting polyansky-bot")

	if err := health.PerformStartupChecks(cfg.DBPath); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "startup.check_failed").
			Msg("startup checks failed, verify data directory permissions")
	}

	db, err := sqlite.Open(cfg.DBPath, sqlite.DefaultConfig())
	if err != nil {
		logger.Fatal().Err(err).Str("event", "db.open_failed").Msg("cannot open database")
	}
	defer db.Close()

	if err := sqlite.EnsureSchema(ctx, db); err != nil {
		logger.Fatal().Err(err).Str("event", "db.schema_failed").Msg("schema migration failed")
	}
	if problems, err := sqlite.VerifyIntegrity(cfg.DBPath, "quick"); err != nil {
		logger.Warn().Err(err).Msg("integrity check did not run")
	} else if len(problems) > 0 {
		logger.Error().
			Strs("problems", problems).
			Str("event", "db.integrity_failed").
			Msg("database integrity problems detected")
	}

	states, err := newStateStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("event", "state.open_failed").Msg("cannot open conversation state store")
	}
	defer states.Close()

	tg, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		logger.Fatal().Err(err).Str("event", "telegram.auth_failed").Msg("telegram authentication failed")
	}
	logger.Info().Str("username", tg.Self.UserName).Msg("authenticated with Telegram")

	stops := sqlite.NewStopRepository(db)
	schedules := sqlite.NewScheduleRepository(db)

	holder := config.NewHolder(*configPath, cfg)

	b := bot.New(bot.Deps{
		API:      tg,
		Config:   holder,
		States:   states,
		Stops:    stops,
		Planner:  transit.NewPlanner(schedules),
		Searches: sqlite.NewSearchRepository(db),
		Orgs:     sqlite.NewOrgRepository(db),
		Limiter: ratelimit.New(ratelimit.Config{
			GlobalRate:      rate.Limit(cfg.GlobalRate),
			GlobalBurst:     cfg.GlobalBurst,
			PerChatRate:     rate.Limit(cfg.ChatRate),
			PerChatBurst:    cfg.ChatBurst,
			CleanupInterval: cfg.CleanupInterval,
		}),
	})
	defer b.Close()

	hm := health.NewManager(version)
	hm.RegisterChecker(health.NewDBChecker(db))
	hm.RegisterChecker(health.NewTelegramChecker(func(ctx context.Context) error {
		_, err := tg.GetMe()
		return err
	}))

	opts := api.Options{
		Addr:   cfg.OpsListen,
		Health: hm,
	}
	if cfg.WebhookURL != "" {
		opts.WebhookPath = cfg.WebhookPath
		opts.WebhookSecret = cfg.WebhookSecret
		opts.Updates = func(update tgbotapi.Update) {
			b.HandleUpdate(ctx, update)
		}
	}
	ops := api.New(opts)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ops.Run(ctx)
	})

	g.Go(func() error {
		holder.Watch(ctx)
		return nil
	})

	if cfg.WebhookURL != "" {
		if err := registerWebhook(tg, cfg); err != nil {
			logger.Fatal().Err(err).Str("event", "webhook.register_failed").Msg("setWebhook failed")
		}
		logger.Info().
			Str("url", cfg.WebhookURL+cfg.WebhookPath).
			Str("event", "webhook.registered").
			Msg("webhook mode")
	} else {
		g.Go(func() error {
			// A stale webhook registration blocks getUpdates.
			if _, err := tg.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
				logger.Warn().Err(err).Msg("deleteWebhook failed")
			}
			return b.Poll(ctx, int(cfg.PollTimeout.Seconds()))
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Str("event", "shutdown.error").Msg("bot exited with error")
	}
	logger.Info().Str("event", "shutdown").Msg("bot exiting")
}

// newStateStore picks the conversation backend: Redis when configured, a
// Badger directory next, process memory as the fallback.
func newStateStore(cfg config.Config) (bot.Store, error) {
	switch {
	case cfg.RedisAddr != "":
		return bot.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StateTTL)
	case cfg.StateDir != "":
		return bot.NewBadgerStore(cfg.StateDir, cfg.StateTTL)
	default:
		return bot.NewMemoryStore(cfg.StateTTL), nil
	}
}

// registerWebhook calls setWebhook directly so the secret token reaches
// Telegram; the typed WebhookConfig predates Bot API 6.1.
func registerWebhook(tg *tgbotapi.BotAPI, cfg config.Config) error {
	params := tgbotapi.Params{
		"url": cfg.WebhookURL + cfg.WebhookPath,
	}
	if cfg.WebhookSecret != "" {
		params["secret_token"] = cfg.WebhookSecret
	}
	resp, err := tg.MakeRequest("setWebhook", params)
	if err != nil {
		return err
	}
	if !resp.Ok {
		return fmt.Errorf("setWebhook: %s", resp.Description)
	}
	return nil
}
