package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/owobot-dev/owobot/internal/booru"
	"github.com/owobot-dev/owobot/internal/bot"
	"github.com/owobot-dev/owobot/internal/bot/handlers"
	"github.com/owobot-dev/owobot/internal/counter"
	"github.com/owobot-dev/owobot/internal/database"
	"github.com/owobot-dev/owobot/internal/health"
	"github.com/owobot-dev/owobot/internal/i18n"
	"github.com/owobot-dev/owobot/internal/profile"
	"github.com/owobot-dev/owobot/internal/ratelimit"
	"github.com/owobot-dev/owobot/internal/reddit"
	"github.com/owobot-dev/owobot/internal/repository"
	"github.com/owobot-dev/owobot/internal/transport"
	"github.com/owobot-dev/owobot/pkg/config"
	"github.com/owobot-dev/owobot/pkg/graceful"
	"github.com/owobot-dev/owobot/pkg/logger"
	"github.com/owobot-dev/owobot/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(*cfg)
	slog.SetDefault(log)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
			Release:     cfg.Bot.Version,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	log.Info("starting owobot",
		slog.String("env", cfg.AppEnv),
		slog.String("version", cfg.Bot.Version),
	)

	db, err := database.Open(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	migrator := database.NewMigrator(db, log)
	if err := migrator.ApplyDir(ctx, cfg.Bot.MigrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	catalog, err := i18n.LoadFromDir(cfg.Bot.TranslationsDir)
	if err != nil {
		return err
	}
	log.Info("translations loaded", slog.Any("locales", catalog.Locales()))

	ctr, err := counter.NewStore(cfg.Counter.Path, log)
	if err != nil {
		return err
	}

	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(log)
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer redisClient.Close()

		limiter = ratelimit.NewRedisLimiter(redisClient, log)
		log.Info("redis connected", slog.String("addr", cfg.Redis.Addr))
	}

	tb, err := transport.NewBot(*cfg, log)
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(db, log)
	chats := repository.NewChatRepository(db, log)
	resolver := profile.NewResolver(users, chats)

	deps := handlers.Deps{
		Client:    tb,
		Catalog:   catalog,
		Users:     users,
		Chats:     chats,
		Booru:     booru.NewFetcher(booru.Providers(nil), log),
		Counter:   ctr,
		Version:   cfg.Bot.Version,
		StartedAt: time.Now(),
		Log:       log,
	}

	if cfg.Reddit.Configured() {
		client := reddit.NewClient(cfg.Reddit.AppID, cfg.Reddit.Secret, cfg.Reddit.RefreshToken, nil)
		deps.Reddit = reddit.NewFetcher(client, log)
	} else {
		log.Warn("reddit credentials missing, reddit commands are disabled")
	}

	b := bot.New(*cfg, log, tb, resolver, ctr, handlers.New(deps), limiter)

	checker := health.NewChecker(log)
	checker.AddCheck("database", health.NewDBChecker(db))
	checker.AddCheck("telegram", health.NewTelegramChecker(tb))
	if redisClient != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", checker.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	srv := graceful.NewServer(log, &http.Server{
		Addr:    cfg.Server.Port,
		Handler: logger.Middleware(mux),
	}, cfg.Server.ShutdownTimeout)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		if err := srv.ListenAndServe(ctx); err != nil {
			log.Error("http server stopped", slog.Any("error", err))
			stop()
		}
	}()

	b.Run(ctx)
	wg.Wait()

	log.Info("owobot shut down")
	return nil
}
