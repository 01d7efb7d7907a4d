package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"svitlobot/internal/botapi"
	"svitlobot/internal/config"
	"svitlobot/internal/dispatch"
	"svitlobot/internal/fetch"
	"svitlobot/internal/kv"
	"svitlobot/internal/kv/memory"
	"svitlobot/internal/kv/postgres"
	"svitlobot/internal/logging"
	"svitlobot/internal/notify"
	"svitlobot/internal/subs"
)

func main() {
	cfg := config.FromEnv()
	if cfg.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	logger, err := logging.NewLogger(cfg.LogDir, false)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store kv.Store
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres_connect_error", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatal("postgres_migrate_error", zap.Error(err))
		}
		store = pg
	} else {
		logger.Warn("using_memory_store")
		store = memory.New()
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Fatal("telegram_init_error", zap.Error(err))
	}
	logger.Info("telegram_authorized", zap.String("username", api.Self.UserName))

	repo := subs.NewRepository(store, cfg.BotID)
	mutes := notify.NewMutes(store, cfg.BotID)
	fetcher := &fetch.RetryFetcher{
		Inner:    fetch.NewHTTPFetcher(cfg.HTTPTimeout),
		Attempts: cfg.RetryAttempts,
		Delay:    cfg.RetryDelay,
	}

	dispatcher := dispatch.New(logger, repo, fetcher, notify.NewTelegram(api, mutes), dispatch.Config{
		UTCOffsetMinutes: cfg.UTCOffsetMinutes,
		WindowMinutes:    cfg.WindowMinutes,
		PollInterval:     cfg.PollInterval,
		MaxPerCycle:      cfg.MaxPerCycle,
	})
	go dispatcher.Run(ctx)

	srv := botapi.NewServer(logger, api, repo, mutes, botapi.NewAds(store, cfg.BotID), fetcher, cfg)

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: srv.Router()}
	go func() {
		<-ctx.Done()
		_ = httpSrv.Shutdown(context.Background())
	}()

	logger.Info("webhook_listen", zap.String("addr", cfg.Addr))
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("http_server_error", zap.Error(err))
	}
}
