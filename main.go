package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"fargona_jobs_bot/cleanup"
	"fargona_jobs_bot/config"
	"fargona_jobs_bot/database"
	"fargona_jobs_bot/handlers"
	"fargona_jobs_bot/logger"
	"fargona_jobs_bot/messages"
	"fargona_jobs_bot/tglog"
	"fargona_jobs_bot/wizard"
	"fargona_jobs_bot/wizard/redisstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init(cfg.Debug)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	if err := db.EnsureSuperadmin(ctx, cfg.SuperAdminID); err != nil {
		log.Fatal().Err(err).Msg("superadmin seed failed")
	}
	if err := db.SetSetting(ctx, "bot_started_at", messages.FormatDateTime(time.Now())); err != nil {
		log.Error().Err(err).Msg("start timestamp not recorded")
	}

	// wizard sessions survive restarts only with Redis configured
	var sessions wizard.SessionStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connect failed")
		}
		sessions = redisstore.New(rdb, cfg.SessionTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis session store")
	} else {
		sessions = wizard.NewMemoryStore(cfg.SessionTTL)
		log.Info().Msg("in-memory session store")
	}

	b, err := bot.New(cfg.BotToken,
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("bot init failed")
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("getMe failed")
	}

	tlog := tglog.New(b, cfg.LogChannelID)
	h := handlers.New(b, cfg, db, sessions, tlog, log.Logger)

	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, h.OnMessage)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, h.OnCallback)

	sweeper := cleanup.New(db, cfg.CleanupInterval, log.Logger)
	go sweeper.Start(ctx)

	log.Info().Str("username", me.Username).Msg("bot started")
	tlog.Sendf("🤖 Bot ishga tushdi: @%s", me.Username)

	b.Start(ctx)
	log.Info().Msg("bot stopped")
}
