package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	log "github.com/sirupsen/logrus"

	"roulettebot/internal/config"
	"roulettebot/internal/cryptopay"
	"roulettebot/internal/handlers"
	"roulettebot/internal/middleware"
	"roulettebot/internal/roulette"
	"roulettebot/store"
	"roulettebot/types"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	cfg, err := config.Load("config.env")
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	sink, err := newSink(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatalf("failed to set up %s snapshot backend", cfg.SnapshotBackend)
	}
	defer sink.Close()

	st := store.New(sink)
	st.Load(ctx)

	var payments types.PaymentProvider
	if cfg.CryptoPayToken != "" {
		payments = cryptopay.NewClient(cfg.CryptoPayToken, cfg.CryptoPayBaseURL)
	} else {
		log.Warn("CRYPTO_PAY_TOKEN is not set, attempt purchases are disabled")
	}

	wheel := roulette.NewWheel(cfg.PrizeTiers)
	h := handlers.New(st, payments, wheel, cfg)

	mw := middleware.New(st, cfg.AdminIDs)
	handlerChain := mw.TrackUser(mw.RejectBanned(h.MainHandler))

	httpClient := &http.Client{
		Timeout: 10 * time.Minute,
	}
	pollTimeout := 50 * time.Second

	b, err := bot.New(
		cfg.BotToken,
		bot.WithHTTPClient(pollTimeout, httpClient),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to create bot")
	}

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil
	}, handlerChain)

	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, handlerChain)

	log.Info("Bot started. Press Ctrl+C to stop.")
	b.Start(ctx)

	// The polling loop has stopped; flush once more before exit.
	st.Save(context.Background())
	log.Info("Ledger saved, shutting down.")
}

func newSink(ctx context.Context, cfg *config.Config) (types.SnapshotSink, error) {
	switch cfg.SnapshotBackend {
	case "redis":
		return store.NewRedisSink(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisSnapshotKey)
	case "postgres":
		return store.NewPostgresSink(ctx, cfg.PostgresDSN)
	case "memory":
		log.Warn("using in-memory snapshot backend, data will not survive a restart")
		return store.NewMemorySink(), nil
	default:
		return store.NewFileSink(cfg.SnapshotPath)
	}
}
