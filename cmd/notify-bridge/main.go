package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stitchfund/backend/internal/config"
	"github.com/stitchfund/backend/internal/db"
	"github.com/stitchfund/backend/internal/events"
	"github.com/stitchfund/backend/internal/services"
	"go.uber.org/zap"
)

// Notify Bridge — small service that subscribes to notification intents
// on Redis and forwards them to the external notifier service.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	subscriber := events.NewRedisSubscriber(rdb, log)
	notifier := services.NewNotifierClient(cfg.NotifierInternalURL, log)

	log.Info("notify-bridge started")

	_ = subscriber.Subscribe(ctx, events.StreamNotifications, func(event events.Event) {
		if event.Type != events.EventNotificationIntent {
			return
		}
		log.Info("forwarding notification intent")
		if err := notifier.Deliver(ctx, event.Payload); err != nil {
			log.Warn("failed to deliver notification", zap.Error(err))
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down notify-bridge")
	cancel()
}
