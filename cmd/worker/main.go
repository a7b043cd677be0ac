package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stitchfund/backend/internal/config"
	"github.com/stitchfund/backend/internal/db"
	"github.com/stitchfund/backend/internal/events"
	"github.com/stitchfund/backend/internal/repositories"
	"github.com/stitchfund/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	userRepo := repositories.NewUserRepo(pool)
	designRepo := repositories.NewDesignRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	investmentRepo := repositories.NewInvestmentRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	fundingService := services.NewFundingService(pool, userRepo, designRepo, campaignRepo, investmentRepo, auditRepo, publisher, cfg, log)

	log.Info("worker started",
		zap.Duration("reminder_interval", cfg.ReminderInterval),
		zap.Duration("failure_interval", cfg.FailureInterval),
	)

	// Run sweeps on tickers
	reminderTicker := time.NewTicker(cfg.ReminderInterval)
	failureTicker := time.NewTicker(cfg.FailureInterval)
	defer reminderTicker.Stop()
	defer failureTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-reminderTicker.C:
			runReminderSweep(ctx, fundingService, log)
		case <-failureTicker.C:
			runFailureSweep(ctx, fundingService, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runReminderSweep(ctx context.Context, funding *services.FundingService, log *zap.Logger) {
	ids, err := funding.SweepReminders(ctx, time.Now().UTC())
	if err != nil {
		log.Error("reminder sweep failed", zap.Error(err))
		return
	}
	if len(ids) > 0 {
		log.Info("reminder sweep complete", zap.Int("campaigns", len(ids)))
	}
}

func runFailureSweep(ctx context.Context, funding *services.FundingService, log *zap.Logger) {
	ids, err := funding.SweepFailures(ctx, time.Now().UTC())
	if err != nil {
		log.Error("failure sweep failed", zap.Error(err))
		return
	}
	for _, id := range ids {
		log.Info("campaign failed at deadline", zap.String("campaign_id", id.String()))
	}
}
