package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/stitchfund/backend/internal/config"
	"github.com/stitchfund/backend/internal/http/handlers"
	"github.com/stitchfund/backend/internal/middleware"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	campaignHandler *handlers.CampaignHandler,
	investmentHandler *handlers.InvestmentHandler,
	sweepHandler *handlers.SweepHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	authRequired := middleware.AuthMiddleware(cfg, log)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg)

	// Public campaign reads, registered before the protected group so the
	// group's auth middleware never sees them. A token, when present,
	// fills the viewer-relative fields (liked flag); anonymous callers
	// pass through. The fixed paths go first so the id parameter cannot
	// capture them.
	api.Get("/campaigns/feed", optionalAuth, campaignHandler.Feed)
	api.Get("/campaigns/mine", authRequired, campaignHandler.MyCampaigns)
	api.Get("/campaigns/:id", optionalAuth, campaignHandler.GetDetail)

	// Protected endpoints
	protected := api.Group("", authRequired)

	// User
	protected.Get("/me", userHandler.GetMe)
	protected.Post("/me/ping", userHandler.Ping)

	// Campaigns
	protected.Post("/campaigns", campaignHandler.CreateCampaign)
	protected.Get("/campaigns/:id/events", campaignHandler.GetEvents)
	protected.Get("/campaigns/:id/investments", campaignHandler.ListInvestments)
	protected.Patch("/campaigns/:id/production-note", campaignHandler.UpdateProductionNote)
	protected.Patch("/campaigns/:id/status", campaignHandler.UpdateStatus)

	// Investments. The invest route is rate limited since it moves coins.
	protected.Post("/campaigns/:id/invest",
		middleware.RateLimitMiddleware(rdb, cfg.InvestRateLimit, cfg.InvestRateWindow),
		campaignHandler.Invest)
	protected.Post("/investments/:id/cancel", investmentHandler.Cancel)
	protected.Get("/investments/mine", investmentHandler.MyInvestments)

	// Sweeps (admin-gated manual trigger; the worker runs them on a schedule)
	sweeps := protected.Group("/sweeps", middleware.AdminMiddleware(cfg))
	sweeps.Post("/reminders", sweepHandler.RunReminders)
	sweeps.Post("/failures", sweepHandler.RunFailures)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
