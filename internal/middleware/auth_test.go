package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stitchfund/backend/internal/auth"
	"github.com/stitchfund/backend/internal/config"
	"go.uber.org/zap"
)

func newAuthTestApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/open", OptionalAuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUserID(c).String()})
	})
	app.Get("/locked", AuthMiddleware(cfg, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUserID(c).String()})
	})
	return app
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := newAuthTestApp(t, cfg)

	resp, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("anonymous request = %d, want 200", resp.StatusCode)
	}
}

func TestOptionalAuthPopulatesIdentity(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := newAuthTestApp(t, cfg)

	userID := uuid.New()
	token, err := auth.GenerateJWT(cfg.JWTSecret, userID, "maker@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("authenticated request = %d, want 200", resp.StatusCode)
	}
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := newAuthTestApp(t, cfg)

	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("bad token on optional route = %d, want 200 (anonymous)", resp.StatusCode)
	}
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := newAuthTestApp(t, cfg)

	resp, err := app.Test(httptest.NewRequest("GET", "/locked", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("anonymous request = %d, want 401", resp.StatusCode)
	}
}
