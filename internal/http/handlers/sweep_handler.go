package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stitchfund/backend/internal/http/dto"
	"github.com/stitchfund/backend/internal/services"
	"go.uber.org/zap"
)

// SweepHandler exposes the deadline sweeps for manual admin runs. The
// worker binary triggers the same service methods on a schedule.
type SweepHandler struct {
	funding *services.FundingService
	log     *zap.Logger
}

func NewSweepHandler(funding *services.FundingService, log *zap.Logger) *SweepHandler {
	return &SweepHandler{funding: funding, log: log}
}

func (h *SweepHandler) RunReminders(c *fiber.Ctx) error {
	ids, err := h.funding.SweepReminders(c.Context(), time.Now().UTC())
	if err != nil {
		h.log.Error("reminder sweep failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return c.JSON(dto.SweepResponse{CampaignIDs: out})
}

func (h *SweepHandler) RunFailures(c *fiber.Ctx) error {
	ids, err := h.funding.SweepFailures(c.Context(), time.Now().UTC())
	if err != nil {
		h.log.Error("failure sweep failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return c.JSON(dto.SweepResponse{CampaignIDs: out})
}
