package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stitchfund/backend/internal/http/dto"
	"github.com/stitchfund/backend/internal/middleware"
	"github.com/stitchfund/backend/internal/services"
	"go.uber.org/zap"
)

type InvestmentHandler struct {
	funding *services.FundingService
	log     *zap.Logger
}

func NewInvestmentHandler(funding *services.FundingService, log *zap.Logger) *InvestmentHandler {
	return &InvestmentHandler{funding: funding, log: log}
}

func (h *InvestmentHandler) Cancel(c *fiber.Ctx) error {
	investmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid investment id"})
	}

	investorID := middleware.GetUserID(c)
	investment, err := h.funding.CancelInvestment(c.Context(), investorID, investmentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: investment})
}

func (h *InvestmentHandler) MyInvestments(c *fiber.Ctx) error {
	includeCancelled := c.QueryBool("include_cancelled", false)

	investments, err := h.funding.UserInvestments(c.Context(), middleware.GetUserID(c), includeCancelled)
	if err != nil {
		h.log.Error("list user investments failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: investments})
}
