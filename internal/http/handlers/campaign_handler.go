package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stitchfund/backend/internal/http/dto"
	"github.com/stitchfund/backend/internal/middleware"
	"github.com/stitchfund/backend/internal/services"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	funding *services.FundingService
	log     *zap.Logger
}

func NewCampaignHandler(funding *services.FundingService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{funding: funding, log: log}
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	designID, err := uuid.Parse(req.DesignID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid design_id"})
	}

	ownerID := middleware.GetUserID(c)
	campaign, err := h.funding.CreateCampaign(c.Context(), ownerID, services.CreateCampaignInput{
		DesignID:     designID,
		Title:        req.Title,
		Description:  req.Description,
		GoalAmount:   req.GoalAmount,
		Deadline:     req.Deadline,
		DeliveryDate: req.DeliveryDate,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) Feed(c *fiber.Ctx) error {
	limit, offset := 20, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	feed, err := h.funding.Feed(c.Context(), limit, offset)
	if err != nil {
		h.log.Error("feed failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: feed})
}

func (h *CampaignHandler) GetDetail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	detail, err := h.funding.Detail(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: detail})
}

func (h *CampaignHandler) MyCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.funding.OwnerCampaigns(c.Context(), middleware.GetUserID(c))
	if err != nil {
		h.log.Error("list owner campaigns failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *CampaignHandler) Invest(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	var req dto.InvestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	investorID := middleware.GetUserID(c)
	investment, err := h.funding.Invest(c.Context(), investorID, campaignID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: investment})
}

func (h *CampaignHandler) UpdateProductionNote(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	var req dto.UpdateProductionNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	ownerID := middleware.GetUserID(c)
	campaign, err := h.funding.UpdateProductionNote(c.Context(), ownerID, campaignID, req.ProductionNote)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) UpdateStatus(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "status is required"})
	}

	ownerID := middleware.GetUserID(c)
	campaign, err := h.funding.UpdateStatus(c.Context(), ownerID, campaignID, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) ListInvestments(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	investments, err := h.funding.CampaignInvestments(c.Context(), middleware.GetUserID(c), campaignID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: investments})
}

func (h *CampaignHandler) GetEvents(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	logs, err := h.funding.CampaignEvents(c.Context(), campaignID)
	if err != nil {
		h.log.Error("get campaign events failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: logs})
}
