package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stitchfund/backend/internal/apperr"
	"github.com/stitchfund/backend/internal/models"
	"github.com/stitchfund/backend/internal/repositories"
	"go.uber.org/zap"
)

func (s *FundingService) Feed(ctx context.Context, limit, offset int) ([]models.CampaignWithDesign, error) {
	return s.campaignRepo.ListFeed(ctx, limit, offset)
}

// Detail returns a campaign with viewer-relative fields: uncapped
// progress and whether the viewer liked the underlying design.
func (s *FundingService) Detail(ctx context.Context, campaignID, viewerID uuid.UUID) (*models.CampaignWithDesign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperr.NotFoundf("campaign not found")
		}
		return nil, err
	}
	if campaign.DeletedAt != nil {
		return nil, apperr.NotFoundf("campaign not found")
	}

	detail := &models.CampaignWithDesign{
		Campaign: *campaign,
		Progress: campaign.Progress(),
	}

	design, err := s.designRepo.GetByID(ctx, campaign.DesignID)
	if err != nil {
		// A missing design row only degrades the detail; anything else is
		// a real failure worth surfacing in the logs.
		if !repositories.IsNotFound(err) {
			s.log.Error("failed to load design for campaign detail",
				zap.String("campaign_id", campaignID.String()),
				zap.String("design_id", campaign.DesignID.String()),
				zap.Error(err))
		}
		return detail, nil
	}

	detail.DesignName = &design.Name
	detail.DesignThumbnail = design.ThumbnailURL
	for _, id := range design.LikedUserIDs {
		if id == viewerID {
			detail.Liked = true
			break
		}
	}

	return detail, nil
}

func (s *FundingService) OwnerCampaigns(ctx context.Context, ownerID uuid.UUID) ([]models.Campaign, error) {
	return s.campaignRepo.ListByOwner(ctx, ownerID)
}

func (s *FundingService) UserInvestments(ctx context.Context, userID uuid.UUID, includeCancelled bool) ([]models.InvestmentWithCampaign, error) {
	return s.investmentRepo.ListForUser(ctx, userID, includeCancelled)
}

// CampaignInvestments returns the ledger entries of a campaign the
// caller owns, newest first. Cancelled entries are included so the
// owner sees the full history.
func (s *FundingService) CampaignInvestments(ctx context.Context, ownerID, campaignID uuid.UUID) ([]models.Investment, error) {
	if _, err := s.getOwnedCampaign(ctx, ownerID, campaignID); err != nil {
		return nil, err
	}
	return s.investmentRepo.ListForCampaign(ctx, campaignID)
}

func (s *FundingService) CampaignEvents(ctx context.Context, campaignID uuid.UUID) ([]models.AuditLog, error) {
	return s.auditRepo.GetByEntity(ctx, "campaign", campaignID, 100, 0)
}
