package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stitchfund/backend/internal/apperr"
	"github.com/stitchfund/backend/internal/config"
	"github.com/stitchfund/backend/internal/events"
	"github.com/stitchfund/backend/internal/models"
	"github.com/stitchfund/backend/internal/notify"
	"github.com/stitchfund/backend/internal/repositories"
	"go.uber.org/zap"
)

// FundingService is the funding state machine. Every mutation runs in a
// single serializable transaction spanning the account debit/credit, the
// ledger append and the campaign aggregate update; notification intents
// are derived from the committed outcome and published afterwards, so a
// delivery failure can never roll back money movement.
type FundingService struct {
	pool           *pgxpool.Pool
	userRepo       *repositories.UserRepo
	designRepo     *repositories.DesignRepo
	campaignRepo   *repositories.CampaignRepo
	investmentRepo *repositories.InvestmentRepo
	auditRepo      *repositories.AuditRepo
	publisher      events.Publisher
	cfg            *config.Config
	log            *zap.Logger
}

func NewFundingService(
	pool *pgxpool.Pool,
	userRepo *repositories.UserRepo,
	designRepo *repositories.DesignRepo,
	campaignRepo *repositories.CampaignRepo,
	investmentRepo *repositories.InvestmentRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *FundingService {
	return &FundingService{
		pool:           pool,
		userRepo:       userRepo,
		designRepo:     designRepo,
		campaignRepo:   campaignRepo,
		investmentRepo: investmentRepo,
		auditRepo:      auditRepo,
		publisher:      publisher,
		cfg:            cfg,
		log:            log,
	}
}

// withSerializableTx runs fn inside a serializable transaction, retrying
// serialization failures a bounded number of times before surfacing
// ConcurrencyError. Domain errors abort immediately.
func (s *FundingService) withSerializableTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	maxRetries := s.cfg.TxMaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * s.cfg.TxRetryBackoff):
			}
		}

		tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return err
		}

		err = fn(tx)
		if err == nil {
			err = tx.Commit(ctx)
			if err == nil {
				return nil
			}
		} else {
			_ = tx.Rollback(ctx)
		}

		if !repositories.IsSerializationFailure(err) {
			return err
		}
		lastErr = err
		s.log.Warn("funding tx serialization conflict, retrying",
			zap.Int("attempt", attempt+1), zap.Error(err))
	}

	return apperr.Wrap(apperr.KindConcurrency, "transaction aborted after retries", lastErr)
}

// publishIntent is fire-and-forget: a broken notification channel must
// never fail the financial operation that produced the intent.
func (s *FundingService) publishIntent(ctx context.Context, intent *notify.Intent) {
	if intent == nil || len(intent.RecipientIDs) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events.StreamNotifications, intent.ToEvent()); err != nil {
		s.log.Error("failed to publish notification intent",
			zap.String("category", intent.Category), zap.Error(err))
	}
}

func (s *FundingService) publishStatusChange(ctx context.Context, campaignID uuid.UUID, oldStatus, newStatus string) {
	err := s.publisher.Publish(ctx, events.StreamCampaign, events.Event{
		Type: events.EventCampaignStatusChanged,
		Payload: map[string]any{
			"campaign_id": campaignID.String(),
			"old_status":  oldStatus,
			"new_status":  newStatus,
		},
	})
	if err != nil {
		s.log.Error("failed to publish campaign event", zap.Error(err))
	}
}

type CreateCampaignInput struct {
	DesignID     uuid.UUID
	Title        string
	Description  *string
	GoalAmount   int64
	Deadline     time.Time
	DeliveryDate *time.Time
}

func (s *FundingService) CreateCampaign(ctx context.Context, ownerID uuid.UUID, input CreateCampaignInput) (*models.Campaign, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperr.Validationf("title is required")
	}
	if input.GoalAmount <= 0 {
		return nil, apperr.Validationf("goal_amount must be positive")
	}
	if !input.Deadline.After(time.Now()) {
		return nil, apperr.Validationf("deadline must be in the future")
	}

	design, err := s.designRepo.GetByID(ctx, input.DesignID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperr.NotFoundf("design not found")
		}
		return nil, err
	}
	if design.OwnerUserID != ownerID {
		return nil, apperr.Forbiddenf("only the design owner can launch a campaign")
	}

	campaign := &models.Campaign{
		DesignID:     input.DesignID,
		OwnerUserID:  ownerID,
		Title:        input.Title,
		Description:  input.Description,
		GoalAmount:   input.GoalAmount,
		Status:       models.CampaignStatusFunding,
		Deadline:     input.Deadline,
		DeliveryDate: input.DeliveryDate,
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, apperr.Conflictf("design already has a campaign")
		}
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &ownerID,
		ActorType:   "user",
		Action:      "campaign_created",
		EntityType:  "campaign",
		EntityID:    &campaign.ID,
		Meta:        map[string]any{"design_id": input.DesignID.String(), "goal_amount": input.GoalAmount},
	})

	s.log.Info("campaign created",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.Int64("goal_amount", input.GoalAmount),
	)

	return campaign, nil
}

// Invest debits the investor, appends a ledger entry and credits the
// campaign total, transitioning to SUCCESS when the stored total reaches
// the goal. The campaign row is locked for the whole transaction, so the
// goal decision cannot act on a stale total.
func (s *FundingService) Invest(ctx context.Context, investorID, campaignID uuid.UUID, amount int64) (*models.Investment, error) {
	if amount <= 0 {
		return nil, apperr.Validationf("amount must be positive")
	}

	var (
		investment *models.Investment
		campaign   *models.Campaign
		reached    bool
	)

	err := s.withSerializableTx(ctx, func(tx pgx.Tx) error {
		var err error
		campaign, err = s.campaignRepo.GetByIDForUpdate(ctx, tx, campaignID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperr.NotFoundf("campaign not found")
			}
			return err
		}
		if campaign.DeletedAt != nil {
			return apperr.NotFoundf("campaign not found")
		}
		if reason := campaign.AcceptsInvestment(time.Now()); reason != "" {
			return apperr.Conflictf("%s", reason)
		}

		prevCoins, err := s.userRepo.GetCoinsForUpdate(ctx, tx, investorID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperr.NotFoundf("account not found")
			}
			return err
		}
		if prevCoins < amount {
			return apperr.Conflictf("insufficient coin balance")
		}

		postCoins, ok, err := s.userRepo.DebitCoins(ctx, tx, investorID, amount)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflictf("insufficient coin balance")
		}

		investment = &models.Investment{
			UserID:     investorID,
			CampaignID: campaignID,
			Amount:     amount,
			PrevCoins:  prevCoins,
			PostCoins:  postCoins,
		}
		if err := s.investmentRepo.Create(ctx, tx, investment); err != nil {
			return err
		}

		reached = campaign.ReachesGoal(amount)
		newStatus := campaign.Status
		if reached {
			newStatus = models.CampaignStatusSuccess
		}
		return s.campaignRepo.ApplyInvestment(ctx, tx, campaignID, amount, newStatus)
	})
	if err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &investorID,
		ActorType:   "user",
		Action:      "investment_created",
		EntityType:  "investment",
		EntityID:    &investment.ID,
		Meta:        map[string]any{"campaign_id": campaignID.String(), "amount": amount},
	})

	s.publishIntent(ctx, notify.NewInvestment(campaign, investorID, amount))

	if reached {
		s.publishStatusChange(ctx, campaignID, models.CampaignStatusFunding, models.CampaignStatusSuccess)

		investorIDs, err := s.investmentRepo.ListInvestorIDs(ctx, campaignID, true)
		if err != nil {
			s.log.Error("failed to list investors for success broadcast", zap.Error(err))
		} else {
			s.publishIntent(ctx, notify.GoalReached(campaign, investorIDs))
		}

		s.log.Info("campaign reached its goal",
			zap.String("campaign_id", campaignID.String()),
			zap.Int64("goal_amount", campaign.GoalAmount),
		)
	}

	return investment, nil
}

// CancelInvestment reverses a single investment: the flag flips, the
// investor is refunded and the campaign aggregate gives the amount back.
// The campaign is forced back to FUNDING unconditionally, even out of
// MAKING/DELIVERY/FAIL. That reset mirrors the current product policy
// and is pending product-owner review.
func (s *FundingService) CancelInvestment(ctx context.Context, investorID, investmentID uuid.UUID) (*models.Investment, error) {
	var (
		investment *models.Investment
		oldStatus  string
	)

	err := s.withSerializableTx(ctx, func(tx pgx.Tx) error {
		var err error
		investment, err = s.investmentRepo.GetByIDForUpdate(ctx, tx, investmentID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperr.NotFoundf("investment not found")
			}
			return err
		}
		if investment.UserID != investorID {
			return apperr.NotFoundf("investment not found")
		}
		if investment.Cancelled {
			return apperr.Conflictf("investment already cancelled")
		}

		campaign, err := s.campaignRepo.GetByIDForUpdate(ctx, tx, investment.CampaignID)
		if err != nil {
			return err
		}
		oldStatus = campaign.Status

		if err := s.investmentRepo.MarkCancelled(ctx, tx, investmentID); err != nil {
			return err
		}
		if err := s.campaignRepo.ApplyCancellation(ctx, tx, investment.CampaignID, investment.Amount); err != nil {
			return err
		}
		_, err = s.userRepo.CreditCoins(ctx, tx, investorID, investment.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	investment.Cancelled = true

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &investorID,
		ActorType:   "user",
		Action:      "investment_cancelled",
		EntityType:  "investment",
		EntityID:    &investmentID,
		Meta:        map[string]any{"campaign_id": investment.CampaignID.String(), "amount": investment.Amount},
	})

	if oldStatus != models.CampaignStatusFunding {
		s.publishStatusChange(ctx, investment.CampaignID, oldStatus, models.CampaignStatusFunding)
	}

	s.log.Info("investment cancelled",
		zap.String("investment_id", investmentID.String()),
		zap.String("campaign_id", investment.CampaignID.String()),
		zap.Int64("amount", investment.Amount),
	)

	return investment, nil
}

func (s *FundingService) UpdateProductionNote(ctx context.Context, ownerID, campaignID uuid.UUID, note string) (*models.Campaign, error) {
	if strings.TrimSpace(note) == "" {
		return nil, apperr.Validationf("production_note is required")
	}

	campaign, err := s.getOwnedCampaign(ctx, ownerID, campaignID)
	if err != nil {
		return nil, err
	}

	if err := s.campaignRepo.UpdateProductionNote(ctx, campaignID, note); err != nil {
		return nil, err
	}
	campaign.ProductionNote = &note

	investorIDs, err := s.investmentRepo.ListInvestorIDs(ctx, campaignID, true)
	if err != nil {
		s.log.Error("failed to list investors for production note fan-out", zap.Error(err))
	} else {
		s.publishIntent(ctx, notify.ProductionNote(campaign, investorIDs))
	}

	return campaign, nil
}

// UpdateStatus is an owner-driven status override. Any enum member is
// accepted regardless of the transition table; unknown strings are
// rejected at the boundary.
func (s *FundingService) UpdateStatus(ctx context.Context, ownerID, campaignID uuid.UUID, newStatus string) (*models.Campaign, error) {
	if !models.IsValidCampaignStatus(newStatus) {
		return nil, apperr.Validationf("unknown status %q", newStatus)
	}

	campaign, err := s.getOwnedCampaign(ctx, ownerID, campaignID)
	if err != nil {
		return nil, err
	}

	oldStatus := campaign.Status
	if err := s.campaignRepo.UpdateStatus(ctx, s.pool, campaignID, newStatus); err != nil {
		return nil, err
	}
	campaign.Status = newStatus

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &ownerID,
		ActorType:   "user",
		Action:      "campaign_status_" + oldStatus + "_to_" + newStatus,
		EntityType:  "campaign",
		EntityID:    &campaignID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": newStatus},
	})

	s.publishStatusChange(ctx, campaignID, oldStatus, newStatus)

	if newStatus == models.CampaignStatusMaking || newStatus == models.CampaignStatusDelivery {
		investorIDs, err := s.investmentRepo.ListInvestorIDs(ctx, campaignID, true)
		if err != nil {
			s.log.Error("failed to list investors for status fan-out", zap.Error(err))
		} else {
			s.publishIntent(ctx, notify.StatusChanged(campaign, newStatus, investorIDs))
		}
	}

	return campaign, nil
}

func (s *FundingService) getOwnedCampaign(ctx context.Context, ownerID, campaignID uuid.UUID) (*models.Campaign, error) {
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
	if campaign.OwnerUserID != ownerID {
		return nil, apperr.Forbiddenf("only the campaign owner can do this")
	}
	return campaign, nil
}
