package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stitchfund/backend/internal/models"
	"github.com/stitchfund/backend/internal/notify"
	"github.com/stitchfund/backend/internal/repositories"
	"go.uber.org/zap"
)

// SweepReminders notifies investors and design likers of campaigns whose
// deadline falls within the reminder window. Notification-only: campaign
// and account state are untouched. Re-running re-notifies; the scheduler
// cadence must match the window.
func (s *FundingService) SweepReminders(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	window := s.cfg.ReminderWindow
	if window <= 0 {
		window = 24 * time.Hour
	}

	candidates, err := s.campaignRepo.ListReminderCandidates(ctx, now, now.Add(window))
	if err != nil {
		return nil, err
	}

	var notified []uuid.UUID
	for i := range candidates {
		campaign := &candidates[i]

		investorIDs, err := s.investmentRepo.ListInvestorIDs(ctx, campaign.ID, true)
		if err != nil {
			s.log.Error("reminder sweep: failed to list investors",
				zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
			continue
		}
		likedIDs, err := s.designRepo.GetLikedUserIDs(ctx, campaign.DesignID)
		if err != nil && !repositories.IsNotFound(err) {
			s.log.Error("reminder sweep: failed to list design likers",
				zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
		}

		s.publishIntent(ctx, notify.DeadlineReminder(campaign, investorIDs, likedIDs))
		notified = append(notified, campaign.ID)
	}

	s.log.Info("reminder sweep finished", zap.Int("notified", len(notified)))
	return notified, nil
}

// SweepFailures moves expired, underfunded campaigns to FAIL. Each
// transition runs in its own transaction with the row locked and the
// candidate predicate re-checked, so a concurrent invest or a second
// sweep run cannot double-transition a campaign.
func (s *FundingService) SweepFailures(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	candidates, err := s.campaignRepo.ListExpired(ctx, now)
	if err != nil {
		return nil, err
	}

	var failed []uuid.UUID
	for i := range candidates {
		campaign := &candidates[i]
		if !campaign.IsFailureCandidate(now) {
			continue
		}

		transitioned := false
		err := s.withSerializableTx(ctx, func(tx pgx.Tx) error {
			locked, err := s.campaignRepo.GetByIDForUpdate(ctx, tx, campaign.ID)
			if err != nil {
				return err
			}
			if !locked.IsFailureCandidate(now) {
				return nil
			}
			if err := s.campaignRepo.UpdateStatus(ctx, tx, campaign.ID, models.CampaignStatusFail); err != nil {
				return err
			}
			transitioned = true
			return nil
		})
		if err != nil {
			s.log.Error("failure sweep: transition failed",
				zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
			continue
		}
		if !transitioned {
			continue
		}

		_ = s.auditRepo.Log(ctx, models.AuditLog{
			ActorType:  "scheduler",
			Action:     "campaign_status_FUNDING_to_FAIL",
			EntityType: "campaign",
			EntityID:   &campaign.ID,
			Meta:       map[string]any{"deadline": campaign.Deadline, "current_amount": campaign.CurrentAmount},
		})
		s.publishStatusChange(ctx, campaign.ID, models.CampaignStatusFunding, models.CampaignStatusFail)

		investorIDs, err := s.investmentRepo.ListInvestorIDs(ctx, campaign.ID, true)
		if err != nil {
			s.log.Error("failure sweep: failed to list investors",
				zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
		} else {
			s.publishIntent(ctx, notify.FundingFailed(campaign, investorIDs))
		}

		failed = append(failed, campaign.ID)
	}

	s.log.Info("failure sweep finished", zap.Int("failed", len(failed)))
	return failed, nil
}
