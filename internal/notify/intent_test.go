package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stitchfund/backend/internal/models"
)

func TestNewInvestmentSkipsSelfInvest(t *testing.T) {
	owner := uuid.New()
	c := &models.Campaign{ID: uuid.New(), OwnerUserID: owner, Title: "Linen Jacket"}

	if intent := NewInvestment(c, owner, 500); intent != nil {
		t.Error("owner investing in their own campaign should produce no intent")
	}

	investor := uuid.New()
	intent := NewInvestment(c, investor, 500)
	if intent == nil {
		t.Fatal("expected an intent for a third-party investment")
	}
	if len(intent.RecipientIDs) != 1 || intent.RecipientIDs[0] != owner {
		t.Errorf("recipients = %v, want just the owner", intent.RecipientIDs)
	}
	if intent.Payload["amount"] != int64(500) {
		t.Errorf("payload amount = %v, want 500", intent.Payload["amount"])
	}
}

func TestGoalReachedIncludesOwnerOnce(t *testing.T) {
	owner := uuid.New()
	a, b := uuid.New(), uuid.New()
	c := &models.Campaign{ID: uuid.New(), OwnerUserID: owner, Title: "Wool Coat"}

	// Owner invested in their own campaign; they must not be notified twice.
	intent := GoalReached(c, []uuid.UUID{a, owner, b, a})
	if len(intent.RecipientIDs) != 3 {
		t.Fatalf("recipients = %v, want 3 unique ids", intent.RecipientIDs)
	}
	if intent.Category != CategoryFundingSuccess {
		t.Errorf("category = %q, want %q", intent.Category, CategoryFundingSuccess)
	}
}

func TestStatusChangedOnlyMakingAndDelivery(t *testing.T) {
	c := &models.Campaign{ID: uuid.New(), OwnerUserID: uuid.New(), Title: "Denim Shirt"}
	investors := []uuid.UUID{uuid.New()}

	tests := []struct {
		status     string
		wantIntent bool
	}{
		{models.CampaignStatusMaking, true},
		{models.CampaignStatusDelivery, true},
		{models.CampaignStatusSuccess, false},
		{models.CampaignStatusFail, false},
		{models.CampaignStatusFunding, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			intent := StatusChanged(c, tt.status, investors)
			if (intent != nil) != tt.wantIntent {
				t.Errorf("StatusChanged(%q) intent = %v, want %v", tt.status, intent != nil, tt.wantIntent)
			}
		})
	}
}

func TestDeadlineReminderMergesLikedUsers(t *testing.T) {
	c := &models.Campaign{ID: uuid.New(), OwnerUserID: uuid.New(), Title: "Silk Scarf"}
	shared := uuid.New()
	investors := []uuid.UUID{uuid.New(), shared}
	liked := []uuid.UUID{shared, uuid.New()}

	intent := DeadlineReminder(c, investors, liked)
	if len(intent.RecipientIDs) != 3 {
		t.Errorf("recipients = %v, want 3 unique ids", intent.RecipientIDs)
	}
}

func TestToEventShape(t *testing.T) {
	c := &models.Campaign{ID: uuid.New(), OwnerUserID: uuid.New(), Title: "Cap"}
	intent := FundingFailed(c, []uuid.UUID{uuid.New()})

	event := intent.ToEvent()
	if event.Type != "notification_intent" {
		t.Errorf("event type = %q", event.Type)
	}
	ids, ok := event.Payload["recipient_ids"].([]string)
	if !ok || len(ids) != 2 {
		t.Errorf("recipient_ids payload = %v, want 2 string ids", event.Payload["recipient_ids"])
	}
}
