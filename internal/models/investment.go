package models

import (
	"time"

	"github.com/google/uuid"
)

// Investment is an immutable ledger entry. The prev/post coin snapshots
// record the investor's balance around the debit; the cancelled flag is
// the only field that ever changes, and it changes once.
type Investment struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	CampaignID  uuid.UUID  `json:"campaign_id"`
	Amount      int64      `json:"amount"`
	PrevCoins   int64      `json:"prev_coins"`
	PostCoins   int64      `json:"post_coins"`
	Cancelled   bool       `json:"cancelled"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// InvestmentWithCampaign embeds Investment plus the campaign fields the
// "my investments" screen renders.
type InvestmentWithCampaign struct {
	Investment
	CampaignTitle  string     `json:"campaign_title"`
	CampaignStatus string     `json:"campaign_status"`
	DeliveryDate   *time.Time `json:"delivery_date,omitempty"`
}
