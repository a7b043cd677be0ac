package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusFunding  = "FUNDING"
	CampaignStatusSuccess  = "SUCCESS"
	CampaignStatusFail     = "FAIL"
	CampaignStatusMaking   = "MAKING"
	CampaignStatusDelivery = "DELIVERY"
)

// Valid state transitions: from -> []to. Owner-driven status updates may
// move FUNDING straight into MAKING/DELIVERY, bypassing SUCCESS.
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusFunding:  {CampaignStatusSuccess, CampaignStatusFail, CampaignStatusMaking, CampaignStatusDelivery},
	CampaignStatusSuccess:  {CampaignStatusMaking, CampaignStatusDelivery},
	CampaignStatusMaking:   {CampaignStatusDelivery},
	CampaignStatusDelivery: {},
	CampaignStatusFail:     {},
}

func IsValidCampaignStatus(status string) bool {
	_, ok := ValidCampaignTransitions[status]
	return ok
}

func IsValidCampaignTransition(from, to string) bool {
	allowed, ok := ValidCampaignTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

type Campaign struct {
	ID               uuid.UUID  `json:"id"`
	DesignID         uuid.UUID  `json:"design_id"`
	OwnerUserID      uuid.UUID  `json:"owner_user_id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	GoalAmount       int64      `json:"goal_amount"`
	CurrentAmount    int64      `json:"current_amount"`
	ParticipantCount int        `json:"participant_count"`
	Status           string     `json:"status"`
	Deadline         time.Time  `json:"deadline"`
	DeliveryDate     *time.Time `json:"delivery_date,omitempty"`
	ProductionNote   *string    `json:"production_note,omitempty"`
	DeletedAt        *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Progress is current/goal, uncapped. Overshoot beyond 1.0 is allowed.
func (c *Campaign) Progress() float64 {
	if c.GoalAmount <= 0 {
		return 0
	}
	return float64(c.CurrentAmount) / float64(c.GoalAmount)
}

// ReachesGoal reports whether adding amount to the stored total hits the
// goal. An exact hit counts as reached.
func (c *Campaign) ReachesGoal(amount int64) bool {
	return c.CurrentAmount+amount >= c.GoalAmount
}

// AcceptsInvestment checks the state preconditions for a new investment.
func (c *Campaign) AcceptsInvestment(now time.Time) string {
	switch {
	case c.DeletedAt != nil:
		return "campaign not found"
	case c.Status != CampaignStatusFunding:
		return "campaign is not in FUNDING state"
	case !c.Deadline.After(now):
		return "campaign deadline has passed"
	}
	return ""
}

// IsFailureCandidate reports whether the failure sweep should move this
// campaign to FAIL at the given instant.
func (c *Campaign) IsFailureCandidate(now time.Time) bool {
	return c.Status == CampaignStatusFunding &&
		c.DeletedAt == nil &&
		c.Deadline.Before(now) &&
		c.CurrentAmount < c.GoalAmount
}

// IsReminderCandidate reports whether the campaign's deadline falls
// within [now, now+window].
func (c *Campaign) IsReminderCandidate(now time.Time, window time.Duration) bool {
	if c.Status != CampaignStatusFunding || c.DeletedAt != nil {
		return false
	}
	return !c.Deadline.Before(now) && !c.Deadline.After(now.Add(window))
}

// CampaignWithDesign embeds Campaign and adds the design summary shown
// in the funding feed to avoid N+1 queries.
type CampaignWithDesign struct {
	Campaign
	DesignName      *string `json:"design_name,omitempty"`
	DesignThumbnail *string `json:"design_thumbnail,omitempty"`
	Progress        float64 `json:"progress"`
	Liked           bool    `json:"liked"`
}
