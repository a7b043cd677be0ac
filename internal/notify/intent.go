package notify

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stitchfund/backend/internal/events"
	"github.com/stitchfund/backend/internal/models"
)

// Intent categories
const (
	CategoryGeneral          = "GENERAL"
	CategoryFundingSuccess   = "FUNDING_SUCCESS"
	CategoryProductionUpdate = "PRODUCTION_UPDATE"
)

// Intent is a recipient set plus content, decoupled from delivery. The
// ledger emits intents; the notifier service formats and sends them.
type Intent struct {
	RecipientIDs []uuid.UUID    `json:"recipient_ids"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	Category     string         `json:"category"`
	DeepLink     string         `json:"deep_link"`
	Payload      map[string]any `json:"payload,omitempty"`
}

func (i *Intent) ToEvent() events.Event {
	ids := make([]string, 0, len(i.RecipientIDs))
	for _, id := range i.RecipientIDs {
		ids = append(ids, id.String())
	}
	return events.Event{
		Type: events.EventNotificationIntent,
		Payload: map[string]any{
			"recipient_ids": ids,
			"title":         i.Title,
			"message":       i.Message,
			"category":      i.Category,
			"deep_link":     i.DeepLink,
			"data":          i.Payload,
		},
	}
}

func campaignLink(id uuid.UUID) string {
	return fmt.Sprintf("/campaigns/%s", id)
}

// dedupe keeps first occurrences, preserving order.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// NewInvestment notifies the campaign owner of a fresh investment.
// Returns nil when the owner invested in their own campaign.
func NewInvestment(c *models.Campaign, investorID uuid.UUID, amount int64) *Intent {
	if c.OwnerUserID == investorID {
		return nil
	}
	return &Intent{
		RecipientIDs: []uuid.UUID{c.OwnerUserID},
		Title:        "New investment",
		Message:      fmt.Sprintf("%s received a new investment.", c.Title),
		Category:     CategoryGeneral,
		DeepLink:     campaignLink(c.ID),
		Payload:      map[string]any{"campaign_id": c.ID.String(), "amount": amount},
	}
}

// GoalReached broadcasts the SUCCESS transition to every investor plus
// the owner.
func GoalReached(c *models.Campaign, investorIDs []uuid.UUID) *Intent {
	return &Intent{
		RecipientIDs: dedupe(append(append([]uuid.UUID{}, investorIDs...), c.OwnerUserID)),
		Title:        "Funding succeeded",
		Message:      fmt.Sprintf("%s reached its funding goal.", c.Title),
		Category:     CategoryFundingSuccess,
		DeepLink:     campaignLink(c.ID),
		Payload:      map[string]any{"campaign_id": c.ID.String()},
	}
}

// ProductionNote notifies investors of an updated production note.
func ProductionNote(c *models.Campaign, investorIDs []uuid.UUID) *Intent {
	return &Intent{
		RecipientIDs: dedupe(investorIDs),
		Title:        "Production update",
		Message:      fmt.Sprintf("%s has a production update.", c.Title),
		Category:     CategoryProductionUpdate,
		DeepLink:     campaignLink(c.ID),
		Payload:      map[string]any{"campaign_id": c.ID.String()},
	}
}

// StatusChanged notifies investors when the owner moves a campaign into
// MAKING or DELIVERY. Other statuses produce no intent.
func StatusChanged(c *models.Campaign, newStatus string, investorIDs []uuid.UUID) *Intent {
	var message string
	switch newStatus {
	case models.CampaignStatusMaking:
		message = fmt.Sprintf("Production of %s has started.", c.Title)
	case models.CampaignStatusDelivery:
		message = fmt.Sprintf("Delivery of %s has started.", c.Title)
	default:
		return nil
	}
	return &Intent{
		RecipientIDs: dedupe(investorIDs),
		Title:        "Production/delivery update",
		Message:      message,
		Category:     CategoryProductionUpdate,
		DeepLink:     campaignLink(c.ID),
		Payload:      map[string]any{"campaign_id": c.ID.String(), "status": newStatus},
	}
}

// DeadlineReminder targets investors plus users who liked the design.
func DeadlineReminder(c *models.Campaign, investorIDs, likedUserIDs []uuid.UUID) *Intent {
	return &Intent{
		RecipientIDs: dedupe(append(append([]uuid.UUID{}, investorIDs...), likedUserIDs...)),
		Title:        "Funding closing soon",
		Message:      fmt.Sprintf("%s closes within 24 hours.", c.Title),
		Category:     CategoryGeneral,
		DeepLink:     campaignLink(c.ID),
		Payload:      map[string]any{"campaign_id": c.ID.String()},
	}
}

// FundingFailed broadcasts the FAIL transition to investors plus the owner.
func FundingFailed(c *models.Campaign, investorIDs []uuid.UUID) *Intent {
	return &Intent{
		RecipientIDs: dedupe(append(append([]uuid.UUID{}, investorIDs...), c.OwnerUserID)),
		Title:        "Funding failed",
		Message:      fmt.Sprintf("%s expired without reaching its goal.", c.Title),
		Category:     CategoryGeneral,
		DeepLink:     campaignLink(c.ID),
		Payload:      map[string]any{"campaign_id": c.ID.String()},
	}
}
