package events

import "context"

// Streams
const (
	StreamCampaign      = "events:campaign"
	StreamNotifications = "events:notifications"
)

// Event types
const (
	EventCampaignStatusChanged = "campaign_status_changed"
	EventNotificationIntent    = "notification_intent"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
