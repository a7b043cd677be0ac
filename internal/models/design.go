package models

import (
	"time"

	"github.com/google/uuid"
)

// Design is the catalog projection the funding ledger needs: ownership
// for campaign creation and the liked-user list for reminder fan-out.
// The full catalog (sizing, styles, imagery) lives in the catalog service.
type Design struct {
	ID           uuid.UUID   `json:"id"`
	OwnerUserID  uuid.UUID   `json:"owner_user_id"`
	Name         string      `json:"name"`
	ThumbnailURL *string     `json:"thumbnail_url,omitempty"`
	LikedUserIDs []uuid.UUID `json:"liked_user_ids,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
