package dto

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateCampaignRequest struct {
	DesignID     string     `json:"design_id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	GoalAmount   int64      `json:"goal_amount"`
	Deadline     time.Time  `json:"deadline"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
}

type InvestRequest struct {
	Amount int64 `json:"amount"`
}

type UpdateProductionNoteRequest struct {
	ProductionNote string `json:"production_note"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
