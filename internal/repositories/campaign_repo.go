package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stitchfund/backend/internal/models"
)

const campaignColumns = `
	id, design_id, owner_user_id, title, description, goal_amount,
	current_amount, participant_count, status, deadline, delivery_date,
	production_note, deleted_at, created_at, updated_at`

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

func scanCampaign(row interface{ Scan(...any) error }, c *models.Campaign) error {
	return row.Scan(&c.ID, &c.DesignID, &c.OwnerUserID, &c.Title, &c.Description,
		&c.GoalAmount, &c.CurrentAmount, &c.ParticipantCount, &c.Status,
		&c.Deadline, &c.DeliveryDate, &c.ProductionNote, &c.DeletedAt,
		&c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (design_id, owner_user_id, title, description, goal_amount, status, deadline, delivery_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, current_amount, participant_count, created_at, updated_at
	`, c.DesignID, c.OwnerUserID, c.Title, c.Description, c.GoalAmount, c.Status, c.Deadline, c.DeliveryDate,
	).Scan(&c.ID, &c.CurrentAmount, &c.ParticipantCount, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var c models.Campaign
	err := scanCampaign(r.pool.QueryRow(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE id = $1
	`, id), &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByIDForUpdate locks the campaign row for the rest of the
// transaction. All concurrent invest/cancel/sweep writers queue here,
// so the goal decision always sees the latest committed total.
func (r *CampaignRepo) GetByIDForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.Campaign, error) {
	var c models.Campaign
	err := scanCampaign(q.QueryRow(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 FOR UPDATE
	`, id), &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ApplyInvestment adds the amount, bumps the participant count and sets
// the (possibly transitioned) status in one statement.
func (r *CampaignRepo) ApplyInvestment(ctx context.Context, q Querier, id uuid.UUID, amount int64, status string) error {
	_, err := q.Exec(ctx, `
		UPDATE campaigns SET
			current_amount = current_amount + $1,
			participant_count = participant_count + 1,
			status = $2,
			updated_at = now()
		WHERE id = $3
	`, amount, status, id)
	return err
}

// ApplyCancellation reverses an investment's contribution, flooring both
// aggregates at zero, and forces the campaign back to FUNDING.
func (r *CampaignRepo) ApplyCancellation(ctx context.Context, q Querier, id uuid.UUID, amount int64) error {
	_, err := q.Exec(ctx, `
		UPDATE campaigns SET
			current_amount = GREATEST(current_amount - $1, 0),
			participant_count = GREATEST(participant_count - 1, 0),
			status = $2,
			updated_at = now()
		WHERE id = $3
	`, amount, models.CampaignStatusFunding, id)
	return err
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status string) error {
	_, err := q.Exec(ctx, `UPDATE campaigns SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *CampaignRepo) UpdateProductionNote(ctx context.Context, id uuid.UUID, note string) error {
	_, err := r.pool.Exec(ctx, `UPDATE campaigns SET production_note = $1, updated_at = now() WHERE id = $2`, note, id)
	return err
}

// ListFeed returns open campaigns with their design summary, newest first.
func (r *CampaignRepo) ListFeed(ctx context.Context, limit, offset int) ([]models.CampaignWithDesign, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.design_id, c.owner_user_id, c.title, c.description, c.goal_amount,
		       c.current_amount, c.participant_count, c.status, c.deadline, c.delivery_date,
		       c.production_note, c.deleted_at, c.created_at, c.updated_at,
		       d.name, d.thumbnail_url
		FROM campaigns c
		JOIN designs d ON d.id = c.design_id
		WHERE c.status = $1 AND c.deleted_at IS NULL
		ORDER BY c.created_at DESC LIMIT $2 OFFSET $3
	`, models.CampaignStatusFunding, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feed []models.CampaignWithDesign
	for rows.Next() {
		var c models.CampaignWithDesign
		if err := rows.Scan(&c.ID, &c.DesignID, &c.OwnerUserID, &c.Title, &c.Description,
			&c.GoalAmount, &c.CurrentAmount, &c.ParticipantCount, &c.Status,
			&c.Deadline, &c.DeliveryDate, &c.ProductionNote, &c.DeletedAt,
			&c.CreatedAt, &c.UpdatedAt, &c.DesignName, &c.DesignThumbnail); err != nil {
			return nil, err
		}
		c.Progress = c.Campaign.Progress()
		feed = append(feed, c)
	}
	return feed, rows.Err()
}

func (r *CampaignRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE owner_user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// ListReminderCandidates returns open campaigns whose deadline falls
// within [now, now+window].
func (r *CampaignRepo) ListReminderCandidates(ctx context.Context, now, until time.Time) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status = $1 AND deleted_at IS NULL AND deadline >= $2 AND deadline <= $3
		ORDER BY deadline ASC
	`, models.CampaignStatusFunding, now, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// ListExpired returns open campaigns whose deadline is strictly before now.
func (r *CampaignRepo) ListExpired(ctx context.Context, now time.Time) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status = $1 AND deleted_at IS NULL AND deadline < $2
		ORDER BY deadline ASC
	`, models.CampaignStatusFunding, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
