package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stitchfund/backend/internal/models"
)

type InvestmentRepo struct {
	pool *pgxpool.Pool
}

func NewInvestmentRepo(pool *pgxpool.Pool) *InvestmentRepo {
	return &InvestmentRepo{pool: pool}
}

// Create appends a ledger entry inside the funding transaction.
func (r *InvestmentRepo) Create(ctx context.Context, q Querier, inv *models.Investment) error {
	return q.QueryRow(ctx, `
		INSERT INTO investments (user_id, campaign_id, amount, prev_coins, post_coins)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, cancelled, created_at
	`, inv.UserID, inv.CampaignID, inv.Amount, inv.PrevCoins, inv.PostCoins,
	).Scan(&inv.ID, &inv.Cancelled, &inv.CreatedAt)
}

func (r *InvestmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	return r.getByID(ctx, r.pool, id, false)
}

// GetByIDForUpdate locks the ledger entry for the cancel transaction.
func (r *InvestmentRepo) GetByIDForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.Investment, error) {
	return r.getByID(ctx, q, id, true)
}

func (r *InvestmentRepo) getByID(ctx context.Context, q Querier, id uuid.UUID, forUpdate bool) (*models.Investment, error) {
	query := `
		SELECT id, user_id, campaign_id, amount, prev_coins, post_coins, cancelled, cancelled_at, created_at
		FROM investments WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var inv models.Investment
	err := q.QueryRow(ctx, query, id).Scan(&inv.ID, &inv.UserID, &inv.CampaignID,
		&inv.Amount, &inv.PrevCoins, &inv.PostCoins, &inv.Cancelled, &inv.CancelledAt, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// MarkCancelled flips the one-way cancellation flag.
func (r *InvestmentRepo) MarkCancelled(ctx context.Context, q Querier, id uuid.UUID) error {
	_, err := q.Exec(ctx, `
		UPDATE investments SET cancelled = true, cancelled_at = now() WHERE id = $1
	`, id)
	return err
}

func (r *InvestmentRepo) ListForCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Investment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, campaign_id, amount, prev_coins, post_coins, cancelled, cancelled_at, created_at
		FROM investments WHERE campaign_id = $1
		ORDER BY created_at DESC
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investments []models.Investment
	for rows.Next() {
		var inv models.Investment
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.CampaignID, &inv.Amount,
			&inv.PrevCoins, &inv.PostCoins, &inv.Cancelled, &inv.CancelledAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

// ListInvestorIDs returns the distinct investors of a campaign for
// notification fan-out.
func (r *InvestmentRepo) ListInvestorIDs(ctx context.Context, campaignID uuid.UUID, excludeCancelled bool) ([]uuid.UUID, error) {
	query := `SELECT DISTINCT user_id FROM investments WHERE campaign_id = $1`
	if excludeCancelled {
		query += ` AND cancelled = false`
	}
	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListForUser returns the caller's investments with campaign context,
// newest first. Cancelled entries are excluded unless requested.
func (r *InvestmentRepo) ListForUser(ctx context.Context, userID uuid.UUID, includeCancelled bool) ([]models.InvestmentWithCampaign, error) {
	query := `
		SELECT i.id, i.user_id, i.campaign_id, i.amount, i.prev_coins, i.post_coins,
		       i.cancelled, i.cancelled_at, i.created_at,
		       c.title, c.status, c.delivery_date
		FROM investments i
		JOIN campaigns c ON c.id = i.campaign_id
		WHERE i.user_id = $1`
	if !includeCancelled {
		query += ` AND i.cancelled = false`
	}
	query += ` ORDER BY i.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investments []models.InvestmentWithCampaign
	for rows.Next() {
		var inv models.InvestmentWithCampaign
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.CampaignID, &inv.Amount,
			&inv.PrevCoins, &inv.PostCoins, &inv.Cancelled, &inv.CancelledAt, &inv.CreatedAt,
			&inv.CampaignTitle, &inv.CampaignStatus, &inv.DeliveryDate); err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}
