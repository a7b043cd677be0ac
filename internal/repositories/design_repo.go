package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stitchfund/backend/internal/models"
)

type DesignRepo struct {
	pool *pgxpool.Pool
}

func NewDesignRepo(pool *pgxpool.Pool) *DesignRepo {
	return &DesignRepo{pool: pool}
}

func (r *DesignRepo) Create(ctx context.Context, d *models.Design) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO designs (owner_user_id, name, thumbnail_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, d.OwnerUserID, d.Name, d.ThumbnailURL).Scan(&d.ID, &d.CreatedAt)
}

func (r *DesignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	var d models.Design
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_user_id, name, thumbnail_url, liked_user_ids, created_at
		FROM designs WHERE id = $1
	`, id).Scan(&d.ID, &d.OwnerUserID, &d.Name, &d.ThumbnailURL, &d.LikedUserIDs, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetLikedUserIDs returns the users who liked the design backing a
// campaign. Used by the reminder sweep.
func (r *DesignRepo) GetLikedUserIDs(ctx context.Context, designID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT liked_user_ids FROM designs WHERE id = $1
	`, designID).Scan(&ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
