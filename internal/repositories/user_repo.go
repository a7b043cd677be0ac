package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stitchfund/backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, username, coins)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, last_active_at
	`, u.Email, u.PasswordHash, u.Username, u.Coins,
	).Scan(&u.ID, &u.CreatedAt, &u.LastActiveAt)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, username, coins, created_at, last_active_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Username, &u.Coins, &u.CreatedAt, &u.LastActiveAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, username, coins, created_at, last_active_at
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Username, &u.Coins, &u.CreatedAt, &u.LastActiveAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UpdateLastActive(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_active_at = $1 WHERE id = $2`, time.Now(), id)
	return err
}

// GetCoinsForUpdate locks the account row for the rest of the
// transaction and returns the current balance.
func (r *UserRepo) GetCoinsForUpdate(ctx context.Context, q Querier, id uuid.UUID) (int64, error) {
	var coins int64
	err := q.QueryRow(ctx, `SELECT coins FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&coins)
	return coins, err
}

// DebitCoins decrements the balance with a sufficient-funds guard.
// Returns the post-debit balance; ok is false when the guard rejected
// the debit (or the user does not exist).
func (r *UserRepo) DebitCoins(ctx context.Context, q Querier, id uuid.UUID, amount int64) (int64, bool, error) {
	var post int64
	err := q.QueryRow(ctx, `
		UPDATE users SET coins = coins - $1
		WHERE id = $2 AND coins >= $1
		RETURNING coins
	`, amount, id).Scan(&post)
	if err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return post, true, nil
}

// CreditCoins increments the balance and returns the new value.
func (r *UserRepo) CreditCoins(ctx context.Context, q Querier, id uuid.UUID, amount int64) (int64, error) {
	var post int64
	err := q.QueryRow(ctx, `
		UPDATE users SET coins = coins + $1 WHERE id = $2
		RETURNING coins
	`, amount, id).Scan(&post)
	return post, err
}
