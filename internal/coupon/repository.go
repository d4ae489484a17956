package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no matching coupon exists.
var ErrNotFound = errors.New("coupon not found")

// Repository persists coupons.
type Repository interface {
	ActiveByUser(ctx context.Context, userID string) (Coupon, error)
	ByCodeAndUser(ctx context.Context, code, userID string) (Coupon, error)
	Deactivate(ctx context.Context, code, userID string) error
	Replace(ctx context.Context, c Coupon) error
}

const couponColumns = `code, user_id, discount_percent, expires_at, active, created_at`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed coupon repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ActiveByUser(ctx context.Context, userID string) (Coupon, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Coupon{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE user_id = $1 AND active`, uid)
	return scanCoupon(row)
}

func (r *PostgresRepository) ByCodeAndUser(ctx context.Context, code, userID string) (Coupon, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Coupon{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1 AND user_id = $2 AND active`, code, uid)
	return scanCoupon(row)
}

func (r *PostgresRepository) Deactivate(ctx context.Context, code, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE coupons SET active = FALSE WHERE code = $1 AND user_id = $2`, code, uid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Replace drops any prior coupon for the user and inserts the new one,
// preserving the one-active-coupon invariant.
func (r *PostgresRepository) Replace(ctx context.Context, c Coupon) error {
	uid, err := uuid.Parse(c.UserID)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM coupons WHERE user_id = $1`, uid); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO coupons (code, user_id, discount_percent, expires_at, active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, c.Code, uid, c.DiscountPercent, c.ExpiresAt.UTC(), c.Active, c.CreatedAt.UTC()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanCoupon(row pgx.Row) (Coupon, error) {
	var (
		uid       uuid.UUID
		expires   time.Time
		createdAt time.Time
		c         Coupon
	)
	if err := row.Scan(&c.Code, &uid, &c.DiscountPercent, &expires, &c.Active, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Coupon{}, ErrNotFound
		}
		return Coupon{}, err
	}
	c.UserID = uid.String()
	c.ExpiresAt = expires.UTC()
	c.CreatedAt = createdAt.UTC()
	return c, nil
}
