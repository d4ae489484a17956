package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrLineNotFound is returned when the cart has no row for the product.
var ErrLineNotFound = errors.New("cart line not found")

// Repository persists cart lines per user.
type Repository interface {
	List(ctx context.Context, userID string) ([]Line, error)
	Increment(ctx context.Context, userID, productID string) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed cart repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]Line, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY added_at`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var (
			pid  uuid.UUID
			line Line
		)
		if err := rows.Scan(&pid, &line.Quantity); err != nil {
			return nil, err
		}
		line.ProductID = pid.String()
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *PostgresRepository) Increment(ctx context.Context, userID, productID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO cart_items (user_id, product_id, quantity, added_at)
        VALUES ($1, $2, 1, now())
        ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_items.quantity + 1`, uid, pid)
	return err
}

func (r *PostgresRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return ErrLineNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE cart_items SET quantity = $1 WHERE user_id = $2 AND product_id = $3`, quantity, uid, pid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, productID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return ErrLineNotFound
	}
	_, err = r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, uid, pid)
	return err
}

func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, uid)
	return err
}
