package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists orders and answers sales aggregates.
type Repository interface {
	Create(ctx context.Context, o Order) error
	BySession(ctx context.Context, sessionID string) (Order, bool, error)
	Totals(ctx context.Context) (Totals, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailyStat, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed order repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the order header and its lines in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, o Order) error {
	orderID, err := uuid.Parse(o.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(o.UserID)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, `INSERT INTO orders (id, user_id, total_cents, session_id, created_at)
        VALUES ($1, $2, $3, $4, $5)`, orderID, userID, o.TotalCents, o.SessionID, o.CreatedAt.UTC()); err != nil {
		return err
	}
	for _, line := range o.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO order_items (order_id, product_id, quantity, price_cents)
            VALUES ($1, $2, $3, $4)`, orderID, productID, line.Quantity, line.PriceCents); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// BySession looks up an order by checkout session, used to keep checkout
// completion idempotent.
func (r *PostgresRepository) BySession(ctx context.Context, sessionID string) (Order, bool, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, total_cents, session_id, created_at FROM orders WHERE session_id = $1`, sessionID)
	var (
		id        uuid.UUID
		userID    uuid.UUID
		o         Order
		createdAt time.Time
	)
	if err := row.Scan(&id, &userID, &o.TotalCents, &o.SessionID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, false, nil
		}
		return Order{}, false, err
	}
	o.ID = id.String()
	o.UserID = userID.String()
	o.CreatedAt = createdAt.UTC()

	rows, err := r.db.Query(ctx, `SELECT product_id, quantity, price_cents FROM order_items WHERE order_id = $1`, id)
	if err != nil {
		return Order{}, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			productID uuid.UUID
			line      Line
		)
		if err := rows.Scan(&productID, &line.Quantity, &line.PriceCents); err != nil {
			return Order{}, false, err
		}
		line.ProductID = productID.String()
		o.Lines = append(o.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return Order{}, false, err
	}
	return o, true, nil
}

// Totals returns the all-time order count and revenue.
func (r *PostgresRepository) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(total_cents), 0) FROM orders`).Scan(&t.Sales, &t.RevenueCents); err != nil {
		return Totals{}, err
	}
	return t, nil
}

// DailySales groups orders by calendar day within [from, to].
func (r *PostgresRepository) DailySales(ctx context.Context, from, to time.Time) ([]DailyStat, error) {
	rows, err := r.db.Query(ctx, `
        SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*), COALESCE(SUM(total_cents), 0)
        FROM orders
        WHERE created_at BETWEEN $1 AND $2
        GROUP BY day
        ORDER BY day`, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []DailyStat
	for rows.Next() {
		var s DailyStat
		if err := rows.Scan(&s.Date, &s.Sales, &s.RevenueCents); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
