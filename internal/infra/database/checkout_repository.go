package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/opsdesk/internal/entity"
)

const checkoutColumns = `id, created_at, updated_at, customer, COALESCE(email, ''), COALESCE(phone, ''),
	cart_value, items, raw, COALESCE(checkout_url, ''), status, priority`

const upsertCheckoutSQL = `
	INSERT INTO abandoned_checkouts (
		id, created_at, updated_at, customer, email, phone, cart_value, items, raw, checkout_url
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		created_at   = EXCLUDED.created_at,
		updated_at   = EXCLUDED.updated_at,
		customer     = EXCLUDED.customer,
		email        = EXCLUDED.email,
		phone        = EXCLUDED.phone,
		cart_value   = EXCLUDED.cart_value,
		items        = EXCLUDED.items,
		raw          = EXCLUDED.raw,
		checkout_url = EXCLUDED.checkout_url
`

type CheckoutRepository struct {
	DB *sql.DB
}

func NewCheckoutRepository(db *sql.DB) *CheckoutRepository {
	return &CheckoutRepository{DB: db}
}

// Upsert inserts the checkout or refreshes the platform-owned columns of an
// existing row. status and priority belong to staff and are never touched.
func (r *CheckoutRepository) Upsert(ctx context.Context, c *entity.Checkout) error {
	_, err := r.DB.ExecContext(ctx, upsertCheckoutSQL,
		c.ID,
		c.CreatedAt,
		c.UpdatedAt,
		jsonArg(c.Customer),
		nullString(c.Email),
		nullString(c.Phone),
		c.CartValue,
		jsonArg(c.Items),
		jsonArg(c.Raw),
		nullString(c.CheckoutURL),
	)
	if err != nil {
		return fmt.Errorf("upsert checkout %d: %w", c.ID, err)
	}
	return nil
}

func (r *CheckoutRepository) LatestCreatedAt(ctx context.Context) (*time.Time, error) {
	var latest sql.NullTime
	err := r.DB.QueryRowContext(ctx, `SELECT MAX(created_at) FROM abandoned_checkouts`).Scan(&latest)
	if err != nil {
		return nil, err
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

func (r *CheckoutRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM abandoned_checkouts`).Scan(&total)
	return total, err
}

func (r *CheckoutRepository) FindByID(ctx context.Context, id int64) (*entity.Checkout, error) {
	query := `SELECT ` + checkoutColumns + ` FROM abandoned_checkouts WHERE id = $1`
	c, err := scanCheckout(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	return c, err
}

func (r *CheckoutRepository) ListBetween(ctx context.Context, f entity.CheckoutFilter) ([]*entity.Checkout, error) {
	query := `SELECT ` + checkoutColumns + ` FROM abandoned_checkouts
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, f.Start, f.End)
	if err != nil {
		return nil, err
	}
	return collectCheckouts(rows)
}

func (r *CheckoutRepository) ListPage(ctx context.Context, limit, offset int) ([]*entity.Checkout, error) {
	query := `SELECT ` + checkoutColumns + ` FROM abandoned_checkouts
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectCheckouts(rows)
}

var checkoutFields = map[string]bool{"status": true, "priority": true}

// UpdateField sets one of the staff-owned columns and returns the new row.
func (r *CheckoutRepository) UpdateField(ctx context.Context, id int64, field, value string) (*entity.Checkout, error) {
	if !checkoutFields[field] {
		return nil, fmt.Errorf("field %q is not updatable", field)
	}
	query := fmt.Sprintf(`UPDATE abandoned_checkouts SET %s = $1 WHERE id = $2 RETURNING `+checkoutColumns,
		pq.QuoteIdentifier(field))
	c, err := scanCheckout(r.DB.QueryRowContext(ctx, query, value, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	return c, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckout(row rowScanner) (*entity.Checkout, error) {
	var (
		c                    entity.Checkout
		customer, items, raw []byte
		status, priority     string
	)
	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &customer, &c.Email, &c.Phone,
		&c.CartValue, &items, &raw, &c.CheckoutURL, &status, &priority)
	if err != nil {
		return nil, err
	}
	c.Customer, c.Items, c.Raw = customer, items, raw
	c.Status = entity.CartStatus(status)
	c.Priority = entity.Priority(priority)
	return &c, nil
}

func collectCheckouts(rows *sql.Rows) ([]*entity.Checkout, error) {
	defer rows.Close()
	var out []*entity.Checkout
	for rows.Next() {
		c, err := scanCheckout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// jsonArg passes raw JSON as text so pgx casts it into the JSONB column.
func jsonArg(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
