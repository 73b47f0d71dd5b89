package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/opsdesk/internal/entity"
)

const remarkColumns = `id, cart_id, type, message, response, agent, status, priority, created_at`

type RemarkRepository struct {
	DB *sql.DB
}

func NewRemarkRepository(db *sql.DB) *RemarkRepository {
	return &RemarkRepository{DB: db}
}

func (r *RemarkRepository) Create(ctx context.Context, rm *entity.Remark) error {
	query := `
		INSERT INTO abandoned_cart_remarks (cart_id, type, message, response, agent, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		rm.CartID, rm.Type, rm.Message, rm.Response, rm.Agent, rm.Status, rm.Priority,
	).Scan(&rm.ID, &rm.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert remark: %w", err)
	}
	return nil
}

func (r *RemarkRepository) ListByCart(ctx context.Context, cartID string) ([]entity.Remark, error) {
	query := `SELECT ` + remarkColumns + ` FROM abandoned_cart_remarks
		WHERE cart_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	remarks := []entity.Remark{}
	for rows.Next() {
		rm, err := scanRemark(rows)
		if err != nil {
			return nil, err
		}
		remarks = append(remarks, *rm)
	}
	return remarks, rows.Err()
}

// ListByCarts loads the remarks of several carts in one round trip, grouped
// by cart id and ordered oldest first.
func (r *RemarkRepository) ListByCarts(ctx context.Context, cartIDs []string) (map[string][]entity.Remark, error) {
	out := make(map[string][]entity.Remark, len(cartIDs))
	if len(cartIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + remarkColumns + ` FROM abandoned_cart_remarks
		WHERE cart_id = ANY($1) ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(cartIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rm, err := scanRemark(rows)
		if err != nil {
			return nil, err
		}
		out[rm.CartID] = append(out[rm.CartID], *rm)
	}
	return out, rows.Err()
}

// LatestStatus returns the status of the most recent remark, nil when the
// cart has none.
func (r *RemarkRepository) LatestStatus(ctx context.Context, cartID string) (*string, error) {
	query := `SELECT status FROM abandoned_cart_remarks
		WHERE cart_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	var status sql.NullString
	err := r.DB.QueryRowContext(ctx, query, cartID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !status.Valid {
		return nil, nil
	}
	return &status.String, nil
}

func (r *RemarkRepository) Delete(ctx context.Context, cartID string, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM abandoned_cart_remarks WHERE id = $1 AND cart_id = $2`, id, cartID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

var remarkFields = map[string]bool{"status": true, "priority": true}

func (r *RemarkRepository) UpdateField(ctx context.Context, id int64, field, value string) (*entity.Remark, error) {
	if !remarkFields[field] {
		return nil, fmt.Errorf("field %q is not updatable", field)
	}
	query := fmt.Sprintf(`UPDATE abandoned_cart_remarks SET %s = $1 WHERE id = $2 RETURNING `+remarkColumns,
		pq.QuoteIdentifier(field))
	rm, err := scanRemark(r.DB.QueryRowContext(ctx, query, value, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	return rm, err
}

func scanRemark(row rowScanner) (*entity.Remark, error) {
	var (
		rm                                entity.Remark
		response, agent, status, priority sql.NullString
	)
	err := row.Scan(&rm.ID, &rm.CartID, &rm.Type, &rm.Message, &response, &agent, &status, &priority, &rm.CreatedAt)
	if err != nil {
		return nil, err
	}
	rm.Response = ptrString(response)
	rm.Agent = ptrString(agent)
	rm.Status = ptrString(status)
	rm.Priority = ptrString(priority)
	return &rm, nil
}

func ptrString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
