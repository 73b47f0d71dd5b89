package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/opsdesk/internal/entity"
)

const callRecordColumns = `id, date, customer_name, mobile_number, remark, call_for, remarks, status`

type CallRecordRepository struct {
	DB *sql.DB
}

func NewCallRecordRepository(db *sql.DB) *CallRecordRepository {
	return &CallRecordRepository{DB: db}
}

func (r *CallRecordRepository) List(ctx context.Context, f entity.CallRecordFilter) ([]entity.CallRecord, error) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(f.Search); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(customer_name ILIKE $%d OR mobile_number ILIKE $%d OR remark ILIKE $%d OR call_for ILIKE $%d)", n, n, n, n))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := `SELECT ` + callRecordColumns + ` FROM call_records`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []entity.CallRecord{}
	for rows.Next() {
		var rec entity.CallRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.CustomerName, &rec.MobileNumber,
			&rec.Remark, &rec.CallFor, &rec.Remarks, &rec.Status); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *CallRecordRepository) Create(ctx context.Context, rec *entity.CallRecord) error {
	query := `
		INSERT INTO call_records (date, customer_name, mobile_number, remark, call_for, remarks, status)
		VALUES (COALESCE($1, CURRENT_DATE), $2, $3, $4, $5, $6, $7)
		RETURNING id, date
	`
	err := r.DB.QueryRowContext(ctx, query,
		rec.Date, rec.CustomerName, rec.MobileNumber, rec.Remark, rec.CallFor, rec.Remarks, rec.Status,
	).Scan(&rec.ID, &rec.Date)
	if err != nil {
		return fmt.Errorf("insert call record: %w", err)
	}
	return nil
}

// Update overwrites the record and fills rec.Date with the stored date, which
// is kept when rec.Date is zero.
func (r *CallRecordRepository) Update(ctx context.Context, rec *entity.CallRecord) (bool, error) {
	query := `
		UPDATE call_records SET
			date = COALESCE($1, date),
			customer_name = $2,
			mobile_number = $3,
			remark = $4,
			call_for = $5,
			remarks = $6,
			status = $7
		WHERE id = $8
		RETURNING date
	`
	err := r.DB.QueryRowContext(ctx, query,
		rec.Date, rec.CustomerName, rec.MobileNumber, rec.Remark, rec.CallFor, rec.Remarks, rec.Status, rec.ID,
	).Scan(&rec.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *CallRecordRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM call_records WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
