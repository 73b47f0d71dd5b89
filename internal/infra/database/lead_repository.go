package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/xavierca1/opsdesk/internal/entity"
)

const leadColumns = `id, name, email, phone, source, product, status, value, quantity, notes,
	to_char(createdat, 'YYYY-MM-DD'), mysql_id, updated_at`

// leadColumnNames lists the columns a partial update may touch.
var leadColumnNames = map[string]bool{
	"name": true, "email": true, "phone": true, "source": true, "product": true,
	"status": true, "value": true, "quantity": true, "notes": true, "createdat": true,
	"mysql_id": true,
}

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY createdat DESC, updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) FindByMySQLID(ctx context.Context, mysqlID string) (*entity.Lead, error) {
	return r.findOne(ctx, `mysql_id = $1`, mysqlID)
}

func (r *LeadRepository) findOne(ctx context.Context, where string, arg any) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + where
	l, err := scanLead(r.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	return l, err
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, phone, source, product, status, value, quantity, notes, createdat, mysql_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE(NULLIF($11, '')::date, CURRENT_DATE), $12, NOW())
		RETURNING to_char(createdat, 'YYYY-MM-DD'), updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		l.ID, l.Name, l.Email, l.Phone, l.Source, l.Product, l.Status,
		l.Value, l.Quantity, l.Notes, l.CreatedAt, l.MySQLID,
	).Scan(&l.CreatedAt, &l.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return entity.ErrDuplicateMySQLID
	}
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// Update applies a partial update. Keys outside the lead columns are
// rejected before any SQL is built.
func (r *LeadRepository) Update(ctx context.Context, id string, fields map[string]any) (*entity.Lead, error) {
	if len(fields) == 0 {
		return nil, errors.New("no fields to update")
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if !leadColumnNames[name] {
			return nil, fmt.Errorf("unknown lead column %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names)+1)
	args := make([]any, 0, len(names)+1)
	for i, name := range names {
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(name), i+1))
		args = append(args, fields[name])
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING `+leadColumns,
		strings.Join(sets, ", "), len(args))

	l, err := scanLead(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	return l, err
}

func (r *LeadRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l        entity.Lead
		quantity sql.NullInt64
		mysqlID  sql.NullString
	)
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Source, &l.Product, &l.Status,
		&l.Value, &quantity, &l.Notes, &l.CreatedAt, &mysqlID, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if quantity.Valid {
		q := int(quantity.Int64)
		l.Quantity = &q
	}
	l.MySQLID = ptrString(mysqlID)
	return &l, nil
}
