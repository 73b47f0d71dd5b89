package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/opsdesk/internal/entity"
)

// LegacyLeadRepository reads bulk-order enquiries from the legacy MySQL
// site database. It never writes.
type LegacyLeadRepository struct {
	DB *sql.DB
}

func NewLegacyLeadRepository(db *sql.DB) *LegacyLeadRepository {
	return &LegacyLeadRepository{DB: db}
}

const legacyLeadColumns = `id, full_name, email_address, contact_number, product_name,
	quantity_required, message, created_date`

func (r *LegacyLeadRepository) List(ctx context.Context) ([]entity.LegacyLead, error) {
	query := `SELECT ` + legacyLeadColumns + ` FROM form_bulk_order_enq ORDER BY created_date DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []entity.LegacyLead{}
	for rows.Next() {
		l, err := scanLegacyLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

func (r *LegacyLeadRepository) FindByID(ctx context.Context, id int64) (*entity.LegacyLead, error) {
	query := `SELECT ` + legacyLeadColumns + ` FROM form_bulk_order_enq WHERE id = ?`
	l, err := scanLegacyLead(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	return l, err
}

func scanLegacyLead(row rowScanner) (*entity.LegacyLead, error) {
	var (
		l                                    entity.LegacyLead
		name, email, phone, product, message sql.NullString
		quantity                             sql.NullInt64
		created                              sql.NullTime
	)
	err := row.Scan(&l.ID, &name, &email, &phone, &product, &quantity, &message, &created)
	if err != nil {
		return nil, err
	}
	l.FullName = name.String
	l.EmailAddress = email.String
	l.ContactNumber = phone.String
	l.ProductName = product.String
	l.Message = message.String
	if quantity.Valid {
		q := int(quantity.Int64)
		l.QuantityRequired = &q
	}
	if created.Valid {
		l.CreatedDate = &created.Time
	}
	return &l, nil
}
