package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/opsdesk/internal/entity"
)

const templateColumns = `id, type, name, text, category, "isStarred", "usageCount", "lastUsed"`

// templateColumnNames maps JSON keys to the quoted camelCase columns.
var templateColumnNames = map[string]string{
	"name":       "name",
	"text":       "text",
	"category":   "category",
	"isStarred":  "isStarred",
	"usageCount": "usageCount",
}

type TemplateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

func (r *TemplateRepository) List(ctx context.Context, f entity.TemplateFilter) ([]entity.Template, error) {
	var (
		where []string
		args  []any
	)
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Starred != nil {
		args = append(args, *f.Starred)
		where = append(where, fmt.Sprintf(`"isStarred" = $%d`, len(args)))
	}

	query := `SELECT ` + templateColumns + ` FROM templates`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []entity.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) FindByID(ctx context.Context, id int64) (*entity.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = $1`
	t, err := scanTemplate(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	return t, err
}

func (r *TemplateRepository) Create(ctx context.Context, t *entity.Template) error {
	query := `
		INSERT INTO templates (type, name, text, category, "isStarred", "usageCount")
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		t.Type, t.Name, t.Text, t.Category, t.IsStarred, t.UsageCount,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) Update(ctx context.Context, id int64, fields map[string]any) (*entity.Template, error) {
	if len(fields) == 0 {
		return nil, errors.New("no fields to update")
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := templateColumnNames[k]; !ok {
			return nil, fmt.Errorf("unknown template column %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(templateColumnNames[k]), i+1))
		args = append(args, fields[k])
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE templates SET %s WHERE id = $%d RETURNING `+templateColumns,
		strings.Join(sets, ", "), len(args))

	t, err := scanTemplate(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	return t, err
}

func (r *TemplateRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *TemplateRepository) RecordUsage(ctx context.Context, id int64, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE templates SET "usageCount" = "usageCount" + 1, "lastUsed" = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func scanTemplate(row rowScanner) (*entity.Template, error) {
	var (
		t        entity.Template
		typ      string
		lastUsed sql.NullTime
	)
	err := row.Scan(&t.ID, &typ, &t.Name, &t.Text, &t.Category, &t.IsStarred, &t.UsageCount, &lastUsed)
	if err != nil {
		return nil, err
	}
	t.Type = entity.TemplateType(typ)
	if lastUsed.Valid {
		t.LastUsed = &lastUsed.Time
	}
	return &t, nil
}
