package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
)

// Amount accepts a JSON number or a numeric string. Anything unparsable
// becomes 0.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount(parseAmount(decodeLoose(b)))
	return nil
}

// Quantity accepts a JSON number or a numeric string. A non-empty value that
// does not parse becomes 1. Zero means the field was blank.
type Quantity int

func (q *Quantity) UnmarshalJSON(b []byte) error {
	v := decodeLoose(b)
	if s, ok := v.(string); v == nil || ok && strings.TrimSpace(s) == "" {
		*q = 0
		return nil
	}
	*q = Quantity(parseQuantity(v))
	return nil
}

func decodeLoose(b []byte) any {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	return v
}

func parseAmount(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// parseQuantity reads the integer prefix the way a lenient form parser does.
func parseQuantity(v any) int {
	switch x := v.(type) {
	case float64:
		if int(x) == 0 {
			return 1
		}
		return int(x)
	case string:
		s := strings.TrimSpace(x)
		end := 0
		for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
			end++
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil || n == 0 {
			return 1
		}
		return n
	}
	return 1
}

type CreateLeadInput struct {
	Name      string    `json:"name" validate:"notblank,max=200"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Phone     string    `json:"phone"`
	Source    string    `json:"source" validate:"omitempty,oneof=Website Phone WhatsApp Other MySQL"`
	Product   string    `json:"product"`
	Status    string    `json:"status" validate:"omitempty,lead_status"`
	Value     Amount    `json:"value"`
	Quantity  *Quantity `json:"quantity"`
	Notes     string    `json:"notes"`
	CreatedAt string    `json:"createdat"`
	MySQLID   *string   `json:"mysql_id"`
}

type LeadFilter struct {
	Query  string
	Status string
	Source string
	Start  *time.Time
	End    *time.Time
}

type LeadStats struct {
	TotalLeads     int     `json:"totalLeads"`
	NewLeads       int     `json:"newLeads"`
	TotalValue     float64 `json:"totalValue"`
	ConversionRate float64 `json:"conversionRate"`
}

type LeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Legacy entity.LegacyLeadRepositoryInterface
	Logger *zap.Logger
}

// NewLeadUseCase wires the primary store and, when configured, the legacy
// enquiry store. legacy may be nil.
func NewLeadUseCase(repo entity.LeadRepositoryInterface, legacy entity.LegacyLeadRepositoryInterface, logger *zap.Logger) *LeadUseCase {
	return &LeadUseCase{Repo: repo, Legacy: legacy, Logger: logger.Named("leads")}
}

func (uc *LeadUseCase) List(ctx context.Context) ([]entity.Lead, error) {
	leads, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, dbError("failed to list leads", err)
	}
	return leads, nil
}

// Create inserts a lead. When mysql_id is already linked to a lead, that
// lead is returned with created=false.
func (uc *LeadUseCase) Create(ctx context.Context, in CreateLeadInput) (*entity.Lead, bool, error) {
	if err := validateInput(in); err != nil {
		return nil, false, err
	}

	if in.MySQLID != nil && *in.MySQLID != "" {
		existing, err := uc.Repo.FindByMySQLID(ctx, *in.MySQLID)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, entity.ErrNotFound) {
			return nil, false, dbError("failed to look up lead", err)
		}
	}

	lead := entity.NewLead(strings.TrimSpace(in.Name))
	lead.Email = in.Email
	lead.Phone = in.Phone
	lead.Product = in.Product
	lead.Value = float64(in.Value)
	lead.Notes = in.Notes
	if in.Source != "" {
		lead.Source = in.Source
	}
	if in.Status != "" {
		lead.Status = in.Status
	}
	if in.Quantity != nil && *in.Quantity != 0 {
		q := int(*in.Quantity)
		lead.Quantity = &q
	}
	if in.CreatedAt != "" {
		d, err := entity.ParseDate(in.CreatedAt)
		if err != nil {
			return nil, false, invalid("createdat must be a date (YYYY-MM-DD)")
		}
		lead.CreatedAt = d.String()
	}
	if in.MySQLID != nil && *in.MySQLID != "" {
		lead.MySQLID = in.MySQLID
	}

	err := uc.Repo.Create(ctx, lead)
	if errors.Is(err, entity.ErrDuplicateMySQLID) && lead.MySQLID != nil {
		// lost a race with another promotion of the same legacy lead
		existing, ferr := uc.Repo.FindByMySQLID(ctx, *lead.MySQLID)
		if ferr != nil {
			return nil, false, dbError("failed to load existing lead", ferr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, dbError("failed to create lead", err)
	}

	uc.Logger.Info("✅ lead created", zap.String("lead_id", lead.ID), zap.String("source", lead.Source))
	return lead, true, nil
}

// Update applies a partial update. Legacy ids are promoted into the primary
// store first and the update lands on the promoted row.
func (uc *LeadUseCase) Update(ctx context.Context, id string, raw map[string]any) (*entity.Lead, error) {
	fields, err := normalizeLeadFields(raw)
	if err != nil {
		return nil, err
	}

	targetID := id
	if !entity.IsPrimaryLeadID(id) {
		promoted, err := uc.promote(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			return promoted, nil
		}
		targetID = promoted.ID
	}

	if len(fields) == 0 {
		return nil, invalid("no fields to update")
	}

	lead, err := uc.Repo.Update(ctx, targetID, fields)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("lead not found")
	}
	if err != nil {
		return nil, dbError("failed to update lead", err)
	}
	return lead, nil
}

// promote copies a legacy enquiry into the primary store, reusing an earlier
// promotion of the same row.
func (uc *LeadUseCase) promote(ctx context.Context, legacyID string) (*entity.Lead, error) {
	existing, err := uc.Repo.FindByMySQLID(ctx, legacyID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, dbError("failed to look up lead", err)
	}

	n, perr := strconv.ParseInt(legacyID, 10, 64)
	if perr != nil || uc.Legacy == nil {
		return nil, notFound("lead not found")
	}
	legacy, err := uc.Legacy.FindByID(ctx, n)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("lead not found")
	}
	if err != nil {
		return nil, dbError("failed to read legacy lead", err)
	}

	src := legacy.ToLead()
	in := CreateLeadInput{
		Name:      firstNonBlank(src.Name, src.Email, src.Phone, "Unknown"),
		Email:     src.Email,
		Phone:     src.Phone,
		Source:    entity.LeadSourceWebsite,
		Product:   src.Product,
		Status:    src.Status,
		Notes:     src.Notes,
		CreatedAt: src.CreatedAt,
		MySQLID:   &legacyID,
	}
	if src.Quantity != nil {
		q := Quantity(*src.Quantity)
		in.Quantity = &q
	}
	if in.Email != "" && validate.Var(in.Email, "email") != nil {
		in.Email = ""
		in.Notes = strings.TrimSpace(in.Notes + "\nemail: " + src.Email)
	}

	lead, _, err := uc.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	uc.Logger.Info("⬆️ legacy lead promoted", zap.String("mysql_id", legacyID), zap.String("lead_id", lead.ID))
	return lead, nil
}

func (uc *LeadUseCase) Delete(ctx context.Context, id string) error {
	if !entity.IsPrimaryLeadID(id) {
		return notFound("lead not found")
	}
	ok, err := uc.Repo.Delete(ctx, id)
	if err != nil {
		return dbError("failed to delete lead", err)
	}
	if !ok {
		return notFound("lead not found")
	}
	return nil
}

func (uc *LeadUseCase) ListLegacy(ctx context.Context) ([]entity.Lead, error) {
	if uc.Legacy == nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "legacy lead database is not configured"}
	}
	rows, err := uc.Legacy.List(ctx)
	if err != nil {
		return nil, dbError("failed to fetch leads from MySQL", err)
	}
	leads := make([]entity.Lead, 0, len(rows))
	for i := range rows {
		leads = append(leads, rows[i].ToLead())
	}
	return leads, nil
}

// Merged returns primary and legacy leads as one list, newest first. Legacy
// rows already promoted (matched by mysql_id) are hidden and the rest are
// shown as Website leads. A failing legacy store only drops its rows.
func (uc *LeadUseCase) Merged(ctx context.Context, f LeadFilter) ([]entity.Lead, error) {
	primary, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}

	var legacy []entity.Lead
	if uc.Legacy != nil {
		legacy, err = uc.ListLegacy(ctx)
		if err != nil {
			uc.Logger.Warn("⚠️ legacy leads unavailable", zap.Error(err))
			legacy = nil
		}
	}

	merged := MergeLeads(primary, legacy)
	out := merged[:0]
	for _, l := range merged {
		if matchesLead(l, f) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (uc *LeadUseCase) Stats(ctx context.Context) (*LeadStats, error) {
	leads, err := uc.Merged(ctx, LeadFilter{})
	if err != nil {
		return nil, err
	}
	stats := ComputeLeadStats(leads)
	return &stats, nil
}

// MergeLeads combines both stores. Legacy rows whose id is some primary
// lead's mysql_id are dropped.
func MergeLeads(primary, legacy []entity.Lead) []entity.Lead {
	linked := make(map[string]bool, len(primary))
	for _, l := range primary {
		if l.MySQLID != nil && *l.MySQLID != "" {
			linked[*l.MySQLID] = true
		}
	}

	merged := make([]entity.Lead, 0, len(primary)+len(legacy))
	merged = append(merged, primary...)
	for _, l := range legacy {
		if linked[l.ID] {
			continue
		}
		l.Source = entity.LeadSourceWebsite
		merged = append(merged, l)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return leadTime(merged[i]).After(leadTime(merged[j]))
	})
	return merged
}

func ComputeLeadStats(leads []entity.Lead) LeadStats {
	s := LeadStats{TotalLeads: len(leads)}
	won := 0
	for _, l := range leads {
		s.TotalValue += l.Value
		switch l.Status {
		case entity.LeadStatusNew:
			s.NewLeads++
		case entity.LeadStatusClosedWon:
			won++
		}
	}
	s.ConversionRate = percent(won, s.TotalLeads)
	return s
}

func leadTime(l entity.Lead) time.Time {
	d, err := entity.ParseDate(l.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return d.Time
}

func matchesLead(l entity.Lead, f LeadFilter) bool {
	if f.Status != "" && f.Status != "all" && l.Status != f.Status {
		return false
	}
	if f.Source != "" && f.Source != "all" && l.Source != f.Source {
		return false
	}
	if f.Start != nil || f.End != nil {
		t := leadTime(l)
		if f.Start != nil && t.Before(entity.NewDate(*f.Start).Time) {
			return false
		}
		if f.End != nil && t.After(entity.NewDate(*f.End).Time) {
			return false
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{l.Name, l.Email, l.Phone, l.Product, l.Notes} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// normalizeLeadFields turns a decoded JSON body into column updates.
func normalizeLeadFields(raw map[string]any) (map[string]any, error) {
	fields := make(map[string]any, len(raw))
	for key, v := range raw {
		switch key {
		case "id":
			continue
		case "value":
			fields[key] = parseAmount(v)
		case "quantity":
			if s, ok := v.(string); v == nil || ok && strings.TrimSpace(s) == "" {
				fields[key] = nil
				continue
			}
			fields[key] = parseQuantity(v)
		case "status":
			s, _ := v.(string)
			if !validLeadStatus(s) {
				return nil, invalid("status must be one of " + strings.Join(entity.LeadStatuses, ", "))
			}
			fields[key] = s
		case "createdat":
			s, _ := v.(string)
			d, err := entity.ParseDate(s)
			if err != nil {
				return nil, invalid("createdat must be a date (YYYY-MM-DD)")
			}
			fields[key] = d.String()
		case "name", "email", "phone", "source", "product", "notes":
			s, ok := v.(string)
			if !ok && v != nil {
				return nil, invalid(fmt.Sprintf("%s must be a string", key))
			}
			if key == "name" && strings.TrimSpace(s) == "" {
				return nil, invalid("name: is required")
			}
			fields[key] = s
		default:
			return nil, &DomainError{Code: CodeInvalidField, Message: fmt.Sprintf("field %q cannot be updated", key)}
		}
	}
	return fields, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
