package entity

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	LeadStatusNew       = "New"
	LeadStatusClosedWon = "Closed Won"
	LeadStatusImported  = "Imported"

	LeadSourceWebsite = "Website"
	LeadSourceMySQL   = "MySQL"
)

var LeadStatuses = []string{"New", "Contacted", "Qualified", "Proposal Sent", "Closed Won", "Closed Lost"}

type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Source    string    `json:"source"`
	Product   string    `json:"product"` // semicolon separated
	Status    string    `json:"status"`
	Value     float64   `json:"value"`
	Quantity  *int      `json:"quantity,omitempty"`
	Notes     string    `json:"notes"`
	CreatedAt string    `json:"createdat"` // YYYY-MM-DD
	MySQLID   *string   `json:"mysql_id,omitempty"`
	UpdatedAt time.Time `json:"-"`
}

func NewLead(name string) *Lead {
	return &Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Source:    LeadSourceWebsite,
		Status:    LeadStatusNew,
		CreatedAt: time.Now().Format(time.DateOnly),
		UpdatedAt: time.Now(),
	}
}

// Products splits the stored product string, dropping blanks.
func (l *Lead) Products() []string {
	var out []string
	for _, p := range strings.Split(l.Product, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsPrimaryLeadID reports whether the id belongs to the primary store. Legacy
// leads carry the numeric id of the enquiry table.
func IsPrimaryLeadID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// LegacyLead is a row of the form_bulk_order_enq table.
type LegacyLead struct {
	ID               int64
	FullName         string
	EmailAddress     string
	ContactNumber    string
	ProductName      string
	QuantityRequired *int
	Message          string
	CreatedDate      *time.Time
}

// ToLead synthesises the Lead shape used by the primary store.
func (l *LegacyLead) ToLead() Lead {
	lead := Lead{
		ID:       strconv.FormatInt(l.ID, 10),
		Name:     l.FullName,
		Email:    l.EmailAddress,
		Phone:    l.ContactNumber,
		Source:   LeadSourceMySQL,
		Product:  l.ProductName,
		Status:   LeadStatusImported,
		Quantity: l.QuantityRequired,
		Notes:    l.Message,
	}
	if l.CreatedDate != nil {
		lead.CreatedAt = l.CreatedDate.UTC().Format(time.DateOnly)
	}
	return lead
}

type LeadRepositoryInterface interface {
	List(ctx context.Context) ([]Lead, error)
	FindByMySQLID(ctx context.Context, mysqlID string) (*Lead, error)
	Create(ctx context.Context, lead *Lead) error
	Update(ctx context.Context, id string, fields map[string]any) (*Lead, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type LegacyLeadRepositoryInterface interface {
	List(ctx context.Context) ([]LegacyLead, error)
	FindByID(ctx context.Context, id int64) (*LegacyLead, error)
}
