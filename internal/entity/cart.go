package entity

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type CartStatus string

const (
	CartStatusPending    CartStatus = "pending"
	CartStatusInProgress CartStatus = "in-progress"
	CartStatusCompleted  CartStatus = "completed"
	CartStatusFailed     CartStatus = "failed"
)

func (s CartStatus) Valid() bool {
	switch s {
	case CartStatusPending, CartStatusInProgress, CartStatusCompleted, CartStatusFailed:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Checkout is one row of abandoned_checkouts: the commerce platform's
// document plus the two staff-owned columns (status, priority).
type Checkout struct {
	ID          int64           `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Customer    json.RawMessage `json:"customer,omitempty"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	CartValue   float64         `json:"cart_value"`
	Items       json.RawMessage `json:"items,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
	CheckoutURL string          `json:"checkout_url"`
	Status      CartStatus      `json:"status"`
	Priority    Priority        `json:"priority"`
}

type CartCustomer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Cart is the dashboard view of an abandoned checkout.
type Cart struct {
	ID                  string       `json:"id"`
	OrderID             string       `json:"order_id"`
	Customer            CartCustomer `json:"customer"`
	Items               []CartItem   `json:"items"`
	CartValue           float64      `json:"cartValue"`
	AbandonedAt         time.Time    `json:"abandonedAt"`
	LastContacted       time.Time    `json:"lastContacted"`
	Status              CartStatus   `json:"status"`
	EffectiveStatus     CartStatus   `json:"effectiveStatus"`
	Priority            Priority     `json:"priority"`
	Remarks             []Remark     `json:"remarks"`
	HoursSinceAbandoned int          `json:"hoursSinceAbandoned"`
	CheckoutURL         string       `json:"checkout_url,omitempty"`
}

type checkoutCustomer struct {
	ID        json.Number `json:"id"`
	Name      string      `json:"name"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
}

type checkoutLineItem struct {
	ID        json.Number `json:"id"`
	VariantID json.Number `json:"variant_id"`
	Title     string      `json:"title"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
}

type addressPhone struct {
	Phone string `json:"phone"`
}

type checkoutAddresses struct {
	BillingAddress  *addressPhone `json:"billing_address"`
	ShippingAddress *addressPhone `json:"shipping_address"`
}

// NewCart builds the view for a stored checkout and its remarks (oldest
// first). now anchors HoursSinceAbandoned.
func NewCart(c *Checkout, remarks []Remark, now time.Time) *Cart {
	id := strconv.FormatInt(c.ID, 10)

	var cust checkoutCustomer
	hasCustomer := len(c.Customer) > 0 && string(c.Customer) != "null" &&
		json.Unmarshal(c.Customer, &cust) == nil

	customer := CartCustomer{ID: id, Email: c.Email, Phone: c.Phone}
	if hasCustomer {
		if cust.ID != "" {
			customer.ID = cust.ID.String()
		}
		customer.Name = cust.Name
		if customer.Name == "" && cust.FirstName != "" {
			customer.Name = strings.TrimSpace(cust.FirstName + " " + cust.LastName)
		}
		if cust.Email != "" {
			customer.Email = cust.Email
		}
		if cust.Phone != "" {
			customer.Phone = cust.Phone
		}
	}
	if customer.Name == "" {
		customer.Name = firstNonEmpty(customer.Email, customer.Phone, "Unknown")
	}

	var addr checkoutAddresses
	if len(c.Raw) > 0 {
		_ = json.Unmarshal(c.Raw, &addr)
	}
	candidates := []string{c.Phone, cust.Phone}
	if addr.BillingAddress != nil {
		candidates = append(candidates, addr.BillingAddress.Phone)
	}
	if addr.ShippingAddress != nil {
		candidates = append(candidates, addr.ShippingAddress.Phone)
	}
	if phone := IndianPhone(candidates...); phone != "" {
		customer.Phone = phone
	}

	status := c.Status
	if status == "" {
		status = CartStatusPending
	}
	priority := c.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if remarks == nil {
		remarks = []Remark{}
	}

	cart := &Cart{
		ID:                  id,
		OrderID:             id,
		Customer:            customer,
		Items:               parseLineItems(c.Items),
		CartValue:           c.CartValue,
		AbandonedAt:         c.CreatedAt,
		LastContacted:       c.UpdatedAt,
		Status:              status,
		Priority:            priority,
		Remarks:             remarks,
		HoursSinceAbandoned: int(now.Sub(c.CreatedAt).Hours()),
		CheckoutURL:         c.CheckoutURL,
	}
	cart.EffectiveStatus = cart.LatestStatus()
	return cart
}

// LatestStatus returns the status of the most recent remark that carries
// one, falling back to the cart's stored status and then to pending.
func (c *Cart) LatestStatus() CartStatus {
	for i := len(c.Remarks) - 1; i >= 0; i-- {
		if s := c.Remarks[i].Status; s != nil && *s != "" {
			return CartStatus(*s)
		}
	}
	if c.Status != "" {
		return c.Status
	}
	return CartStatusPending
}

// ProductNames joins item names the way outreach templates expect them.
func (c *Cart) ProductNames() string {
	names := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		names = append(names, it.Name)
	}
	return strings.Join(names, ", ")
}

func parseLineItems(raw json.RawMessage) []CartItem {
	items := []CartItem{}
	if len(raw) == 0 {
		return items
	}
	var lines []checkoutLineItem
	if err := json.Unmarshal(raw, &lines); err != nil {
		return items
	}
	for _, l := range lines {
		price, _ := l.Price.Float64()
		id := l.ID.String()
		if id == "" {
			id = l.VariantID.String()
		}
		items = append(items, CartItem{
			ID:       id,
			Name:     firstNonEmpty(l.Title, l.Name),
			Quantity: l.Quantity,
			Price:    price,
		})
	}
	return items
}

var (
	indianE164 = regexp.MustCompile(`^\+91\d{10}$`)
	tenDigits  = regexp.MustCompile(`^\d{10}$`)
)

// IndianPhone returns the first candidate that is already +91XXXXXXXXXX, or
// a bare ten-digit number prefixed with +91.
func IndianPhone(candidates ...string) string {
	for _, p := range candidates {
		if indianE164.MatchString(p) {
			return p
		}
		if tenDigits.MatchString(p) {
			return "+91" + p
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type CheckoutFilter struct {
	Start time.Time
	End   time.Time
}

type CheckoutRepositoryInterface interface {
	Upsert(ctx context.Context, c *Checkout) error
	LatestCreatedAt(ctx context.Context) (*time.Time, error)
	Count(ctx context.Context) (int, error)
	FindByID(ctx context.Context, id int64) (*Checkout, error)
	ListBetween(ctx context.Context, f CheckoutFilter) ([]*Checkout, error)
	ListPage(ctx context.Context, limit, offset int) ([]*Checkout, error)
	UpdateField(ctx context.Context, id int64, field, value string) (*Checkout, error)
}
