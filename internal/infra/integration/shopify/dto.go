package shopify

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/xavierca1/opsdesk/internal/entity"
)

// Checkout is an abandoned checkout as returned by the Admin REST API. Only
// the fields the service reads are typed; Raw keeps the full document.
type Checkout struct {
	ID                   int64           `json:"id"`
	Token                string          `json:"token"`
	Email                string          `json:"email"`
	Phone                string          `json:"phone"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	SubtotalPrice        string          `json:"subtotal_price"`
	TotalPrice           string          `json:"total_price"`
	Currency             string          `json:"currency"`
	AbandonedCheckoutURL string          `json:"abandoned_checkout_url"`
	CheckoutURL          string          `json:"checkout_url"`
	WebURL               string          `json:"web_url"`
	Customer             json.RawMessage `json:"customer"`
	LineItems            json.RawMessage `json:"line_items"`

	Raw json.RawMessage `json:"-"`
}

func (c *Checkout) UnmarshalJSON(b []byte) error {
	type alias Checkout
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*c = Checkout(a)
	c.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON returns the document exactly as the platform sent it.
func (c Checkout) MarshalJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	type alias Checkout
	return json.Marshal(alias(c))
}

// URL is the link a customer follows to resume the checkout.
func (c *Checkout) URL() string {
	switch {
	case c.AbandonedCheckoutURL != "":
		return c.AbandonedCheckoutURL
	case c.CheckoutURL != "":
		return c.CheckoutURL
	default:
		return c.WebURL
	}
}

// ToEntity maps the document onto a stored checkout row. Staff-owned columns
// are left empty.
func (c *Checkout) ToEntity() *entity.Checkout {
	subtotal, _ := strconv.ParseFloat(c.SubtotalPrice, 64)
	return &entity.Checkout{
		ID:          c.ID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Customer:    c.Customer,
		Email:       c.Email,
		Phone:       c.Phone,
		CartValue:   subtotal,
		Items:       c.LineItems,
		Raw:         c.Raw,
		CheckoutURL: c.URL(),
	}
}

type checkoutsResponse struct {
	Checkouts []Checkout `json:"checkouts"`
}

type checkoutResponse struct {
	Checkout *Checkout `json:"checkout"`
}

type productsResponse struct {
	Products []entity.Product `json:"products"`
}

// CheckoutQuery narrows a checkout listing. Zero values are omitted.
type CheckoutQuery struct {
	Status       string
	CreatedAtMin time.Time
	CreatedAtMax time.Time
	Email        string
	Limit        int
}
