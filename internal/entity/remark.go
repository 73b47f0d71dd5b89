package entity

import (
	"context"
	"time"
)

const (
	RemarkTypeSystem       = "system"
	RemarkTypeStatusChange = "status-change"
)

// Remark is a logged interaction or status-change event on a cart.
type Remark struct {
	ID        int64     `json:"id"`
	CartID    string    `json:"cart_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Response  *string   `json:"response"`
	Agent     *string   `json:"agent,omitempty"`
	Status    *string   `json:"status,omitempty"`
	Priority  *string   `json:"priority,omitempty"`
	CreatedAt time.Time `json:"date"`
}

type RemarkRepositoryInterface interface {
	Create(ctx context.Context, r *Remark) error
	ListByCart(ctx context.Context, cartID string) ([]Remark, error)
	ListByCarts(ctx context.Context, cartIDs []string) (map[string][]Remark, error)
	LatestStatus(ctx context.Context, cartID string) (*string, error)
	Delete(ctx context.Context, cartID string, id int64) (bool, error)
	UpdateField(ctx context.Context, id int64, field, value string) (*Remark, error)
}
