package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/infra/integration/shopify"
	"github.com/xavierca1/opsdesk/internal/infra/queue"
)

// CommerceClient is the slice of the Shopify Admin API the service uses.
type CommerceClient interface {
	Configured() bool
	ListCheckouts(ctx context.Context, q shopify.CheckoutQuery) ([]shopify.Checkout, error)
	GetCheckout(ctx context.Context, id string) (*shopify.Checkout, error)
	ListProducts(ctx context.Context) ([]entity.Product, error)
}

type QueueProducerInterface interface {
	PublishOutreach(ctx context.Context, msg queue.OutreachMessage) error
}

// SyncObserver receives the outcome of every checkout resync.
type SyncObserver interface {
	ObserveSync(fetched, failed int, err error, took time.Duration)
}

type noopSyncObserver struct{}

func (noopSyncObserver) ObserveSync(int, int, error, time.Duration) {}
