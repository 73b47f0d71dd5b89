package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/usecase"
)

type CheckoutSyncer interface {
	Sync(ctx context.Context) (*usecase.SyncOutput, error)
}

// CheckoutSyncWorker resyncs abandoned checkouts on start and then on every
// tick until ctx is cancelled.
type CheckoutSyncWorker struct {
	syncer       CheckoutSyncer
	tickInterval time.Duration
	logger       *zap.Logger
}

func NewCheckoutSyncWorker(syncer CheckoutSyncer, interval time.Duration, logger *zap.Logger) *CheckoutSyncWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CheckoutSyncWorker{
		syncer:       syncer,
		tickInterval: interval,
		logger:       logger.Named("checkout-sync"),
	}
}

func (w *CheckoutSyncWorker) Start(ctx context.Context) {
	w.logger.Info("🕒 checkout sync worker started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("⚠️ checkout sync worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *CheckoutSyncWorker) run(ctx context.Context) {
	out, err := w.syncer.Sync(ctx)
	if err != nil {
		var de *usecase.DomainError
		if errors.As(err, &de) && de.Code == usecase.CodeSyncInProgress {
			w.logger.Info("⏭️ sync already running, skipping tick")
			return
		}
		w.logger.Error("❌ scheduled checkout sync failed", zap.Error(err))
		return
	}
	w.logger.Info("✅ scheduled checkout sync done",
		zap.Int("fetched", out.Inserted),
		zap.Int("total", out.TotalCount),
	)
}
