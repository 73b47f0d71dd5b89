package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/infra/integration/shopify"
)

const (
	syncLookback      = 3 * 24 * time.Hour
	defaultWindow     = 3 * 24 * time.Hour
	checkoutURLWindow = 7 * 24 * time.Hour
)

type SyncOutput struct {
	Inserted   int `json:"inserted"`
	TotalCount int `json:"totalCount"`
}

type CheckoutListOutput struct {
	Checkouts any `json:"checkouts"`
	Total     int `json:"total"`
}

type CheckoutURL struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	CheckoutURL string    `json:"checkout_url"`
}

type CheckoutURLsOutput struct {
	Count int           `json:"count"`
	URLs  []CheckoutURL `json:"urls"`
}

type CheckoutUseCase struct {
	Repo     entity.CheckoutRepositoryInterface
	Shopify  CommerceClient
	Observer SyncObserver
	Logger   *zap.Logger
	Now      func() time.Time

	syncing sync.Mutex
}

func NewCheckoutUseCase(repo entity.CheckoutRepositoryInterface, client CommerceClient, observer SyncObserver, logger *zap.Logger) *CheckoutUseCase {
	if observer == nil {
		observer = noopSyncObserver{}
	}
	return &CheckoutUseCase{
		Repo:     repo,
		Shopify:  client,
		Observer: observer,
		Logger:   logger.Named("checkouts"),
		Now:      time.Now,
	}
}

// Sync pulls abandoned checkouts created since the newest stored one (at
// most three days back) and upserts them by id. Rows that fail to upsert are
// logged and skipped. Only one sync runs at a time per process.
func (uc *CheckoutUseCase) Sync(ctx context.Context) (*SyncOutput, error) {
	if !uc.syncing.TryLock() {
		return nil, &DomainError{Code: CodeSyncInProgress, Message: "a checkout sync is already running"}
	}
	defer uc.syncing.Unlock()

	started := uc.Now()
	out, failed, err := uc.sync(ctx)

	fetched := 0
	if out != nil {
		fetched = out.Inserted
	}
	uc.Observer.ObserveSync(fetched, failed, err, time.Since(started))
	return out, err
}

func (uc *CheckoutUseCase) sync(ctx context.Context) (*SyncOutput, int, error) {
	if !uc.Shopify.Configured() {
		return nil, 0, commerceError(shopify.ErrNotConfigured)
	}

	latest, err := uc.Repo.LatestCreatedAt(ctx)
	if err != nil {
		return nil, 0, dbError("failed to read latest checkout", err)
	}

	since := uc.Now().Add(-syncLookback)
	if latest != nil && latest.After(since) {
		since = *latest
	}

	uc.Logger.Info("🔄 syncing abandoned checkouts", zap.Time("since", since))

	checkouts, err := uc.Shopify.ListCheckouts(ctx, shopify.CheckoutQuery{
		Status:       "abandoned",
		CreatedAtMin: since,
	})
	if err != nil {
		return nil, 0, commerceError(err)
	}

	failed := 0
	for i := range checkouts {
		if err := uc.Repo.Upsert(ctx, checkouts[i].ToEntity()); err != nil {
			failed++
			uc.Logger.Error("❌ checkout upsert failed", zap.Int64("checkout_id", checkouts[i].ID), zap.Error(err))
		}
	}

	total, err := uc.Repo.Count(ctx)
	if err != nil {
		return nil, failed, dbError("failed to count checkouts", err)
	}

	uc.Logger.Info("✅ checkout sync finished",
		zap.Int("fetched", len(checkouts)),
		zap.Int("failed", failed),
		zap.Int("total", total),
	)
	return &SyncOutput{Inserted: len(checkouts), TotalCount: total}, failed, nil
}

// Window resolves an optional [start, end] pair, defaulting to the last
// three days.
func (uc *CheckoutUseCase) Window(start, end *time.Time) (time.Time, time.Time) {
	now := uc.Now()
	s, e := now.Add(-defaultWindow), now
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}
	return s, e
}

func (uc *CheckoutUseCase) ListStored(ctx context.Context, start, end *time.Time) (*CheckoutListOutput, error) {
	s, e := uc.Window(start, end)
	rows, err := uc.Repo.ListBetween(ctx, entity.CheckoutFilter{Start: s, End: e})
	if err != nil {
		return nil, dbError("failed to list checkouts", err)
	}
	if rows == nil {
		rows = []*entity.Checkout{}
	}
	return &CheckoutListOutput{Checkouts: rows, Total: len(rows)}, nil
}

func (uc *CheckoutUseCase) ListLive(ctx context.Context, start, end *time.Time) (*CheckoutListOutput, error) {
	if !uc.Shopify.Configured() {
		return nil, commerceError(shopify.ErrNotConfigured)
	}
	s, e := uc.Window(start, end)
	checkouts, err := uc.Shopify.ListCheckouts(ctx, shopify.CheckoutQuery{
		Status:       "abandoned",
		CreatedAtMin: s,
		CreatedAtMax: e,
	})
	if err != nil {
		return nil, commerceError(err)
	}
	return &CheckoutListOutput{Checkouts: checkouts, Total: len(checkouts)}, nil
}

// UpdateField changes one staff-owned column of a stored checkout.
func (uc *CheckoutUseCase) UpdateField(ctx context.Context, id, field, value string) (*entity.Checkout, error) {
	checkoutID, err := parseCheckoutID(id)
	if err != nil {
		return nil, err
	}
	if err := checkStaffField(field, value); err != nil {
		return nil, err
	}

	row, err := uc.Repo.UpdateField(ctx, checkoutID, field, value)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("checkout not found")
	}
	if err != nil {
		return nil, dbError("failed to update checkout", err)
	}
	return row, nil
}

// CheckoutURL looks a checkout up on the platform and returns its resume link.
func (uc *CheckoutUseCase) CheckoutURL(ctx context.Context, id string) (string, error) {
	id = strings.TrimPrefix(strings.TrimSpace(id), "#")
	if id == "" {
		return "", invalid("checkout_id is required")
	}
	if !uc.Shopify.Configured() {
		return "", commerceError(shopify.ErrNotConfigured)
	}

	checkout, err := uc.Shopify.GetCheckout(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return "", notFound("checkout not found")
	}
	if err != nil {
		return "", commerceError(err)
	}
	url := checkout.URL()
	if url == "" {
		return "", notFound("checkout URL not found for this checkout")
	}
	return url, nil
}

// CheckoutURLs lists the resume links of a customer's recent checkouts.
func (uc *CheckoutUseCase) CheckoutURLs(ctx context.Context, email string, start, end *time.Time) (*CheckoutURLsOutput, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalid("email is required")
	}
	if !uc.Shopify.Configured() {
		return nil, commerceError(shopify.ErrNotConfigured)
	}

	q := shopify.CheckoutQuery{Email: email, CreatedAtMin: uc.Now().Add(-checkoutURLWindow)}
	if start != nil {
		q.CreatedAtMin = *start
	}
	if end != nil {
		q.CreatedAtMax = *end
	}

	checkouts, err := uc.Shopify.ListCheckouts(ctx, q)
	if err != nil {
		return nil, commerceError(err)
	}

	urls := []CheckoutURL{}
	for _, c := range checkouts {
		link := c.AbandonedCheckoutURL
		if link == "" {
			link = c.CheckoutURL
		}
		if link == "" || c.Email != email {
			continue
		}
		urls = append(urls, CheckoutURL{ID: c.ID, Email: c.Email, CreatedAt: c.CreatedAt, CheckoutURL: link})
	}
	return &CheckoutURLsOutput{Count: len(urls), URLs: urls}, nil
}

func parseCheckoutID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(id), "#"), 10, 64)
	if err != nil {
		return 0, invalid(fmt.Sprintf("invalid checkout id %q", id))
	}
	return n, nil
}

// checkStaffField accepts status or priority with a value from its enum.
func checkStaffField(field, value string) error {
	switch field {
	case "status":
		if !entity.CartStatus(value).Valid() {
			return invalid(entity.ErrInvalidCartStatus.Error() + ": " + value)
		}
	case "priority":
		if !entity.Priority(value).Valid() {
			return invalid(entity.ErrInvalidPriority.Error() + ": " + value)
		}
	default:
		return &DomainError{Code: CodeInvalidField, Message: fmt.Sprintf("field %q cannot be updated", field)}
	}
	return nil
}

// commerceError classifies a failure talking to the commerce platform.
func commerceError(err error) error {
	if errors.Is(err, shopify.ErrNotConfigured) {
		return &TechnicalError{Code: CodeShopifyNotConfigured, Message: "Shopify credentials are not set", Err: err}
	}
	var apiErr *shopify.APIError
	if errors.As(err, &apiErr) {
		return &TechnicalError{Code: CodeUpstream, Message: fmt.Sprintf("shopify returned %d", apiErr.StatusCode), Err: err}
	}
	return &TechnicalError{Code: CodeUpstream, Message: "failed to reach shopify", Err: err}
}
