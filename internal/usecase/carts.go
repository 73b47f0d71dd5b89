package usecase

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
)

const (
	CartPageSize         = 10
	urgentWindowHours    = 24
	potentialRecoveryPct = 0.3
)

type CartListInput struct {
	Page   int
	Query  string
	Status string
	Start  *time.Time
	End    *time.Time
}

func (in CartListInput) filtered() bool {
	return strings.TrimSpace(in.Query) != "" || in.Status != "" || in.Start != nil || in.End != nil
}

type CartPage struct {
	Data       []*entity.Cart `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	Total      int            `json:"total"`
	TotalPages int            `json:"totalPages"`
}

type StatusSource string

const (
	StatusSourceStored  StatusSource = "stored"
	StatusSourceRemarks StatusSource = "remarks"
)

type CartMetricsInput struct {
	Start        *time.Time
	End          *time.Time
	StatusSource StatusSource
}

type CartMetrics struct {
	PendingCarts           int     `json:"pendingCarts"`
	InProgressCarts        int     `json:"inProgressCarts"`
	LostCarts              int     `json:"lostCarts"`
	ConvertedCarts         int     `json:"convertedCarts"`
	TotalCarts             int     `json:"totalCarts"`
	ConversionRate         float64 `json:"conversionRate"`
	TotalValue             float64 `json:"totalValue"`
	RecoveredValue         float64 `json:"recoveredValue"`
	UrgentCarts            int     `json:"urgentCarts"`
	PotentialRecoveryValue float64 `json:"potentialRecoveryValue"`
	PendingRemarks         int     `json:"pendingRemarks"`
	ResponseRate           float64 `json:"responseRate"`
	StatusSource           string  `json:"statusSource"`
}

type CartUseCase struct {
	Checkouts entity.CheckoutRepositoryInterface
	Remarks   entity.RemarkRepositoryInterface
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewCartUseCase(checkouts entity.CheckoutRepositoryInterface, remarks entity.RemarkRepositoryInterface, logger *zap.Logger) *CartUseCase {
	return &CartUseCase{
		Checkouts: checkouts,
		Remarks:   remarks,
		Logger:    logger.Named("carts"),
		Now:       time.Now,
	}
}

// List returns one page of carts, newest first. Without filters the page is
// read straight from the store; with filters the matching carts are
// collected first and then paged.
func (uc *CartUseCase) List(ctx context.Context, in CartListInput) (*CartPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}

	if !in.filtered() {
		total, err := uc.Checkouts.Count(ctx)
		if err != nil {
			return nil, dbError("failed to count carts", err)
		}
		rows, err := uc.Checkouts.ListPage(ctx, CartPageSize, (page-1)*CartPageSize)
		if err != nil {
			return nil, dbError("failed to list carts", err)
		}
		carts, err := uc.build(ctx, rows)
		if err != nil {
			return nil, err
		}
		return newCartPage(carts, page, total), nil
	}

	carts, err := uc.between(ctx, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	matched := make([]*entity.Cart, 0, len(carts))
	for _, c := range carts {
		if matchesCart(c, in.Query, in.Status) {
			matched = append(matched, c)
		}
	}

	from := min((page-1)*CartPageSize, len(matched))
	to := min(from+CartPageSize, len(matched))
	return newCartPage(matched[from:to], page, len(matched)), nil
}

func (uc *CartUseCase) Get(ctx context.Context, id string) (*entity.Cart, error) {
	checkoutID, err := parseCheckoutID(id)
	if err != nil {
		return nil, notFound("cart not found")
	}
	row, err := uc.Checkouts.FindByID(ctx, checkoutID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("cart not found")
	}
	if err != nil {
		return nil, dbError("failed to load cart", err)
	}
	carts, err := uc.build(ctx, []*entity.Checkout{row})
	if err != nil {
		return nil, err
	}
	return carts[0], nil
}

// Metrics summarises the carts abandoned inside the window. The status used
// for bucketing is the stored column unless StatusSourceRemarks is asked for.
func (uc *CartUseCase) Metrics(ctx context.Context, in CartMetricsInput) (*CartMetrics, error) {
	carts, err := uc.between(ctx, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	source := in.StatusSource
	if source != StatusSourceRemarks {
		source = StatusSourceStored
	}
	m := ComputeCartMetrics(carts, source)
	return &m, nil
}

// ComputeCartMetrics derives the dashboard counters from a set of carts.
func ComputeCartMetrics(carts []*entity.Cart, source StatusSource) CartMetrics {
	m := CartMetrics{TotalCarts: len(carts), StatusSource: string(source)}
	var remarks, answered int
	var open float64

	for _, c := range carts {
		status := c.Status
		if source == StatusSourceRemarks {
			status = c.EffectiveStatus
		}

		m.TotalValue += c.CartValue
		switch status {
		case entity.CartStatusPending:
			m.PendingCarts++
			open += c.CartValue
			if len(c.Remarks) == 0 {
				m.PendingRemarks++
			}
		case entity.CartStatusInProgress:
			m.InProgressCarts++
			open += c.CartValue
			if n := len(c.Remarks); n > 0 && isBlank(c.Remarks[n-1].Response) {
				m.PendingRemarks++
			}
		case entity.CartStatusFailed:
			m.LostCarts++
		case entity.CartStatusCompleted:
			m.ConvertedCarts++
			m.RecoveredValue += c.CartValue
		}
		if c.HoursSinceAbandoned < urgentWindowHours && status != entity.CartStatusCompleted {
			m.UrgentCarts++
		}

		for _, r := range c.Remarks {
			remarks++
			if !isBlank(r.Response) {
				answered++
			}
		}
	}

	m.PotentialRecoveryValue = open * potentialRecoveryPct
	m.ConversionRate = percent(m.ConvertedCarts, m.TotalCarts)
	m.ResponseRate = percent(answered, remarks)
	return m
}

func (uc *CartUseCase) between(ctx context.Context, start, end *time.Time) ([]*entity.Cart, error) {
	now := uc.Now()
	filter := entity.CheckoutFilter{Start: time.Unix(0, 0).UTC(), End: now}
	if start != nil {
		filter.Start = *start
	}
	if end != nil {
		filter.End = *end
	}
	rows, err := uc.Checkouts.ListBetween(ctx, filter)
	if err != nil {
		return nil, dbError("failed to list carts", err)
	}
	return uc.build(ctx, rows)
}

func (uc *CartUseCase) build(ctx context.Context, rows []*entity.Checkout) ([]*entity.Cart, error) {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, strconv.FormatInt(r.ID, 10))
	}
	remarks, err := uc.Remarks.ListByCarts(ctx, ids)
	if err != nil {
		return nil, dbError("failed to load remarks", err)
	}

	now := uc.Now()
	carts := make([]*entity.Cart, 0, len(rows))
	for i, r := range rows {
		carts = append(carts, entity.NewCart(r, remarks[ids[i]], now))
	}
	return carts, nil
}

func newCartPage(carts []*entity.Cart, page, total int) *CartPage {
	if carts == nil {
		carts = []*entity.Cart{}
	}
	return &CartPage{
		Data:       carts,
		Page:       page,
		PageSize:   CartPageSize,
		Total:      total,
		TotalPages: (total + CartPageSize - 1) / CartPageSize,
	}
}

// matchesCart applies the free-text search (name, email, phone, id) and the
// effective status filter.
func matchesCart(c *entity.Cart, query, status string) bool {
	if status != "" && status != "all" && string(c.EffectiveStatus) != status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{c.Customer.Name, c.Customer.Email, c.Customer.Phone, c.ID} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// percent returns part/total*100 rounded to one decimal.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
