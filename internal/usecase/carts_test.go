package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/usecase"
)

func strPtr(s string) *string { return &s }

func newCartUseCase(checkouts *MockCheckoutRepository, remarks *MockRemarkRepository) *usecase.CartUseCase {
	uc := usecase.NewCartUseCase(checkouts, remarks, zap.NewNop())
	uc.Now = func() time.Time { return fixedNow }
	return uc
}

func TestCartList_PagesFromStore(t *testing.T) {
	checkouts := new(MockCheckoutRepository)
	remarks := new(MockRemarkRepository)
	uc := newCartUseCase(checkouts, remarks)

	rows := []*entity.Checkout{
		{ID: 11, CreatedAt: fixedNow.Add(-time.Hour), Email: "a@b.com", CartValue: 100},
		{ID: 12, CreatedAt: fixedNow.Add(-2 * time.Hour), Status: entity.CartStatusInProgress},
	}
	checkouts.On("Count", mock.Anything).Return(21, nil)
	checkouts.On("ListPage", mock.Anything, 10, 10).Return(rows, nil)
	remarks.On("ListByCarts", mock.Anything, []string{"11", "12"}).Return(map[string][]entity.Remark{
		"11": {{ID: 1, CartID: "11", Type: "call", Status: strPtr("completed")}},
	}, nil)

	page, err := uc.List(context.Background(), usecase.CartListInput{Page: 2})

	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 21, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, entity.CartStatusPending, page.Data[0].Status)
	assert.Equal(t, entity.CartStatusCompleted, page.Data[0].EffectiveStatus)
	assert.Equal(t, entity.CartStatusInProgress, page.Data[1].EffectiveStatus)
	assert.Empty(t, page.Data[1].Remarks)
}

func TestCartList_FiltersBySearchAndStatus(t *testing.T) {
	checkouts := new(MockCheckoutRepository)
	remarks := new(MockRemarkRepository)
	uc := newCartUseCase(checkouts, remarks)

	rows := []*entity.Checkout{
		{ID: 1, Email: "priya@example.com", CreatedAt: fixedNow},
		{ID: 2, Email: "rahul@example.com", CreatedAt: fixedNow},
		{ID: 3, Email: "priya.k@example.com", CreatedAt: fixedNow, Status: entity.CartStatusFailed},
	}
	checkouts.On("ListBetween", mock.Anything, mock.Anything).Return(rows, nil)
	remarks.On("ListByCarts", mock.Anything, mock.Anything).Return(map[string][]entity.Remark{}, nil)

	page, err := uc.List(context.Background(), usecase.CartListInput{Query: "PRIYA", Status: "pending"})

	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "1", page.Data[0].ID)
}

func TestCartGet_NotFound(t *testing.T) {
	checkouts := new(MockCheckoutRepository)
	uc := newCartUseCase(checkouts, new(MockRemarkRepository))
	checkouts.On("FindByID", mock.Anything, int64(5)).Return(nil, entity.ErrNotFound)

	_, err := uc.Get(context.Background(), "5")
	assertCode(t, err, usecase.CodeNotFound)

	_, err = uc.Get(context.Background(), "abc")
	assertCode(t, err, usecase.CodeNotFound)
}

func TestComputeCartMetrics(t *testing.T) {
	carts := []*entity.Cart{
		{Status: entity.CartStatusPending, EffectiveStatus: entity.CartStatusPending, CartValue: 100, HoursSinceAbandoned: 2},
		{
			Status: entity.CartStatusInProgress, EffectiveStatus: entity.CartStatusInProgress, CartValue: 200, HoursSinceAbandoned: 30,
			Remarks: []entity.Remark{{Response: strPtr("will buy")}, {Response: nil}},
		},
		{Status: entity.CartStatusCompleted, EffectiveStatus: entity.CartStatusCompleted, CartValue: 300, HoursSinceAbandoned: 1},
		{
			Status: entity.CartStatusPending, EffectiveStatus: entity.CartStatusFailed, CartValue: 400, HoursSinceAbandoned: 50,
			Remarks: []entity.Remark{{Status: strPtr("failed"), Response: strPtr("no")}},
		},
	}

	stored := usecase.ComputeCartMetrics(carts, usecase.StatusSourceStored)
	assert.Equal(t, 2, stored.PendingCarts)
	assert.Equal(t, 1, stored.InProgressCarts)
	assert.Equal(t, 1, stored.ConvertedCarts)
	assert.Equal(t, 0, stored.LostCarts)
	assert.Equal(t, 4, stored.TotalCarts)
	assert.Equal(t, 25.0, stored.ConversionRate)
	assert.Equal(t, 1000.0, stored.TotalValue)
	assert.Equal(t, 300.0, stored.RecoveredValue)
	assert.Equal(t, 1, stored.UrgentCarts)
	assert.InDelta(t, 210.0, stored.PotentialRecoveryValue, 0.001)
	assert.Equal(t, 2, stored.PendingRemarks)
	assert.Equal(t, 66.7, stored.ResponseRate)
	assert.Equal(t, "stored", stored.StatusSource)

	fromRemarks := usecase.ComputeCartMetrics(carts, usecase.StatusSourceRemarks)
	assert.Equal(t, 1, fromRemarks.PendingCarts)
	assert.Equal(t, 1, fromRemarks.LostCarts)
	assert.InDelta(t, 90.0, fromRemarks.PotentialRecoveryValue, 0.001)
}

func TestComputeCartMetrics_Empty(t *testing.T) {
	m := usecase.ComputeCartMetrics(nil, usecase.StatusSourceStored)
	assert.Zero(t, m.ConversionRate)
	assert.Zero(t, m.ResponseRate)
}

func TestCartMetrics_DefaultsToStoredStatus(t *testing.T) {
	checkouts := new(MockCheckoutRepository)
	remarks := new(MockRemarkRepository)
	uc := newCartUseCase(checkouts, remarks)

	checkouts.On("ListBetween", mock.Anything, entity.CheckoutFilter{Start: time.Unix(0, 0).UTC(), End: fixedNow}).
		Return([]*entity.Checkout{}, nil)
	remarks.On("ListByCarts", mock.Anything, []string{}).Return(map[string][]entity.Remark{}, nil)

	m, err := uc.Metrics(context.Background(), usecase.CartMetricsInput{StatusSource: "bogus"})

	require.NoError(t, err)
	assert.Equal(t, "stored", m.StatusSource)
}
