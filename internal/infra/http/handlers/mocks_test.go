package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/usecase"
)

// MockCheckoutService
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Sync(ctx context.Context) (*usecase.SyncOutput, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SyncOutput), args.Error(1)
}

func (m *MockCheckoutService) ListStored(ctx context.Context, start, end *time.Time) (*usecase.CheckoutListOutput, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CheckoutListOutput), args.Error(1)
}

func (m *MockCheckoutService) ListLive(ctx context.Context, start, end *time.Time) (*usecase.CheckoutListOutput, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CheckoutListOutput), args.Error(1)
}

func (m *MockCheckoutService) UpdateField(ctx context.Context, id, field, value string) (*entity.Checkout, error) {
	args := m.Called(ctx, id, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Checkout), args.Error(1)
}

func (m *MockCheckoutService) CheckoutURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockCheckoutService) CheckoutURLs(ctx context.Context, email string, start, end *time.Time) (*usecase.CheckoutURLsOutput, error) {
	args := m.Called(ctx, email, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CheckoutURLsOutput), args.Error(1)
}

// MockCartService
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) List(ctx context.Context, in usecase.CartListInput) (*usecase.CartPage, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CartPage), args.Error(1)
}

func (m *MockCartService) Get(ctx context.Context, id string) (*entity.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cart), args.Error(1)
}

func (m *MockCartService) Metrics(ctx context.Context, in usecase.CartMetricsInput) (*usecase.CartMetrics, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CartMetrics), args.Error(1)
}

// MockRemarkService
type MockRemarkService struct {
	mock.Mock
}

func (m *MockRemarkService) List(ctx context.Context, cartID string) ([]entity.Remark, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Remark), args.Error(1)
}

func (m *MockRemarkService) Add(ctx context.Context, in usecase.AddRemarkInput) (*entity.Remark, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Remark), args.Error(1)
}

func (m *MockRemarkService) Delete(ctx context.Context, cartID string, remarkID int64) ([]entity.Remark, error) {
	args := m.Called(ctx, cartID, remarkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Remark), args.Error(1)
}

func (m *MockRemarkService) SetStatus(ctx context.Context, in usecase.SetStatusInput) (*entity.Remark, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Remark), args.Error(1)
}

func (m *MockRemarkService) LatestStatus(ctx context.Context, cartID string) (*string, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockRemarkService) Update(ctx context.Context, in usecase.CartUpdateInput) (*usecase.CartUpdateOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CartUpdateOutput), args.Error(1)
}

// MockLeadService
type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) List(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadService) Create(ctx context.Context, in usecase.CreateLeadInput) (*entity.Lead, bool, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*entity.Lead), args.Bool(1), args.Error(2)
}

func (m *MockLeadService) Update(ctx context.Context, id string, raw map[string]any) (*entity.Lead, error) {
	args := m.Called(ctx, id, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeadService) ListLegacy(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadService) Merged(ctx context.Context, f usecase.LeadFilter) ([]entity.Lead, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadService) Stats(ctx context.Context) (*usecase.LeadStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LeadStats), args.Error(1)
}

// MockTemplateService
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) List(ctx context.Context, f entity.TemplateFilter) ([]entity.Template, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Template), args.Error(1)
}

func (m *MockTemplateService) Create(ctx context.Context, in usecase.CreateTemplateInput) (*entity.Template, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Template), args.Error(1)
}

func (m *MockTemplateService) Update(ctx context.Context, id int64, raw map[string]any) (*entity.Template, error) {
	args := m.Called(ctx, id, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Template), args.Error(1)
}

func (m *MockTemplateService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockMessageSender
type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) Execute(ctx context.Context, in usecase.SendMessageInput) (*usecase.SendMessageOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SendMessageOutput), args.Error(1)
}

// MockCallRecordService
type MockCallRecordService struct {
	mock.Mock
}

func (m *MockCallRecordService) List(ctx context.Context, f entity.CallRecordFilter) ([]entity.CallRecord, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CallRecord), args.Error(1)
}

func (m *MockCallRecordService) Create(ctx context.Context, in usecase.CallRecordInput) (*entity.CallRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CallRecord), args.Error(1)
}

func (m *MockCallRecordService) Update(ctx context.Context, id int64, in usecase.CallRecordInput) (*entity.CallRecord, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CallRecord), args.Error(1)
}

func (m *MockCallRecordService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCallRecordService) Stats(ctx context.Context) (*usecase.CallRecordStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CallRecordStats), args.Error(1)
}
