package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/infra/integration/shopify"
	"github.com/xavierca1/opsdesk/internal/infra/queue"
)

// MockCheckoutRepository
type MockCheckoutRepository struct {
	mock.Mock
}

func (m *MockCheckoutRepository) Upsert(ctx context.Context, c *entity.Checkout) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCheckoutRepository) LatestCreatedAt(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockCheckoutRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCheckoutRepository) FindByID(ctx context.Context, id int64) (*entity.Checkout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Checkout), args.Error(1)
}

func (m *MockCheckoutRepository) ListBetween(ctx context.Context, f entity.CheckoutFilter) ([]*entity.Checkout, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Checkout), args.Error(1)
}

func (m *MockCheckoutRepository) ListPage(ctx context.Context, limit, offset int) ([]*entity.Checkout, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Checkout), args.Error(1)
}

func (m *MockCheckoutRepository) UpdateField(ctx context.Context, id int64, field, value string) (*entity.Checkout, error) {
	args := m.Called(ctx, id, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Checkout), args.Error(1)
}

// MockRemarkRepository
type MockRemarkRepository struct {
	mock.Mock
}

func (m *MockRemarkRepository) Create(ctx context.Context, r *entity.Remark) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRemarkRepository) ListByCart(ctx context.Context, cartID string) ([]entity.Remark, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Remark), args.Error(1)
}

func (m *MockRemarkRepository) ListByCarts(ctx context.Context, cartIDs []string) (map[string][]entity.Remark, error) {
	args := m.Called(ctx, cartIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]entity.Remark), args.Error(1)
}

func (m *MockRemarkRepository) LatestStatus(ctx context.Context, cartID string) (*string, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockRemarkRepository) Delete(ctx context.Context, cartID string, id int64) (bool, error) {
	args := m.Called(ctx, cartID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRemarkRepository) UpdateField(ctx context.Context, id int64, field, value string) (*entity.Remark, error) {
	args := m.Called(ctx, id, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Remark), args.Error(1)
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByMySQLID(ctx context.Context, mysqlID string) (*entity.Lead, error) {
	args := m.Called(ctx, mysqlID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, id string, fields map[string]any) (*entity.Lead, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockLegacyLeadRepository
type MockLegacyLeadRepository struct {
	mock.Mock
}

func (m *MockLegacyLeadRepository) List(ctx context.Context) ([]entity.LegacyLead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LegacyLead), args.Error(1)
}

func (m *MockLegacyLeadRepository) FindByID(ctx context.Context, id int64) (*entity.LegacyLead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LegacyLead), args.Error(1)
}

// MockTemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) List(ctx context.Context, f entity.TemplateFilter) ([]entity.Template, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id int64) (*entity.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Template), args.Error(1)
}

func (m *MockTemplateRepository) Create(ctx context.Context, t *entity.Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepository) Update(ctx context.Context, id int64, fields map[string]any) (*entity.Template, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Template), args.Error(1)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTemplateRepository) RecordUsage(ctx context.Context, id int64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

// MockCallRecordRepository
type MockCallRecordRepository struct {
	mock.Mock
}

func (m *MockCallRecordRepository) List(ctx context.Context, f entity.CallRecordFilter) ([]entity.CallRecord, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CallRecord), args.Error(1)
}

func (m *MockCallRecordRepository) Create(ctx context.Context, r *entity.CallRecord) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockCallRecordRepository) Update(ctx context.Context, r *entity.CallRecord) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}

func (m *MockCallRecordRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockCommerceClient
type MockCommerceClient struct {
	mock.Mock
}

func (m *MockCommerceClient) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockCommerceClient) ListCheckouts(ctx context.Context, q shopify.CheckoutQuery) ([]shopify.Checkout, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shopify.Checkout), args.Error(1)
}

func (m *MockCommerceClient) GetCheckout(ctx context.Context, id string) (*shopify.Checkout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopify.Checkout), args.Error(1)
}

func (m *MockCommerceClient) ListProducts(ctx context.Context) ([]entity.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishOutreach(ctx context.Context, msg queue.OutreachMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// MockCartFinder
type MockCartFinder struct {
	mock.Mock
}

func (m *MockCartFinder) Get(ctx context.Context, id string) (*entity.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cart), args.Error(1)
}
