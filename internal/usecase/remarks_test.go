package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/usecase"
)

func TestRemarkAdd_RequiresTypeAndMessage(t *testing.T) {
	remarks := new(MockRemarkRepository)
	uc := usecase.NewRemarkUseCase(remarks, new(MockCheckoutRepository), zap.NewNop())

	_, err := uc.Add(context.Background(), usecase.AddRemarkInput{CartID: "1", Type: "call"})

	assertCode(t, err, usecase.CodeValidation)
	var de *usecase.DomainError
	require.True(t, errors.As(err, &de))
	require.Len(t, de.Fields, 1)
	assert.Equal(t, "message", de.Fields[0].Field)
	remarks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRemarkDelete(t *testing.T) {
	remarks := new(MockRemarkRepository)
	uc := usecase.NewRemarkUseCase(remarks, new(MockCheckoutRepository), zap.NewNop())

	remarks.On("Delete", mock.Anything, "7", int64(3)).Return(true, nil)
	remarks.On("ListByCart", mock.Anything, "7").Return([]entity.Remark{{ID: 4, CartID: "7"}}, nil)
	remarks.On("Delete", mock.Anything, "7", int64(99)).Return(false, nil)

	left, err := uc.Delete(context.Background(), "7", 3)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, int64(4), left[0].ID)

	_, err = uc.Delete(context.Background(), "7", 99)
	assertCode(t, err, usecase.CodeNotFound)
}

func TestRemarkSetStatus_WritesRemarkAndCart(t *testing.T) {
	remarks := new(MockRemarkRepository)
	checkouts := new(MockCheckoutRepository)
	uc := usecase.NewRemarkUseCase(remarks, checkouts, zap.NewNop())

	remarks.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.Remark) bool {
		return r.Type == entity.RemarkTypeStatusChange &&
			r.Message == "Status changed to completed" &&
			*r.Agent == "System" && *r.Status == "completed"
	})).Return(nil)
	checkouts.On("UpdateField", mock.Anything, int64(55), "status", "completed").Return(nil, entity.ErrNotFound)

	remark, err := uc.SetStatus(context.Background(), usecase.SetStatusInput{CartID: "55", Status: "completed"})

	require.NoError(t, err)
	assert.Equal(t, "55", remark.CartID)
	checkouts.AssertExpectations(t)
}

func TestRemarkUpdate_CartLevel(t *testing.T) {
	remarks := new(MockRemarkRepository)
	checkouts := new(MockCheckoutRepository)
	uc := usecase.NewRemarkUseCase(remarks, checkouts, zap.NewNop())

	remarks.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.Remark) bool {
		return r.Type == entity.RemarkTypeSystem && r.Message == "Cart priority changed to high" && *r.Priority == "high"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Remark).ID = 10
	}).Return(nil)
	checkouts.On("UpdateField", mock.Anything, int64(8), "priority", "high").
		Return(&entity.Checkout{ID: 8, Priority: entity.PriorityHigh}, nil)

	out, err := uc.Update(context.Background(), usecase.CartUpdateInput{CartID: "8", Field: "priority", Value: "high"})

	require.NoError(t, err)
	assert.Equal(t, int64(10), out.Remark.ID)
	assert.Equal(t, entity.PriorityHigh, out.Cart.Priority)
	remarks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemarkUpdate_CompensatesWhenCartUpdateFails(t *testing.T) {
	remarks := new(MockRemarkRepository)
	checkouts := new(MockCheckoutRepository)
	uc := usecase.NewRemarkUseCase(remarks, checkouts, zap.NewNop())

	remarks.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Remark).ID = 77
	}).Return(nil)
	checkouts.On("UpdateField", mock.Anything, int64(8), "status", "failed").Return(nil, entity.ErrNotFound)
	remarks.On("Delete", mock.Anything, "8", int64(77)).Return(true, nil)

	_, err := uc.Update(context.Background(), usecase.CartUpdateInput{CartID: "8", Field: "status", Value: "failed"})

	assertCode(t, err, usecase.CodeNotFound)
	remarks.AssertCalled(t, "Delete", mock.Anything, "8", int64(77))
}

func TestRemarkUpdate_RemarkLevel(t *testing.T) {
	remarks := new(MockRemarkRepository)
	uc := usecase.NewRemarkUseCase(remarks, new(MockCheckoutRepository), zap.NewNop())
	id := int64(4)

	_, err := uc.Update(context.Background(), usecase.CartUpdateInput{RemarkID: &id, Field: "message", Value: "x"})
	assertCode(t, err, usecase.CodeValidation)

	remarks.On("UpdateField", mock.Anything, id, "status", "in-progress").Return(&entity.Remark{ID: id, Status: strPtr("in-progress")}, nil)
	out, err := uc.Update(context.Background(), usecase.CartUpdateInput{RemarkID: &id, Field: "status", Value: "in-progress"})
	require.NoError(t, err)
	assert.Equal(t, "in-progress", *out.Remark.Status)
	assert.Nil(t, out.Cart)

	missing := int64(5)
	remarks.On("UpdateField", mock.Anything, missing, "priority", "low").Return(nil, entity.ErrNotFound)
	_, err = uc.Update(context.Background(), usecase.CartUpdateInput{RemarkID: &missing, Field: "priority", Value: "low"})
	assertCode(t, err, usecase.CodeNotFound)
}

func TestRemarkUpdate_RequiresAnID(t *testing.T) {
	uc := usecase.NewRemarkUseCase(new(MockRemarkRepository), new(MockCheckoutRepository), zap.NewNop())

	_, err := uc.Update(context.Background(), usecase.CartUpdateInput{Field: "status", Value: "pending"})

	assertCode(t, err, usecase.CodeValidation)
}
