package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
)

const systemAgent = "System"

type AddRemarkInput struct {
	CartID   string  `json:"cart_id" validate:"notblank"`
	Type     string  `json:"type" validate:"notblank,max=50"`
	Message  string  `json:"message" validate:"notblank"`
	Response *string `json:"response"`
	Agent    *string `json:"agent"`
	Status   *string `json:"status" validate:"omitempty,cart_status"`
}

type SetStatusInput struct {
	CartID string `json:"cart_id" validate:"notblank"`
	Status string `json:"status" validate:"required,cart_status"`
	Agent  string `json:"agent"`
}

type CartUpdateInput struct {
	CartID   string `json:"cart_id"`
	RemarkID *int64 `json:"remark_id"`
	Field    string `json:"field" validate:"required"`
	Value    string `json:"value"`
}

type CartUpdateOutput struct {
	Remark *entity.Remark   `json:"remark,omitempty"`
	Cart   *entity.Checkout `json:"cart,omitempty"`
}

type RemarkUseCase struct {
	Remarks   entity.RemarkRepositoryInterface
	Checkouts entity.CheckoutRepositoryInterface
	Logger    *zap.Logger
}

func NewRemarkUseCase(remarks entity.RemarkRepositoryInterface, checkouts entity.CheckoutRepositoryInterface, logger *zap.Logger) *RemarkUseCase {
	return &RemarkUseCase{
		Remarks:   remarks,
		Checkouts: checkouts,
		Logger:    logger.Named("remarks"),
	}
}

func (uc *RemarkUseCase) List(ctx context.Context, cartID string) ([]entity.Remark, error) {
	remarks, err := uc.Remarks.ListByCart(ctx, cartID)
	if err != nil {
		return nil, dbError("failed to list remarks", err)
	}
	return remarks, nil
}

func (uc *RemarkUseCase) Add(ctx context.Context, in AddRemarkInput) (*entity.Remark, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	remark := &entity.Remark{
		CartID:   in.CartID,
		Type:     strings.TrimSpace(in.Type),
		Message:  in.Message,
		Response: in.Response,
		Agent:    in.Agent,
		Status:   in.Status,
	}
	if err := uc.Remarks.Create(ctx, remark); err != nil {
		return nil, dbError("failed to save remark", err)
	}
	return remark, nil
}

// Delete removes the remark only when it belongs to the cart and returns
// what is left.
func (uc *RemarkUseCase) Delete(ctx context.Context, cartID string, remarkID int64) ([]entity.Remark, error) {
	ok, err := uc.Remarks.Delete(ctx, cartID, remarkID)
	if err != nil {
		return nil, dbError("failed to delete remark", err)
	}
	if !ok {
		return nil, notFound("remark not found")
	}
	return uc.List(ctx, cartID)
}

// SetStatus records a status-change remark and mirrors the status onto the
// stored cart. Carts that only exist upstream keep just the remark.
func (uc *RemarkUseCase) SetStatus(ctx context.Context, in SetStatusInput) (*entity.Remark, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	agent := strings.TrimSpace(in.Agent)
	if agent == "" {
		agent = systemAgent
	}
	status := in.Status
	remark := &entity.Remark{
		CartID:  in.CartID,
		Type:    entity.RemarkTypeStatusChange,
		Message: "Status changed to " + status,
		Agent:   &agent,
		Status:  &status,
	}
	if err := uc.Remarks.Create(ctx, remark); err != nil {
		return nil, dbError("failed to save status change", err)
	}

	if id, err := strconv.ParseInt(in.CartID, 10, 64); err == nil {
		_, err := uc.Checkouts.UpdateField(ctx, id, "status", status)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			uc.Logger.Warn("⚠️ stored cart status not updated", zap.String("cart_id", in.CartID), zap.Error(err))
		}
	}
	return remark, nil
}

func (uc *RemarkUseCase) LatestStatus(ctx context.Context, cartID string) (*string, error) {
	status, err := uc.Remarks.LatestStatus(ctx, cartID)
	if err != nil {
		return nil, dbError("failed to read cart status", err)
	}
	return status, nil
}

// Update changes status or priority either on a remark (remark_id set) or
// on the cart itself. A cart-level change is logged as a system remark; if
// the cart update fails that remark is removed again.
func (uc *RemarkUseCase) Update(ctx context.Context, in CartUpdateInput) (*CartUpdateOutput, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if in.RemarkID != nil {
		if in.Field != "status" && in.Field != "priority" {
			return nil, &DomainError{Code: CodeValidation, Message: "only status or priority can be updated for remarks"}
		}
		if err := checkStaffField(in.Field, in.Value); err != nil {
			return nil, err
		}
		remark, err := uc.Remarks.UpdateField(ctx, *in.RemarkID, in.Field, in.Value)
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("remark not found or not updated")
		}
		if err != nil {
			return nil, dbError("failed to update remark", err)
		}
		return &CartUpdateOutput{Remark: remark}, nil
	}

	if strings.TrimSpace(in.CartID) == "" {
		return nil, invalid("cart_id or remark_id is required")
	}
	if err := checkStaffField(in.Field, in.Value); err != nil {
		return nil, err
	}
	cartID, err := parseCheckoutID(in.CartID)
	if err != nil {
		return nil, err
	}

	agent, value := systemAgent, in.Value
	remark := &entity.Remark{
		CartID:  in.CartID,
		Type:    entity.RemarkTypeSystem,
		Message: fmt.Sprintf("Cart %s changed to %s", in.Field, in.Value),
		Agent:   &agent,
	}
	if in.Field == "status" {
		remark.Status = &value
	} else {
		remark.Priority = &value
	}

	var cart *entity.Checkout
	tx := NewTransaction(uc.Logger)
	tx.AddOperation("insert system remark", func(ctx context.Context) error {
		return uc.Remarks.Create(ctx, remark)
	})
	tx.AddCompensation("delete system remark", func(ctx context.Context) error {
		_, err := uc.Remarks.Delete(ctx, remark.CartID, remark.ID)
		return err
	})
	tx.AddOperation("update cart", func(ctx context.Context) error {
		var err error
		cart, err = uc.Checkouts.UpdateField(ctx, cartID, in.Field, in.Value)
		return err
	})

	if err := tx.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("cart not found or not updated")
		}
		return nil, dbError("failed to update cart", err)
	}

	uc.Logger.Info("📝 cart updated", zap.String("cart_id", in.CartID), zap.String("field", in.Field), zap.String("value", in.Value))
	return &CartUpdateOutput{Remark: remark, Cart: cart}, nil
}
