package usecase

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xavierca1/opsdesk/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("cart_status", func(fl validator.FieldLevel) bool {
		return entity.CartStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return entity.Priority(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("lead_status", func(fl validator.FieldLevel) bool {
		return validLeadStatus(fl.Field().String())
	})
	_ = v.RegisterValidation("call_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case entity.CallStatusFollowUp, entity.CallStatusInProgress, entity.CallStatusClosed:
			return true
		}
		return false
	})

	return v
}

func validLeadStatus(s string) bool {
	if s == entity.LeadStatusImported {
		return true
	}
	for _, st := range entity.LeadStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// validateInput runs the struct tags and folds failures into one
// VALIDATION_ERROR.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return invalid(err.Error())
	}

	fields := make([]ValidationError, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ve := ValidationError{Field: fe.Field(), Message: describe(fe)}
		fields = append(fields, ve)
		msgs = append(msgs, ve.Error())
	}
	return &DomainError{Code: CodeValidation, Message: strings.Join(msgs, "; "), Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "is invalid"
	case "oneof":
		return "must be one of " + fe.Param()
	case "cart_status":
		return "must be one of pending, in-progress, completed, failed"
	case "priority":
		return "must be one of high, medium, low"
	case "lead_status":
		return "must be one of " + strings.Join(entity.LeadStatuses, ", ")
	case "call_status":
		return fmt.Sprintf("must be one of %s, %s, %s", entity.CallStatusFollowUp, entity.CallStatusInProgress, entity.CallStatusClosed)
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return "must not exceed " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
