package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
)

const defaultTemplateCategory = "general"

type CreateTemplateInput struct {
	Type       string `json:"type" validate:"required,oneof=whatsapp email sms"`
	Name       string `json:"name" validate:"notblank,max=200"`
	Text       string `json:"text" validate:"notblank"`
	Category   string `json:"category" validate:"notblank,max=100"`
	IsStarred  *bool  `json:"isStarred"`
	UsageCount *int   `json:"usageCount" validate:"omitempty,gte=0"`
}

type TemplateUseCase struct {
	Repo   entity.TemplateRepositoryInterface
	Logger *zap.Logger
}

func NewTemplateUseCase(repo entity.TemplateRepositoryInterface, logger *zap.Logger) *TemplateUseCase {
	return &TemplateUseCase{Repo: repo, Logger: logger.Named("templates")}
}

func (uc *TemplateUseCase) List(ctx context.Context, f entity.TemplateFilter) ([]entity.Template, error) {
	templates, err := uc.Repo.List(ctx, f)
	if err != nil {
		return nil, dbError("failed to list templates", err)
	}
	return templates, nil
}

func (uc *TemplateUseCase) Create(ctx context.Context, in CreateTemplateInput) (*entity.Template, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	t := &entity.Template{
		Type:     entity.TemplateType(in.Type),
		Name:     strings.TrimSpace(in.Name),
		Text:     in.Text,
		Category: strings.TrimSpace(in.Category),
	}
	if t.Category == "" {
		t.Category = defaultTemplateCategory
	}
	if in.IsStarred != nil {
		t.IsStarred = *in.IsStarred
	}
	if in.UsageCount != nil {
		t.UsageCount = *in.UsageCount
	}
	if err := uc.Repo.Create(ctx, t); err != nil {
		return nil, dbError("failed to create template", err)
	}
	return t, nil
}

// Update applies a partial update of name, text, category, isStarred or
// usageCount.
func (uc *TemplateUseCase) Update(ctx context.Context, id int64, raw map[string]any) (*entity.Template, error) {
	fields := make(map[string]any, len(raw))
	for key, v := range raw {
		switch key {
		case "id":
			continue
		case "name", "text", "category":
			s, ok := v.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return nil, invalid(key + ": is required")
			}
			fields[key] = s
		case "isStarred":
			b, ok := v.(bool)
			if !ok {
				return nil, invalid("isStarred must be a boolean")
			}
			fields[key] = b
		case "usageCount":
			n, ok := v.(float64)
			if !ok || n < 0 {
				return nil, invalid("usageCount must be a non-negative number")
			}
			fields[key] = int(n)
		default:
			return nil, &DomainError{Code: CodeInvalidField, Message: fmt.Sprintf("field %q cannot be updated", key)}
		}
	}
	if len(fields) == 0 {
		return nil, invalid("no fields to update")
	}

	t, err := uc.Repo.Update(ctx, id, fields)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("template not found")
	}
	if err != nil {
		return nil, dbError("failed to update template", err)
	}
	return t, nil
}

func (uc *TemplateUseCase) Delete(ctx context.Context, id int64) error {
	ok, err := uc.Repo.Delete(ctx, id)
	if err != nil {
		return dbError("failed to delete template", err)
	}
	if !ok {
		return notFound("template not found")
	}
	return nil
}
