package entity

import (
	"context"
	"regexp"
	"time"
)

type TemplateType string

const (
	TemplateWhatsApp TemplateType = "whatsapp"
	TemplateEmail    TemplateType = "email"
	TemplateSMS      TemplateType = "sms"
)

type Template struct {
	ID         int64        `json:"id"`
	Type       TemplateType `json:"type"`
	Name       string       `json:"name"`
	Text       string       `json:"text"`
	Category   string       `json:"category"`
	IsStarred  bool         `json:"isStarred"`
	UsageCount int          `json:"usageCount"`
	LastUsed   *time.Time   `json:"lastUsed,omitempty"`
}

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Fill replaces {key} placeholders with values from vars. Keys without a
// value are left untouched.
func Fill(text string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := vars[key]; ok && v != "" {
			return v
		}
		return m
	})
}

type TemplateFilter struct {
	Type     string
	Category string
	Starred  *bool
}

type TemplateRepositoryInterface interface {
	List(ctx context.Context, f TemplateFilter) ([]Template, error)
	FindByID(ctx context.Context, id int64) (*Template, error)
	Create(ctx context.Context, t *Template) error
	Update(ctx context.Context, id int64, fields map[string]any) (*Template, error)
	Delete(ctx context.Context, id int64) (bool, error)
	RecordUsage(ctx context.Context, id int64, at time.Time) error
}
