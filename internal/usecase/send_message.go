package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/infra/queue"
)

type SendMessageInput struct {
	TemplateID int64             `json:"templateId" validate:"required"`
	Variables  map[string]string `json:"variables"`
	CartID     string            `json:"cartId"`
	Dispatch   bool              `json:"dispatch"`
	To         string            `json:"to"`
	Subject    string            `json:"subject"`
	Agent      string            `json:"agent"`
}

type SendMessageOutput struct {
	Message string `json:"message"`
	Queued  bool   `json:"queued"`
}

type CartFinder interface {
	Get(ctx context.Context, id string) (*entity.Cart, error)
}

type SendMessageUseCase struct {
	Templates entity.TemplateRepositoryInterface
	Carts     CartFinder
	Queue     QueueProducerInterface
	StoreName string
	Logger    *zap.Logger
	Now       func() time.Time
}

// NewSendMessageUseCase builds the use case. producer may be nil, in which
// case dispatch requests fail.
func NewSendMessageUseCase(templates entity.TemplateRepositoryInterface, carts CartFinder, producer QueueProducerInterface, storeName string, logger *zap.Logger) *SendMessageUseCase {
	return &SendMessageUseCase{
		Templates: templates,
		Carts:     carts,
		Queue:     producer,
		StoreName: storeName,
		Logger:    logger.Named("send-message"),
		Now:       time.Now,
	}
}

// Execute fills the template and, when asked, queues it for delivery.
// Explicit variables win over the ones derived from the cart.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Variables == nil && in.CartID == "" {
		return nil, invalid("variables or cartId is required")
	}

	tpl, err := uc.Templates.FindByID(ctx, in.TemplateID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("template not found")
	}
	if err != nil {
		return nil, dbError("failed to load template", err)
	}

	vars := map[string]string{}
	var cart *entity.Cart
	if in.CartID != "" {
		cart, err = uc.Carts.Get(ctx, in.CartID)
		if err != nil {
			return nil, err
		}
		vars = CartVariables(cart, uc.StoreName)
	}
	for k, v := range in.Variables {
		vars[k] = v
	}

	message := entity.Fill(tpl.Text, vars)

	if err := uc.Templates.RecordUsage(ctx, tpl.ID, uc.Now()); err != nil {
		uc.Logger.Warn("⚠️ template usage not recorded", zap.Int64("template_id", tpl.ID), zap.Error(err))
	}

	out := &SendMessageOutput{Message: message}
	if !in.Dispatch {
		return out, nil
	}

	if uc.Queue == nil {
		return nil, &TechnicalError{Code: CodeQueue, Message: "outreach queue is not configured"}
	}
	to := strings.TrimSpace(in.To)
	if to == "" && cart != nil {
		switch tpl.Type {
		case entity.TemplateEmail:
			to = cart.Customer.Email
		default:
			to = cart.Customer.Phone
		}
	}
	if to == "" {
		return nil, invalid("to is required to dispatch a message")
	}

	subject := in.Subject
	if subject == "" {
		subject = tpl.Name
	}
	err = uc.Queue.PublishOutreach(ctx, queue.OutreachMessage{
		Channel:    string(tpl.Type),
		To:         to,
		Subject:    subject,
		Body:       message,
		CartID:     in.CartID,
		TemplateID: tpl.ID,
		Agent:      in.Agent,
	})
	if err != nil {
		return nil, &TechnicalError{Code: CodeQueue, Message: "failed to queue message", Err: err}
	}

	uc.Logger.Info("📤 outreach queued", zap.Int64("template_id", tpl.ID), zap.String("channel", string(tpl.Type)))
	out.Queued = true
	return out, nil
}

// CartVariables are the placeholders a cart can fill.
func CartVariables(c *entity.Cart, storeName string) map[string]string {
	if storeName == "" {
		storeName = "Your Store"
	}
	return map[string]string{
		"name":         c.Customer.Name,
		"product":      c.ProductNames(),
		"company":      storeName,
		"amount":       "₹" + formatAmount(c.CartValue),
		"order_id":     c.OrderID,
		"tracking_url": "",
		"checkout_url": c.CheckoutURL,
	}
}

// formatAmount renders 12345.5 as "12,345.5".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String() + frac
	}
	return b.String() + frac
}
