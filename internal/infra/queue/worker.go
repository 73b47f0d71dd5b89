package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/infra/integration/whatsapp"
)

var (
	ErrUnsupportedChannel = errors.New("no provider for channel")
	ErrMissingRecipient   = errors.New("message has no recipient")
)

type WhatsAppSender interface {
	SendText(ctx context.Context, input whatsapp.SendTextInput) (string, error)
}

type EmailSender interface {
	Send(to, subject, text string) error
}

type RemarkWriter interface {
	Create(ctx context.Context, r *entity.Remark) error
}

// DeliveryObserver is told about every handled message.
type DeliveryObserver interface {
	ObserveDelivery(channel string, err error)
}

// Worker consumes outreach messages and hands them to the channel provider.
// Failed deliveries are rejected without requeue and land in the DLQ.
type Worker struct {
	Channel  *amqp.Channel
	WhatsApp WhatsAppSender
	Email    EmailSender
	Remarks  RemarkWriter
	Observer DeliveryObserver
	Logger   *zap.Logger
}

func NewWorker(ch *amqp.Channel, wa WhatsAppSender, email EmailSender, remarks RemarkWriter, logger *zap.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		WhatsApp: wa,
		Email:    email,
		Remarks:  remarks,
		Logger:   logger.Named("outreach-worker"),
	}
}

// Start consumes QueueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.Channel.Consume(
		QueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.Info("🚀 waiting for outreach messages", zap.String("queue", QueueName))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 outreach worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			err := w.Handle(ctx, d.Body)
			if w.Observer != nil {
				w.Observer.ObserveDelivery(channelOf(d.Body), err)
			}
			if err != nil {
				w.Logger.Error("❌ outreach delivery failed", zap.Error(err))
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

// Handle decodes and delivers one message.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var msg OutreachMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if msg.To == "" {
		return ErrMissingRecipient
	}

	w.Logger.Info("📥 delivering outreach",
		zap.String("channel", msg.Channel),
		zap.String("cart_id", msg.CartID),
		zap.Int64("template_id", msg.TemplateID),
	)

	switch entity.TemplateType(msg.Channel) {
	case entity.TemplateWhatsApp:
		if _, err := w.WhatsApp.SendText(ctx, whatsapp.SendTextInput{PhoneNumber: msg.To, Body: msg.Body, PreviewURL: true}); err != nil {
			return err
		}
	case entity.TemplateEmail:
		if err := w.Email.Send(msg.To, msg.Subject, msg.Body); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedChannel, msg.Channel)
	}

	if msg.CartID != "" && w.Remarks != nil {
		agent := msg.Agent
		if agent == "" {
			agent = "System"
		}
		remark := &entity.Remark{
			CartID:  msg.CartID,
			Type:    msg.Channel,
			Message: msg.Body,
			Agent:   &agent,
		}
		if err := w.Remarks.Create(ctx, remark); err != nil {
			// the message is already out, so the delivery is not retried
			w.Logger.Warn("⚠️ delivered but remark not saved", zap.String("cart_id", msg.CartID), zap.Error(err))
		}
	}

	w.Logger.Info("✅ outreach delivered", zap.String("channel", msg.Channel), zap.String("to", msg.To))
	return nil
}

func channelOf(body []byte) string {
	var msg struct {
		Channel string `json:"channel"`
	}
	if json.Unmarshal(body, &msg) != nil || msg.Channel == "" {
		return "unknown"
	}
	return msg.Channel
}
