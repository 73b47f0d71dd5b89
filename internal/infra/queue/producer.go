package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OutreachMessage is one filled template waiting for delivery.
type OutreachMessage struct {
	Channel    string `json:"channel"` // whatsapp | email | sms
	To         string `json:"to"`
	Subject    string `json:"subject,omitempty"`
	Body       string `json:"body"`
	CartID     string `json:"cart_id,omitempty"`
	TemplateID int64  `json:"template_id"`
	Agent      string `json:"agent,omitempty"`
}

type QueueProducerInterface interface {
	PublishOutreach(ctx context.Context, msg OutreachMessage) error
}

type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishOutreach(ctx context.Context, msg OutreachMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode outreach message: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish outreach message: %w", err)
	}
	return nil
}
