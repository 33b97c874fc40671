// Package rabbitmq подключение к RabbitMQ и публикация событий сессии.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// AppID метка приложения в свойствах каждого сообщения.
const AppID = "resume-builder"

// Channel часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует события в один exchange с фиксированным ключом маршрутизации.
type Publisher struct {
	ch         Channel
	exchange   string
	routingKey string
	now        func() time.Time
}

// NewPublisher создаёт Publisher поверх открытого канала.
func NewPublisher(ch Channel, exchange, routingKey string) *Publisher {
	return &Publisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		now:        time.Now,
	}
}

// Publish сериализует event в JSON и отправляет его с типом kind.
// Каждое сообщение получает свой MessageId, чтобы потребитель мог отсеять повторы.
func (p *Publisher) Publish(kind string, event any) error {
	const op = "rabbitmq.Publish"

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         kind,
		AppId:        AppID,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}
	if err := p.ch.Publish(p.exchange, p.routingKey, false, false, msg); err != nil {
		return fmt.Errorf("%s %s/%s: %w", op, p.exchange, p.routingKey, err)
	}
	return nil
}
