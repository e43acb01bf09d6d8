// Package events публикует события активности каталога в RabbitMQ.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

// Publisher отправляет событие активности.
type Publisher interface {
	Publish(ctx context.Context, event models.ActivityEvent) error
}

// AMQPPublisher публикует события в обменник, ключ маршрутизации равен типу события.
//
// amqp.Channel не рассчитан на параллельную публикацию, поэтому вызовы
// Publish сериализуются.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

// NewAMQPPublisher создаёт публикатор поверх уже настроенного канала.
func NewAMQPPublisher(ch *amqp.Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange}
}

// Publish отправляет событие.
func (p *AMQPPublisher) Publish(ctx context.Context, event models.ActivityEvent) error {
	const op = "services.events.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	msg := rabbitmq.Message{
		RoutingKey: event.Type,
		ID:         uuid.NewString(),
		Timestamp:  event.OccurredAt,
		Payload:    event,
	}
	if err := rabbitmq.Publish(p.ch, p.exchange, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Nop — публикатор, который отбрасывает события.
type Nop struct{}

// Publish ничего не делает.
func (Nop) Publish(context.Context, models.ActivityEvent) error { return nil }

// Recorder запоминает опубликованные события. Используется в тестах.
type Recorder struct {
	mu     sync.Mutex
	events []models.ActivityEvent
	Err    error
}

// Publish сохраняет событие или возвращает Err, если она задана.
func (r *Recorder) Publish(_ context.Context, event models.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

// Events возвращает копию опубликованных событий.
func (r *Recorder) Events() []models.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ActivityEvent, len(r.events))
	copy(out, r.events)
	return out
}
