package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// appID проставляется в свойство app_id каждого сообщения.
const appID = "ai-tools-catalog"

// Message — JSON-сообщение для публикации.
// RoutingKey также записывается в свойство type.
type Message struct {
	RoutingKey string
	ID         string
	Timestamp  time.Time
	Payload    any
}

// Publish сериализует Payload в JSON и публикует его в обменник exchange
// как persistent-сообщение.
func Publish(ch *amqp.Channel, exchange string, m Message) error {
	const op = "rabbitmq.Publish"
	body, err := json.Marshal(m.Payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ch == nil {
		return fmt.Errorf("%s: channel is not open", op)
	}

	err = ch.Publish(exchange, m.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    m.ID,
		Timestamp:    m.Timestamp,
		Type:         m.RoutingKey,
		AppId:        appID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%s: routing key %s: %w", op, m.RoutingKey, err)
	}
	return nil
}
