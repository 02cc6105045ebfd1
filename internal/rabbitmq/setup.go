package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// ExchangeName — exchange входящих уведомлений.
const ExchangeName = "notifications"

// InboundQueue — очередь сообщений в формате запроса на отправку уведомления.
const InboundQueue = "notifications.inbound"

// InboundRoutingKey — ключ маршрутизации входящего потока.
const InboundRoutingKey = "inbound"

// SetupChannel открывает канал и объявляет exchange, очередь и binding
// входящего потока уведомлений.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_, err = ch.QueueDeclare(
		InboundQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.QueueBind(InboundQueue, InboundRoutingKey, ExchangeName, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, err
}
