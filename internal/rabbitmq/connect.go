// Package rabbitmq содержит подключение к RabbitMQ и потребителя
// входящего потока уведомлений. Поток выключен по умолчанию и
// включается в конфиге; сообщения проходят тот же путь проверки
// права на доставку, что и синхронные HTTP-запросы.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Connect подключается к RabbitMQ с повторами.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}
