package resources

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
)

// AMQPChannel closes a RabbitMQ channel. Close it before its connection.
func AMQPChannel(ch *amqp.Channel) func() error {
	return func() error {
		return ignoreClosed(ch.Close(), amqp.ErrClosed)
	}
}

// AMQPConnection closes a RabbitMQ connection and every channel still open
// on it.
func AMQPConnection(conn *amqp.Connection) func() error {
	return func() error {
		return ignoreClosed(conn.Close(), amqp.ErrClosed)
	}
}

// KafkaWriter flushes buffered messages and closes the writer.
func KafkaWriter(w *kafka.Writer) func() error {
	return func() error {
		return w.Close()
	}
}

// KafkaReader leaves the consumer group and closes the reader.
func KafkaReader(r *kafka.Reader) func() error {
	return func() error {
		return r.Close()
	}
}
