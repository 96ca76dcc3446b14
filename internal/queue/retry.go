package queue

import (
	"errors"

	"github.com/OFFIS-RIT/compass/pkg/loader"
	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/parser"

	"github.com/rabbitmq/amqp091-go"
)

// MaxDeliveries is the number of retries before a message is dead-lettered.
const MaxDeliveries = 10

const retriesHeader = "x-retries"

func retries(headers amqp091.Table) int {
	switch v := headers[retriesHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// ErrMalformedJob marks a message body that is not a valid job.
var ErrMalformedJob = errors.New("malformed job")

// Permanent reports whether err would fail again on every retry.
func Permanent(err error) bool {
	return errors.Is(err, ErrMalformedJob) || errors.Is(err, loader.ErrInvalidKey) || parser.IsParseFailure(err)
}

// HandleProcessingError moves a failed delivery to the retry queue. Permanent
// errors, and deliveries already retried MaxDeliveries times, go to the dead
// letter queue. The original delivery is acked only if the republish
// succeeded.
func HandleProcessingError(ch Channel, msg amqp091.Delivery, queueName string, cause error) {
	n := retries(msg.Headers)

	if Permanent(cause) || n >= MaxDeliveries {
		deadLetter(ch, msg, queueName)
		return
	}

	headers := amqp091.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[retriesHeader] = int32(n + 1)

	retryName := queueName + "_retry"
	err := ch.Publish("", retryName, false, false, amqp091.Publishing{
		ContentType: msg.ContentType,
		Body:        msg.Body,
		Headers:     headers,
	})
	if err != nil {
		logger.Error("[Queue] Failed to publish to retry queue", "retry_queue", retryName, "err", err)
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}

func deadLetter(ch Channel, msg amqp091.Delivery, queueName string) {
	dlqName := queueName + "_dlq"
	logger.Info("[Queue] Sending message to DLQ", "dlq", dlqName)
	err := ch.Publish("", dlqName, false, false, amqp091.Publishing{
		ContentType: msg.ContentType,
		Body:        msg.Body,
		Headers:     msg.Headers,
	})
	if err != nil {
		logger.Error("[Queue] Failed to publish to DLQ", "dlq", dlqName, "err", err)
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}
