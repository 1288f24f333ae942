package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"github.com/yunyunfunnydays/hookloop-server/models"
	"go.uber.org/zap"
)

// PaymentEventProducer publishes order transition events. A nil producer is
// valid and drops events, so the payment flow never depends on a broker.
type PaymentEventProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewPaymentEventProducer(brokers []string, topic string) *PaymentEventProducer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	zap.L().Info("Kafka payment event producer initialized",
		zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &PaymentEventProducer{writer: w, topic: topic}
}

func (p *PaymentEventProducer) SendPaymentEvent(ctx context.Context, event models.PaymentEvent) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.MerchantOrderNo),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		zap.L().Error("Failed to send payment event",
			zap.String("type", event.Type),
			zap.String("merchant_order_no", event.MerchantOrderNo),
			zap.Error(err))
		return err
	}
	return nil
}

func (p *PaymentEventProducer) Close() {
	if p == nil {
		return
	}
	_ = p.writer.Close()
}
