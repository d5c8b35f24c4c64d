// Package events publishes order lifecycle events to Kafka. The bus is
// optional: without a configured broker the storefront runs without it
// and nothing downstream is blocked.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sothun2025/kimhutcoffee-v2/model"
)

const (
	TopicOrderCreated = "order.created"
	TopicOrderPaid    = "order.paid"
)

// Envelope is the wire shape shared by every topic.
type Envelope struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Data      any    `json:"data"`
}

// OrderEvent is the payload for order.created and order.paid.
type OrderEvent struct {
	Fingerprint string `json:"fingerprint"`
	Currency    string `json:"currency"`
	Subtotal    string `json:"subtotal"`
	Items       int    `json:"items"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

type Producer struct {
	producer sarama.SyncProducer
	log      *logrus.Logger
}

// NewProducer connects a sync producer to the broker, retrying a few
// times so a broker that is still booting alongside us gets a chance.
func NewProducer(broker string, log *logrus.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	var producer sarama.SyncProducer
	var err error

	for i := 1; i <= 5; i++ {
		producer, err = sarama.NewSyncProducer([]string{broker}, config)
		if err == nil {
			log.WithField("broker", broker).Info("kafka producer initialized")
			return &Producer{producer: producer, log: log}, nil
		}
		log.WithError(err).Warnf("waiting for kafka... (%d/5)", i)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect kafka producer: %w", err)
}

func (p *Producer) Close() error {
	return p.producer.Close()
}

// PublishOrderCreated emits one event per checkout submission.
func (p *Producer) PublishOrderCreated(o *model.Order, fingerprint string) {
	p.publish(TopicOrderCreated, OrderEvent{
		Fingerprint: fingerprint,
		Currency:    o.Currency,
		Subtotal:    o.Subtotal,
		Items:       len(o.Items),
		ExpiresAt:   o.ExpiresAt.Format(time.RFC3339),
	})
}

// PublishOrderPaid emits exactly one event per settled order, from the
// poll call that won the notify lock.
func (p *Producer) PublishOrderPaid(o *model.Order, fingerprint string) {
	p.publish(TopicOrderPaid, OrderEvent{
		Fingerprint: fingerprint,
		Currency:    o.Currency,
		Subtotal:    o.Subtotal,
		Items:       len(o.Items),
	})
}

// publish is best effort: a dead broker costs a log line, never an order.
func (p *Producer) publish(topic string, event OrderEvent) {
	data, err := json.Marshal(Envelope{
		EventID:   uuid.NewString(),
		EventType: topic,
		Data:      event,
	})
	if err != nil {
		p.log.WithError(err).Errorf("failed to marshal %s event", topic)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		p.log.WithError(err).Errorf("failed to send %s event", topic)
		return
	}
	p.log.WithField("topic", topic).Debug("published event")
}
