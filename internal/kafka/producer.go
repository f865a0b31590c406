package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// TrackEventProducer is the audit-event surface the handlers depend on
// (swapped for a mock in tests).
type TrackEventProducer interface {
	ProduceTrackEvent(ctx context.Context, event string, payload map[string]interface{})
	ProduceTrackEventAsync(event string, payload map[string]interface{})
}

// Producer writes lookup audit events to a Kafka topic. Best effort: a
// broker outage must never fail or slow a customer lookup.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer returns a producer. With no brokers or an empty topic every
// method is a no-op.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// ProduceTrackEvent sends one audit event. payload keys: ticket_id,
// tracking_code, status, client_ip.
func (p *Producer) ProduceTrackEvent(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := map[string]interface{}{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("kafka: marshal track event: %v", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("kafka: write track event: %v", err)
	}
}

// ProduceTrackEventAsync sends the event from a goroutine so the request
// handler never waits on the broker.
func (p *Producer) ProduceTrackEventAsync(event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.ProduceTrackEvent(ctx, event, payload)
	}()
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
