// Package kafka wraps the franz-go producer used to forward processed
// webhook events to the audit topic.
package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer publishes records to a single topic.
type Producer struct {
	client *kgo.Client
	topic  string
}

// NewProducer connects to the given seed brokers. The caller owns the
// producer lifecycle and must call Close on shutdown.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.Lz4Compression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Producer{client: client, topic: topic}, nil
}

// Publish produces one record keyed by the given key and waits for the broker
// acknowledgement. Keying by authentication code keeps all notifications for
// one transaction in a single partition, preserving their relative order for
// downstream consumers.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(key),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes buffered records and releases the underlying client.
func (p *Producer) Close() {
	p.client.Close()
}
