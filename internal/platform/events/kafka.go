// Package events delivers committed document events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/core/ports/gateways"
	"github.com/segmentio/kafka-go"
)

// HeaderEventType carries the event type so consumers can route without decoding the body.
const HeaderEventType = "event-type"

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DefaultQueueSize bounds how many batches wait for the broker before Publish starts dropping.
const DefaultQueueSize = 256

// ErrQueueFull is returned by Publish when the background writer has fallen behind.
var ErrQueueFull = errors.New("platform/events: publish queue is full")

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("platform/events: publisher is closed")

// KafkaPublisher writes each event as a JSON message keyed by document ID, so every event of
// one document lands on the same partition in order. Publish only encodes and enqueues; a
// single background goroutine performs the writes and logs their failures.
type KafkaPublisher struct {
	writer       messageWriter
	logger       *slog.Logger
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan []kafka.Message
	done   chan struct{}
}

// NewKafkaPublisher creates a publisher on topic backed by a queue of DefaultQueueSize batches.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}, logger, DefaultQueueSize)
}

func newKafkaPublisher(writer messageWriter, logger *slog.Logger, queueSize int) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize < 1 {
		queueSize = 1
	}
	p := &KafkaPublisher{
		writer:       writer,
		logger:       logger,
		writeTimeout: 30 * time.Second,
		queue:        make(chan []kafka.Message, queueSize),
		done:         make(chan struct{}),
	}
	go p.run()
	return p
}

var _ gateways.EventPublisher = (*KafkaPublisher)(nil)

// Publish encodes events and hands them to the background writer without waiting for the
// broker. It fails only on encoding errors, a full queue or a closed publisher.
func (p *KafkaPublisher) Publish(_ context.Context, events ...domain.DocumentEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("platform/events: encode %s: %w", e.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(e.Key()),
			Value:   body,
			Time:    e.OccurredAt,
			Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte(e.Type)}},
		})
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- msgs:
		return nil
	default:
		return fmt.Errorf("%w: dropped %d messages", ErrQueueFull, len(msgs))
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for msgs := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
		err := p.writer.WriteMessages(ctx, msgs...)
		cancel()
		if err != nil {
			p.logger.Error("Failed to write document events",
				slog.Int("count", len(msgs)),
				slog.String("error", err.Error()))
		}
	}
}

// Close stops accepting events, drains the queue and closes the writer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.writer.Close()
}
