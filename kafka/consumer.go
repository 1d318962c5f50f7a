package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/metrics"
)

// consumeRetryBackoff is the pause before rejoining after a failed session
const consumeRetryBackoff = 2 * time.Second

var (
	errMissingEventType = errors.New("message without event_type header")
	errNoHandler        = errors.New("no handler registered for event type")
)

// MessageHandler processes the raw value of one message
type MessageHandler func(ctx context.Context, eventID string, value []byte) error

// Consumer dispatches messages of a consumer group to handlers by event type
type Consumer struct {
	group    sarama.ConsumerGroup
	groupID  string
	topics   []string
	metrics  *metrics.CatalogMetrics
	mu       sync.RWMutex
	handlers map[string]MessageHandler
	wg       sync.WaitGroup
	backoff  time.Duration
}

// NewConsumer joins groupID on brokers
func NewConsumer(brokers []string, groupID string, topics []string, m *metrics.CatalogMetrics) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer initialized")

	return newConsumer(group, groupID, topics, m), nil
}

func newConsumer(group sarama.ConsumerGroup, groupID string, topics []string, m *metrics.CatalogMetrics) *Consumer {
	return &Consumer{
		group:    group,
		groupID:  groupID,
		topics:   topics,
		metrics:  m,
		handlers: make(map[string]MessageHandler),
		backoff:  consumeRetryBackoff,
	}
}

// RegisterHandler registers the handler for an event type
func (c *Consumer) RegisterHandler(eventType string, handler MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[eventType] = handler
	logger.Logger.Info().Str("event_type", eventType).Msg("Event handler registered")
}

// Start consumes in the background until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) {
	handler := &groupHandler{consumer: c}

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		for ctx.Err() == nil {
			err := c.group.Consume(ctx, c.topics, handler)
			if err == nil {
				// session ended by a rebalance
				continue
			}
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}

			logger.Logger.Error().Err(err).Dur("retry_in", c.backoff).Msg("Error from consumer")
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff):
			}
		}
	}()

	go func() {
		defer c.wg.Done()
		for err := range c.group.Errors() {
			logger.Logger.Error().Err(err).Msg("Consumer error")
		}
	}()

	logger.Logger.Info().Strs("topics", c.topics).Str("group_id", c.groupID).Msg("Kafka consumer started")
}

// Close leaves the group and waits for the background loops
func (c *Consumer) Close() error {
	err := c.group.Close()
	c.wg.Wait()
	return err
}

// handleMessage extracts the trace context, then runs the handler for the event type.
// Failures are logged; the offset is committed regardless so a poison message cannot stall the partition.
func (c *Consumer) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	carrier := propagation.MapCarrier{}
	var eventType, eventID string
	for _, header := range message.Headers {
		key := string(header.Key)
		switch key {
		case HeaderEventType:
			eventType = string(header.Value)
		case HeaderEventID:
			eventID = string(header.Value)
		case "traceparent", "tracestate", "baggage":
			carrier[key] = string(header.Value)
		}
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	ctx, span := otel.Tracer("kafka-consumer").Start(ctx, "kafka.consume "+eventType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source.name", message.Topic),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		),
	)
	defer span.End()

	var err error
	if eventType == "" {
		err = errMissingEventType
	} else {
		c.mu.RLock()
		handler, ok := c.handlers[eventType]
		c.mu.RUnlock()

		if !ok {
			err = fmt.Errorf("%w: %s", errNoHandler, eventType)
		} else {
			err = handler(ctx, eventID, message.Value)
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.count(eventType, "error")
		logger.Error(ctx).
			Err(err).
			Str("event_type", eventType).
			Str("event_id", eventID).
			Str("topic", message.Topic).
			Int64("offset", message.Offset).
			Msg("Failed to handle message")
		return err
	}

	c.count(eventType, "ok")
	logger.Info(ctx).Str("event_type", eventType).Str("event_id", eventID).Msg("Message handled")
	return nil
}

func (c *Consumer) count(eventType, result string) {
	if c.metrics != nil {
		c.metrics.EventsConsumed.WithLabelValues(eventType, result).Inc()
	}
}

type groupHandler struct {
	consumer *Consumer
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.consumer.handleMessage(session.Context(), message)
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
