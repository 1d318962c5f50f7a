package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/metrics"
)

// Publisher sends catalog events to a single topic
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *metrics.CatalogMetrics
}

// NewProducerConfig returns the sarama configuration used for catalog events
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	config.Version = sarama.V2_6_0_0
	return config
}

// NewPublisher connects a sync producer to brokers
func NewPublisher(brokers []string, topic string, m *metrics.CatalogMetrics) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().Strs("brokers", brokers).Str("topic", topic).Msg("Kafka publisher initialized")
	return NewPublisherWithProducer(producer, topic, m), nil
}

// NewPublisherWithProducer wraps an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, m *metrics.CatalogMetrics) *Publisher {
	return &Publisher{producer: producer, topic: topic, metrics: m}
}

// Publish sends one event keyed by aggregate id, so events of one product stay ordered
func (p *Publisher) Publish(ctx context.Context, eventType string, aggregateID uint, payload interface{}) error {
	ctx, span := otel.Tracer("kafka-publisher").Start(ctx, "kafka.publish "+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", p.topic),
			attribute.String("event.type", eventType),
			attribute.Int64("aggregate.id", int64(aggregateID)),
		),
	)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		return p.fail(span, eventType, fmt.Errorf("failed to marshal payload: %w", err))
	}

	event := CatalogEvent{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Timestamp:   time.Now().UTC(),
		Payload:     body,
	}
	span.SetAttributes(attribute.String("event.id", event.EventID))

	value, err := json.Marshal(event)
	if err != nil {
		return p.fail(span, eventType, fmt.Errorf("failed to marshal event: %w", err))
	}

	msg := &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(strconv.FormatUint(uint64(aggregateID), 10)),
		Value:   sarama.ByteEncoder(value),
		Headers: messageHeaders(ctx, eventType, event.EventID),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return p.fail(span, eventType, fmt.Errorf("failed to send message to Kafka: %w", err))
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	p.count(eventType, "ok")

	logger.Debug(ctx).
		Str("event_id", event.EventID).
		Str("event_type", eventType).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Catalog event published")
	return nil
}

// Close closes the producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func (p *Publisher) fail(span trace.Span, eventType string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	p.count(eventType, "error")
	return err
}

func (p *Publisher) count(eventType, result string) {
	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(eventType, result).Inc()
	}
}

func messageHeaders(ctx context.Context, eventType, eventID string) []sarama.RecordHeader {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte(HeaderEventType), Value: []byte(eventType)},
		{Key: []byte(HeaderEventID), Value: []byte(eventID)},
	}
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}
	return headers
}
