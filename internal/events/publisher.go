package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	kafka "github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Publisher defines the interface for publishing quiz lifecycle events
type Publisher interface {
	Publish(ctx context.Context, event *QuizEvent) error
	Close() error
}

func marshalEvent(event *QuizEvent) (*message.Message, error) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quiz event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	return msg, nil
}

// ===== KAFKA PUBLISHER =====

// KafkaPublisher implements Publisher using Watermill with Kafka
type KafkaPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// PublisherConfig holds configuration for the Kafka event publisher
type PublisherConfig struct {
	KafkaBrokers []string
	TopicName    string
	Logger       *slog.Logger
}

// NewKafkaPublisher creates a new Kafka-based event publisher using Watermill
func NewKafkaPublisher(config PublisherConfig) (*KafkaPublisher, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	publisherConfig := kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}

	publisher, err := kafka.NewPublisher(publisherConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaPublisher{
		publisher: publisher,
		logger:    config.Logger,
		topicName: config.TopicName,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *QuizEvent) error {
	msg, err := marshalEvent(event)
	if err != nil {
		return err
	}

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("Failed to publish quiz event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish quiz event: %w", err)
	}

	p.logger.Debug("Published quiz event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topicName)

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.publisher.Close()
}

// ===== IN-PROCESS CHANNEL PUBLISHER =====

// ChannelPublisher is the in-process default. It publishes over a Watermill
// gochannel pub/sub so local consumers (and tests) can subscribe without a
// broker.
type ChannelPublisher struct {
	pubsub    *gochannel.GoChannel
	logger    *slog.Logger
	topicName string
}

func NewChannelPublisher(topicName string, logger *slog.Logger) *ChannelPublisher {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	return &ChannelPublisher{
		pubsub:    pubsub,
		logger:    logger,
		topicName: topicName,
	}
}

func (p *ChannelPublisher) Publish(ctx context.Context, event *QuizEvent) error {
	msg, err := marshalEvent(event)
	if err != nil {
		return err
	}

	if err := p.pubsub.Publish(p.topicName, msg); err != nil {
		return fmt.Errorf("failed to publish quiz event: %w", err)
	}
	return nil
}

// Subscribe returns a channel of raw messages on the event topic
func (p *ChannelPublisher) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return p.pubsub.Subscribe(ctx, p.topicName)
}

func (p *ChannelPublisher) Close() error {
	return p.pubsub.Close()
}

// ===== MOCK PUBLISHER =====

// MockPublisher is an in-memory implementation for testing
type MockPublisher struct {
	Events []QuizEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Events: make([]QuizEvent, 0)}
}

func (m *MockPublisher) Publish(ctx context.Context, event *QuizEvent) error {
	m.Events = append(m.Events, *event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// PublishedEvents returns all published events (for assertions)
func (m *MockPublisher) PublishedEvents() []QuizEvent {
	return m.Events
}
