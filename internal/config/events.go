package config

import (
	"log/slog"
	"strings"

	"github.com/certsim/quiz-service/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled      bool
	Publisher    string // channel, kafka or mock
	KafkaBrokers string
	Topic        string
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.Publisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockPublisher(), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.Topic)

		return events.NewKafkaPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.Topic,
			Logger:       logger,
		})
	case "channel":
		logger.Info("Using in-process channel event publisher", "topic", c.Topic)
		return events.NewChannelPublisher(c.Topic, logger), nil
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockPublisher(), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to channel", "publisher", c.Publisher)
		return events.NewChannelPublisher(c.Topic, logger), nil
	}
}
