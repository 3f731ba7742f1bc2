package config

import (
	"log/slog"
	"strings"

	"github.com/quizshield/proctoring-service/internal/events"
)

// EventConfig holds configuration for alert publishing
type EventConfig struct {
	Enabled      bool
	Publisher    string // kafka or mock
	KafkaBrokers string
	AlertTopic   string
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateAlertPublisher creates an alert publisher based on configuration
func (c *EventConfig) CreateAlertPublisher(logger *slog.Logger) (events.AlertPublisher, error) {
	if !c.Enabled {
		logger.Info("Alert publishing disabled, using mock publisher")
		return events.NewMockAlertPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka alert publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.AlertTopic)

		return events.NewKafkaAlertPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.AlertTopic,
			Logger:       logger,
		})
	case "mock":
		logger.Info("Using mock alert publisher")
		return events.NewMockAlertPublisher(logger), nil
	default:
		logger.Warn("Unknown alert publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockAlertPublisher(logger), nil
	}
}
