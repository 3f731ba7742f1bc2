package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// AlertPublisher defines the interface for publishing proctoring alerts
type AlertPublisher interface {
	PublishAlert(ctx context.Context, event *AlertEvent) error
	Close() error
}

// KafkaAlertPublisher implements AlertPublisher using Watermill with Kafka
type KafkaAlertPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// PublisherConfig holds configuration for the alert publisher
type PublisherConfig struct {
	KafkaBrokers []string
	TopicName    string
	Logger       *slog.Logger
}

// NewKafkaAlertPublisher creates a new Kafka-based alert publisher using Watermill
func NewKafkaAlertPublisher(config PublisherConfig) (*KafkaAlertPublisher, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	publisherConfig := kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}

	publisher, err := kafka.NewPublisher(publisherConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaAlertPublisher{
		publisher: publisher,
		logger:    config.Logger,
		topicName: config.TopicName,
	}, nil
}

// PublishAlert publishes a proctoring alert event to Kafka
func (p *KafkaAlertPublisher) PublishAlert(ctx context.Context, event *AlertEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format("2006-01-02T15:04:05Z07:00"))

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("Failed to publish alert event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish alert event: %w", err)
	}

	p.logger.Info("Published alert event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topicName)

	return nil
}

// Close closes the publisher and releases resources
func (p *KafkaAlertPublisher) Close() error {
	return p.publisher.Close()
}

// MockAlertPublisher is an in-memory implementation for testing
type MockAlertPublisher struct {
	Events []AlertEvent
	Logger *slog.Logger
}

// NewMockAlertPublisher creates a new mock alert publisher
func NewMockAlertPublisher(logger *slog.Logger) *MockAlertPublisher {
	return &MockAlertPublisher{
		Events: make([]AlertEvent, 0),
		Logger: logger,
	}
}

// PublishAlert stores the event in memory
func (m *MockAlertPublisher) PublishAlert(ctx context.Context, event *AlertEvent) error {
	m.Events = append(m.Events, *event)
	m.Logger.Info("Mock: Published alert event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

// Close is a no-op for the mock publisher
func (m *MockAlertPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns all published events
func (m *MockAlertPublisher) GetPublishedEvents() []AlertEvent {
	return m.Events
}

// ClearEvents clears all published events
func (m *MockAlertPublisher) ClearEvents() {
	m.Events = make([]AlertEvent, 0)
}
