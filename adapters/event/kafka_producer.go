package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/internal/config"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

const TopicUserEvents = "user.events"

type KafkaProducerClient struct {
	UserEventsWriter *kafka.Writer
	logger           logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	userWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        TopicUserEvents,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))
	return &KafkaProducerClient{UserEventsWriter: userWriter, logger: log}, nil
}

// PublishUserEvent keys messages by user id so every event of one account
// lands on the same partition in order.
func (c *KafkaProducerClient) PublishUserEvent(ctx context.Context, evt user.Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal user event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.UserID, 10)),
		Value: value,
		Time:  evt.OccurredAt,
	}
	if err := c.UserEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write user event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.UserEventsWriter != nil {
		if err := c.UserEventsWriter.Close(); err != nil {
			c.logger.Error("Failed to close Kafka writer", err)
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

// NopPublisher drops every event; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishUserEvent(context.Context, user.Event) error { return nil }

// NewUserEventPublisher returns a Kafka publisher when brokers are configured
// and a NopPublisher otherwise. The close func is always safe to call.
func NewUserEventPublisher(cfg config.Config, log logger.Logger) (service.UserEventPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn("Kafka brokers not configured, user events are dropped")
		return NopPublisher{}, func() {}, nil
	}
	client, err := NewKafkaProducerClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// DecodeUserEvent parses a message value written by PublishUserEvent.
func DecodeUserEvent(value []byte) (user.Event, error) {
	var evt user.Event
	if err := json.Unmarshal(value, &evt); err != nil {
		return user.Event{}, fmt.Errorf("decode user event: %w", err)
	}
	if evt.Type == "" {
		return user.Event{}, fmt.Errorf("decode user event: missing event_type")
	}
	return evt, nil
}
