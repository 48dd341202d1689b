package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/volc-friends/internal/config"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

func TestNewUserEventPublisher_NoBrokersIsNop(t *testing.T) {
	pub, closeFn, err := NewUserEventPublisher(config.Config{}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, pub)
	assert.NoError(t, pub.PublishUserEvent(context.Background(), user.Event{Type: user.EventDeleted}))
	closeFn()
}

func TestNewUserEventPublisher_WithBrokers(t *testing.T) {
	var cfg config.Config
	cfg.Kafka.Brokers = []string{"localhost:9092"}

	pub, closeFn, err := NewUserEventPublisher(cfg, logger.NewNop())
	require.NoError(t, err)
	defer closeFn()

	client, ok := pub.(*KafkaProducerClient)
	require.True(t, ok)
	assert.Equal(t, TopicUserEvents, client.UserEventsWriter.Topic)
}

func TestDecodeUserEvent(t *testing.T) {
	evt := user.Event{
		Type:       user.EventDeleted,
		UserID:     42,
		PhotoURLs:  []string{"https://x/a.jpg"},
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"event_type":"user.deleted"`)

	got, err := DecodeUserEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, evt, got)

	_, err = DecodeUserEvent([]byte(`{"user_id":1}`))
	assert.Error(t, err)
	_, err = DecodeUserEvent([]byte(`not json`))
	assert.Error(t, err)
}
