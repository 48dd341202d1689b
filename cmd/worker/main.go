package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/adapters/event"
	"github.com/khoahotran/volc-friends/adapters/media_storage"
	mediaUC "github.com/khoahotran/volc-friends/internal/application/usecase/media"
	"github.com/khoahotran/volc-friends/internal/config"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

const consumerGroup = "user-media-cleaner"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env).With(zap.String("component", "worker"))
	defer appLogger.Sync()
	appLogger.Info("Starting Volc Friends Worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("kafka.brokers is empty", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uploader, err := media_storage.NewUploader(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	processUserEventUC := mediaUC.NewProcessUserEventUseCase(uploader, appLogger)

	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicUserEvents,
		GroupID:  consumerGroup,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicUserEvents), zap.String("group", consumerGroup))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		l := appLogger.With(zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))

		evt, err := event.DecodeUserEvent(msg.Value)
		if err != nil {
			l.Error("Skipping malformed event", err)
			commitMessage(ctx, consumer, msg, l)
			continue
		}

		if err := processUserEventUC.Execute(ctx, evt); err != nil {
			l.Error("Failed to process event", err, zap.Int64("user_id", evt.UserID))
			continue
		}

		commitMessage(ctx, consumer, msg, l)
	}
}

func commitMessage(ctx context.Context, consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
