package profile

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

// publish never fails the caller; the record change is already committed.
func publish(ctx context.Context, pub service.UserEventPublisher, log logger.Logger, evt user.Event) {
	if pub == nil {
		return
	}
	evt.OccurredAt = time.Now().UTC()
	if err := pub.PublishUserEvent(ctx, evt); err != nil {
		log.Error("Failed to publish user event", err,
			zap.String("event_type", string(evt.Type)),
			zap.Int64("user_id", evt.UserID),
		)
	}
}
