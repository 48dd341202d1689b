package media

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

// ProcessUserEventUseCase is run by the worker for every message on the user
// events topic.
type ProcessUserEventUseCase struct {
	uploader service.Uploader
	logger   logger.Logger
}

func NewProcessUserEventUseCase(u service.Uploader, log logger.Logger) *ProcessUserEventUseCase {
	return &ProcessUserEventUseCase{uploader: u, logger: log}
}

// Execute purges the photos of deleted accounts. Removal is best effort: a
// photo that cannot be deleted is logged and skipped, never retried.
func (uc *ProcessUserEventUseCase) Execute(ctx context.Context, evt user.Event) error {
	l := uc.logger.With(zap.Int64("user_id", evt.UserID), zap.String("event_type", string(evt.Type)))

	if evt.Type != user.EventDeleted {
		l.Debug("Nothing to do for event")
		return nil
	}

	removed := 0
	for _, url := range evt.PhotoURLs {
		if err := uc.uploader.Delete(ctx, url); err != nil {
			l.Warn("Failed to delete photo", zap.String("url", url), zap.Error(err))
			continue
		}
		removed++
	}
	l.Info("Purged photos of deleted account", zap.Int("removed", removed), zap.Int("total", len(evt.PhotoURLs)))
	return nil
}
