package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

type DeleteAccountUseCase struct {
	userRepo  user.Repository
	publisher service.UserEventPublisher
	logger    logger.Logger
}

func NewDeleteAccountUseCase(repo user.Repository, publisher service.UserEventPublisher, log logger.Logger) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{userRepo: repo, publisher: publisher, logger: log}
}

// Execute removes the record for good. The deleted event carries the photo
// URLs so the worker can purge them from object storage.
func (uc *DeleteAccountUseCase) Execute(ctx context.Context, userID int64) error {
	ctx, span := tracer.Start(ctx, "DeleteAccount")
	defer span.End()

	removed, err := uc.userRepo.Delete(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	uc.logger.Info("Account deleted", zap.Int64("user_id", userID))
	publish(ctx, uc.publisher, uc.logger, user.Event{
		Type:      user.EventDeleted,
		UserID:    removed.ID,
		Username:  removed.Username,
		PhotoURLs: removed.PhotoURLs(),
	})
	return nil
}
