package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

type UpdateProfileUseCase struct {
	userRepo  user.Repository
	publisher service.UserEventPublisher
	logger    logger.Logger
}

func NewUpdateProfileUseCase(repo user.Repository, publisher service.UserEventPublisher, log logger.Logger) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userRepo: repo, publisher: publisher, logger: log}
}

type UpdateProfileInput struct {
	UserID int64
	Fields user.ProfileFields
}

type UpdateProfileOutput struct {
	User *user.User
}

// Execute replaces every mutable field of the owner's record at once. Marking a
// field private hides it but keeps the stored value.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "UpdateProfile")
	defer span.End()

	fields, violations := user.NormalizeProfile(input.Fields)
	if len(violations) > 0 {
		return nil, apperror.NewValidation(violations)
	}

	u, err := uc.userRepo.UpdateProfile(ctx, input.UserID, fields)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.logger.Debug("Profile updated", zap.Int64("user_id", u.ID))
	publish(ctx, uc.publisher, uc.logger, user.Event{
		Type:      user.EventProfileUpdated,
		UserID:    u.ID,
		Username:  u.Username,
		PhotoURLs: u.PhotoURLs(),
	})
	return &UpdateProfileOutput{User: u}, nil
}
