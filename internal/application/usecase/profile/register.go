package profile

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

type RegisterUseCase struct {
	userRepo  user.Repository
	hasher    service.PasswordHasher
	captcha   service.CaptchaVerifier
	publisher service.UserEventPublisher
	logger    logger.Logger
}

// NewRegisterUseCase builds the sign-up flow. A nil captcha verifier disables
// the captcha check.
func NewRegisterUseCase(
	repo user.Repository,
	hasher service.PasswordHasher,
	captcha service.CaptchaVerifier,
	publisher service.UserEventPublisher,
	log logger.Logger,
) *RegisterUseCase {
	return &RegisterUseCase{userRepo: repo, hasher: hasher, captcha: captcha, publisher: publisher, logger: log}
}

type RegisterInput struct {
	Registration  user.Registration
	CaptchaID     string
	CaptchaAnswer string
}

type RegisterOutput struct {
	UserID int64
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	if uc.captcha != nil {
		ok, err := uc.captcha.Verify(ctx, input.CaptchaID, input.CaptchaAnswer)
		if err != nil {
			span.RecordError(err)
			return nil, apperror.NewInternal("failed to verify captcha", err)
		}
		if !ok {
			return nil, apperror.NewValidation([]apperror.FieldViolation{{
				Field:   "captcha",
				Rule:    "captcha",
				Message: "is incorrect or expired",
			}})
		}
	}

	reg, violations := user.NormalizeRegistration(input.Registration)
	if len(violations) > 0 {
		return nil, apperror.NewValidation(violations)
	}

	exists, err := uc.userRepo.ExistsByUsername(ctx, reg.Username)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflict("user", "username", reg.Username)
	}

	hash, err := uc.hasher.Hash(reg.Password)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := user.NewFromRegistration(reg, hash, time.Now().UTC())
	id, err := uc.userRepo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			uc.logger.Info("Username taken between check and insert", zap.String("username", reg.Username))
		}
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user_id", id))
	uc.logger.Info("User registered", zap.Int64("user_id", id), zap.String("username", reg.Username))

	publish(ctx, uc.publisher, uc.logger, user.Event{
		Type:     user.EventRegistered,
		UserID:   id,
		Username: reg.Username,
	})
	return &RegisterOutput{UserID: id}, nil
}
