package auth

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/internal/application/service"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

const invalidCredentials = "username or password is incorrect"

type LoginUseCase struct {
	userRepo user.Repository
	hasher   service.PasswordHasher
	tokens   service.TokenIssuer
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, hasher service.PasswordHasher, tokens service.TokenIssuer, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   log,
	}
}

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	AccessToken string
	User        *user.User
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	username := strings.TrimSpace(input.Username)
	if violations := checkCredentialShape(username, input.Password); len(violations) > 0 {
		return nil, apperror.NewValidation(violations)
	}

	u, err := uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewUnauthorized(invalidCredentials, nil)
		}
		span.RecordError(err)
		return nil, err
	}

	if !uc.hasher.Verify(input.Password, u.PasswordHash) {
		err := apperror.NewUnauthorized(invalidCredentials, nil)
		span.RecordError(err)
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.userRepo.TouchLastLogin(ctx, u.ID, now); err != nil {
		uc.logger.Warn("Failed to record last login", zap.Int64("user_id", u.ID), zap.Error(err))
	} else {
		u.LastLogin = &now
	}

	token, err := uc.tokens.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.Int64("user_id", u.ID))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user_id", u.ID))
	return &LoginOutput{AccessToken: token, User: u}, nil
}

func checkCredentialShape(username, password string) []apperror.FieldViolation {
	var out []apperror.FieldViolation
	if n := utf8.RuneCountInString(username); n < 6 || n > 32 {
		out = append(out, apperror.FieldViolation{Field: "username", Rule: "len", Message: "must be between 6 and 32 characters"})
	}
	if n := utf8.RuneCountInString(password); n < 6 || n > 64 {
		out = append(out, apperror.FieldViolation{Field: "password", Rule: "len", Message: "must be between 6 and 64 characters"})
	}
	return out
}
