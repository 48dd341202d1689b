package service

import (
	"context"

	"github.com/khoahotran/volc-friends/internal/domain/user"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

type TokenIssuer interface {
	GenerateToken(userID int64) (string, error)
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, challengeID, answer string) (bool, error)
}

type UserEventPublisher interface {
	PublishUserEvent(ctx context.Context, evt user.Event) error
}
