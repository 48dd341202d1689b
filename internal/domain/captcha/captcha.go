package captcha

import (
	"context"
	"errors"
	"time"
)

var ErrChallengeNotFound = errors.New("captcha challenge not found or expired")

// Store keeps pending challenges with their own expiry.
type Store interface {
	Save(ctx context.Context, id, answer string, ttl time.Duration) error
	// Take returns the answer and removes the challenge in one step.
	Take(ctx context.Context, id string) (string, error)
}
