package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/volc-friends/internal/domain/captcha"
)

const captchaKeyPrefix = "captcha:"

type redisCaptchaStore struct {
	rdb *redis.Client
}

func NewRedisCaptchaStore(rdb *redis.Client) captcha.Store {
	return &redisCaptchaStore{rdb: rdb}
}

func (s *redisCaptchaStore) Save(ctx context.Context, id, answer string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, captchaKeyPrefix+id, answer, ttl).Err(); err != nil {
		return fmt.Errorf("save captcha challenge: %w", err)
	}
	return nil
}

// Take uses GETDEL so a challenge can be redeemed at most once, even under
// concurrent attempts.
func (s *redisCaptchaStore) Take(ctx context.Context, id string) (string, error) {
	answer, err := s.rdb.GetDel(ctx, captchaKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", captcha.ErrChallengeNotFound
		}
		return "", fmt.Errorf("take captcha challenge: %w", err)
	}
	return answer, nil
}
