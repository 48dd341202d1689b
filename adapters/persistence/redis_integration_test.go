package persistence

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/khoahotran/volc-friends/internal/domain/captcha"
)

type RedisIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	rdb       *redis.Client
}

func (s *RedisIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		s.T().Fatalf("Failed to start redis container: %s", err)
	}
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "6379")
	s.Require().NoError(err)

	s.rdb = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	s.Require().NoError(s.rdb.Ping(ctx).Err())
}

func (s *RedisIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.rdb.FlushAll(context.Background()).Err())
}

func (s *RedisIntegrationTestSuite) TearDownSuite() {
	if s.rdb != nil {
		_ = s.rdb.Close()
	}
	if s.container != nil {
		if err := s.container.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate redis container: %s", err)
		}
	}
}

func TestRedisIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(RedisIntegrationTestSuite))
}

func (s *RedisIntegrationTestSuite) Test_CaptchaStore_TakeIsSingleUse() {
	ctx := context.Background()
	store := NewRedisCaptchaStore(s.rdb)

	s.Require().NoError(store.Save(ctx, "abc", "K7QZ", time.Minute))

	answer, err := store.Take(ctx, "abc")
	s.Require().NoError(err)
	s.Equal("K7QZ", answer)

	_, err = store.Take(ctx, "abc")
	s.ErrorIs(err, captcha.ErrChallengeNotFound)
}

func (s *RedisIntegrationTestSuite) Test_CaptchaStore_ConcurrentTakeRedeemsOnce() {
	ctx := context.Background()
	store := NewRedisCaptchaStore(s.rdb)
	s.Require().NoError(store.Save(ctx, "race", "AAAA", time.Minute))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Take(ctx, "race"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(1, wins)
}

func (s *RedisIntegrationTestSuite) Test_CaptchaStore_Expires() {
	ctx := context.Background()
	store := NewRedisCaptchaStore(s.rdb)
	s.Require().NoError(store.Save(ctx, "short", "BBBB", 50*time.Millisecond))

	time.Sleep(150 * time.Millisecond)
	_, err := store.Take(ctx, "short")
	s.ErrorIs(err, captcha.ErrChallengeNotFound)
}

func (s *RedisIntegrationTestSuite) Test_RateCounter_CountsWithinWindow() {
	ctx := context.Background()
	counter := NewRedisRateCounter(s.rdb)

	for want := 1; want <= 3; want++ {
		count, ttl, err := counter.Hit(ctx, "rl:test", time.Minute)
		s.Require().NoError(err)
		s.Equal(want, count)
		s.True(ttl > 0 && ttl <= time.Minute, "ttl %s", ttl)
	}

	other, _, err := counter.Hit(ctx, "rl:other", time.Minute)
	s.Require().NoError(err)
	s.Equal(1, other)
}
