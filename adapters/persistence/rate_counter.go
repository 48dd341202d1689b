package persistence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// INCR and the first PEXPIRE run atomically so a window never loses its TTL.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RedisRateCounter counts hits per key inside a fixed window.
type RedisRateCounter struct {
	rdb *redis.Client
}

func NewRedisRateCounter(rdb *redis.Client) *RedisRateCounter {
	return &RedisRateCounter{rdb: rdb}
}

// Hit records one request for key and returns the running count together with
// the time left in the current window.
func (c *RedisRateCounter) Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	res, err := incrExpireScript.Run(ctx, c.rdb, []string{key}, window.Milliseconds()).Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("rate counter: %w", err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("rate counter: unexpected reply %v", res)
	}
	count := toInt(res[0])
	ttl := time.Duration(toInt(res[1])) * time.Millisecond
	if ttl < 0 {
		ttl = 0
	}
	return count, ttl, nil
}

func toInt(v interface{}) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
