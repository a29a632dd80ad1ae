package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const counterKeyPrefix = "quota:daily:"

// Counter is an optional server-side daily counter keyed by client IP.
// Unlike the signed cookie it cannot be cleared by the client, but it
// requires Redis; the service enforces it only when Redis is configured.
type Counter struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewCounter(rdb redis.Cmdable) *Counter {
	return &Counter{rdb: rdb, now: time.Now}
}

// WithClock overrides the counter's notion of "now" for tests.
func (ct *Counter) WithClock(now func() time.Time) *Counter {
	ct.now = now
	return ct
}

func (ct *Counter) key(ip string) string {
	return counterKeyPrefix + ct.now().Format(dayFormat) + ":" + ip
}

// Used returns the number of analyses recorded for ip today.
func (ct *Counter) Used(ctx context.Context, ip string) (int, error) {
	n, err := ct.rdb.Get(ctx, ct.key(ip)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading daily counter: %w", err)
	}
	return n, nil
}

// Increment bumps today's counter for ip and returns the new value. The
// key expires after two days; the day-stamped key makes stale counts
// unreachable at midnight regardless.
func (ct *Counter) Increment(ctx context.Context, ip string) (int, error) {
	key := ct.key(ip)

	pipe := ct.rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 48*time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("incrementing daily counter: %w", err)
	}
	return int(incrCmd.Val()), nil
}
