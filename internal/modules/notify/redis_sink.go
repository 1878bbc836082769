package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/academy-backend/internal/platform/logger"
)

// Publisher is the subset of the redis client the sink needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
}

type redisSink struct {
	log     *logger.Logger
	pub     Publisher
	channel string
}

func NewRedisSink(log *logger.Logger, pub Publisher, channel string) (Sink, error) {
	if pub == nil {
		return nil, fmt.Errorf("redis publisher required")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = "notifications"
	}
	return &redisSink{log: log.With("service", "RedisNotificationSink"), pub: pub, channel: channel}, nil
}

// DialRedis connects and pings before handing the client out.
func DialRedis(addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (s *redisSink) Name() string { return "redis" }

func (s *redisSink) Deliver(ctx context.Context, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.pub.Publish(ctx, s.channel, raw).Err()
}
