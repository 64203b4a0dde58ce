package api

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// loginCounter 是登录限流所需的 Redis 命令子集，*redis.Client 实现该接口。
type loginCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type limitResult int

const (
	limitAllowed limitResult = iota
	limitRateExceeded
	limitLocked
)

// LoginLimiter 基于 Redis 的登录限流与失败锁定。Redis 不可用时放行（fail-open）。
type LoginLimiter struct {
	redis     loginCounter
	perHour   int
	threshold int
	lockTTL   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewLoginLimiter returns nil when client is nil; a nil limiter allows everything.
func NewLoginLimiter(client loginCounter, perHour, threshold int, lockTTL time.Duration, logger *slog.Logger) *LoginLimiter {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginLimiter{
		redis:     client,
		perHour:   perHour,
		threshold: threshold,
		lockTTL:   lockTTL,
		logger:    logger,
		now:       time.Now,
	}
}

func (l *LoginLimiter) check(ctx context.Context, ip, username string) limitResult {
	if l == nil {
		return limitAllowed
	}
	username = strings.ToLower(username)

	// 速率限制：每 IP+用户名 每小时
	if l.perHour > 0 {
		rateKey := "rate:login:" + ip + ":" + username + ":" + l.now().UTC().Format("2006010215")
		count, err := incrWithTTL(ctx, l.redis, rateKey, time.Hour)
		if err != nil {
			l.logger.Warn("login rate counter unavailable", slog.Any("error", err))
			return limitAllowed
		}
		if count > int64(l.perHour) {
			return limitRateExceeded
		}
	}

	if ttl, err := l.redis.TTL(ctx, "lock:login:"+username).Result(); err == nil && ttl > 0 {
		return limitLocked
	}
	return limitAllowed
}

func (l *LoginLimiter) fail(ctx context.Context, username string) {
	if l == nil || l.threshold <= 0 {
		return
	}
	username = strings.ToLower(username)
	count, err := incrWithTTL(ctx, l.redis, "lock:login:fail:"+username, l.lockTTL)
	if err != nil {
		return
	}
	if count >= int64(l.threshold) {
		_ = l.redis.Set(ctx, "lock:login:"+username, "1", l.lockTTL).Err()
	}
}

func (l *LoginLimiter) reset(ctx context.Context, username string) {
	if l == nil {
		return
	}
	_ = l.redis.Del(ctx, "lock:login:fail:"+strings.ToLower(username)).Err()
}

// incrWithTTL 自增计数，首次创建时设置过期时间。
func incrWithTTL(ctx context.Context, client loginCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}
