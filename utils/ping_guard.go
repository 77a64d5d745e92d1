package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hirlapp/hirl-server/config"
)

// Redis-backed guards against ping flooding. Both fail open: a Redis outage must not
// take the ping feature down with it.

func pingKey(parts ...string) string {
	out := "ping"
	for _, p := range parts {
		out += ":" + p
	}
	return out
}

// PingCooldownTry enforces a short cooldown between outgoing pings per sender.
// Returns false when the sender must wait.
func PingCooldownTry(email string) bool {
	cfg := config.Get()
	sec := cfg.PingCooldownSeconds
	if sec <= 0 {
		return true
	}
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	ok, err := cli.SetNX(ctx, pingKey("cooldown", email), "1", time.Duration(sec)*time.Second).Result()
	if err != nil {
		return true
	}
	return ok
}

// PingHourlyAllow increments the sender's hourly counter and reports whether they
// are still under the cap.
func PingHourlyAllow(email string) bool {
	cfg := config.Get()
	limit := cfg.PingMaxPerHour
	if limit <= 0 {
		return true
	}
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	key := pingKey("hour", email, time.Now().Format("2006010215"))
	n, err := cli.Incr(ctx, key).Result()
	if err != nil && err != redis.Nil {
		return true
	}
	_ = cli.Expire(ctx, key, time.Hour).Err()
	return int(n) <= limit
}
