package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/session-auth/internal/auth"
	"github.com/yourusername/session-auth/internal/config"
	"github.com/yourusername/session-auth/internal/sessionstore"
)

var _ auth.SessionBackend = (*sessionstore.RedisStore)(nil)

// setupSessionStore は設定に応じたセッションストアと、その後始末用の関数を返します。
func setupSessionStore(cfg *config.Config) (sessions.Store, func() error, error) {
	secret := []byte(cfg.SessionSecret)

	switch cfg.SessionStore {
	case config.SessionStoreCookie:
		return cookie.NewStore(secret), func() error { return nil }, nil
	case config.SessionStoreRedis:
		opt, err := redis.ParseURL(cfg.SessionRedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse SESSION_REDIS_URL: %w", err)
		}
		redisClient := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = redisClient.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return sessionstore.NewRedisStore(redisClient, secret), redisClient.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session store: %q", cfg.SessionStore)
	}
}

// authOptions はセッションストアに応じた認証マネージャーのオプションを返します。
func authOptions(store sessions.Store) []auth.Option {
	if backend, ok := store.(auth.SessionBackend); ok {
		return []auth.Option{auth.WithSessionBackend(backend)}
	}
	return nil
}
