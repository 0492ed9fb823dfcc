package redis

// Package redis provides Redis-based adapters for the centrestage system.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginMarker gates once-per-session side effects (last-login writes) using
// SETNX with a TTL. The first caller for a uid within the window wins;
// concurrent callers race safely because SETNX is atomic.
type LoginMarker struct {
	client redis.UniversalClient
	prefix string
}

// NewLoginMarker creates a Redis-backed login marker.
func NewLoginMarker(client redis.UniversalClient) *LoginMarker {
	return &LoginMarker{
		client: client,
		prefix: "login-marker:",
	}
}

// NewLoginMarkerWithPrefix creates a login marker with a custom key prefix.
func NewLoginMarkerWithPrefix(client redis.UniversalClient, prefix string) *LoginMarker {
	return &LoginMarker{
		client: client,
		prefix: prefix,
	}
}

// FirstLogin reports whether this is the first login seen for uid within the
// ttl window. It returns true exactly once per window.
func (m *LoginMarker) FirstLogin(ctx context.Context, uid string, ttl time.Duration) (bool, error) {
	if uid == "" {
		return false, errors.New("uid cannot be empty")
	}
	if ttl <= 0 {
		return false, errors.New("ttl must be positive")
	}

	key := m.prefix + uid
	set, err := m.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return set, nil
}
