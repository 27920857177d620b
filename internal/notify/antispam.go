package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/crisisradar/crisisradar/internal/logger"
	"github.com/crisisradar/crisisradar/internal/models"
	"github.com/crisisradar/crisisradar/internal/store"
)

// AntiSpamWindow is how long a (phone, crisis type, location) triple is
// suppressed after a successful send.
const AntiSpamWindow = 2 * time.Hour

// Gate decides whether a phone may receive another alert for the same
// crisis at the same location.
type Gate interface {
	// Allow atomically claims the send slot; a second call for the same
	// triple within the window returns false.
	Allow(ctx context.Context, phone string, crisisType models.CrisisType, location string) (bool, error)
	// Release gives the slot back after a failed delivery so a retry is
	// not suppressed for the full window.
	Release(ctx context.Context, phone string, crisisType models.CrisisType, location string) error
	Close() error
}

// RedisGate keys one redis entry per triple with the window as TTL.
// SET NX makes check-and-claim a single atomic operation.
type RedisGate struct {
	redis  *redis.Client
	window time.Duration
}

// NewRedisGate connects to redis and verifies the connection.
func NewRedisGate(redisURL string) (*RedisGate, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisGate{redis: client, window: AntiSpamWindow}, nil
}

func gateKey(phone string, crisisType models.CrisisType, location string) string {
	return fmt.Sprintf("antispam:%s:%s:%s", phone, crisisType, location)
}

func (g *RedisGate) Allow(ctx context.Context, phone string, crisisType models.CrisisType, location string) (bool, error) {
	ok, err := g.redis.SetNX(ctx, gateKey(phone, crisisType, location), 1, g.window).Result()
	if err != nil {
		return false, fmt.Errorf("antispam setnx: %w", err)
	}
	return ok, nil
}

func (g *RedisGate) Release(ctx context.Context, phone string, crisisType models.CrisisType, location string) error {
	return g.redis.Del(ctx, gateKey(phone, crisisType, location)).Err()
}

func (g *RedisGate) Close() error { return g.redis.Close() }

// StoreGate falls back to the persistent sent log when redis is not
// configured. The sent log is only written after delivery, so an
// in-process claim map makes check-then-claim atomic per key: concurrent
// Allow calls for the same triple admit exactly one caller, matching the
// RedisGate SetNX contract. Claims expire with the window; Release frees
// a claim after a failed delivery.
type StoreGate struct {
	store  store.Store
	window time.Duration

	mu      sync.Mutex
	claimed map[string]time.Time
}

// NewStoreGate wraps the store's sent log as an anti-spam gate.
func NewStoreGate(s store.Store) *StoreGate {
	return &StoreGate{store: s, window: AntiSpamWindow, claimed: make(map[string]time.Time)}
}

func (g *StoreGate) Allow(ctx context.Context, phone string, crisisType models.CrisisType, location string) (bool, error) {
	key := gateKey(phone, crisisType, location)
	now := time.Now()

	g.mu.Lock()
	if until, ok := g.claimed[key]; ok {
		if now.Before(until) {
			g.mu.Unlock()
			return false, nil
		}
		delete(g.claimed, key)
	}
	g.claimed[key] = now.Add(g.window)
	g.mu.Unlock()

	sent, err := g.store.SentRecently(ctx, phone, crisisType, location, g.window)
	if err != nil || sent {
		g.mu.Lock()
		delete(g.claimed, key)
		g.mu.Unlock()
	}
	if err != nil {
		return false, err
	}
	return !sent, nil
}

func (g *StoreGate) Release(ctx context.Context, phone string, crisisType models.CrisisType, location string) error {
	g.mu.Lock()
	delete(g.claimed, gateKey(phone, crisisType, location))
	g.mu.Unlock()
	return nil
}

func (g *StoreGate) Close() error { return nil }

// NewGate picks the redis gate when a URL is configured and falls back
// to the store gate otherwise.
func NewGate(redisURL string, s store.Store) Gate {
	if redisURL == "" {
		return NewStoreGate(s)
	}
	gate, err := NewRedisGate(redisURL)
	if err != nil {
		logger.Warn("Redis unavailable for anti-spam gate, using store fallback", "error", err)
		return NewStoreGate(s)
	}
	return gate
}
