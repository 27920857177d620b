package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/crisisradar/crisisradar/internal/models"
	"github.com/crisisradar/crisisradar/internal/store"
)

func newTestRedisGate(t *testing.T) (*RedisGate, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	gate, err := NewRedisGate("redis://" + mr.Addr())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { gate.Close() })
	return gate, mr
}

func TestRedisGateAllowOncePerWindow(t *testing.T) {
	gate, mr := newTestRedisGate(t)
	ctx := context.Background()

	ok, err := gate.Allow(ctx, "+919876543210", models.CrisisFlood, "mumbai")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("first claim should be allowed")
	}

	ok, err = gate.Allow(ctx, "+919876543210", models.CrisisFlood, "mumbai")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("second claim within window should be suppressed")
	}

	// Different location is a different key.
	ok, _ = gate.Allow(ctx, "+919876543210", models.CrisisFlood, "delhi")
	if !ok {
		t.Error("different location should be allowed")
	}

	// Window expiry frees the slot.
	mr.FastForward(AntiSpamWindow + time.Minute)
	ok, _ = gate.Allow(ctx, "+919876543210", models.CrisisFlood, "mumbai")
	if !ok {
		t.Error("claim after window expiry should be allowed")
	}
}

func TestRedisGateRelease(t *testing.T) {
	gate, _ := newTestRedisGate(t)
	ctx := context.Background()

	gate.Allow(ctx, "+919876543210", models.CrisisFire, "pune")
	if err := gate.Release(ctx, "+919876543210", models.CrisisFire, "pune"); err != nil {
		t.Fatal(err)
	}
	ok, _ := gate.Allow(ctx, "+919876543210", models.CrisisFire, "pune")
	if !ok {
		t.Error("released slot should be claimable again")
	}
}

func TestStoreGate(t *testing.T) {
	s := store.NewInMemoryStore()
	gate := NewStoreGate(s)
	ctx := context.Background()

	ok, err := gate.Allow(ctx, "+919876543210", models.CrisisFlood, "mumbai")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("no sent history should allow")
	}

	s.LogSentAlert(ctx, models.SentAlert{
		ID: "a1", Phone: "+919876543210", CrisisType: models.CrisisFlood,
		Location: "mumbai", Status: models.AlertStatusSent, SentAt: time.Now(),
	})

	ok, _ = gate.Allow(ctx, "+919876543210", models.CrisisFlood, "mumbai")
	if ok {
		t.Error("recent sent entry should suppress")
	}

	// A fresh gate sees the delivered alert through the sent log.
	ok, _ = NewStoreGate(s).Allow(ctx, "+919876543210", models.CrisisFlood, "mumbai")
	if ok {
		t.Error("sent log should suppress across gate instances")
	}
}

func TestStoreGateConcurrentClaims(t *testing.T) {
	gate := NewStoreGate(store.NewInMemoryStore())
	ctx := context.Background()

	// Delivery has not been logged yet when concurrent dispatches check
	// the gate, so the claim itself must admit exactly one caller.
	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := gate.Allow(ctx, "+919876543210", models.CrisisFlood, "mumbai")
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := allowed.Load(); got != 1 {
		t.Errorf("concurrent claims admitted = %d, want 1", got)
	}
}

func TestStoreGateRelease(t *testing.T) {
	gate := NewStoreGate(store.NewInMemoryStore())
	ctx := context.Background()

	gate.Allow(ctx, "+919876543210", models.CrisisFire, "pune")
	if err := gate.Release(ctx, "+919876543210", models.CrisisFire, "pune"); err != nil {
		t.Fatal(err)
	}
	ok, _ := gate.Allow(ctx, "+919876543210", models.CrisisFire, "pune")
	if !ok {
		t.Error("released claim should be claimable again")
	}
}

func TestNewGateFallsBackWithoutRedis(t *testing.T) {
	s := store.NewInMemoryStore()
	if _, ok := NewGate("", s).(*StoreGate); !ok {
		t.Error("empty redis URL should give store gate")
	}

	mr := miniredis.RunT(t)
	if _, ok := NewGate("redis://"+mr.Addr(), s).(*RedisGate); !ok {
		t.Error("valid redis URL should give redis gate")
	}
}
