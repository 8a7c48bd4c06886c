package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"mbs-pricing-ui/internal/config"
	"mbs-pricing-ui/internal/form"
	"mbs-pricing-ui/internal/model"
)

func TestMemorySessionRepository_UnknownSession(t *testing.T) {
	repo := NewMemorySessionRepository(time.Hour)
	defer repo.Close()

	state, err := repo.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if state.Request != model.DefaultPricingRequest() {
		t.Errorf("expected default request, got %+v", state.Request)
	}
	if state.Loading || state.Error != "" || state.Result != nil {
		t.Errorf("expected idle state, got %+v", state)
	}
}

func TestMemorySessionRepository_SaveLoadCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(time.Hour)
	defer repo.Close()

	state := form.NewState()
	state.Request.Coupon = 5
	state.Succeed(&model.PredictionResult{PredictedMarketPrice: 100})

	if err := repo.Save(ctx, "s1", state); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	// Mutating the caller's copy must not leak into the repository
	state.Request.Coupon = 7
	state.Result.PredictedMarketPrice = 1

	loaded, err := repo.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Request.Coupon != 5 {
		t.Errorf("expected coupon 5, got %v", loaded.Request.Coupon)
	}
	if loaded.Result == nil || loaded.Result.PredictedMarketPrice != 100 {
		t.Errorf("expected stored price 100, got %+v", loaded.Result)
	}
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(time.Minute)
	defer repo.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	state := form.NewState()
	state.Request.PSASpeed = 250
	if err := repo.Save(ctx, "s1", state); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	now = now.Add(2 * time.Minute)

	loaded, err := repo.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Request.PSASpeed != 100 {
		t.Errorf("expired session should reset to defaults, got PSA %v", loaded.Request.PSASpeed)
	}

	repo.cleanup()
	if repo.Len() != 0 {
		t.Errorf("expected cleanup to drop the expired session, %d left", repo.Len())
	}
}

func TestMemorySessionRepository_UpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(time.Hour)
	defer repo.Close()

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, "s1", func(s *form.State) error {
				s.Request.PSASpeed++
				return nil
			})
			if err != nil {
				t.Errorf("Update returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	loaded, _ := repo.Load(ctx, "s1")
	if want := 100.0 + writers; loaded.Request.PSASpeed != want {
		t.Errorf("expected PSA %v after %d increments, got %v", want, writers, loaded.Request.PSASpeed)
	}
}

func TestMemorySessionRepository_UpdateErrorSavesNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(time.Hour)
	defer repo.Close()

	boom := errors.New("boom")
	_, err := repo.Update(ctx, "s1", func(s *form.State) error {
		s.Request.Coupon = 9
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	loaded, _ := repo.Load(ctx, "s1")
	if loaded.Request.Coupon != 3.5 {
		t.Errorf("failed update must not be stored, coupon %v", loaded.Request.Coupon)
	}
	if repo.Len() != 0 {
		t.Errorf("failed update created a session")
	}
}

func TestMemorySessionRepository_CloseTwice(t *testing.T) {
	repo := NewMemorySessionRepository(time.Minute)
	if err := repo.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}

// Requires a running Redis; set REDIS_TEST_ADDR to enable.
func TestRedisSessionRepository(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	repo, err := NewRedisSessionRepository(ctx, &config.RedisConfig{Addr: addr}, time.Minute)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer repo.Close()

	id := "test-" + time.Now().Format("150405.000000000")

	fresh, err := repo.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if fresh.Request != model.DefaultPricingRequest() {
		t.Errorf("expected defaults for a new session, got %+v", fresh.Request)
	}

	fresh.Request.OptionAdjustedSpread = 42
	fresh.Fail("Invalid value for coupon")
	if err := repo.Save(ctx, id, fresh); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := repo.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Request.OptionAdjustedSpread != 42 || loaded.Error != "Invalid value for coupon" {
		t.Errorf("unexpected state after round trip: %+v", loaded)
	}

	updated, err := repo.Update(ctx, id, func(s *form.State) error {
		s.Request.Coupon = 6
		s.Succeed(&model.PredictionResult{PredictedMarketPrice: 98.5})
		return nil
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Request.OptionAdjustedSpread != 42 || updated.Result == nil {
		t.Errorf("Update did not start from the stored state: %+v", updated)
	}

	loaded, err = repo.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Request.Coupon != 6 || loaded.Error != "" || loaded.Result == nil {
		t.Errorf("unexpected state after update: %+v", loaded)
	}
}
