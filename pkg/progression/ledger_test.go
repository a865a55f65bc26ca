package progression

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/spendguard/spend-intervention/pkg/clock"
	"github.com/spendguard/spend-intervention/pkg/state"
)

func setupLedger(t *testing.T, now time.Time) (*Ledger, *state.Store) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	store := state.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), state.StoreConfig{})
	return NewLedger(store, clock.Fixed{T: now}), store
}

func TestAddExperience_LevelUp(t *testing.T) {
	ledger, _ := setupLedger(t, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	res, err := ledger.AddExperience(ctx, "u1", 60, "test")
	if err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}
	if res.LeveledUp {
		t.Error("60 exp should not level up from 1")
	}
	if res.CurrentExp != 60 || res.AddedExp != 60 {
		t.Errorf("result = %+v, expected currentExp 60", res)
	}

	res, err = ledger.AddExperience(ctx, "u1", 60, "test")
	if err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}
	if !res.LeveledUp || res.NewLevel != 5 {
		t.Errorf("crossing 100 exp should reach level 5, got %+v", res)
	}

	// Negative grants are ignored; exp never decreases.
	res, err = ledger.AddExperience(ctx, "u1", -500, "bogus")
	if err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}
	if res.CurrentExp != 120 || res.AddedExp != 0 {
		t.Errorf("negative grant should be a no-op, got %+v", res)
	}
}

func TestOnPurchaseBlocked_ExpAndCounters(t *testing.T) {
	day := time.Date(2025, 3, 3, 14, 0, 0, 0, time.UTC)
	night := time.Date(2025, 3, 3, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		now       time.Time
		saved     int
		wantExp   int
		lateNight bool
		highValue bool
	}{
		{"small daytime", day, 500, 10, false, false},
		{"tier 1000", day, 1500, 20, false, false},
		{"tier 5000", day, 6000, 25, false, false},
		{"tier 10000", day, 12000, 30, false, false},
		{"late night adds 5", night, 12000, 35, true, false},
		{"high value block", day, 60000, 30, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, store := setupLedger(t, tt.now)
			ctx := context.Background()

			res, err := ledger.OnPurchaseBlocked(ctx, "u2", tt.saved)
			if err != nil {
				t.Fatalf("OnPurchaseBlocked() error = %v", err)
			}
			if res.AddedExp != tt.wantExp {
				t.Errorf("added exp = %d, expected %d", res.AddedExp, tt.wantExp)
			}

			p, _ := store.GetUserProgress(ctx, "u2", tt.now)
			if p.BlockedCount != 1 {
				t.Errorf("blockedCount = %d, expected 1", p.BlockedCount)
			}
			if p.TotalSaved != tt.saved {
				t.Errorf("totalSaved = %d, expected %d", p.TotalSaved, tt.saved)
			}
			if got := p.LateNightBlocks == 1; got != tt.lateNight {
				t.Errorf("lateNightBlocks = %d, late-night expected %v", p.LateNightBlocks, tt.lateNight)
			}
			if got := p.HighValueBlocks == 1; got != tt.highValue {
				t.Errorf("highValueBlocks = %d, high-value expected %v", p.HighValueBlocks, tt.highValue)
			}
		})
	}
}

func TestOnEnduredToxicity(t *testing.T) {
	ledger, store := setupLedger(t, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	res, err := ledger.OnEnduredToxicity(ctx, "u3")
	if err != nil {
		t.Fatalf("OnEnduredToxicity() error = %v", err)
	}
	if res.AddedExp != 5 {
		t.Errorf("added exp = %d, expected 5", res.AddedExp)
	}

	p, _ := store.GetUserProgress(ctx, "u3", time.Now())
	if p.EnduredCount != 1 {
		t.Errorf("enduredCount = %d, expected 1", p.EnduredCount)
	}
}

func TestOnTimerCompleted(t *testing.T) {
	tests := []struct {
		name    string
		hour    int
		wantExp int
	}{
		{"daytime", 14, 15},
		{"late night", 2, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2025, 3, 3, tt.hour, 0, 0, 0, time.UTC)
			ledger, store := setupLedger(t, now)
			ctx := context.Background()

			res, err := ledger.OnTimerCompleted(ctx, "u4")
			if err != nil {
				t.Fatalf("OnTimerCompleted() error = %v", err)
			}
			if res.AddedExp != tt.wantExp {
				t.Errorf("added exp = %d, expected %d", res.AddedExp, tt.wantExp)
			}

			p, _ := store.GetUserProgress(ctx, "u4", now)
			if p.TimerCompletions != 1 {
				t.Errorf("timerCompletions = %d, expected 1", p.TimerCompletions)
			}
		})
	}
}

func TestStats(t *testing.T) {
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	ledger, store := setupLedger(t, now)
	ctx := context.Background()

	store.UpdateUserProgress(ctx, "u5", &state.UserProgress{
		Level: 5, Exp: 150, TotalSaved: 8000, BlockedCount: 3, EnduredCount: 2,
	})
	store.UpdateAchievements(ctx, "u5", map[string]state.UnlockedAchievement{
		"first_block": {ID: "first_block", UnlockedAt: now},
	})

	stats, err := ledger.Stats(ctx, "u5")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Title != "Apprentice Saver" {
		t.Errorf("title = %q, expected Apprentice Saver", stats.Title)
	}
	if stats.ExpToNext != 350 {
		t.Errorf("expToNext = %d, expected 350", stats.ExpToNext)
	}
	if stats.AchievementCount != 1 {
		t.Errorf("achievementCount = %d, expected 1", stats.AchievementCount)
	}
}
