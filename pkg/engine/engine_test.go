package engine

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/spendguard/spend-intervention/pkg/achievement"
	"github.com/spendguard/spend-intervention/pkg/behavior"
	"github.com/spendguard/spend-intervention/pkg/cart"
	"github.com/spendguard/spend-intervention/pkg/clock"
	"github.com/spendguard/spend-intervention/pkg/history"
	"github.com/spendguard/spend-intervention/pkg/intervention"
	"github.com/spendguard/spend-intervention/pkg/progression"
	"github.com/spendguard/spend-intervention/pkg/report"
	"github.com/spendguard/spend-intervention/pkg/state"
)

func setupEngine(t *testing.T, now time.Time) (*Engine, *state.Store) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	backing := state.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), state.StoreConfig{})
	clk := clock.Fixed{T: now}

	tracker := behavior.NewTracker(backing, clk)
	planner := intervention.NewPlanner(backing, clk, rand.New(rand.NewSource(1)), nil)
	ledger := progression.NewLedger(backing, clk)
	achievements := achievement.NewEngine(backing, ledger, clk)
	hist := history.NewStore(backing, clk)
	reports := report.NewGenerator(ledger, hist, clk)

	return New(tracker, planner, ledger, achievements, hist, reports), backing
}

func TestResolveIntervention_Blocked(t *testing.T) {
	now := time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC)
	eng, backing := setupEngine(t, now)
	ctx := context.Background()

	items := []cart.Item{{Title: "denim jacket", Price: 1500}}
	if _, err := eng.PlanIntervention(ctx, "u1", items); err != nil {
		t.Fatalf("PlanIntervention() error = %v", err)
	}

	outcome, err := eng.ResolveIntervention(ctx, "u1", true, items, []string{"Put it back."}, 1500)
	if err != nil {
		t.Fatalf("ResolveIntervention() error = %v", err)
	}

	// Block exp is 10 base + 10 for saving >= 1000, plus 50 from the
	// first-block achievement.
	if outcome.Progress == nil || outcome.Progress.AddedExp != 20 {
		t.Fatalf("progress = %+v, expected 20 added exp", outcome.Progress)
	}
	if len(outcome.NewAchievements) != 1 || outcome.NewAchievements[0].ID != "first_block" {
		t.Fatalf("newAchievements = %v, expected first_block", outcome.NewAchievements)
	}

	progress, err := backing.GetUserProgress(ctx, "u1", now)
	if err != nil {
		t.Fatalf("GetUserProgress() error = %v", err)
	}
	if progress.Exp != 70 {
		t.Errorf("exp = %d, expected 70 (20 block + 50 reward)", progress.Exp)
	}
	if progress.BlockedCount != 1 || progress.TotalSaved != 1500 {
		t.Errorf("progress = %+v, expected 1 block, 1500 saved", progress)
	}

	ist, err := backing.GetInterventionState(ctx, "u1")
	if err != nil {
		t.Fatalf("GetInterventionState() error = %v", err)
	}
	if ist.SuccessfulBlocks != 1 || ist.ConsecutiveIgnores != 0 {
		t.Errorf("intervention state = %+v, expected 1 success, 0 ignores", ist)
	}

	records, err := backing.GetPurchaseHistory(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPurchaseHistory() error = %v", err)
	}
	if len(records) != 1 || records[0].Kind != state.KindBlocked {
		t.Fatalf("records = %v, expected a single blocked record", records)
	}
	if records[0].Items[0].Dialogue != "Put it back." {
		t.Errorf("dialogue = %q", records[0].Items[0].Dialogue)
	}
}

func TestResolveIntervention_Purchased(t *testing.T) {
	now := time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC)
	eng, backing := setupEngine(t, now)
	ctx := context.Background()

	items := []cart.Item{{Title: "mystery novel", Price: 2000}}
	outcome, err := eng.ResolveIntervention(ctx, "u2", false, items, nil, 2000)
	if err != nil {
		t.Fatalf("ResolveIntervention() error = %v", err)
	}

	if outcome.Blocked || outcome.Progress != nil {
		t.Errorf("outcome = %+v, expected no progress on a purchase", outcome)
	}
	if outcome.Record == nil || outcome.Record.Kind != state.KindPurchased {
		t.Fatalf("record = %+v, expected purchased kind", outcome.Record)
	}

	ist, err := backing.GetInterventionState(ctx, "u2")
	if err != nil {
		t.Fatalf("GetInterventionState() error = %v", err)
	}
	if ist.FailedBlocks != 1 || ist.ConsecutiveIgnores != 1 {
		t.Errorf("intervention state = %+v, expected 1 failure, 1 ignore", ist)
	}

	progress, err := backing.GetUserProgress(ctx, "u2", now)
	if err != nil {
		t.Fatalf("GetUserProgress() error = %v", err)
	}
	if progress.Exp != 0 || progress.BlockedCount != 0 {
		t.Errorf("progress = %+v, expected untouched", progress)
	}
}

func TestObserve(t *testing.T) {
	now := time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC)
	eng, _ := setupEngine(t, now)
	ctx := context.Background()

	level, err := eng.Observe(ctx, "u3", behavior.KindPriceJumping)
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	if level < 1 || level > 4 {
		t.Errorf("level = %d, expected 1..4", level)
	}

	if _, err := eng.Observe(ctx, "u3", behavior.Kind("nonsense")); err == nil {
		t.Error("expected error for unknown behavior kind")
	}
}

func TestCompleteTimerAndEndure(t *testing.T) {
	now := time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC)
	eng, backing := setupEngine(t, now)
	ctx := context.Background()

	timerOutcome, err := eng.CompleteTimer(ctx, "u4")
	if err != nil {
		t.Fatalf("CompleteTimer() error = %v", err)
	}
	if timerOutcome.Progress.AddedExp != 15 {
		t.Errorf("timer exp = %d, expected 15 at daytime", timerOutcome.Progress.AddedExp)
	}

	endureOutcome, err := eng.EndureToxicity(ctx, "u4")
	if err != nil {
		t.Fatalf("EndureToxicity() error = %v", err)
	}
	if endureOutcome.Progress.AddedExp != 5 {
		t.Errorf("endure exp = %d, expected 5", endureOutcome.Progress.AddedExp)
	}

	progress, err := backing.GetUserProgress(ctx, "u4", now)
	if err != nil {
		t.Fatalf("GetUserProgress() error = %v", err)
	}
	if progress.TimerCompletions != 1 || progress.EnduredCount != 1 {
		t.Errorf("progress = %+v, expected one timer and one endure", progress)
	}
}

func TestRegretFlowsIntoStats(t *testing.T) {
	now := time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC)
	eng, _ := setupEngine(t, now)
	ctx := context.Background()

	items := []cart.Item{{Title: "gaming console", Price: 30000}}
	if _, err := eng.ResolveIntervention(ctx, "u5", false, items, nil, 30000); err != nil {
		t.Fatalf("ResolveIntervention() error = %v", err)
	}
	if err := eng.Regret(ctx, "u5", "gaming console", "barely touched it"); err != nil {
		t.Fatalf("Regret() error = %v", err)
	}

	stats, err := eng.HistoryStats(ctx, "u5")
	if err != nil {
		t.Fatalf("HistoryStats() error = %v", err)
	}
	if stats.RegretRatePercent != 100 {
		t.Errorf("regretRate = %d, expected 100", stats.RegretRatePercent)
	}
}
