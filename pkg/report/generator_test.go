package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/spendguard/spend-intervention/pkg/cart"
	"github.com/spendguard/spend-intervention/pkg/clock"
	"github.com/spendguard/spend-intervention/pkg/history"
	"github.com/spendguard/spend-intervention/pkg/progression"
	"github.com/spendguard/spend-intervention/pkg/state"
)

func setupGenerator(t *testing.T, now time.Time) (*Generator, *state.Store) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	backing := state.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), state.StoreConfig{})
	clk := clock.Fixed{T: now}
	ledger := progression.NewLedger(backing, clk)
	hist := history.NewStore(backing, clk)
	return NewGenerator(ledger, hist, clk), backing
}

func TestGenerateMonthly_FreshUser(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	gen, _ := setupGenerator(t, now)

	report, err := gen.GenerateMonthly(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GenerateMonthly() error = %v", err)
	}

	if report.Month != "2025-03" {
		t.Errorf("month = %s, expected 2025-03", report.Month)
	}
	if report.Level != 1 {
		t.Errorf("level = %d, expected 1", report.Level)
	}
	if report.BlockedCount != 0 || report.AveragePerBlock != 0 {
		t.Errorf("counts = %d/%d, expected zeros", report.BlockedCount, report.AveragePerBlock)
	}
	if report.Rating.Score != 1 {
		t.Errorf("rating = %d, expected 1", report.Rating.Score)
	}
	if report.Rating.Stars != "★☆☆☆☆" {
		t.Errorf("stars = %s, expected one filled", report.Rating.Stars)
	}
	if len(report.TopCategories) != 0 {
		t.Errorf("topCategories = %v, expected empty", report.TopCategories)
	}
	// A fresh user trips both the low-block and low-savings rules.
	if len(report.Suggestions) != 2 {
		t.Errorf("suggestions = %v, expected 2", report.Suggestions)
	}
}

func TestGenerateMonthly_ActiveUser(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	gen, backing := setupGenerator(t, now)
	ctx := context.Background()

	progress := state.NewUserProgress(now)
	progress.BlockedCount = 16
	progress.TotalSaved = 48000
	progress.Level = 4
	if err := backing.UpdateUserProgress(ctx, "u2", progress); err != nil {
		t.Fatalf("seeding progress: %v", err)
	}

	items := [][]cart.Item{
		{{Title: "denim jacket", Price: 8000}},
		{{Title: "leather shoes", Price: 9000}},
		{{Title: "mystery novel", Price: 1500}},
	}
	for _, batch := range items {
		if _, err := gen.history.RecordBlocked(ctx, "u2", batch, nil, batch[0].Price); err != nil {
			t.Fatalf("seeding history: %v", err)
		}
	}

	report, err := gen.GenerateMonthly(ctx, "u2")
	if err != nil {
		t.Fatalf("GenerateMonthly() error = %v", err)
	}

	if report.Rating.Score != 3 {
		t.Errorf("rating = %d, expected 3 for 16 blocks", report.Rating.Score)
	}
	if report.AveragePerBlock != 3000 {
		t.Errorf("averagePerBlock = %d, expected 3000", report.AveragePerBlock)
	}
	if report.Title != progression.TitleForLevel(4) {
		t.Errorf("title = %s, expected level 4 title", report.Title)
	}
	if len(report.TopCategories) != 2 {
		t.Fatalf("topCategories = %v, expected fashion and books", report.TopCategories)
	}
	if report.TopCategories[0].Category != "fashion" || report.TopCategories[0].Count != 2 {
		t.Errorf("top category = %+v, expected fashion x2", report.TopCategories[0])
	}
	// 16 blocks and 48000 saved trip no suggestion rules.
	if len(report.Suggestions) != 1 || !strings.Contains(report.Suggestions[0], "Nothing to nag") {
		t.Errorf("suggestions = %v, expected the default line", report.Suggestions)
	}
}

func TestRatingFor(t *testing.T) {
	tests := []struct {
		blocked int
		want    int
	}{
		{0, 1},
		{4, 1},
		{5, 2},
		{14, 2},
		{15, 3},
		{29, 3},
		{30, 4},
		{49, 4},
		{50, 5},
		{200, 5},
	}

	for _, tt := range tests {
		got := ratingFor(tt.blocked)
		if got.Score != tt.want {
			t.Errorf("ratingFor(%d) = %d, expected %d", tt.blocked, got.Score, tt.want)
		}
		if filled := strings.Count(got.Stars, "★"); filled != tt.want {
			t.Errorf("ratingFor(%d) stars = %s, expected %d filled", tt.blocked, got.Stars, tt.want)
		}
		if got.Comment == "" {
			t.Errorf("ratingFor(%d) has no comment", tt.blocked)
		}
	}
}

func TestSuggestionsFor(t *testing.T) {
	// All three rules can fire together.
	got := suggestionsFor(11, 3, 2000)
	if len(got) != 3 {
		t.Errorf("suggestions = %v, expected 3", got)
	}

	got = suggestionsFor(0, 20, 30000)
	if len(got) != 1 {
		t.Errorf("suggestions = %v, expected the default only", got)
	}
}
