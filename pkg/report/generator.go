// Package report assembles the monthly summary shown to the user,
// combining ledger totals with the purchase history breakdown.
package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/spendguard/spend-intervention/pkg/clock"
	"github.com/spendguard/spend-intervention/pkg/history"
	"github.com/spendguard/spend-intervention/pkg/progression"
)

// topCategoryLimit caps the category breakdown in the monthly report.
const topCategoryLimit = 3

// CategoryCount is one entry of the blocked-category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CharacterRating grades the month's discipline on a 1-5 scale.
type CharacterRating struct {
	Score   int    `json:"score"`
	Stars   string `json:"stars"`
	Comment string `json:"comment"`
}

// Monthly is the assembled monthly report.
type Monthly struct {
	Month           string          `json:"month"`
	GeneratedAt     time.Time       `json:"generatedAt"`
	Level           int             `json:"level"`
	Title           string          `json:"title"`
	BlockedCount    int             `json:"blockedCount"`
	TotalSaved      int             `json:"totalSaved"`
	AveragePerBlock int             `json:"averagePerBlock"`
	Rating          CharacterRating `json:"rating"`
	TopCategories   []CategoryCount `json:"topCategories"`
	Suggestions     []string        `json:"suggestions"`
}

// Generator builds reports from the ledger and the purchase history.
type Generator struct {
	ledger  *progression.Ledger
	history *history.Store
	clock   clock.Clock
}

// NewGenerator creates a report generator.
func NewGenerator(ledger *progression.Ledger, hist *history.Store, clk clock.Clock) *Generator {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Generator{ledger: ledger, history: hist, clock: clk}
}

// GenerateMonthly assembles the report for the current calendar month.
func (g *Generator) GenerateMonthly(ctx context.Context, userID string) (*Monthly, error) {
	progress, err := g.ledger.Progress(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := g.clock.Now()
	monthly, err := g.history.GetMonthlyStats(ctx, userID, now.Year(), now.Month())
	if err != nil {
		return nil, err
	}

	average := 0
	if progress.BlockedCount > 0 {
		average = int(math.Round(float64(progress.TotalSaved) / float64(progress.BlockedCount)))
	}

	report := &Monthly{
		Month:           now.Format("2006-01"),
		GeneratedAt:     now,
		Level:           progress.Level,
		Title:           progression.TitleForLevel(progress.Level),
		BlockedCount:    progress.BlockedCount,
		TotalSaved:      progress.TotalSaved,
		AveragePerBlock: average,
		Rating:          ratingFor(progress.BlockedCount),
		TopCategories:   topBlockedCategories(monthly.CategoryStats),
		Suggestions:     suggestionsFor(progress.LateNightBlocks, progress.BlockedCount, progress.TotalSaved),
	}

	logrus.Debugf("generated monthly report for user %s: %d blocks, rating %d",
		userID, report.BlockedCount, report.Rating.Score)
	return report, nil
}

// ratingFor grades lifetime blocked count into a 1-5 character rating.
func ratingFor(blockedCount int) CharacterRating {
	var score int
	var comment string
	switch {
	case blockedCount >= 50:
		score = 5
		comment = "A master of restraint. I barely have anything left to teach you."
	case blockedCount >= 30:
		score = 4
		comment = "Impressive discipline. Keep it up and I might start trusting you."
	case blockedCount >= 15:
		score = 3
		comment = "Decent progress, but your wallet still flinches when you open a shop tab."
	case blockedCount >= 5:
		score = 2
		comment = "You're trying, I'll give you that. Trying."
	default:
		score = 1
		comment = "We have a lot of work to do, you and I."
	}

	return CharacterRating{
		Score:   score,
		Stars:   strings.Repeat("★", score) + strings.Repeat("☆", 5-score),
		Comment: comment,
	}
}

// topBlockedCategories picks the most-blocked categories, ties broken
// alphabetically.
func topBlockedCategories(stats map[string]history.KindCounts) []CategoryCount {
	counts := make([]CategoryCount, 0, len(stats))
	for cat, kc := range stats {
		if kc.Blocked == 0 {
			continue
		}
		counts = append(counts, CategoryCount{Category: cat, Count: kc.Blocked})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})

	if len(counts) > topCategoryLimit {
		counts = counts[:topCategoryLimit]
	}
	return counts
}

func suggestionsFor(lateNightBlocks, blockedCount, totalSaved int) []string {
	var suggestions []string
	if lateNightBlocks > 10 {
		suggestions = append(suggestions, "Most of your impulses strike late at night. Try closing shop tabs before 22:00.")
	}
	if blockedCount < 5 {
		suggestions = append(suggestions, "Let the interventions do their job instead of clicking through them.")
	}
	if totalSaved < 5000 {
		suggestions = append(suggestions, fmt.Sprintf("Only %d saved so far. Small blocks add up, so keep at it.", totalSaved))
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Nothing to nag about this month. Don't get cocky.")
	}
	return suggestions
}
