package history

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spendguard/spend-intervention/pkg/state"
)

// dangerousHourRatio marks hours whose blocked count reaches this
// share of the busiest hour.
const dangerousHourRatio = 0.7

// CategoryStat aggregates one category across all records.
type CategoryStat struct {
	Count  int `json:"count"`
	Amount int `json:"amount"`
}

// Stats is the dashboard-level summary of the whole log.
type Stats struct {
	TotalBlocked      int                     `json:"totalBlocked"`
	TotalPurchased    int                     `json:"totalPurchased"`
	TotalSavedAmount  int                     `json:"totalSavedAmount"`
	TotalSpentAmount  int                     `json:"totalSpentAmount"`
	RegretRatePercent int                     `json:"regretRatePercent"`
	CategoryStats     map[string]CategoryStat `json:"categoryStats"`
}

// KindCounts splits one category's records by outcome.
type KindCounts struct {
	Blocked   int `json:"blocked"`
	Purchased int `json:"purchased"`
}

// MonthlyStats summarizes one calendar month.
type MonthlyStats struct {
	Period           string                `json:"period"`
	BlockedCount     int                   `json:"blockedCount"`
	PurchasedCount   int                   `json:"purchasedCount"`
	TotalSaved       int                   `json:"totalSaved"`
	TotalSpent       int                   `json:"totalSpent"`
	BlockRatePercent float64               `json:"blockRatePercent"`
	CategoryStats    map[string]KindCounts `json:"categoryStats"`
	DangerousHours   []int                 `json:"dangerousHours"`
	ImpulseRating    int                   `json:"impulseRating"`
}

// WeeklyReport summarizes the trailing seven days.
type WeeklyReport struct {
	Period       string  `json:"period"`
	BlockedCount int     `json:"blockedCount"`
	TotalSaved   int     `json:"totalSaved"`
	AverageDaily float64 `json:"averageDaily"`
	TopCategory  string  `json:"topCategory"`
	Message      string  `json:"message"`
}

// SimilarResult reports keyword overlap with past records.
type SimilarResult struct {
	HasSimilar   bool       `json:"hasSimilar"`
	Count        int        `json:"count"`
	LastPurchase *time.Time `json:"lastPurchase,omitempty"`
	Warning      string     `json:"warning,omitempty"`
}

// GetStats derives the dashboard summary from the full log.
func (s *Store) GetStats(ctx context.Context, userID string) (*Stats, error) {
	records, err := s.Records(ctx, userID)
	if err != nil {
		return nil, err
	}
	regrets, err := s.Regrets(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{CategoryStats: make(map[string]CategoryStat)}
	for _, rec := range records {
		switch rec.Kind {
		case state.KindBlocked:
			stats.TotalBlocked++
			stats.TotalSavedAmount += rec.TotalAmount
		case state.KindPurchased:
			stats.TotalPurchased++
			stats.TotalSpentAmount += rec.TotalAmount
		}
		for _, item := range rec.Items {
			cs := stats.CategoryStats[item.Category]
			cs.Count++
			cs.Amount += item.Price
			stats.CategoryStats[item.Category] = cs
		}
	}

	if stats.TotalPurchased > 0 {
		stats.RegretRatePercent = int(math.Round(float64(len(regrets)) / float64(stats.TotalPurchased) * 100))
	}

	return stats, nil
}

// GetMonthlyStats summarizes the given calendar month. A month with no
// records yields zero counts and a zero block rate.
func (s *Store) GetMonthlyStats(ctx context.Context, userID string, year int, month time.Month) (*MonthlyStats, error) {
	records, err := s.Records(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &MonthlyStats{
		Period:        fmt.Sprintf("%04d-%02d", year, month),
		CategoryStats: make(map[string]KindCounts),
	}

	var hourCounts [24]int
	for _, rec := range records {
		if rec.Timestamp.Year() != year || rec.Timestamp.Month() != month {
			continue
		}

		switch rec.Kind {
		case state.KindBlocked:
			stats.BlockedCount++
			stats.TotalSaved += rec.TotalAmount
			hourCounts[rec.HourOfDay%24]++
		case state.KindPurchased:
			stats.PurchasedCount++
			stats.TotalSpent += rec.TotalAmount
		}

		for _, item := range rec.Items {
			kc := stats.CategoryStats[item.Category]
			if rec.Kind == state.KindBlocked {
				kc.Blocked++
			} else {
				kc.Purchased++
			}
			stats.CategoryStats[item.Category] = kc
		}
	}

	total := stats.BlockedCount + stats.PurchasedCount
	if total > 0 {
		blockRatio := float64(stats.BlockedCount) / float64(total)
		stats.BlockRatePercent = blockRatio * 100
		stats.ImpulseRating = impulseRating(blockRatio)
	}
	stats.DangerousHours = dangerousHours(hourCounts)

	return stats, nil
}

// GetWeeklyReport summarizes the trailing seven days of blocks.
func (s *Store) GetWeeklyReport(ctx context.Context, userID string) (*WeeklyReport, error) {
	records, err := s.Records(ctx, userID)
	if err != nil {
		return nil, err
	}

	cutoff := s.clock.Now().AddDate(0, 0, -7)
	report := &WeeklyReport{Period: "last 7 days", TopCategory: "none"}

	categoryCounts := make(map[string]int)
	for _, rec := range records {
		if rec.Timestamp.Before(cutoff) || rec.Kind != state.KindBlocked {
			continue
		}
		report.BlockedCount++
		report.TotalSaved += rec.TotalAmount
		for _, item := range rec.Items {
			categoryCounts[item.Category]++
		}
	}

	report.AverageDaily = float64(report.TotalSaved) / 7
	if top := topCategory(categoryCounts); top != "" {
		report.TopCategory = top
	}
	report.Message = weeklyMessage(report.BlockedCount)

	return report, nil
}

// CheckSimilar looks for keyword overlap between the title and past
// records, using the title's first three tokens.
func (s *Store) CheckSimilar(ctx context.Context, userID, title string) (*SimilarResult, error) {
	records, err := s.Records(ctx, userID)
	if err != nil {
		return nil, err
	}

	keywords := strings.Fields(strings.ToLower(title))
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}

	result := &SimilarResult{}
	if len(keywords) == 0 {
		return result, nil
	}

	for _, rec := range records {
		if recordMatches(rec, keywords) {
			result.Count++
			ts := rec.Timestamp
			result.LastPurchase = &ts
		}
	}

	result.HasSimilar = result.Count > 0
	if result.Count >= similarWarningCount {
		result.Warning = fmt.Sprintf("You've bought something like this %d times already. Really need another?", result.Count)
	}

	return result, nil
}

func recordMatches(rec state.PurchaseRecord, keywords []string) bool {
	for _, item := range rec.Items {
		lower := strings.ToLower(item.Title)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// dangerousHours returns the hours whose blocked count reaches 70% of
// the busiest hour.
func dangerousHours(hourCounts [24]int) []int {
	max := 0
	for _, c := range hourCounts {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return nil
	}

	var hours []int
	threshold := float64(max) * dangerousHourRatio
	for hour, c := range hourCounts {
		if c > 0 && float64(c) >= threshold {
			hours = append(hours, hour)
		}
	}
	return hours
}

// impulseRating maps the block ratio to a 1-5 calmness score.
func impulseRating(blockRatio float64) int {
	switch {
	case blockRatio >= 0.8:
		return 5
	case blockRatio >= 0.6:
		return 4
	case blockRatio >= 0.4:
		return 3
	case blockRatio >= 0.2:
		return 2
	default:
		return 1
	}
}

func topCategory(counts map[string]int) string {
	top := ""
	best := 0
	for cat, c := range counts {
		if c > best || (c == best && top != "" && cat < top) {
			top = cat
			best = c
		}
	}
	return top
}

func weeklyMessage(blocked int) string {
	switch {
	case blocked == 0:
		return "No interventions needed this week. Excellent behavior~ 💕"
	case blocked <= 2:
		return fmt.Sprintf("Stopped %d times this week. Not bad, I guess 😊", blocked)
	case blocked <= 5:
		return fmt.Sprintf("Stopped %d times this week... getting risky, aren't we? 💦", blocked)
	default:
		return fmt.Sprintf("Stopped %d times this week! Busiest week on record 😤", blocked)
	}
}
