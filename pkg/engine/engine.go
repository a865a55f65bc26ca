// Package engine composes the tracker, planner, ledger, achievements,
// and history into the single facade the transport layer talks to.
package engine

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/spendguard/spend-intervention/pkg/achievement"
	"github.com/spendguard/spend-intervention/pkg/behavior"
	"github.com/spendguard/spend-intervention/pkg/cart"
	"github.com/spendguard/spend-intervention/pkg/history"
	"github.com/spendguard/spend-intervention/pkg/intervention"
	"github.com/spendguard/spend-intervention/pkg/metrics"
	"github.com/spendguard/spend-intervention/pkg/progression"
	"github.com/spendguard/spend-intervention/pkg/report"
	"github.com/spendguard/spend-intervention/pkg/state"
)

// Outcome reports everything that happened while resolving one
// intervention: the experience grant and any achievements it tipped.
type Outcome struct {
	Blocked         bool                        `json:"blocked"`
	Progress        *progression.Result         `json:"progress,omitempty"`
	NewAchievements []state.UnlockedAchievement `json:"newAchievements,omitempty"`
	Record          *state.PurchaseRecord       `json:"record"`
}

// Engine is the collaborator-facing facade over the domain packages.
type Engine struct {
	tracker      *behavior.Tracker
	planner      *intervention.Planner
	ledger       *progression.Ledger
	achievements *achievement.Engine
	history      *history.Store
	reports      *report.Generator
}

// New wires the domain packages into a facade.
func New(tracker *behavior.Tracker, planner *intervention.Planner, ledger *progression.Ledger,
	achievements *achievement.Engine, hist *history.Store, reports *report.Generator) *Engine {
	return &Engine{
		tracker:      tracker,
		planner:      planner,
		ledger:       ledger,
		achievements: achievements,
		history:      hist,
		reports:      reports,
	}
}

// Observe feeds one behavior signal into the tracker and returns the
// resulting resistance level.
func (e *Engine) Observe(ctx context.Context, userID string, kind behavior.Kind) (int, error) {
	level, err := e.tracker.Detect(ctx, userID, kind)
	if err != nil {
		return 0, err
	}
	metrics.BehaviorsTotal.WithLabelValues(string(kind)).Inc()
	return level, nil
}

// PlanIntervention assembles the warning payload for the given cart.
func (e *Engine) PlanIntervention(ctx context.Context, userID string, items []cart.Item) (*intervention.Payload, error) {
	payload, err := e.planner.Plan(ctx, userID, items)
	if err != nil {
		return nil, err
	}
	metrics.InterventionsTotal.WithLabelValues(strconv.Itoa(payload.Level.Level)).Inc()
	return payload, nil
}

// ResolveIntervention records the user's decision. A block grants
// experience, re-checks achievements, and logs the saved purchase; a
// purchase only records the failure and the spent amount.
func (e *Engine) ResolveIntervention(ctx context.Context, userID string, blocked bool, items []cart.Item, dialogue []string, amount int) (*Outcome, error) {
	if blocked {
		return e.resolveBlocked(ctx, userID, items, dialogue, amount)
	}
	return e.resolvePurchased(ctx, userID, items, amount)
}

func (e *Engine) resolveBlocked(ctx context.Context, userID string, items []cart.Item, dialogue []string, amount int) (*Outcome, error) {
	if err := e.planner.OnSuccess(ctx, userID); err != nil {
		return nil, err
	}

	result, err := e.ledger.OnPurchaseBlocked(ctx, userID, amount)
	if err != nil {
		return nil, err
	}

	newly, err := e.achievements.Check(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, a := range newly {
		metrics.AchievementUnlocksTotal.WithLabelValues(a.ID).Inc()
	}

	rec, err := e.history.RecordBlocked(ctx, userID, items, dialogue, amount)
	if err != nil {
		return nil, err
	}

	metrics.OutcomesTotal.WithLabelValues("blocked").Inc()
	metrics.SavedAmountTotal.Add(float64(amount))

	logrus.Infof("user %s blocked a purchase of %d (%d new achievements)", userID, amount, len(newly))
	return &Outcome{Blocked: true, Progress: result, NewAchievements: newly, Record: rec}, nil
}

func (e *Engine) resolvePurchased(ctx context.Context, userID string, items []cart.Item, amount int) (*Outcome, error) {
	if err := e.planner.OnFailure(ctx, userID); err != nil {
		return nil, err
	}

	rec, err := e.history.RecordPurchase(ctx, userID, items, amount)
	if err != nil {
		return nil, err
	}

	metrics.OutcomesTotal.WithLabelValues("purchased").Inc()
	return &Outcome{Blocked: false, Record: rec}, nil
}

// CompleteTimer grants the cooldown-timer reward and re-checks
// achievements.
func (e *Engine) CompleteTimer(ctx context.Context, userID string) (*Outcome, error) {
	result, err := e.ledger.OnTimerCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}

	newly, err := e.achievements.Check(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, a := range newly {
		metrics.AchievementUnlocksTotal.WithLabelValues(a.ID).Inc()
	}

	return &Outcome{Blocked: true, Progress: result, NewAchievements: newly}, nil
}

// EndureToxicity grants the endured-scolding reward and re-checks
// achievements.
func (e *Engine) EndureToxicity(ctx context.Context, userID string) (*Outcome, error) {
	result, err := e.ledger.OnEnduredToxicity(ctx, userID)
	if err != nil {
		return nil, err
	}

	newly, err := e.achievements.Check(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, a := range newly {
		metrics.AchievementUnlocksTotal.WithLabelValues(a.ID).Inc()
	}

	return &Outcome{Blocked: true, Progress: result, NewAchievements: newly}, nil
}

// Regret logs a post-purchase regret.
func (e *Engine) Regret(ctx context.Context, userID, itemTitle, reason string) error {
	return e.history.RecordRegret(ctx, userID, itemTitle, reason)
}

// UserStats returns the ledger snapshot for the rendering layer.
func (e *Engine) UserStats(ctx context.Context, userID string) (*progression.UserStats, error) {
	return e.ledger.Stats(ctx, userID)
}

// Achievements returns the unlocked set keyed by achievement ID.
func (e *Engine) Achievements(ctx context.Context, userID string) (map[string]state.UnlockedAchievement, error) {
	return e.achievements.Unlocked(ctx, userID)
}

// HistoryStats returns the dashboard summary of the purchase log.
func (e *Engine) HistoryStats(ctx context.Context, userID string) (*history.Stats, error) {
	return e.history.GetStats(ctx, userID)
}

// InterventionStats returns the planner's success/failure summary.
func (e *Engine) InterventionStats(ctx context.Context, userID string) (*intervention.Stats, error) {
	return e.planner.Stats(ctx, userID)
}

// MonthlyReport assembles the report for the current month.
func (e *Engine) MonthlyReport(ctx context.Context, userID string) (*report.Monthly, error) {
	return e.reports.GenerateMonthly(ctx, userID)
}

// WeeklyReport summarizes the trailing seven days.
func (e *Engine) WeeklyReport(ctx context.Context, userID string) (*history.WeeklyReport, error) {
	return e.history.GetWeeklyReport(ctx, userID)
}

// MonthlyStats returns the raw stats for one calendar month.
func (e *Engine) MonthlyStats(ctx context.Context, userID string, year int, month time.Month) (*history.MonthlyStats, error) {
	return e.history.GetMonthlyStats(ctx, userID, year, month)
}

// CheckSimilar looks for repeat-buy overlap with past records.
func (e *Engine) CheckSimilar(ctx context.Context, userID, title string) (*history.SimilarResult, error) {
	return e.history.CheckSimilar(ctx, userID, title)
}
