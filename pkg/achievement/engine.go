// Package achievement evaluates a fixed catalog of unlock predicates
// against the progression ledger. Unlocks are idempotent and grant
// bonus experience.
package achievement

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/spendguard/spend-intervention/pkg/clock"
	"github.com/spendguard/spend-intervention/pkg/progression"
	"github.com/spendguard/spend-intervention/pkg/state"
)

// ExpGranter grants bonus experience for unlocks. Satisfied by
// *progression.Ledger.
type ExpGranter interface {
	AddExperience(ctx context.Context, userID string, amount int, reason string) (*progression.Result, error)
}

// Engine evaluates the catalog after ledger events.
type Engine struct {
	store   *state.Store
	granter ExpGranter
	clock   clock.Clock
}

// NewEngine creates an achievement engine.
func NewEngine(store *state.Store, granter ExpGranter, clk clock.Clock) *Engine {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Engine{store: store, granter: granter, clock: clk}
}

// Check evaluates every catalog predicate against the user's current
// progress and unlocks the ones that hold. Re-running with the same
// state never double-unlocks or double-grants. One broken entry never
// aborts the batch.
func (e *Engine) Check(ctx context.Context, userID string) ([]state.UnlockedAchievement, error) {
	now := e.clock.Now()

	progress, err := e.store.GetUserProgress(ctx, userID, now)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}
	unlocked, err := e.store.GetAchievements(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}

	var newly []state.UnlockedAchievement
	for _, a := range catalog {
		if _, done := unlocked[a.ID]; done {
			continue
		}
		if a.Predicate == nil || !a.Predicate(progress) {
			continue
		}

		rec := state.UnlockedAchievement{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			ExpReward:   a.ExpReward,
			UnlockedAt:  now,
		}
		unlocked[a.ID] = rec

		if err := e.store.UpdateAchievements(ctx, userID, unlocked); err != nil {
			return newly, fmt.Errorf("persisting unlock %s: %w", a.ID, err)
		}

		logrus.Infof("achievement unlocked for user %s: %s", userID, a.Title)
		if _, err := e.granter.AddExperience(ctx, userID, a.ExpReward, "achievement:"+a.ID); err != nil {
			logrus.Errorf("failed to grant exp for achievement %s: %v", a.ID, err)
			// The unlock stands; the grant is not retried.
		}

		newly = append(newly, rec)
	}

	return newly, nil
}

// Unlocked returns the unlocked achievement map for a user.
func (e *Engine) Unlocked(ctx context.Context, userID string) (map[string]state.UnlockedAchievement, error) {
	unlocked, err := e.store.GetAchievements(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}
	return unlocked, nil
}
