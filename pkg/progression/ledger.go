// Package progression owns the experience ledger: levels, titles, and
// the domain events that grant experience.
package progression

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/spendguard/spend-intervention/pkg/clock"
	"github.com/spendguard/spend-intervention/pkg/state"
)

// Experience grants per event.
const (
	expBlockBase      = 10
	expBlockBonusHigh = 20 // saved >= 10000
	expBlockBonusMid  = 15 // saved >= 5000
	expBlockBonusLow  = 10 // saved >= 1000
	expLateNightBonus = 5
	expEndured        = 5
	expTimerBase      = 15
	expTimerLateBonus = 10
)

// highValueThreshold marks a block worth celebrating on its own.
const highValueThreshold = 50000

// Result reports the outcome of an experience grant.
type Result struct {
	LeveledUp  bool `json:"leveledUp"`
	NewLevel   int  `json:"newLevel"`
	CurrentExp int  `json:"currentExp"`
	AddedExp   int  `json:"addedExp"`
}

// UserStats is the ledger snapshot exposed to the rendering layer.
type UserStats struct {
	Level            int                                  `json:"level"`
	Title            string                               `json:"title"`
	Exp              int                                  `json:"exp"`
	ExpToNext        int                                  `json:"expToNext"`
	TotalSaved       int                                  `json:"totalSaved"`
	BlockedCount     int                                  `json:"blockedCount"`
	EnduredCount     int                                  `json:"enduredCount"`
	AchievementCount int                                  `json:"achievementCount"`
	Achievements     map[string]state.UnlockedAchievement `json:"achievements"`
}

// Ledger owns level/experience state and the events that grant it.
type Ledger struct {
	store *state.Store
	clock clock.Clock
}

// NewLedger creates an experience ledger over the given store.
func NewLedger(store *state.Store, clk clock.Clock) *Ledger {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Ledger{store: store, clock: clk}
}

// AddExperience grants experience and recomputes the level. Experience
// never decreases; negative amounts are ignored.
func (l *Ledger) AddExperience(ctx context.Context, userID string, amount int, reason string) (*Result, error) {
	if amount < 0 {
		amount = 0
	}

	now := l.clock.Now()
	p, err := l.store.GetUserProgress(ctx, userID, now)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}

	p.Exp += amount
	newLevel := LevelForExp(p.Exp)
	leveledUp := newLevel > p.Level
	if leveledUp {
		logrus.Infof("user %s leveled up to %d (%s)", userID, newLevel, TitleForLevel(newLevel))
	}
	p.Level = newLevel

	if err := l.store.UpdateUserProgress(ctx, userID, p); err != nil {
		return nil, err
	}

	logrus.Debugf("user %s +%d exp (%s), total %d", userID, amount, reason, p.Exp)
	return &Result{LeveledUp: leveledUp, NewLevel: p.Level, CurrentExp: p.Exp, AddedExp: amount}, nil
}

// OnPurchaseBlocked credits a blocked purchase: counters, saved total,
// and experience scaled by the amount saved.
func (l *Ledger) OnPurchaseBlocked(ctx context.Context, userID string, savedAmount int) (*Result, error) {
	now := l.clock.Now()
	lateNight := clock.IsLateNight(now)

	p, err := l.store.GetUserProgress(ctx, userID, now)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}

	p.BlockedCount++
	p.TotalSaved += savedAmount
	if lateNight {
		p.LateNightBlocks++
	}
	if savedAmount >= highValueThreshold {
		p.HighValueBlocks++
	}
	if err := l.store.UpdateUserProgress(ctx, userID, p); err != nil {
		return nil, err
	}

	exp := expBlockBase
	switch {
	case savedAmount >= 10000:
		exp += expBlockBonusHigh
	case savedAmount >= 5000:
		exp += expBlockBonusMid
	case savedAmount >= 1000:
		exp += expBlockBonusLow
	}
	if lateNight {
		exp += expLateNightBonus
	}

	return l.AddExperience(ctx, userID, exp, "purchase blocked")
}

// OnEnduredToxicity credits sitting through the scolding without
// buying anything.
func (l *Ledger) OnEnduredToxicity(ctx context.Context, userID string) (*Result, error) {
	now := l.clock.Now()

	p, err := l.store.GetUserProgress(ctx, userID, now)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}

	p.EnduredCount++
	if err := l.store.UpdateUserProgress(ctx, userID, p); err != nil {
		return nil, err
	}

	return l.AddExperience(ctx, userID, expEndured, "endured toxicity")
}

// OnTimerCompleted credits waiting out a full cooldown timer.
func (l *Ledger) OnTimerCompleted(ctx context.Context, userID string) (*Result, error) {
	now := l.clock.Now()

	p, err := l.store.GetUserProgress(ctx, userID, now)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}

	p.TimerCompletions++
	if err := l.store.UpdateUserProgress(ctx, userID, p); err != nil {
		return nil, err
	}

	exp := expTimerBase
	if clock.IsLateNight(now) {
		exp += expTimerLateBonus
	}

	return l.AddExperience(ctx, userID, exp, "timer completed")
}

// Stats returns the ledger snapshot for a user, achievements included.
func (l *Ledger) Stats(ctx context.Context, userID string) (*UserStats, error) {
	now := l.clock.Now()

	p, err := l.store.GetUserProgress(ctx, userID, now)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}
	unlocked, err := l.store.GetAchievements(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}

	return &UserStats{
		Level:            p.Level,
		Title:            TitleForLevel(p.Level),
		Exp:              p.Exp,
		ExpToNext:        ExpToNext(p.Exp, p.Level),
		TotalSaved:       p.TotalSaved,
		BlockedCount:     p.BlockedCount,
		EnduredCount:     p.EnduredCount,
		AchievementCount: len(unlocked),
		Achievements:     unlocked,
	}, nil
}

// Progress returns the raw persisted progress for a user.
func (l *Ledger) Progress(ctx context.Context, userID string) (*state.UserProgress, error) {
	p, err := l.store.GetUserProgress(ctx, userID, l.clock.Now())
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}
	return p, nil
}
