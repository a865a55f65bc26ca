// Package behavior tracks suspicious shopping behavior per session and
// per user, and scores it into a 1-4 resistance level.
package behavior

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/spendguard/spend-intervention/pkg/clock"
	"github.com/spendguard/spend-intervention/pkg/state"
)

// Kind identifies a detectable behavior.
type Kind string

const (
	KindRapidClicking     Kind = "rapidClicking"
	KindLateNightShopping Kind = "lateNightShopping"
	KindRepeatVisits      Kind = "repeatVisits"
	KindPriceJumping      Kind = "priceJumping"
)

// Session thresholds. Crossing one marks the session suspicious and
// bumps the matching persistent pattern counter.
const (
	rapidClickThreshold  = 10
	repeatVisitThreshold = 5
)

// Resistance score weights and level cutoffs.
const (
	ignoreWeight     = 2
	failureWeight    = 10
	suspiciousWeight = 3
	lateNightBonus   = 5

	levelEmergencyScore  = 25
	levelAggressiveScore = 15
	levelFirmScore       = 8
)

// ErrUnknownBehavior is returned by Detect for unrecognized kinds.
// No counters change in that case.
var ErrUnknownBehavior = errors.New("unknown behavior kind")

// Tracker maintains session and persistent behavior counters.
type Tracker struct {
	store *state.Store
	clock clock.Clock
}

// NewTracker creates a behavior tracker over the given store.
func NewTracker(store *state.Store, clk clock.Clock) *Tracker {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Tracker{store: store, clock: clk}
}

// Detect records one behavior observation and returns the session's
// updated suspicious behavior count.
func (t *Tracker) Detect(ctx context.Context, userID string, kind Kind) (int, error) {
	now := t.clock.Now()

	sess, err := t.store.GetSession(ctx, userID, now)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return 0, err
	}
	ist, err := t.store.GetInterventionState(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return 0, err
	}

	switch kind {
	case KindRapidClicking:
		sess.ClickCount++
		if sess.ClickCount > rapidClickThreshold {
			sess.SuspiciousBehaviors++
			ist.BehaviorPattern.RapidClicking++
		}
	case KindLateNightShopping:
		if clock.IsLateNight(now) {
			sess.SuspiciousBehaviors++
			ist.BehaviorPattern.LateNightShopping++
		}
	case KindRepeatVisits:
		sess.PageVisits++
		if sess.PageVisits > repeatVisitThreshold {
			sess.SuspiciousBehaviors++
			ist.BehaviorPattern.RepeatVisits++
		}
	case KindPriceJumping:
		sess.SuspiciousBehaviors++
		ist.BehaviorPattern.PriceJumping++
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBehavior, kind)
	}

	if err := t.store.UpdateSession(ctx, userID, sess); err != nil {
		return 0, err
	}
	if err := t.store.UpdateInterventionState(ctx, userID, ist); err != nil {
		return 0, err
	}

	logrus.Debugf("detected %s for user %s: session suspicious=%d", kind, userID, sess.SuspiciousBehaviors)
	return sess.SuspiciousBehaviors, nil
}

// ResistanceLevel computes the current intervention intensity for a
// user. Store trouble degrades to default counters rather than failing
// the call.
func (t *Tracker) ResistanceLevel(ctx context.Context, userID string) int {
	now := t.clock.Now()

	ist, err := t.store.GetInterventionState(ctx, userID)
	if err != nil {
		logrus.Warnf("resistance level for user %s using default intervention state: %v", userID, err)
	}
	sess, err := t.store.GetSession(ctx, userID, now)
	if err != nil {
		logrus.Warnf("resistance level for user %s using default session: %v", userID, err)
	}

	return ScoreLevel(ist, sess, now)
}

// Score computes the raw resistance score from the given counters.
// Pure: the same counters and time always produce the same score.
func Score(ist *state.InterventionState, sess *state.SessionState, now time.Time) float64 {
	score := float64(ist.ConsecutiveIgnores * ignoreWeight)

	if ist.TotalInterventions > 0 {
		failureRate := float64(ist.FailedBlocks) / float64(ist.TotalInterventions)
		score += failureRate * failureWeight
	}

	score += float64(sess.SuspiciousBehaviors * suspiciousWeight)

	if clock.IsLateNight(now) {
		score += lateNightBonus
	}

	return score
}

// ScoreLevel maps counters to a resistance level in 1..4.
func ScoreLevel(ist *state.InterventionState, sess *state.SessionState, now time.Time) int {
	score := Score(ist, sess, now)

	switch {
	case score >= levelEmergencyScore:
		return 4
	case score >= levelAggressiveScore:
		return 3
	case score >= levelFirmScore:
		return 2
	default:
		return 1
	}
}
