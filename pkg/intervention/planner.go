// Package intervention assembles escalating warning payloads and
// records intervention outcomes.
package intervention

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/spendguard/spend-intervention/pkg/behavior"
	"github.com/spendguard/spend-intervention/pkg/cart"
	"github.com/spendguard/spend-intervention/pkg/clock"
	"github.com/spendguard/spend-intervention/pkg/state"
)

// Special effect thresholds.
const (
	guiltIgnoreThreshold     = 3
	veteranInterventionCount = 20
)

// Pressure is one psychological pressure message with its category.
type Pressure struct {
	Type    PressureType `json:"type"`
	Message string       `json:"message"`
}

// SpecialEffect is an extra dramatic effect shown at high levels.
type SpecialEffect struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Visual  string `json:"visual"`
}

// Payload is one planned warning/confirmation cycle, handed to the
// rendering layer as plain data.
type Payload struct {
	Level                 LevelInfo       `json:"level"`
	PrimaryMessage        string          `json:"primaryMessage"`
	PsychologicalPressure *Pressure       `json:"psychologicalPressure,omitempty"`
	VisualEffects         VisualEffects   `json:"visualEffects"`
	RequiredAction        RequiredAction  `json:"requiredAction"`
	SpecialEffects        []SpecialEffect `json:"specialEffects,omitempty"`
}

// Stats summarizes intervention history for the rendering layer.
type Stats struct {
	TotalInterventions     int                   `json:"totalInterventions"`
	SuccessRatePercent     int                   `json:"successRatePercent"`
	CurrentResistanceLevel int                   `json:"currentResistanceLevel"`
	ConsecutiveIgnores     int                   `json:"consecutiveIgnores"`
	BehaviorPattern        state.BehaviorPattern `json:"behaviorPattern"`
}

// Planner assembles intervention payloads. Message selection goes
// through an injected RNG so tests can pin the choices.
type Planner struct {
	store  *state.Store
	clock  clock.Clock
	rng    *rand.Rand
	msgCfg *MessageConfig
}

// NewPlanner creates a planner. A nil rng gets a time-seeded one; a
// nil msgCfg keeps the built-in message pools.
func NewPlanner(store *state.Store, clk clock.Clock, rng *rand.Rand, msgCfg *MessageConfig) *Planner {
	if clk == nil {
		clk = clock.Real{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Planner{store: store, clock: clk, rng: rng, msgCfg: msgCfg}
}

// Plan computes the current resistance level, records the attempt, and
// assembles the warning payload for the given cart.
func (p *Planner) Plan(ctx context.Context, userID string, items []cart.Item) (*Payload, error) {
	now := p.clock.Now()

	ist, err := p.store.GetInterventionState(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}
	sess, err := p.store.GetSession(ctx, userID, now)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}

	level := behavior.ScoreLevel(ist, sess, now)

	payload := &Payload{
		Level:          levels[level],
		PrimaryMessage: p.pickPrimary(level),
		VisualEffects:  visualEffectsFor(level),
		RequiredAction: requiredActionFor(level),
	}

	if level >= 2 {
		payload.PsychologicalPressure = p.pickPressure()
	}
	if level >= 3 {
		payload.SpecialEffects = specialEffectsFor(ist)
	}

	ist.TotalInterventions++
	ist.ResistanceLevel = level
	if err := p.store.UpdateInterventionState(ctx, userID, ist); err != nil {
		return nil, err
	}

	logrus.Infof("planned level %d intervention for user %s (%d items, %d total interventions)",
		level, userID, len(items), ist.TotalInterventions)
	return payload, nil
}

// OnSuccess records that the user backed off. Resets the ignore streak.
func (p *Planner) OnSuccess(ctx context.Context, userID string) error {
	ist, err := p.store.GetInterventionState(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return err
	}

	ist.SuccessfulBlocks++
	ist.ConsecutiveIgnores = 0
	if err := p.store.UpdateInterventionState(ctx, userID, ist); err != nil {
		return err
	}

	logrus.Infof("intervention success for user %s (%d/%d)", userID, ist.SuccessfulBlocks, ist.TotalInterventions)
	return nil
}

// OnFailure records that the user bought anyway. Extends the streak.
func (p *Planner) OnFailure(ctx context.Context, userID string) error {
	ist, err := p.store.GetInterventionState(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return err
	}

	ist.FailedBlocks++
	ist.ConsecutiveIgnores++
	if err := p.store.UpdateInterventionState(ctx, userID, ist); err != nil {
		return err
	}

	logrus.Infof("intervention failure for user %s (ignores=%d)", userID, ist.ConsecutiveIgnores)
	return nil
}

// Stats returns the intervention statistics for a user.
func (p *Planner) Stats(ctx context.Context, userID string) (*Stats, error) {
	now := p.clock.Now()

	ist, err := p.store.GetInterventionState(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}
	sess, err := p.store.GetSession(ctx, userID, now)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}

	successRate := 0
	if ist.TotalInterventions > 0 {
		successRate = int(math.Round(float64(ist.SuccessfulBlocks) / float64(ist.TotalInterventions) * 100))
	}

	return &Stats{
		TotalInterventions:     ist.TotalInterventions,
		SuccessRatePercent:     successRate,
		CurrentResistanceLevel: behavior.ScoreLevel(ist, sess, now),
		ConsecutiveIgnores:     ist.ConsecutiveIgnores,
		BehaviorPattern:        ist.BehaviorPattern,
	}, nil
}

func (p *Planner) pickPrimary(level int) string {
	pool := p.msgCfg.primaryPool(level)
	return pool[p.rng.Intn(len(pool))]
}

func (p *Planner) pickPressure() *Pressure {
	typ := pressureOrder[p.rng.Intn(len(pressureOrder))]
	pool := p.msgCfg.pressurePool(typ)
	return &Pressure{Type: typ, Message: pool[p.rng.Intn(len(pool))]}
}

func specialEffectsFor(ist *state.InterventionState) []SpecialEffect {
	var effects []SpecialEffect

	if ist.ConsecutiveIgnores >= guiltIgnoreThreshold {
		effects = append(effects, SpecialEffect{
			Type:    "guilt_trip",
			Message: "Ignored three times in a row... that actually hurts 😢",
			Visual:  "tear_animation",
		})
	}
	if ist.TotalInterventions >= veteranInterventionCount {
		effects = append(effects, SpecialEffect{
			Type:    "veteran_user",
			Message: "You think you can just tune me out by now, huh? 😏",
			Visual:  "glowing_eyes",
		})
	}

	return effects
}
