package achievement

import (
	"github.com/spendguard/spend-intervention/pkg/state"
)

// Achievement is one unlockable milestone. Predicate is evaluated
// against the persisted progress; it must be pure.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        string
	ExpReward   int
	Predicate   func(p *state.UserProgress) bool
}

// catalog is the fixed set of unlockable milestones, evaluated in
// order. Every referenced counter has a producer in the ledger.
var catalog = []Achievement{
	{
		ID:          "first_block",
		Title:       "First Block",
		Description: "Got stopped from buying for the very first time 💕",
		Icon:        "🛡️",
		ExpReward:   50,
		Predicate:   func(p *state.UserProgress) bool { return p.BlockedCount == 1 },
	},
	{
		ID:          "endurance_10",
		Title:       "Scold Resistance Lv1",
		Description: "Sat through the scolding 10 times",
		Icon:        "💪",
		ExpReward:   100,
		Predicate:   func(p *state.UserProgress) bool { return p.EnduredCount >= 10 },
	},
	{
		ID:          "endurance_50",
		Title:       "Scold Resistance Lv2",
		Description: "Sat through the scolding 50 times",
		Icon:        "🦾",
		ExpReward:   200,
		Predicate:   func(p *state.UserProgress) bool { return p.EnduredCount >= 50 },
	},
	{
		ID:          "endurance_100",
		Title:       "Scold Resistance MAX",
		Description: "Heard it all 100 times and kept shopping anyway. Nerves of steel",
		Icon:        "🤖",
		ExpReward:   500,
		Predicate:   func(p *state.UserProgress) bool { return p.EnduredCount >= 100 },
	},
	{
		ID:          "saved_10000",
		Title:       "Saving Master",
		Description: "Saved a total of 10,000",
		Icon:        "💰",
		ExpReward:   200,
		Predicate:   func(p *state.UserProgress) bool { return p.TotalSaved >= 10000 },
	},
	{
		ID:          "saved_50000",
		Title:       "Saving Deity",
		Description: "Saved a total of 50,000. Seriously impressive",
		Icon:        "👑",
		ExpReward:   500,
		Predicate:   func(p *state.UserProgress) bool { return p.TotalSaved >= 50000 },
	},
	{
		ID:          "saved_100000",
		Title:       "Legendary Miser",
		Description: "Saved a total of 100,000. Nothing but respect",
		Icon:        "💎",
		ExpReward:   1000,
		Predicate:   func(p *state.UserProgress) bool { return p.TotalSaved >= 100000 },
	},
	{
		ID:          "late_night_warrior",
		Title:       "Late Night Shopping Warrior",
		Description: "Blocked 5 late-night purchases",
		Icon:        "🌙",
		ExpReward:   150,
		Predicate:   func(p *state.UserProgress) bool { return p.LateNightBlocks >= 5 },
	},
	{
		ID:          "timer_master_10",
		Title:       "Cool Headed",
		Description: "Waited out the cooldown timer 10 times",
		Icon:        "⏰",
		ExpReward:   100,
		Predicate:   func(p *state.UserProgress) bool { return p.TimerCompletions >= 10 },
	},
	{
		ID:          "timer_master_50",
		Title:       "Master of Patience",
		Description: "Waited out the cooldown timer 50 times",
		Icon:        "🧘",
		ExpReward:   300,
		Predicate:   func(p *state.UserProgress) bool { return p.TimerCompletions >= 50 },
	},
	{
		ID:          "high_value_block",
		Title:       "Big Game Hunter",
		Description: "Blocked a purchase worth 50,000 or more",
		Icon:        "🎯",
		ExpReward:   300,
		Predicate:   func(p *state.UserProgress) bool { return p.HighValueBlocks >= 1 },
	},
}

// Catalog returns the full achievement catalog.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}
