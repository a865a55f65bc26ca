package state

import (
	"time"
)

// RecordKind distinguishes purchase history entries.
type RecordKind string

const (
	// KindBlocked marks a purchase the user walked away from.
	KindBlocked RecordKind = "blocked"
	// KindPurchased marks a purchase that went through despite the warning.
	KindPurchased RecordKind = "purchased"
)

// BehaviorPattern accumulates suspicious behavior counts for a user.
// These survive across sessions and only ever grow.
type BehaviorPattern struct {
	RapidClicking     int `json:"rapidClicking"`
	LateNightShopping int `json:"lateNightShopping"`
	RepeatVisits      int `json:"repeatVisits"`
	PriceJumping      int `json:"priceJumping"`
}

// InterventionState tracks intervention outcomes and the user's
// resistance profile. ResistanceLevel is a cache of the last computed
// value; the score itself is always recomputed from counters.
type InterventionState struct {
	TotalInterventions int             `json:"totalInterventions"`
	SuccessfulBlocks   int             `json:"successfulBlocks"`
	FailedBlocks       int             `json:"failedBlocks"`
	ConsecutiveIgnores int             `json:"consecutiveIgnores"`
	ResistanceLevel    int             `json:"resistanceLevel"`
	BehaviorPattern    BehaviorPattern `json:"behaviorPattern"`
}

// SessionState tracks per-browsing-session counters. It lives under a
// short TTL and resets whenever a new session starts.
type SessionState struct {
	StartTime            time.Time `json:"startTime"`
	ClickCount           int       `json:"clickCount"`
	PageVisits           int       `json:"pageVisits"`
	SuspiciousBehaviors  int       `json:"suspiciousBehaviors"`
	InterventionAttempts int       `json:"interventionAttempts"`
}

// UserProgress is the persistent progression ledger for a user.
// Level is always derivable from Exp; it is stored for display only.
type UserProgress struct {
	Level            int       `json:"level"`
	Exp              int       `json:"exp"`
	TotalSaved       int       `json:"totalSaved"`
	BlockedCount     int       `json:"blockedCount"`
	EnduredCount     int       `json:"enduredCount"`
	LateNightBlocks  int       `json:"lateNightBlocks"`
	TimerCompletions int       `json:"timerCompletions"`
	HighValueBlocks  int       `json:"highValueBlocks"`
	LastLoginDate    time.Time `json:"lastLoginDate"`
}

// UnlockedAchievement is the persisted record of a one-time unlock.
type UnlockedAchievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	ExpReward   int       `json:"expReward"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// PurchaseItem is a single cart line inside a purchase record.
type PurchaseItem struct {
	Title    string `json:"title"`
	Price    int    `json:"price"`
	Category string `json:"category"`
	Dialogue string `json:"dialogue,omitempty"`
}

// PurchaseRecord is one blocked or completed purchase event.
type PurchaseRecord struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	Kind        RecordKind     `json:"kind"`
	Items       []PurchaseItem `json:"items"`
	TotalAmount int            `json:"totalAmount"`
	HourOfDay   int            `json:"hourOfDay"`
	DayOfWeek   time.Weekday   `json:"dayOfWeek"`
}

// RegretRecord is a previously purchased item the user later flagged
// as a mistake. Kept in an independent append-only log.
type RegretRecord struct {
	ID        string    `json:"id"`
	ItemTitle string    `json:"itemTitle"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewInterventionState returns the documented default intervention state.
func NewInterventionState() *InterventionState {
	return &InterventionState{ResistanceLevel: 1}
}

// NewSessionState returns a fresh session starting at the given time.
func NewSessionState(now time.Time) *SessionState {
	return &SessionState{StartTime: now}
}

// NewUserProgress returns the default ledger for a first-time user.
func NewUserProgress(now time.Time) *UserProgress {
	return &UserProgress{Level: 1, LastLoginDate: now}
}
