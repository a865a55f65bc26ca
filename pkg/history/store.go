// Package history keeps the append-only purchase log and derives
// statistics and time-windowed reports from it.
package history

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/spendguard/spend-intervention/pkg/cart"
	"github.com/spendguard/spend-intervention/pkg/clock"
	"github.com/spendguard/spend-intervention/pkg/state"
)

// similarWarningCount is how many keyword matches trigger a repeat-buy
// warning.
const similarWarningCount = 3

// Store records purchase outcomes and regrets.
type Store struct {
	store *state.Store
	clock clock.Clock
}

// NewStore creates a purchase history store.
func NewStore(store *state.Store, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Store{store: store, clock: clk}
}

// RecordBlocked appends a blocked-purchase record. Dialogue lines are
// attached to items by position; missing lines stay empty.
func (s *Store) RecordBlocked(ctx context.Context, userID string, items []cart.Item, dialogue []string, amount int) (*state.PurchaseRecord, error) {
	rec := s.newRecord(state.KindBlocked, items, amount)
	for i := range rec.Items {
		if i < len(dialogue) {
			rec.Items[i].Dialogue = dialogue[i]
		}
	}

	if err := s.store.AppendPurchaseRecord(ctx, userID, *rec); err != nil {
		return nil, err
	}
	logrus.Infof("recorded blocked purchase for user %s: %d items, %d saved", userID, len(items), amount)
	return rec, nil
}

// RecordPurchase appends a completed-purchase record.
func (s *Store) RecordPurchase(ctx context.Context, userID string, items []cart.Item, amount int) (*state.PurchaseRecord, error) {
	rec := s.newRecord(state.KindPurchased, items, amount)

	if err := s.store.AppendPurchaseRecord(ctx, userID, *rec); err != nil {
		return nil, err
	}
	logrus.Infof("recorded purchase for user %s: %d items, %d spent", userID, len(items), amount)
	return rec, nil
}

// RecordRegret appends to the independent regret log.
func (s *Store) RecordRegret(ctx context.Context, userID, itemTitle, reason string) error {
	rec := state.RegretRecord{
		ID:        uuid.NewString(),
		ItemTitle: itemTitle,
		Reason:    reason,
		Timestamp: s.clock.Now(),
	}
	if err := s.store.AppendRegret(ctx, userID, rec); err != nil {
		return err
	}
	logrus.Infof("recorded regret for user %s: %s", userID, itemTitle)
	return nil
}

// Records returns the full purchase log, oldest first.
func (s *Store) Records(ctx context.Context, userID string) ([]state.PurchaseRecord, error) {
	records, err := s.store.GetPurchaseHistory(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}
	return records, nil
}

// Regrets returns the regret log, oldest first.
func (s *Store) Regrets(ctx context.Context, userID string) ([]state.RegretRecord, error) {
	regrets, err := s.store.GetRegrets(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrCorrupt) {
		return nil, err
	}
	return regrets, nil
}

func (s *Store) newRecord(kind state.RecordKind, items []cart.Item, amount int) *state.PurchaseRecord {
	now := s.clock.Now()

	recItems := make([]state.PurchaseItem, 0, len(items))
	for _, item := range items {
		recItems = append(recItems, state.PurchaseItem{
			Title:    item.Title,
			Price:    item.Price,
			Category: string(Categorize(item.Title)),
		})
	}

	return &state.PurchaseRecord{
		ID:          uuid.NewString(),
		Timestamp:   now,
		Kind:        kind,
		Items:       recItems,
		TotalAmount: amount,
		HourOfDay:   now.Hour(),
		DayOfWeek:   now.Weekday(),
	}
}
