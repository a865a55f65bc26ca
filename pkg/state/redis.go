package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// keyPrefix namespaces every key written by this engine.
	keyPrefix = "spend_intervention:"

	// DefaultSessionTTL bounds the lifetime of session-scoped counters.
	// A browsing session that goes quiet for this long starts fresh.
	DefaultSessionTTL = 12 * time.Hour

	keyInterventionState = "intervention_state"
	keySessionResistance = "session_resistance"
	keyUserProgress      = "user_progress"
	keyAchievements      = "achievements"
	keyPurchaseHistory   = "purchase_history"
	keyRegretItems       = "regret_items"
)

// MaxHistoryRecords caps the purchase history log. The oldest records
// are evicted first once the cap is reached.
const MaxHistoryRecords = 1000

// ConnectOptions configures the Redis connection.
type ConnectOptions struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
}

// Connect initializes a Redis client, retrying the initial ping with
// exponential backoff until it succeeds or the retry budget runs out.
func Connect(ctx context.Context, opts ConnectOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	retries := opts.MaxRetries
	if retries <= 0 {
		retries = 5
	}

	operation := func() error {
		_, err := client.Ping(ctx).Result()
		if err != nil {
			logrus.Warnf("Redis ping failed: %v, retrying...", err)
		}
		return err
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries))
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	logrus.Infof("connected to Redis at %s", opts.Addr)
	return client, nil
}

// Store persists engine state in Redis. Each logical key holds one
// JSON value per user; every mutation is a read-modify-write with no
// cross-writer atomicity. Single-writer deployments are the supported
// mode; two concurrent writers can lose updates.
type Store struct {
	client     *redis.Client
	sessionTTL time.Duration
}

// StoreConfig tunes Store behavior. Zero values pick defaults.
type StoreConfig struct {
	SessionTTL time.Duration
}

// NewStore creates a Redis-backed state store.
func NewStore(client *redis.Client, cfg StoreConfig) *Store {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{client: client, sessionTTL: ttl}
}

func makeKey(logical, userID string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, logical, userID)
}

// getJSON loads and decodes a value. A missing key returns (false, nil)
// without touching dst. A corrupt value returns ErrCorrupt so the
// caller can fall back to defaults.
func (s *Store) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: get %s: %v", ErrReadFailed, key, err)
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		logrus.Errorf("corrupt value at %s: %v", key, err)
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func (s *Store) setJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrWriteFailed, key, err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrWriteFailed, key, err)
	}
	return nil
}

// GetInterventionState loads intervention state for a user. A missing
// key yields the default state; a corrupt value yields the default
// state plus ErrCorrupt.
func (s *Store) GetInterventionState(ctx context.Context, userID string) (*InterventionState, error) {
	st := NewInterventionState()
	found, err := s.getJSON(ctx, makeKey(keyInterventionState, userID), st)
	if err != nil {
		return NewInterventionState(), err
	}
	if !found {
		logrus.Debugf("no intervention state for user %s, using defaults", userID)
	}
	return st, nil
}

// UpdateInterventionState persists intervention state for a user.
func (s *Store) UpdateInterventionState(ctx context.Context, userID string, st *InterventionState) error {
	return s.setJSON(ctx, makeKey(keyInterventionState, userID), st, 0)
}

// GetSession loads the current session counters for a user, creating a
// fresh session starting at now if none exists.
func (s *Store) GetSession(ctx context.Context, userID string, now time.Time) (*SessionState, error) {
	sess := &SessionState{}
	found, err := s.getJSON(ctx, makeKey(keySessionResistance, userID), sess)
	if err != nil {
		return NewSessionState(now), err
	}
	if !found {
		logrus.Debugf("starting new session for user %s", userID)
		return NewSessionState(now), nil
	}
	return sess, nil
}

// UpdateSession persists session counters under the session TTL. Each
// write refreshes the TTL, so the session expires only after inactivity.
func (s *Store) UpdateSession(ctx context.Context, userID string, sess *SessionState) error {
	return s.setJSON(ctx, makeKey(keySessionResistance, userID), sess, s.sessionTTL)
}

// ResetSession discards the session counters for a user.
func (s *Store) ResetSession(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, makeKey(keySessionResistance, userID)).Err(); err != nil {
		return fmt.Errorf("%w: del session for %s: %v", ErrWriteFailed, userID, err)
	}
	return nil
}

// GetUserProgress loads the progression ledger for a user.
func (s *Store) GetUserProgress(ctx context.Context, userID string, now time.Time) (*UserProgress, error) {
	p := &UserProgress{}
	found, err := s.getJSON(ctx, makeKey(keyUserProgress, userID), p)
	if err != nil {
		return NewUserProgress(now), err
	}
	if !found {
		logrus.Debugf("no progress for user %s, using defaults", userID)
		return NewUserProgress(now), nil
	}
	return p, nil
}

// UpdateUserProgress persists the progression ledger for a user.
func (s *Store) UpdateUserProgress(ctx context.Context, userID string, p *UserProgress) error {
	return s.setJSON(ctx, makeKey(keyUserProgress, userID), p, 0)
}

// GetAchievements loads the unlocked achievement map for a user.
func (s *Store) GetAchievements(ctx context.Context, userID string) (map[string]UnlockedAchievement, error) {
	unlocked := make(map[string]UnlockedAchievement)
	_, err := s.getJSON(ctx, makeKey(keyAchievements, userID), &unlocked)
	if err != nil {
		return make(map[string]UnlockedAchievement), err
	}
	return unlocked, nil
}

// UpdateAchievements persists the unlocked achievement map for a user.
func (s *Store) UpdateAchievements(ctx context.Context, userID string, unlocked map[string]UnlockedAchievement) error {
	return s.setJSON(ctx, makeKey(keyAchievements, userID), unlocked, 0)
}

// GetPurchaseHistory loads the purchase log, oldest first.
func (s *Store) GetPurchaseHistory(ctx context.Context, userID string) ([]PurchaseRecord, error) {
	var history []PurchaseRecord
	_, err := s.getJSON(ctx, makeKey(keyPurchaseHistory, userID), &history)
	if err != nil {
		return nil, err
	}
	return history, nil
}

// AppendPurchaseRecord appends a record, evicting the oldest entries
// beyond MaxHistoryRecords.
func (s *Store) AppendPurchaseRecord(ctx context.Context, userID string, rec PurchaseRecord) error {
	history, err := s.GetPurchaseHistory(ctx, userID)
	if err != nil {
		logrus.Warnf("purchase history for user %s unreadable, starting over: %v", userID, err)
		history = nil
	}
	history = append(history, rec)
	if len(history) > MaxHistoryRecords {
		history = history[len(history)-MaxHistoryRecords:]
	}
	return s.setJSON(ctx, makeKey(keyPurchaseHistory, userID), history, 0)
}

// GetRegrets loads the regret log, oldest first.
func (s *Store) GetRegrets(ctx context.Context, userID string) ([]RegretRecord, error) {
	var regrets []RegretRecord
	_, err := s.getJSON(ctx, makeKey(keyRegretItems, userID), &regrets)
	if err != nil {
		return nil, err
	}
	return regrets, nil
}

// AppendRegret appends a record to the regret log.
func (s *Store) AppendRegret(ctx context.Context, userID string, rec RegretRecord) error {
	regrets, err := s.GetRegrets(ctx, userID)
	if err != nil {
		logrus.Warnf("regret log for user %s unreadable, starting over: %v", userID, err)
		regrets = nil
	}
	regrets = append(regrets, rec)
	return s.setJSON(ctx, makeKey(keyRegretItems, userID), regrets, 0)
}
