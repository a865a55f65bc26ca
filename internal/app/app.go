// Package app wires configuration, the Redis store, the domain
// packages, and the servers into one lifecycle.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/spendguard/spend-intervention/internal/config"
	"github.com/spendguard/spend-intervention/internal/server"
	"github.com/spendguard/spend-intervention/pkg/achievement"
	"github.com/spendguard/spend-intervention/pkg/behavior"
	"github.com/spendguard/spend-intervention/pkg/clock"
	"github.com/spendguard/spend-intervention/pkg/engine"
	"github.com/spendguard/spend-intervention/pkg/history"
	"github.com/spendguard/spend-intervention/pkg/intervention"
	"github.com/spendguard/spend-intervention/pkg/progression"
	"github.com/spendguard/spend-intervention/pkg/report"
	"github.com/spendguard/spend-intervention/pkg/state"
)

const metricsEndpoint = "/metrics"

// App holds all application dependencies and manages the lifecycle.
type App struct {
	cfg           *config.Config
	httpServer    *server.HTTPServer
	metricsServer *server.MetricsServer
	redisClient   *redis.Client
}

// New creates and initializes an application instance. Components are
// built in dependency order: Redis, the state store, the domain
// packages, the engine facade, then the servers.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	redisClient, err := state.Connect(ctx, state.ConnectOptions{
		Addr:       cfg.RedisAddr(),
		Password:   cfg.RedisPassword,
		MaxRetries: cfg.RedisMaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	app.redisClient = redisClient

	store := state.NewStore(redisClient, state.StoreConfig{
		SessionTTL: time.Duration(cfg.SessionTTLHours) * time.Hour,
	})

	msgCfg, err := intervention.LoadMessageConfig(cfg.MessagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load message config from %s: %w", cfg.MessagesPath, err)
	}
	if msgCfg != nil {
		logrus.Infof("loaded message overrides from %s", cfg.MessagesPath)
	}

	var rng *rand.Rand
	if cfg.RandomSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.RandomSeed))
		logrus.Warnf("message RNG pinned to seed %d", cfg.RandomSeed)
	}

	clk := clock.Real{}
	tracker := behavior.NewTracker(store, clk)
	planner := intervention.NewPlanner(store, clk, rng, msgCfg)
	ledger := progression.NewLedger(store, clk)
	achievements := achievement.NewEngine(store, ledger, clk)
	hist := history.NewStore(store, clk)
	reports := report.NewGenerator(ledger, hist, clk)

	eng := engine.New(tracker, planner, ledger, achievements, hist, reports)

	app.httpServer = server.NewHTTPServer(eng, cfg.HTTPPort, cfg.Environment)

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, metricsEndpoint)
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to set up metrics server: %w", err)
	}

	logrus.Info("application initialized")
	return app, nil
}
