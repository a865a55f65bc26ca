package config

// Config holds all application configuration loaded from environment
// variables, parsed with github.com/caarlos0/env.
type Config struct {
	// Server configuration
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9090"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"spend-intervention"`

	// Redis configuration
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	// Session state expires after this many hours without activity.
	SessionTTLHours int `env:"SESSION_TTL_HOURS" envDefault:"12"`

	// Optional YAML file overriding the built-in intervention
	// message pools.
	MessagesPath string `env:"MESSAGES_PATH"`

	// Non-zero pins the message-selection RNG for reproducible runs.
	RandomSeed int64 `env:"RANDOM_SEED" envDefault:"0"`
}
