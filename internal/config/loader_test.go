package config

import "testing"

func validConfig() *Config {
	return &Config{
		HTTPPort:        8080,
		MetricsPort:     9090,
		SessionTTLHours: 12,
		RedisHost:       "localhost",
		RedisPort:       "6379",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"http port too low", func(c *Config) { c.HTTPPort = 0 }, true},
		{"http port too high", func(c *Config) { c.HTTPPort = 70000 }, true},
		{"metrics port invalid", func(c *Config) { c.MetricsPort = -1 }, true},
		{"port collision", func(c *Config) { c.MetricsPort = c.HTTPPort }, true},
		{"zero session ttl", func(c *Config) { c.SessionTTLHours = 0 }, true},
		{"negative retries", func(c *Config) { c.RedisMaxRetries = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRedisAddr(t *testing.T) {
	cfg := validConfig()
	if got := cfg.RedisAddr(); got != "localhost:6379" {
		t.Errorf("RedisAddr() = %s, expected localhost:6379", got)
	}
}
