package intervention

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// MessageConfig overrides the built-in message pools. Levels or
// categories left empty keep their defaults.
type MessageConfig struct {
	Primary  map[int][]string          `yaml:"primary"`
	Pressure map[PressureType][]string `yaml:"pressure"`
}

// LoadMessageConfig reads a message pool override file. An empty path
// returns nil, meaning built-in defaults.
func LoadMessageConfig(path string) (*MessageConfig, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message config %s: %w", path, err)
	}

	var cfg MessageConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse message config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid message config: %w", err)
	}

	logrus.Infof("loaded message pools from %s", path)
	return &cfg, nil
}

// Validate rejects pools that would leave a level or category with
// nothing to say.
func (c *MessageConfig) Validate() error {
	for level, pool := range c.Primary {
		if level < 1 || level > 4 {
			return fmt.Errorf("primary pool for unknown level %d", level)
		}
		if len(pool) == 0 {
			return fmt.Errorf("primary pool for level %d is empty", level)
		}
	}
	for typ, pool := range c.Pressure {
		switch typ {
		case PressureGuilt, PressureReality, PressureRegret:
		default:
			return fmt.Errorf("pressure pool for unknown category %q", typ)
		}
		if len(pool) == 0 {
			return fmt.Errorf("pressure pool for category %q is empty", typ)
		}
	}
	return nil
}

// primaryPool returns the effective pool for a level.
func (c *MessageConfig) primaryPool(level int) []string {
	if c != nil {
		if pool, ok := c.Primary[level]; ok {
			return pool
		}
	}
	if pool, ok := defaultPrimaryMessages[level]; ok {
		return pool
	}
	return defaultPrimaryMessages[1]
}

// pressurePool returns the effective pool for a category.
func (c *MessageConfig) pressurePool(typ PressureType) []string {
	if c != nil {
		if pool, ok := c.Pressure[typ]; ok {
			return pool
		}
	}
	return defaultPressureMessages[typ]
}
