package meta

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type SearchConfig struct {
	Depth    int           `yaml:"depth"`
	Budget   time.Duration `yaml:"budget"`
	Seed     uint64        `yaml:"seed"`
	Tactics  bool          `yaml:"tactics"`
	Evaluate string        `yaml:"evaluate"` // adaptive | race
}

type TournamentConfig struct {
	Games    int    `yaml:"games"`
	Parallel int    `yaml:"parallel"`
	Output   string `yaml:"output"`
}

// Config is everything main needs to run in any mode.
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	MaxTurns   int              `yaml:"max_turns"`
	Search     SearchConfig     `yaml:"search"`
	Tournament TournamentConfig `yaml:"tournament"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		MaxTurns: MAX_TURNS,
		Search: SearchConfig{
			Depth:    SEARCH_DEPTH,
			Budget:   TIME_BUDGET,
			Tactics:  true,
			Evaluate: "adaptive",
		},
		Tournament: TournamentConfig{
			Games:    NUM_GAMES,
			Parallel: PARALLEL_GAMES,
			Output:   OUTPUT_DIR,
		},
	}
}

// Load reads a YAML config over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.MaxTurns <= 0 {
		return fmt.Errorf("max_turns must be positive, got %d", c.MaxTurns)
	}
	if c.Search.Depth <= 0 {
		return fmt.Errorf("search depth must be positive, got %d", c.Search.Depth)
	}
	if c.Search.Budget < 0 {
		return fmt.Errorf("search budget must not be negative, got %s", c.Search.Budget)
	}
	switch c.Search.Evaluate {
	case "adaptive", "race":
	default:
		return fmt.Errorf("unknown evaluation %q", c.Search.Evaluate)
	}
	if c.Tournament.Games <= 0 || c.Tournament.Parallel <= 0 {
		return fmt.Errorf("tournament games and parallel must be positive")
	}
	return nil
}
