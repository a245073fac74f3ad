package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

const EnvPrefix = "MCTS"

type Config struct {
	Iterations    int     `mapstructure:"iterations"`
	Exploration   float64 `mapstructure:"exploration"`
	Seed          uint64  `mapstructure:"seed"` // 0 seeds from the clock
	LogLevel      string  `mapstructure:"log_level"`
	Addr          string  `mapstructure:"addr"`
	Games         int     `mapstructure:"games"`
	Output        string  `mapstructure:"output"`
	Experiment    string  `mapstructure:"experiment"`
	MaxIterations int     `mapstructure:"max_iterations"` // Upper bound for server requests
}

var defaults = map[string]any{
	"iterations":     1500,
	"exploration":    1.414,
	"seed":           0,
	"log_level":      "info",
	"addr":           ":8080",
	"games":          10,
	"output":         "experiments",
	"experiment":     "selfplay",
	"max_iterations": 100000,
}

// flagNames maps config keys to command line flags
var flagNames = map[string]string{
	"iterations":     "iterations",
	"exploration":    "exploration",
	"seed":           "seed",
	"log_level":      "log-level",
	"addr":           "addr",
	"games":          "games",
	"output":         "output",
	"experiment":     "experiment",
	"max_iterations": "max-iterations",
}

// RegisterFlags defines a flag for every config key on flags
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Int(flagNames["iterations"], defaults["iterations"].(int), "search iterations per move")
	flags.Float64(flagNames["exploration"], defaults["exploration"].(float64), "UCB1 exploration constant")
	flags.Uint64(flagNames["seed"], 0, "random seed, 0 seeds from the clock")
	flags.String(flagNames["log_level"], defaults["log_level"].(string), "log level")
	flags.String(flagNames["addr"], defaults["addr"].(string), "move server listen address")
	flags.Int(flagNames["games"], defaults["games"].(int), "arena games per matchup")
	flags.String(flagNames["output"], defaults["output"].(string), "arena output directory")
	flags.String(flagNames["experiment"], defaults["experiment"].(string), "arena experiment name")
	flags.Int(flagNames["max_iterations"], defaults["max_iterations"].(int), "largest iteration budget the server accepts")
}

// Load merges defaults, the optional config file at path, MCTS_* environment
// variables and flags, in increasing priority.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagNames {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfig, c.Iterations)
	}
	if c.Exploration <= 0 {
		return fmt.Errorf("%w: exploration must be positive, got %g", ErrInvalidConfig, c.Exploration)
	}
	if c.MaxIterations < c.Iterations {
		return fmt.Errorf("%w: max_iterations %d is below iterations %d", ErrInvalidConfig, c.MaxIterations, c.Iterations)
	}
	if c.Games <= 0 {
		return fmt.Errorf("%w: games must be positive, got %d", ErrInvalidConfig, c.Games)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the parsed log level, falling back to info
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
