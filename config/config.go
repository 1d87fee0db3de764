// Package config holds the settings for the connect-4 shell. Settings come
// from, in increasing priority: built-in defaults, an optional connect4.yaml
// file, CONNECT4_ environment variables, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug             = "debug"
	ConfigSearchDepth       = "search-depth"
	ConfigSearchThreads     = "search-threads"
	ConfigSearchTTable      = "search-ttable"
	ConfigTTableMemFraction = "ttable-mem-fraction"
	ConfigHumanColor        = "human-color"
	ConfigFirstPlayer       = "first-player"
	ConfigAutoReply         = "auto-reply"
	ConfigHistoryFile       = "history-file"
	ConfigSearchLogFile     = "search-log-file"
	ConfigCPUProfile        = "cpu-profile"
	ConfigMemProfile        = "mem-profile"
)

const (
	configName = "connect4"
	envPrefix  = "CONNECT4"
)

type Config struct {
	*viper.Viper
	// Args are the command-line arguments left over after flag parsing.
	Args []string
}

// DefaultConfig returns a config with only the built-in defaults set. It
// reads no files, environment or flags.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	setDefaults(c.Viper)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigSearchDepth, 10)
	v.SetDefault(ConfigSearchThreads, 1)
	v.SetDefault(ConfigSearchTTable, false)
	v.SetDefault(ConfigTTableMemFraction, 0.01)
	v.SetDefault(ConfigHumanColor, "yellow")
	v.SetDefault(ConfigFirstPlayer, "random")
	v.SetDefault(ConfigAutoReply, true)
	v.SetDefault(ConfigHistoryFile, "")
	v.SetDefault(ConfigSearchLogFile, "")
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("connect4", pflag.ContinueOnError)
	// everything after the first non-flag is a shell command line.
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigSearchDepth, 10, "plies to search past the engine's move")
	fs.Int(ConfigSearchThreads, 1, "number of root files to search in parallel")
	fs.Bool(ConfigSearchTTable, false, "use a transposition table in the search")
	fs.Float64(ConfigTTableMemFraction, 0.01, "fraction of system memory for the transposition table")
	fs.String(ConfigHumanColor, "yellow", "the color the human plays (red or yellow)")
	fs.String(ConfigFirstPlayer, "random", "who moves first in a new game (red, yellow or random)")
	fs.Bool(ConfigAutoReply, true, "the engine replies automatically after a human move")
	fs.String(ConfigHistoryFile, "", "readline history file; empty means a temp file")
	fs.String(ConfigSearchLogFile, "", "if set, append a YAML log of every search to this file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	return fs
}

// Load reads the config file, environment and flags in args. Arguments
// that are not flags are kept in c.Args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.Args = fs.Args()

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigName(configName)
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	c.AddConfigPath("$HOME/.connect4")
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return c.Validate()
}

// Validate checks the settings that have a restricted range.
func (c *Config) Validate() error {
	if d := c.GetInt(ConfigSearchDepth); d < 0 {
		return fmt.Errorf("%s must not be negative, got %d", ConfigSearchDepth, d)
	}
	if f := c.GetFloat64(ConfigTTableMemFraction); f < 0 || f > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %v", ConfigTTableMemFraction, f)
	}
	switch strings.ToLower(c.GetString(ConfigHumanColor)) {
	case "r", "red", "y", "yellow":
	default:
		return fmt.Errorf("%s must be red or yellow, got %q", ConfigHumanColor, c.GetString(ConfigHumanColor))
	}
	switch strings.ToLower(c.GetString(ConfigFirstPlayer)) {
	case "r", "red", "y", "yellow", "random":
	default:
		return fmt.Errorf("%s must be red, yellow or random, got %q", ConfigFirstPlayer, c.GetString(ConfigFirstPlayer))
	}
	return nil
}

// SanitizedSettings returns every setting, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
