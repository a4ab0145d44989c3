package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConsoleOptions sizes the console's fixed buffers. The defaults mirror
// what a small serial device would compile in; a config file can override
// them per host.
type ConsoleOptions struct {
	Prompt      string `toml:"prompt"`
	QueueSize   int    `toml:"queue-size"`
	LineSize    int    `toml:"line-size"`
	MaxArgs     int    `toml:"max-args"`
	HistorySize int    `toml:"history-size"`
}

type LogOptions struct {
	Debug bool `toml:"debug"`
}

type Config struct {
	Console ConsoleOptions `toml:"console"`
	Log     LogOptions     `toml:"log"`
}

func Default() Config {
	return Config{
		Console: ConsoleOptions{
			Prompt:      "# ",
			QueueSize:   128,
			LineSize:    256,
			MaxArgs:     16,
			HistorySize: 1024,
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Console.Prompt != "" {
		cfg.Console.Prompt = userCfg.Console.Prompt
	}
	if userCfg.Console.QueueSize > 0 {
		cfg.Console.QueueSize = userCfg.Console.QueueSize
	}
	if userCfg.Console.LineSize > 0 {
		cfg.Console.LineSize = userCfg.Console.LineSize
	}
	if userCfg.Console.MaxArgs > 0 {
		cfg.Console.MaxArgs = userCfg.Console.MaxArgs
	}
	if userCfg.Console.HistorySize > 0 {
		cfg.Console.HistorySize = userCfg.Console.HistorySize
	}
	if userCfg.Log.Debug {
		cfg.Log.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects geometry the console cannot run with. The queue relies
// on power-of-two wraparound, so that is enforced here rather than deep in
// the console.
func (c Config) Validate() error {
	q := c.Console.QueueSize
	if q < 2 || q&(q-1) != 0 {
		return fmt.Errorf("queue-size %d must be a power of two", q)
	}
	if c.Console.LineSize < 2 {
		return fmt.Errorf("line-size %d is too small", c.Console.LineSize)
	}
	if c.Console.MaxArgs < 1 {
		return fmt.Errorf("max-args %d is too small", c.Console.MaxArgs)
	}
	if c.Console.HistorySize < 1 {
		return fmt.Errorf("history-size %d is too small", c.Console.HistorySize)
	}
	return nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QCONSOLE_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qconsole"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qconsole"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
