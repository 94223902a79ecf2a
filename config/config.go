// Package config loads the match settings from the XDG config directories.
package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
)

var (
	cfgFile     = "checkers/config.json"
	recordsPath = "checkers/records"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// SearchConfig configures the MCTS players.
type SearchConfig struct {
	Episodes    int     `json:"episodes"`
	DurationMs  int     `json:"duration_ms"` // Used when episodes is 0
	Cutoff      int     `json:"cutoff"`
	Goroutines  int     `json:"goroutines"`
	Temperature float64 `json:"temperature"`
	Checkpoint  string  `json:"checkpoint"`
}

func (s SearchConfig) Duration() time.Duration {
	return time.Duration(s.DurationMs) * time.Millisecond
}

// Config holds the match settings. Player kinds are random, human, mcts or
// the URL of a remote agent.
type Config struct {
	BoardSize      int          `json:"board_size"`
	Games          int          `json:"games"`
	PlayerOne      string       `json:"player_one"`
	PlayerTwo      string       `json:"player_two"`
	Swap           bool         `json:"swap"`
	Seed           uint64       `json:"seed"`
	MaxMoves       int          `json:"max_moves"`
	Verbose        bool         `json:"verbose"`
	WriteRecords   bool         `json:"write_records"`
	RecordsDir     string       `json:"records_dir"`
	AgentTimeoutMs int          `json:"agent_timeout_ms"` // Bounds each request to a remote agent
	Search         SearchConfig `json:"search"`
}

func (c *Config) AgentTimeout() time.Duration {
	return time.Duration(c.AgentTimeoutMs) * time.Millisecond
}

// InitConfig starts from DefaultConfig and applies the first config file
// found in the XDG config directories, if any.
func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Load starts from DefaultConfig and applies the file at path.
func Load(path string) (*Config, error) {
	config := DefaultConfig
	if err := readCfgFile(path, &config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// IsKnownPlayer reports whether kind names a player the CLI can build.
func IsKnownPlayer(kind string) bool {
	switch kind {
	case "random", "human", "mcts":
		return true
	}
	return strings.HasPrefix(kind, "http://") || strings.HasPrefix(kind, "https://")
}

func (c *Config) Validate() error {
	if c.BoardSize < 4 || c.BoardSize%2 != 0 {
		return &InvalidConfig{fmt.Sprintf("board size must be even and at least 4, got %d", c.BoardSize)}
	}
	if c.Games < 1 {
		return &InvalidConfig{fmt.Sprintf("games must be positive, got %d", c.Games)}
	}
	for _, kind := range []string{c.PlayerOne, c.PlayerTwo} {
		if !IsKnownPlayer(kind) {
			return &InvalidConfig{fmt.Sprintf("unknown player %q", kind)}
		}
	}
	if c.MaxMoves < 1 {
		return &InvalidConfig{fmt.Sprintf("max moves must be positive, got %d", c.MaxMoves)}
	}
	if c.AgentTimeoutMs < 1 {
		return &InvalidConfig{fmt.Sprintf("agent timeout must be positive, got %d ms", c.AgentTimeoutMs)}
	}
	if c.WriteRecords && c.RecordsDir == "" {
		return &InvalidConfig{"records directory is required to write records"}
	}
	s := c.Search
	if s.Episodes < 0 || s.DurationMs < 0 || (s.Episodes == 0 && s.DurationMs == 0) {
		return &InvalidConfig{"search needs a positive number of episodes or a positive duration"}
	}
	if s.Cutoff < 1 || s.Goroutines < 1 {
		return &InvalidConfig{"search cutoff and goroutines must be positive"}
	}
	if s.Temperature < 0 {
		return &InvalidConfig{fmt.Sprintf("temperature cannot be negative, got %v", s.Temperature)}
	}
	return nil
}

// Save writes c to the XDG config directory, where InitConfig finds it, and
// returns the file path.
func (c *Config) Save() (string, error) {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return "", errors.Wrap(err, "locating config file")
	}
	return absPath, saveCfgFile(absPath, c, 0664)
}

// DefaultRecordsDir is the XDG data directory for game records.
func DefaultRecordsDir() string {
	return filepath.Join(xdg.DataHome, recordsPath)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	err = os.WriteFile(filePath, jsonData, perm)
	return errors.Wrapf(err, "writing %s", filePath)
}

func readCfgFile(filePath string, a interface{}) error {
	configReader, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}
	if err = json.Unmarshal(configReader, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
