// Package config handles pathfinding configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/gridpath/pkg/math"
)

// ErrInvalidGrid is returned by Validate for unusable grid settings.
var ErrInvalidGrid = errors.New("invalid grid config")

// Config holds all settings.
type Config struct {
	Grid      GridConfig    `yaml:"grid"`
	Obstacles []Obstacle    `yaml:"obstacles"`
	Logging   LoggingConfig `yaml:"logging"`
}

// GridConfig holds the walkability grid layout.
type GridConfig struct {
	Center          math.Vec2     `yaml:"center"`
	Size            math.Vec2     `yaml:"size"`
	CellRadius      float32       `yaml:"cell_radius"`
	RebuildInterval time.Duration `yaml:"rebuild_interval"` // 0 disables periodic rebuilds
	Mask            uint          `yaml:"mask"`             // Obstacle layers that block cells
}

// Obstacle is one static shape in the obstacle layout.
type Obstacle struct {
	Shape  string    `yaml:"shape"` // circle, box or segment
	Center math.Vec2 `yaml:"center,omitempty"`
	Min    math.Vec2 `yaml:"min,omitempty"`
	Max    math.Vec2 `yaml:"max,omitempty"`
	From   math.Vec2 `yaml:"from,omitempty"`
	To     math.Vec2 `yaml:"to,omitempty"`
	Radius float32   `yaml:"radius,omitempty"`
	Layer  uint      `yaml:"layer,omitempty"` // Defaults to layer 1
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"` // Empty disables file logging
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Center:          math.Vec2{X: 0, Y: 0},
			Size:            math.Vec2{X: 50, Y: 50},
			CellRadius:      0.2,
			RebuildInterval: 5 * time.Second,
			Mask:            1,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  20,
			MaxBackups: 5,
			MaxAgeDays: 14,
			Compress:   true,
		},
	}
}

// Validate reports settings the grid cannot be built from.
func (c *Config) Validate() error {
	g := c.Grid
	if g.Size.X < 0 || g.Size.Y < 0 {
		return fmt.Errorf("%w: negative size %v", ErrInvalidGrid, g.Size)
	}
	if g.CellRadius <= 0 {
		return fmt.Errorf("%w: cell_radius must be positive, got %v", ErrInvalidGrid, g.CellRadius)
	}
	if g.RebuildInterval < 0 {
		return fmt.Errorf("%w: negative rebuild_interval %v", ErrInvalidGrid, g.RebuildInterval)
	}
	return nil
}
