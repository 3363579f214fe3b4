package engine

import (
	"fmt"
	"time"
)

// DefaultDropInterval is the time between automatic descent steps.
const DefaultDropInterval = 1000 * time.Millisecond

// Config holds the recognized session options.
type Config struct {
	Width        int           // Stage width in cells
	Height       int           // Stage height in cells
	DropInterval time.Duration // Interval the external scheduler should tick at
}

// DefaultConfig returns a 12x20 stage with a one second drop interval.
func DefaultConfig() Config {
	return Config{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		DropInterval: DefaultDropInterval,
	}
}

// ConfigError reports a configuration value that makes the session meaningless.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks that the stage dimensions and drop interval are positive.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return &ConfigError{Field: "width", Value: c.Width, Reason: "must be positive"}
	}
	if c.Height <= 0 {
		return &ConfigError{Field: "height", Value: c.Height, Reason: "must be positive"}
	}
	if c.DropInterval <= 0 {
		return &ConfigError{Field: "drop_interval", Value: c.DropInterval, Reason: "must be positive"}
	}
	return nil
}
