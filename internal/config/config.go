// Package config provides YAML-based configuration loading for Blockfall.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/engine"
)

// BlockfallConfig contains all tunable settings for a Blockfall session.
type BlockfallConfig struct {
	Stage  BlockfallStage  `yaml:"stage"`
	Timing BlockfallTiming `yaml:"timing"`
}

// BlockfallStage defines the well dimensions in cells.
type BlockfallStage struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BlockfallTiming defines the automatic descent cadence.
type BlockfallTiming struct {
	DropIntervalMS int `yaml:"drop_interval_ms"`
}

// Mode is a named stage preset.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeNarrow  Mode = "narrow"
)

// NarrowWidth is the stage width used by ModeNarrow.
const NarrowWidth = 10

// ParseMode converts a mode name to a Mode. Empty selects ModeClassic.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case "", ModeClassic:
		return ModeClassic, nil
	case ModeNarrow:
		return ModeNarrow, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %s or %s)", name, ModeClassic, ModeNarrow)
	}
}

// ApplyMode adjusts the stage for a mode preset.
func ApplyMode(cfg *BlockfallConfig, mode Mode) {
	if mode == ModeNarrow {
		cfg.Stage.Width = NarrowWidth
	}
}

// DropInterval returns the configured drop interval as a duration.
func (c BlockfallConfig) DropInterval() time.Duration {
	return time.Duration(c.Timing.DropIntervalMS) * time.Millisecond
}

// EngineConfig converts the file representation into engine options.
// Values are not validated here; the engine rejects bad settings on start.
func (c BlockfallConfig) EngineConfig() engine.Config {
	return engine.Config{
		Width:        c.Stage.Width,
		Height:       c.Stage.Height,
		DropInterval: c.DropInterval(),
	}
}

// Marshal encodes the config as YAML.
func (c BlockfallConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// ParseBlockfall decodes a YAML document. Missing keys keep their default values.
func ParseBlockfall(data []byte) (BlockfallConfig, error) {
	cfg := DefaultBlockfallConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
