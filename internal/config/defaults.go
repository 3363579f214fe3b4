package config

import (
	_ "embed"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/engine"
)

//go:embed defaults/blockfall.yaml
var defaultBlockfallYAML []byte

// DefaultBlockfallConfig returns the default Blockfall configuration.
func DefaultBlockfallConfig() BlockfallConfig {
	return BlockfallConfig{
		Stage: BlockfallStage{
			Width:  engine.DefaultWidth,
			Height: engine.DefaultHeight,
		},
		Timing: BlockfallTiming{
			DropIntervalMS: int(engine.DefaultDropInterval.Milliseconds()),
		},
	}
}
