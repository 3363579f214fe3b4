// Package blockfall adapts the falling-block engine to the platform: it maps
// actions to intents, drives automatic descent from the frame clock, and renders
// the well into a screen buffer.
package blockfall

import (
	"math/rand"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/engine"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Game implements registry.Game for Blockfall.
type Game struct {
	mode    config.Mode
	cfg     config.BlockfallConfig
	rng     *rand.Rand
	session *engine.Session
	timer   dropTimer
	tick    uint64

	// Screen dimensions
	screenW  int
	screenH  int
	tickRate int

	paused   bool
	tooSmall bool
	cfgErr   error

	// Line clear banner
	lastLocks  uint64
	flashRows  int
	flashTicks int
}

// configPath is the custom config file used by new games; empty searches the defaults.
var configPath string

// SetConfigPath sets the config file loaded by games created afterwards.
func SetConfigPath(path string) {
	configPath = path
}

// LoadConfig loads the config for a mode using the current config path.
func LoadConfig(mode config.Mode) (config.BlockfallConfig, error) {
	cfg, err := config.LoadBlockfall(configPath)
	config.ApplyMode(&cfg, mode)
	return cfg, err
}

// New creates a classic 12-wide game.
func New() *Game {
	return newWithMode(config.ModeClassic)
}

// NewNarrow creates a 10-wide game.
func NewNarrow() *Game {
	return newWithMode(config.ModeNarrow)
}

func newWithMode(mode config.Mode) *Game {
	cfg, err := LoadConfig(mode)
	g := NewWithConfig(mode, cfg)
	if err != nil {
		g.cfgErr = err
	}
	return g
}

// NewWithConfig creates a game with explicit settings.
func NewWithConfig(mode config.Mode, cfg config.BlockfallConfig) *Game {
	return &Game{mode: mode, cfg: cfg}
}

func init() {
	registry.Register("blockfall", func() registry.Game {
		return New()
	})
	registry.Register("blockfall_narrow", func() registry.Game {
		return NewNarrow()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == config.ModeNarrow {
		return "blockfall_narrow"
	}
	return "blockfall"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == config.ModeNarrow {
		return "Blockfall (Narrow)"
	}
	return "Blockfall"
}

// Config returns the active settings.
func (g *Game) Config() config.BlockfallConfig {
	return g.cfg
}

// ConfigYAML encodes the active settings.
func (g *Game) ConfigYAML() ([]byte, error) {
	return g.cfg.Marshal()
}

// LoadConfigYAML replaces the settings. Takes effect on the next Reset.
func (g *Game) LoadConfigYAML(data []byte) error {
	cfg, err := config.ParseBlockfall(data)
	if err != nil {
		return err
	}
	g.cfg = cfg
	g.cfgErr = nil
	return nil
}

// Err returns the configuration error that prevented the session from starting.
func (g *Game) Err() error {
	return g.cfgErr
}

// Validate reports whether the game can start with its current settings.
func (g *Game) Validate() error {
	if g.cfgErr != nil {
		return g.cfgErr
	}
	return g.cfg.EngineConfig().Validate()
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.paused = false
	g.lastLocks = 0
	g.flashRows = 0
	g.flashTicks = 0
	cfg = cfg.WithDefaults()
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickRate = cfg.TickRate

	g.session = engine.New(g.cfg.EngineConfig(), g.rng)
	if err := g.session.Start(); err != nil {
		g.cfgErr = err
	}

	g.timer = newDropTimer(g.cfg.DropInterval(), g.tickRate)
	if g.cfgErr != nil {
		g.timer.Stop()
	}
	g.updateLayout()
}

// Resize adapts the layout to new screen dimensions without restarting.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.updateLayout()
}

// updateLayout checks whether the well fits on screen.
func (g *Game) updateLayout() {
	w, h := wellSize(g.cfg.Stage.Width, g.cfg.Stage.Height)
	g.tooSmall = g.screenW < w || g.screenH < h+hudHeight
}

// Step advances the game by one platform frame.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	if input.Has(core.ActionRestart) && g.over() && g.cfgErr == nil {
		g.Reset(core.RuntimeConfig{
			Seed:     g.rng.Int63(),
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
		})
		return core.StepResult{State: g.State()}
	}

	if g.cfgErr != nil || g.over() {
		return core.StepResult{State: g.State()}
	}

	// A pause toggle consumes the frame.
	if input.Has(core.ActionPause) {
		g.paused = !g.paused
		if g.paused {
			g.timer.Stop()
		} else {
			g.timer.Restart()
		}
		return core.StepResult{State: g.State()}
	}

	if g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if g.flashTicks > 0 {
		g.flashTicks--
	}

	locks := g.session.Locks()
	for _, intent := range intentsFor(input) {
		g.session.HandleInput(intent)
	}
	// A piece locked by input hands the new piece a fresh interval this frame.
	if g.session.Locks() == locks && g.timer.Advance() {
		g.session.Tick()
	}
	g.afterEngine()

	return core.StepResult{State: g.State()}
}

// afterEngine reacts to locks and game over reported by the session.
func (g *Game) afterEngine() {
	snap := g.session.Snapshot()
	if snap.Locks != g.lastLocks {
		g.lastLocks = snap.Locks
		// A new piece gets a full drop interval.
		g.timer.Restart()
		if ev, ok := g.session.LastLock(); ok && ev.Rows > 0 {
			g.flashRows = ev.Rows
			g.flashTicks = g.tickRate
		}
	}
	if snap.Status == engine.StatusGameOver {
		g.timer.Stop()
	}
}

// intentsFor maps a frame's actions to engine intents.
// Rotation is applied before movement, and the drop last.
func intentsFor(input core.InputFrame) []engine.Intent {
	var out []engine.Intent
	if input.Has(core.ActionUp) || input.Has(core.ActionRotate) {
		out = append(out, engine.IntentRotateCW)
	}
	if input.Has(core.ActionRotateCCW) {
		out = append(out, engine.IntentRotateCCW)
	}
	if input.Has(core.ActionLeft) {
		out = append(out, engine.IntentMoveLeft)
	}
	if input.Has(core.ActionRight) {
		out = append(out, engine.IntentMoveRight)
	}
	if input.Has(core.ActionDown) || input.Has(core.ActionJump) {
		out = append(out, engine.IntentSoftDropAll)
	}
	return out
}

// over reports whether the session has ended.
func (g *Game) over() bool {
	return g.session != nil && g.session.Status() == engine.StatusGameOver
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{Paused: g.paused}
	if g.session != nil {
		st.Score = g.session.Score()
	}
	st.GameOver = g.over() || g.cfgErr != nil
	return st
}
