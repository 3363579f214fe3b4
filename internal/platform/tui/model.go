package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// Model is the Bubble Tea model for running a game.
// Every run is recorded and stored in the journal when it ends.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	recorder   *replay.Recorder
	allowBack  bool // Whether B returns to a menu
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current run has been journaled
}

// NewModel creates a new Bubble Tea model for the given game and resets it.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg = cfg.WithDefaults()

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     log.New(io.Discard),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
	m.startRun()
	return m
}

// WithLogger returns a copy of the model that reports journal activity to l.
func (m Model) WithLogger(l *log.Logger) Model {
	m.logger = l
	return m
}

// withBack enables returning to a menu with B when paused or after game over.
func (m Model) withBack() Model {
	m.allowBack = true
	return m
}

// startRun resets the game and begins a new recording.
func (m *Model) startRun() {
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.runSaved = false

	rec, err := replay.NewRecorder(m.game, m.config)
	if err != nil {
		m.logger.Warn("run will not be recorded", "game", m.game.ID(), "error", err)
		rec = nil
	}
	m.recorder = rec
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.finishRun()
		m.quitting = true
		return m, tea.Quit

	case action == core.ActionBack:
		if m.allowBack && (m.gameState.GameOver || m.gameState.Paused) {
			m.finishRun()
			m.backToMenu = true
		}
		return m, nil

	case action == core.ActionRestart && !m.gameState.GameOver:
		return m, nil

	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// Games that can re-layout keep their state; others restart.
	if rz, ok := m.game.(replay.Resizer); ok {
		rz.Resize(msg.Width, msg.Height)
		if m.recorder != nil {
			m.recorder.Resize(msg.Width, msg.Height)
		}
		return m, nil
	}
	if !m.gameState.GameOver {
		m.finishRun()
		m.startRun()
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.finishRun()
		m.config.Seed = time.Now().UnixNano()
		m.startRun()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	if m.recorder != nil {
		m.recorder.Record(m.inputFrame)
	}
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver {
		m.finishRun()
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// finishRun stores the current recording once. Runs with no simulated ticks are dropped.
func (m *Model) finishRun() {
	if m.runSaved || m.recorder == nil {
		return
	}
	m.runSaved = true
	if m.recorder.Ticks() == 0 || m.store == nil {
		return
	}

	l := m.recorder.Finish(m.game.State())
	if err := m.store.SaveRun(l); err != nil {
		m.logger.Warn("could not save run", "game", l.GameID, "error", err)
		return
	}
	m.logger.Info("run saved", "id", l.ID, "game", l.GameID, "score", l.Final.Score, "ticks", l.Ticks)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".blockfall", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
