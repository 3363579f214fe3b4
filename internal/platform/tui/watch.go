package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
)

// Playback speeds, in ticks per frame.
var watchSpeeds = []int{1, 2, 4, 8}

// WatchModel plays a recorded run back at its original tick rate.
type WatchModel struct {
	game     registry.Game
	log      *replay.Log
	player   *replay.Player
	screen   *core.Screen
	speed    int // index into watchSpeeds
	paused   bool
	err      error
	quitting bool
	back     bool
}

// NewWatchModel prepares playback of l on a fresh game instance.
func NewWatchModel(l *replay.Log, width, height int) (WatchModel, error) {
	game, err := registry.Create(l.GameID)
	if err != nil {
		return WatchModel{}, err
	}
	player, err := replay.NewPlayer(game, l)
	if err != nil {
		return WatchModel{}, err
	}

	return WatchModel{
		game:   game,
		log:    l,
		player: player,
		screen: core.NewScreen(width, height),
	}, nil
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.tickRate())
}

func (m WatchModel) tickRate() int {
	if m.log.TickRate > 0 {
		return m.log.TickRate
	}
	return core.DefaultConfig().TickRate
}

// Update handles messages for playback.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "b", "esc":
			m.back = true
			return m, tea.Quit
		case "p", " ":
			m.paused = !m.paused
		case "+", "=", "right":
			m.speed = min(m.speed+1, len(watchSpeeds)-1)
		case "-", "left":
			m.speed = max(m.speed-1, 0)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if m.quitting || m.back {
			return m, nil
		}
		if !m.paused && m.err == nil {
			for range watchSpeeds[m.speed] {
				if m.player.Done() {
					break
				}
				if err := m.player.Step(); err != nil {
					m.err = err
					break
				}
			}
		}
		return m, tickCmd(m.tickRate())
	}

	return m, nil
}

// View renders the game as it was at the current tick, with a status line.
func (m WatchModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	m.game.Render(m.screen)

	status := fmt.Sprintf(" REPLAY %s  tick %d/%d  x%d", shortID(m.log.ID), m.player.Tick(), m.log.Ticks, watchSpeeds[m.speed])
	switch {
	case m.err != nil:
		status = " REPLAY FAILED: " + m.err.Error()
	case m.player.Done():
		status += "  [end]"
	case m.paused:
		status += "  [paused]"
	}
	if h := m.screen.Height(); h > 0 {
		m.screen.DrawHLine(0, h-1, m.screen.Width(), ' ')
		m.screen.DrawTextWithColor(0, h-1, status, core.ColorGray)
	}

	return RenderScreen(m.screen)
}

// IsGoingBack returns true if the user left playback without quitting.
func (m WatchModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting returns true if user requested to quit entirely.
func (m WatchModel) IsQuitting() bool {
	return m.quitting
}

// shortID trims a run ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RunWatch plays back a recorded run. Returns true if the user asked to go back.
func RunWatch(l *replay.Log, width, height int) (goBack bool, err error) {
	model, err := NewWatchModel(l, width, height)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(WatchModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
