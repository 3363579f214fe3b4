// Package replay records the input a platform feeds a game and re-simulates it.
// Games are deterministic for a given seed, settings and input sequence, so a
// log of non-empty frames is enough to reproduce a run exactly.
package replay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Size is a screen size in characters.
type Size struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Frame is the input delivered on one simulation tick. Ticks are 1-based.
type Frame struct {
	Tick    uint64   `yaml:"tick"`
	Actions []string `yaml:"actions,omitempty"`
	Resize  *Size    `yaml:"resize,omitempty"` // applied before the step
}

// Result is the final state of a recorded run.
type Result struct {
	Score    int  `yaml:"score"`
	GameOver bool `yaml:"game_over"`
}

// Log is a complete, self-contained record of one run.
type Log struct {
	ID        string    `yaml:"id"`
	GameID    string    `yaml:"game"`
	Seed      int64     `yaml:"seed"`
	ScreenW   int       `yaml:"screen_w"`
	ScreenH   int       `yaml:"screen_h"`
	TickRate  int       `yaml:"tick_rate"`
	Config    string    `yaml:"config,omitempty"`
	Ticks     uint64    `yaml:"ticks"`
	Frames    []Frame   `yaml:"frames"`
	Final     Result    `yaml:"final"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Runtime returns the runtime config the run started with.
func (l *Log) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  l.ScreenW,
		ScreenH:  l.ScreenH,
		TickRate: l.TickRate,
		Seed:     l.Seed,
	}
}

// Resizer is implemented by games that can adapt to a new screen size in place.
type Resizer interface {
	Resize(w, h int)
}

// ErrMismatch is returned when a replay does not reproduce the recorded result.
var ErrMismatch = errors.New("replay: result mismatch")

// Recorder builds a Log while a game is being played.
type Recorder struct {
	log     Log
	pending *Size
}

// NewRecorder starts a recording for a game reset with cfg.
// Settings of tunable games are captured so the run can be reproduced later.
func NewRecorder(game registry.Game, cfg core.RuntimeConfig) (*Recorder, error) {
	r := &Recorder{log: Log{
		ID:        uuid.NewString(),
		GameID:    game.ID(),
		Seed:      cfg.Seed,
		ScreenW:   cfg.ScreenW,
		ScreenH:   cfg.ScreenH,
		TickRate:  cfg.TickRate,
		CreatedAt: time.Now().UTC(),
	}}

	if t, ok := game.(registry.Tunable); ok {
		data, err := t.ConfigYAML()
		if err != nil {
			return nil, fmt.Errorf("replay: cannot capture config: %w", err)
		}
		r.log.Config = string(data)
	}
	return r, nil
}

// Resize notes a screen size change to be applied before the next step.
func (r *Recorder) Resize(w, h int) {
	r.pending = &Size{W: w, H: h}
}

// Record notes the input passed to one Step call.
// Frames with no actions and no resize are implied by the tick counter.
func (r *Recorder) Record(in core.InputFrame) {
	r.log.Ticks++
	if in.Empty() && r.pending == nil {
		return
	}

	f := Frame{Tick: r.log.Ticks, Resize: r.pending}
	for _, a := range in.List() {
		f.Actions = append(f.Actions, a.String())
	}
	r.log.Frames = append(r.log.Frames, f)
	r.pending = nil
}

// Ticks returns the number of steps recorded so far.
func (r *Recorder) Ticks() uint64 {
	return r.log.Ticks
}

// Finish stores the final state and returns a copy of the log.
func (r *Recorder) Finish(state core.GameState) *Log {
	r.log.Final = Result{Score: state.Score, GameOver: state.GameOver}
	out := r.log
	out.Frames = append([]Frame(nil), r.log.Frames...)
	return &out
}

// Player feeds a log to a game one tick at a time.
type Player struct {
	game registry.Game
	log  *Log
	tick uint64
	next int
}

// NewPlayer resets game with the log's settings, ready for the first tick.
func NewPlayer(game registry.Game, l *Log) (*Player, error) {
	if game.ID() != l.GameID {
		return nil, fmt.Errorf("replay: log is for %q, not %q", l.GameID, game.ID())
	}
	if l.Config != "" {
		t, ok := game.(registry.Tunable)
		if !ok {
			return nil, fmt.Errorf("replay: %q does not accept settings", game.ID())
		}
		if err := t.LoadConfigYAML([]byte(l.Config)); err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}
	}

	game.Reset(l.Runtime())
	return &Player{game: game, log: l}, nil
}

// Done reports whether every recorded tick has been played.
func (p *Player) Done() bool {
	return p.tick >= p.log.Ticks
}

// Tick returns the number of ticks played so far.
func (p *Player) Tick() uint64 {
	return p.tick
}

// Step plays the next tick. It is a no-op once the log is exhausted.
func (p *Player) Step() error {
	if p.Done() {
		return nil
	}
	p.tick++

	in := core.NewInputFrame()
	if p.next < len(p.log.Frames) && p.log.Frames[p.next].Tick == p.tick {
		f := p.log.Frames[p.next]
		p.next++
		if f.Resize != nil {
			if rz, ok := p.game.(Resizer); ok {
				rz.Resize(f.Resize.W, f.Resize.H)
			}
		}
		for _, name := range f.Actions {
			a, ok := core.ParseAction(name)
			if !ok {
				return fmt.Errorf("replay: tick %d: unknown action %q", p.tick, name)
			}
			in.Set(a)
		}
	}
	p.game.Step(in)

	if p.Done() && p.next != len(p.log.Frames) {
		return fmt.Errorf("replay: %d frames out of order or past tick %d", len(p.log.Frames)-p.next, p.log.Ticks)
	}
	return nil
}

// Play resets game with the log's settings and feeds it every recorded frame.
// It returns the state after the last tick.
func Play(game registry.Game, l *Log) (core.GameState, error) {
	p, err := NewPlayer(game, l)
	if err != nil {
		return core.GameState{}, err
	}
	for !p.Done() {
		if err := p.Step(); err != nil {
			return core.GameState{}, err
		}
	}
	if p.next != len(l.Frames) {
		return core.GameState{}, fmt.Errorf("replay: %d frames out of order or past tick %d", len(l.Frames)-p.next, l.Ticks)
	}
	return game.State(), nil
}

// Verify replays the log and checks the outcome against the recorded result.
func Verify(game registry.Game, l *Log) (core.GameState, error) {
	state, err := Play(game, l)
	if err != nil {
		return state, err
	}
	if state.Score != l.Final.Score || state.GameOver != l.Final.GameOver {
		return state, fmt.Errorf("%w: got score %d (over=%v), recorded %d (over=%v)",
			ErrMismatch, state.Score, state.GameOver, l.Final.Score, l.Final.GameOver)
	}
	return state, nil
}

// Encode serializes a log as YAML.
func Encode(l *Log) ([]byte, error) {
	data, err := yaml.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot encode log: %w", err)
	}
	return data, nil
}

// Decode parses a YAML log.
func Decode(data []byte) (*Log, error) {
	var l Log
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("replay: cannot decode log: %w", err)
	}
	if l.GameID == "" {
		return nil, errors.New("replay: log has no game id")
	}
	return &l, nil
}

// WriteFile encodes a log to path.
func WriteFile(path string, l *Log) error {
	data, err := Encode(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("replay: cannot write %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes a log from path.
func ReadFile(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot read %s: %w", path, err)
	}
	return Decode(data)
}
