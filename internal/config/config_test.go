package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/engine"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := ParseBlockfall(defaultBlockfallYAML)
	require.NoError(t, err)
	assert.Equal(t, DefaultBlockfallConfig(), cfg)
}

func TestDefaultEngineConfig(t *testing.T) {
	got := DefaultBlockfallConfig().EngineConfig()
	assert.Equal(t, engine.DefaultConfig(), got)
	assert.Equal(t, time.Second, got.DropInterval)
}

func TestLoadBlockfallCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "stage:\n  width: 8\ntiming:\n  drop_interval_ms: 250\n")

	cfg, err := LoadBlockfall(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Stage.Width)
	assert.Equal(t, 20, cfg.Stage.Height, "missing keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.DropInterval())
}

func TestLoadBlockfallMissingCustomPath(t *testing.T) {
	_, err := LoadBlockfall(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadBlockfallMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "stage: [1, 2\n")

	_, err := LoadBlockfall(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestLoadBlockfallSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	cfg, err := LoadBlockfall("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBlockfallConfig(), cfg, "embedded default when nothing else exists")

	writeFile(t, filepath.Join("configs", "blockfall.yaml"), "stage:\n  height: 16\n")
	cfg, err = LoadBlockfall("")
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Stage.Height, "local configs directory")

	writeFile(t, filepath.Join(home, ".blockfall", "configs", "blockfall.yaml"), "stage:\n  height: 24\n")
	cfg, err = LoadBlockfall("")
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Stage.Height, "user config wins over local")
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeClassic, false},
		{"classic", ModeClassic, false},
		{"narrow", ModeNarrow, false},
		{"turbo", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyMode(t *testing.T) {
	cfg := DefaultBlockfallConfig()
	ApplyMode(&cfg, ModeClassic)
	assert.Equal(t, 12, cfg.Stage.Width)

	ApplyMode(&cfg, ModeNarrow)
	assert.Equal(t, NarrowWidth, cfg.Stage.Width)
	assert.Equal(t, 20, cfg.Stage.Height)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := DefaultBlockfallConfig()
	cfg.Stage.Width = 9
	cfg.Timing.DropIntervalMS = 500

	data, err := cfg.Marshal()
	require.NoError(t, err)

	got, err := ParseBlockfall(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestInvalidValuesSurfaceAtEngineStart(t *testing.T) {
	cfg, err := ParseBlockfall([]byte("stage:\n  width: 0\n"))
	require.NoError(t, err)

	err = engine.New(cfg.EngineConfig(), nil).Start()

	var cfgErr *engine.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "width", cfgErr.Field)
}
