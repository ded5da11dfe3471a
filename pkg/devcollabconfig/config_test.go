package devcollabconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOrInitCreatesDefaults(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg, err := LoadOrInit(home)
	require.NoError(t, err)

	require.Equal(t, DefaultServerURL, cfg.ServerURL)
	require.Equal(t, filepath.Join(home, ".local", "state", "devcollab", "devcollab.db"), cfg.Backend.SQLitePath)
	require.Equal(t, DefaultOutput, cfg.CLI.Output)
	require.Equal(t, DefaultDragDistance, cfg.UI.DragDistance)
	require.True(t, cfg.UI.NotifyEnabled())
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, filepath.Join(home, ".config", "devcollab", "config.yaml"), ConfigPath(home))

	_, err = os.Stat(ConfigPath(home))
	require.NoError(t, err)
}

func TestLoadOrInitMergesMissingFields(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	path := ConfigPath(home)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`
server_url: http://seed:8080
backend:
  sqlite_path: /seed/devcollab.db
cli:
  output: JSON
  board: 4
ui:
  notify: false
`), 0o644))

	cfg, err := LoadOrInit(home)
	require.NoError(t, err)

	require.Equal(t, "http://seed:8080", cfg.ServerURL)
	require.Equal(t, "/seed/devcollab.db", cfg.Backend.SQLitePath)
	require.Equal(t, "json", cfg.CLI.Output)
	require.Equal(t, int64(4), cfg.CLI.Board)
	require.False(t, cfg.UI.NotifyEnabled())
	require.Equal(t, DefaultDragDistance, cfg.UI.DragDistance)
	require.Equal(t, DefaultLogFormat, cfg.Log.Format)

	roundTrip, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, cfg, roundTrip)
}

func TestLoadFileRejectsInvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [unterminated"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse")
}

func TestNotifyDefaultsOnWhenUnset(t *testing.T) {
	t.Parallel()

	require.True(t, UIConfig{}.NotifyEnabled())
	off := false
	require.False(t, UIConfig{Notify: &off}.NotifyEnabled())
}
