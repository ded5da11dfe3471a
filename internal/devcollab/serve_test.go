package devcollab

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddrFromServerURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "127.0.0.1:9010", addrFromServerURL("http://127.0.0.1:9010"))
	require.Equal(t, "example.com:443", addrFromServerURL("https://example.com"))
	require.Equal(t, "example.com:80", addrFromServerURL("http://example.com"))
	require.Equal(t, defaultListenAddr, addrFromServerURL("not-a-url"))
	require.Equal(t, defaultListenAddr, addrFromServerURL(""))
}

func TestServeCommandUsesConfigDefaultsWhenFlagsUnset(t *testing.T) {
	var got serveOptions
	restore := setRunServeForTest(func(opts serveOptions) error {
		got = opts
		return nil
	})
	defer restore()

	cfg := Config{
		ServerURL:  "http://127.0.0.1:19190",
		SQLitePath: "/tmp/devcollab-default.db",
		ConfigFile: "/tmp/devcollab-config.yaml",
	}
	cmd := newServeCommand(&cfg, &commandRuntime{cfg: &cfg, stderr: io.Discard})
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	require.Equal(t, "127.0.0.1:19190", got.Addr)
	require.Equal(t, "/tmp/devcollab-default.db", got.SQLitePath)
	require.Equal(t, "/tmp/devcollab-config.yaml", got.ConfigFile)
	require.NotNil(t, got.Logger)
}

func TestServeCommandFlagsOverrideConfig(t *testing.T) {
	var got serveOptions
	restore := setRunServeForTest(func(opts serveOptions) error {
		got = opts
		return nil
	})
	defer restore()

	cfg := Config{ServerURL: "http://127.0.0.1:19191", SQLitePath: "/tmp/devcollab-default.db"}
	cmd := newServeCommand(&cfg, &commandRuntime{cfg: &cfg, stderr: io.Discard})
	cmd.SetArgs([]string{"--addr", "0.0.0.0:9999", "--sqlite-path", "/tmp/devcollab-flag.db"})
	require.NoError(t, cmd.Execute())

	require.Equal(t, "0.0.0.0:9999", got.Addr)
	require.Equal(t, "/tmp/devcollab-flag.db", got.SQLitePath)
}

func TestServeCommandRejectsEmptyPath(t *testing.T) {
	restore := setRunServeForTest(func(serveOptions) error {
		t.Fatal("server must not start")
		return nil
	})
	defer restore()

	cfg := Config{ServerURL: "http://127.0.0.1:19192"}
	cmd := newServeCommand(&cfg, &commandRuntime{cfg: &cfg, stderr: io.Discard})
	cmd.SetArgs(nil)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	require.ErrorContains(t, cmd.Execute(), "--sqlite-path cannot be empty")
}

func TestRunServeRoutesThroughRootCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var got serveOptions
	restore := setRunServeForTest(func(opts serveOptions) error {
		got = opts
		return nil
	})
	defer restore()

	code := Run([]string{"--server-url", "http://127.0.0.1:19193", "serve"}, io.Discard, io.Discard, []string{"DEVCOLLAB_SQLITE_PATH=/tmp/devcollab-env.db"})
	require.Equal(t, 0, code)
	require.Equal(t, "127.0.0.1:19193", got.Addr)
	require.Equal(t, "/tmp/devcollab-env.db", got.SQLitePath)
}
