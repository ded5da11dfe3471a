package server_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/agnel18/DevCollab/internal/server"
	"github.com/stretchr/testify/require"
)

func TestClientConfigEndpoint(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	httpServer := newTestServerWithOptions(t, server.Options{ConfigPath: configPath})

	missingConfig := doJSON(t, httpServer.URL+"/client-config", http.MethodGet, nil)
	require.Equal(t, http.StatusOK, missingConfig.StatusCode)
	missingPayload := decodeMap(t, missingConfig.Body)
	require.Equal(t, "", missingPayload["server_url"])
	require.Equal(t, float64(8), missingPayload["drag_distance"])
	require.Equal(t, float64(25), missingPayload["default_pomodoro_minutes"])
	require.Len(t, missingPayload["palette"], 7)

	require.NoError(t, os.WriteFile(configPath, []byte("server_url: http://127.0.0.1:9999\nui:\n  drag_distance: 12\n"), 0o644))

	withConfig := doJSON(t, httpServer.URL+"/client-config", http.MethodGet, nil)
	require.Equal(t, http.StatusOK, withConfig.StatusCode)
	withConfigPayload := decodeMap(t, withConfig.Body)
	require.Equal(t, "http://127.0.0.1:9999", withConfigPayload["server_url"])
	require.Equal(t, float64(12), withConfigPayload["drag_distance"])
}
