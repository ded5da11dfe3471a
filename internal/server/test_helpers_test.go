package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/server"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithOptions(t, server.Options{})
}

func newTestServerWithOptions(t *testing.T, opts server.Options) *httptest.Server {
	t.Helper()
	opts.SQLitePath = filepath.Join(t.TempDir(), "devcollab.db")
	app, err := server.New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return newHTTPTestServer(t, app.Handler())
}

func newHTTPTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	httpServer := httptest.NewServer(handler)
	t.Cleanup(httpServer.Close)
	return httpServer
}

func doJSON(t *testing.T, url, method string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func doRaw(t *testing.T, url, method, payload, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewBufferString(payload))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeMap(t *testing.T, reader io.Reader) map[string]any {
	t.Helper()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	var out map[string]any
	err = json.Unmarshal(data, &out)
	require.NoError(t, err)
	return out
}

func readBody(t *testing.T, reader io.Reader) []byte {
	t.Helper()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	return data
}

func decodeInto(t *testing.T, reader io.Reader, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(reader).Decode(out))
}

func createBoard(t *testing.T, baseURL, name string) model.Board {
	t.Helper()
	resp := doJSON(t, baseURL+"/api/boards", http.MethodPost, map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var board model.Board
	decodeInto(t, resp.Body, &board)
	return board
}

func createProject(t *testing.T, baseURL string, payload map[string]any) model.Card {
	t.Helper()
	resp := doJSON(t, baseURL+"/api/projects", http.MethodPost, payload)
	raw := readBody(t, resp.Body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var card model.Card
	require.NoError(t, json.Unmarshal(raw, &card))
	return card
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
