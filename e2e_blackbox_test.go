package devcollab_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestE2EBlackBoxServerProcess(t *testing.T) {
	bin := buildDevcollabBinary(t)
	home := t.TempDir()
	sqlitePath := filepath.Join(t.TempDir(), "devcollab.db")
	baseURL := startServeProcess(t, bin, home, sqlitePath)

	createBoard := doJSONRequest(t, baseURL+"/api/boards", http.MethodPost, map[string]any{"name": "Blackbox", "color": "purple"})
	require.Equal(t, http.StatusCreated, createBoard.StatusCode)
	board := decodeBodyMap(t, createBoard.Body)
	boardID := int64(board["id"].(float64))
	require.Len(t, board["columns"].([]any), 3)

	var projectIDs []int64
	for _, name := range []string{"first", "second"} {
		resp := doJSONRequest(t, baseURL+"/api/projects", http.MethodPost, map[string]any{"name": name, "boardId": boardID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		projectIDs = append(projectIDs, int64(decodeBodyMap(t, resp.Body)["id"].(float64)))
	}

	start := doJSONRequest(t, fmt.Sprintf("%s/api/projects/%d/pomodoro/start", baseURL, projectIDs[0]), http.MethodPost, nil)
	require.Equal(t, http.StatusOK, start.StatusCode)
	_ = start.Body.Close()
	start = doJSONRequest(t, fmt.Sprintf("%s/api/projects/%d/pomodoro/start", baseURL, projectIDs[1]), http.MethodPost, nil)
	require.Equal(t, http.StatusOK, start.StatusCode)
	require.Equal(t, fmt.Sprint(projectIDs[0]), start.Header.Get("X-Paused-Projects"))
	_ = start.Body.Close()

	db, err := sql.Open("sqlite", sqlitePath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var running int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM cards WHERE pomodoro_start IS NOT NULL`).Scan(&running))
	require.Equal(t, 1, running)

	var sessions int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM pomodoro_sessions WHERE project_id = ?`, projectIDs[0]).Scan(&sessions))
	require.Equal(t, 1, sessions)
}

func TestE2ECLIAgainstServeProcess(t *testing.T) {
	bin := buildDevcollabBinary(t)
	home := t.TempDir()
	baseURL := startServeProcess(t, bin, home, filepath.Join(t.TempDir(), "devcollab.db"))

	result := runDevcollab(t, bin, home, "--server-url", baseURL, "--output", "json", "board", "create", "-n", "Release")
	require.Equal(t, 0, result.exitCode, result.combined)
	var board struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.stdout), &board))

	result = runDevcollab(t, bin, home, "--server-url", baseURL, "--output", "json", "card", "create", "-b", fmt.Sprint(board.ID), "-n", "Changelog")
	require.Equal(t, 0, result.exitCode, result.combined)
	var card struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.stdout), &card))
	require.Equal(t, "TODO", card.Status)

	result = runDevcollab(t, bin, home, "--server-url", baseURL, "timer", "start", "-i", fmt.Sprint(card.ID))
	require.Equal(t, 0, result.exitCode, result.combined)
	require.Contains(t, result.stdout, "[DOING]")
	require.Contains(t, result.stdout, "running")

	result = runDevcollab(t, bin, home, "--server-url", baseURL, "card", "ls", "-b", fmt.Sprint(board.ID))
	require.Equal(t, 0, result.exitCode, result.combined)
	require.Contains(t, result.stdout, "Changelog")
}

func TestDevcollabShowsHelpByDefault(t *testing.T) {
	bin := buildDevcollabBinary(t)

	result := runDevcollab(t, bin, t.TempDir())
	require.Equal(t, 0, result.exitCode, result.combined)
	for _, want := range []string{"devcollab [command]", "serve", "board", "column", "card", "timer", "task", "subtask", "watch", "ui", "primer"} {
		require.Contains(t, result.stdout, want)
	}
}

func TestDevcollabWatchExitsOnInterrupt(t *testing.T) {
	bin := buildDevcollabBinary(t)

	connected := make(chan struct{}, 1)
	upgrader := websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		connected <- struct{}{}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = server.Serve(ln) }()
	defer server.Close()

	cmd := exec.Command(bin, "--server-url", "http://"+ln.Addr().String(), "--output", "json", "watch")
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Start())

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	select {
	case <-connected:
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		<-waitCh
		require.Fail(t, "watch did not connect")
	}

	require.NoError(t, cmd.Process.Signal(os.Interrupt))

	select {
	case err := <-waitCh:
		require.NoError(t, err, stdout.String()+stderr.String())
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		<-waitCh
		require.Fail(t, "watch did not exit after interrupt")
	}
}

type runResult struct {
	exitCode int
	stdout   string
	stderr   string
	combined string
}

func buildDevcollabBinary(t *testing.T) string {
	t.Helper()

	binPath := filepath.Join(t.TempDir(), "devcollab")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/devcollab")
	cmd.Dir = "."
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return binPath
}

func startServeProcess(t *testing.T, bin, home, sqlitePath string) string {
	t.Helper()

	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cmd := exec.CommandContext(ctx, bin, "serve", "--addr", addr, "--sqlite-path", sqlitePath)
	cmd.Env = append(os.Environ(), "HOME="+home)
	stdoutPipe, err := cmd.StdoutPipe()
	require.NoError(t, err)
	stderrPipe, err := cmd.StderrPipe()
	require.NoError(t, err)
	var streamWG sync.WaitGroup
	streamReaderToTestLogs(t, "backend stdout", stdoutPipe, &streamWG)
	streamReaderToTestLogs(t, "backend stderr", stderrPipe, &streamWG)
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		cancel()
		_ = cmd.Wait()
		streamWG.Wait()
	})

	baseURL := "http://" + addr
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond)
	return baseURL
}

func runDevcollab(t *testing.T, bin, home string, args ...string) runResult {
	t.Helper()

	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	code := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		require.True(t, ok, err)
		code = exitErr.ExitCode()
	}

	return runResult{
		exitCode: code,
		stdout:   strings.TrimSpace(stdout.String()),
		stderr:   stderr.String(),
		combined: stdout.String() + stderr.String(),
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().String()
}

func doJSONRequest(t *testing.T, url, method string, payload any) *http.Response {
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
	return resp
}

func decodeBodyMap(t *testing.T, body io.ReadCloser) map[string]any {
	t.Helper()
	defer body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}
