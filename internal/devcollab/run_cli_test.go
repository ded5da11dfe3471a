package devcollab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/server"
	"github.com/stretchr/testify/require"
)

func startBackend(t *testing.T) string {
	t.Helper()
	app, err := server.New(server.Options{
		SQLitePath: filepath.Join(t.TempDir(), "devcollab.db"),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	httpServer := httptest.NewServer(app.Handler())
	t.Cleanup(httpServer.Close)
	return httpServer.URL
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, serverURL string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--server-url", serverURL, "--log-level", "error"}, args...)
	code := Run(full, &stdout, &stderr, nil)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func runJSON(t *testing.T, serverURL string, out any, args ...string) {
	t.Helper()
	res := runCLI(t, serverURL, append([]string{"--output", "json"}, args...)...)
	require.Equal(t, 0, res.code, res.stderr)
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(res.stdout), out), res.stdout)
	}
}

func id(v int64) string {
	return fmt.Sprint(v)
}

func TestRunBoardProjectAndTimerFlow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	url := startBackend(t)

	var b model.Board
	runJSON(t, url, &b, "board", "create", "-n", "Client work", "--color", "green")
	require.Equal(t, "Client work", b.Name)
	require.Len(t, b.Columns, 3)

	var first, second model.Card
	runJSON(t, url, &first, "card", "create", "-b", id(b.ID), "-n", "Landing page")
	runJSON(t, url, &second, "card", "create", "-b", id(b.ID), "-n", "Checkout")
	require.Equal(t, model.StatusTodo, first.Status)

	var started model.Card
	runJSON(t, url, &started, "timer", "start", "-i", id(first.ID))
	require.True(t, started.IsRunning())
	require.Equal(t, model.StatusDoing, started.Status)

	runJSON(t, url, &started, "timer", "start", "-i", id(second.ID))
	require.True(t, started.IsRunning())

	var got model.Card
	runJSON(t, url, &got, "card", "get", "-i", id(first.ID))
	require.False(t, got.IsRunning(), "starting another project pauses the first")

	var listed struct {
		Projects []model.Card `json:"projects"`
	}
	runJSON(t, url, &listed, "card", "ls", "-b", id(b.ID))
	running := 0
	for _, c := range listed.Projects {
		if c.IsRunning() {
			running++
		}
	}
	require.Equal(t, 1, running)

	runJSON(t, url, &got, "timer", "stop", "-i", id(second.ID))
	require.False(t, got.IsRunning())

	var sessions struct {
		Sessions []model.Session `json:"sessions"`
	}
	runJSON(t, url, &sessions, "timer", "sessions", "-i", id(second.ID))
	require.NotEmpty(t, sessions.Sessions)
}

func TestRunTimerReport(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	url := startBackend(t)

	var b model.Board
	runJSON(t, url, &b, "board", "create", "-n", "Reports")
	var card model.Card
	runJSON(t, url, &card, "card", "create", "-b", id(b.ID), "-n", "Audit", "--estimate", "3")
	runJSON(t, url, nil, "timer", "start", "-i", id(card.ID))
	runJSON(t, url, nil, "timer", "pause", "-i", id(card.ID))

	var report model.Report
	runJSON(t, url, &report, "timer", "report", "-b", id(b.ID))
	require.Equal(t, b.ID, report.BoardID)
	require.Equal(t, 1, report.Sessions)
	require.Len(t, report.Days, 1)
	require.Equal(t, model.Estimate{Estimated: 3}, report.Estimate)

	res := runCLI(t, url, "timer", "report", "-p", id(card.ID))
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "total 1 sessions 0s work 0s break 0 completed")
	require.Contains(t, res.stdout, "estimate 0/3 pomodoros")

	res = runCLI(t, url, "timer", "report", "--from", "soon")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "error (400)")

	res = runCLI(t, url, "timer", "report", "-b", id(b.ID), "-p", id(card.ID))
	require.NotEqual(t, 0, res.code)
}

func TestRunMoveAndDeleteFinishedProject(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	url := startBackend(t)

	var b model.Board
	runJSON(t, url, &b, "board", "create", "-n", "Ops")
	var card model.Card
	runJSON(t, url, &card, "card", "create", "-b", id(b.ID), "-n", "Rotate keys")

	var moved model.Card
	runJSON(t, url, &moved, "card", "move", "-i", id(card.ID), "-s", "DONE")
	require.Equal(t, model.StatusDone, moved.Status)

	res := runCLI(t, url, "card", "rm", "-i", id(card.ID))
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "error (409)")
	require.Contains(t, res.stderr, "--yes")

	runJSON(t, url, nil, "card", "rm", "-i", id(card.ID), "--yes")

	res = runCLI(t, url, "--output", "json", "card", "get", "-i", id(card.ID))
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "404")
}

func TestRunTasksAndSubtasks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	url := startBackend(t)

	var b model.Board
	runJSON(t, url, &b, "board", "create", "-n", "Product")
	var card model.Card
	runJSON(t, url, &card, "card", "create", "-b", id(b.ID), "-n", "Search")

	var task model.Task
	runJSON(t, url, &task, "task", "add", "-p", id(card.ID), "-n", "Backend")
	require.Equal(t, "Backend", task.Name)

	var sub model.Subtask
	runJSON(t, url, &sub, "subtask", "add", "-t", id(task.ID), "-n", "Index", "-e", "2")
	require.Equal(t, 2, sub.EstimatedPomodoros)

	res := runCLI(t, url, "card", "get", "-i", id(card.ID))
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "Search")

	runJSON(t, url, nil, "subtask", "rm", "-i", id(sub.ID))
	runJSON(t, url, nil, "task", "rm", "-i", id(task.ID))
}

func TestRunReportsErrorsInSelectedFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	url := startBackend(t)

	res := runCLI(t, url, "--output", "yaml", "board", "ls")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "invalid --output: yaml")

	res = runCLI(t, url, "--output", "json", "board", "get", "999")
	require.Equal(t, 1, res.code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(res.stderr)), &payload), res.stderr)
	require.EqualValues(t, 404, payload["status"])

	res = runCLI(t, "http://127.0.0.1:1", "board", "ls")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "error (502)")
}

func TestRunPrintsPrimer(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	res := runCLI(t, "http://127.0.0.1:8080", "primer")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "DEVCOLLAB PRIMER")
	require.Contains(t, res.stdout, "START_TIMER: devcollab --output json timer start")

	res = runCLI(t, "http://127.0.0.1:8080", "--output", "json", "primer")
	require.Equal(t, 0, res.code, res.stderr)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	require.Equal(t, "devcollab", payload["name"])
}
