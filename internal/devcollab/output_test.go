package devcollab

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/agnel18/DevCollab/internal/board"
	"github.com/agnel18/DevCollab/internal/client"
	"github.com/agnel18/DevCollab/internal/model"
	"github.com/stretchr/testify/require"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	require.Equal(t, "error (404): project not found", FormatError(OutputText, http.StatusNotFound, " project not found "))
	require.Equal(t, `{"error":"Bad Gateway","status":502}`, FormatError(OutputJSON, http.StatusBadGateway, ""))
}

func TestHandleResultBranches(t *testing.T) {
	t.Parallel()

	t.Run("invalid output", func(t *testing.T) {
		err := handleResult("xml", &bytes.Buffer{}, nil, "", nil)
		var cErr *cliError
		require.True(t, asCLIError(err, &cErr))
		require.Equal(t, http.StatusBadRequest, cErr.status)
	})

	t.Run("json value", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, handleResult("json", &out, map[string]int{"id": 3}, "ignored", nil))
		require.Equal(t, "{\"id\":3}\n", out.String())
	})

	t.Run("json nil value", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, handleResult("json", &out, nil, "", nil))
		require.Equal(t, "{}\n", out.String())
	})

	t.Run("text falls back to ok", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, handleResult("text", &out, nil, "  ", nil))
		require.Equal(t, "ok\n", out.String())
	})
}

func TestToCLIErrorMapping(t *testing.T) {
	t.Parallel()

	apiErr := &client.APIError{Status: http.StatusNotFound, Message: "board not found", Body: []byte(`{ "status": 404, "detail": "board not found" }`)}

	got := toCLIError(OutputJSON, fmt.Errorf("load board: %w", apiErr))
	require.Equal(t, http.StatusNotFound, got.status)
	require.Equal(t, "board not found", got.message)
	require.Equal(t, `{"status":404,"detail":"board not found"}`, string(got.rawJSON))

	got = toCLIError(OutputText, apiErr)
	require.Empty(t, got.rawJSON)

	require.Equal(t, http.StatusConflict, toCLIError(OutputText, fmt.Errorf("delete: %w", board.ErrConfirmationRequired)).status)
	require.Equal(t, http.StatusConflict, toCLIError(OutputText, board.ErrInFlight).status)
	require.Equal(t, http.StatusNotFound, toCLIError(OutputText, board.ErrUnknownCard).status)
	require.Equal(t, http.StatusBadGateway, toCLIError(OutputText, errors.New("connection refused")).status)

	original := &cliError{status: http.StatusTeapot, message: "kept"}
	require.Same(t, original, toCLIError(OutputText, original))
}

func TestFormatWatchLine(t *testing.T) {
	t.Parallel()

	event := model.Event{
		ID:        "01J0000000000000000000000",
		Type:      model.EventTypeProjectUpdated,
		BoardID:   2,
		ProjectID: 9,
		Timestamp: time.Date(2026, 2, 20, 12, 34, 56, 0, time.UTC),
	}

	line, err := FormatWatchLine(OutputText, event)
	require.NoError(t, err)
	require.Equal(t, "type=project.updated board=2 project=9 at=2026-02-20T12:34:56Z", line)

	line, err = FormatWatchLine(OutputJSON, event)
	require.NoError(t, err)
	require.Contains(t, line, `"type":"project.updated"`)
	require.Contains(t, line, `"projectId":9`)

	line, err = FormatWatchLine(OutputText, model.Event{})
	require.NoError(t, err)
	require.Equal(t, "(event)", line)
}
