package devcollab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/agnel18/DevCollab/internal/board"
	"github.com/agnel18/DevCollab/internal/client"
	"github.com/agnel18/DevCollab/internal/model"
)

type Output string

const (
	OutputText Output = "text"
	OutputJSON Output = "json"
)

type cliError struct {
	status  int
	message string
	rawJSON []byte
}

func (e *cliError) Error() string {
	return e.message
}

func isValidOutput(v string) bool {
	return v == string(OutputText) || v == string(OutputJSON)
}

func FormatError(output Output, status int, message string) string {
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = http.StatusText(status)
	}

	if output == OutputJSON {
		payload := map[string]any{
			"status": status,
			"error":  msg,
		}
		raw, _ := json.Marshal(payload)
		return string(raw)
	}

	return fmt.Sprintf("error (%d): %s", status, msg)
}

func handleResult(output string, stdout io.Writer, value any, text string, err error) error {
	if !isValidOutput(output) {
		return &cliError{status: http.StatusBadRequest, message: fmt.Sprintf("invalid --output: %s", output)}
	}
	if err != nil {
		return toCLIError(Output(output), err)
	}

	if Output(output) == OutputJSON {
		if value == nil {
			_, _ = fmt.Fprintln(stdout, "{}")
			return nil
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return &cliError{status: http.StatusInternalServerError, message: err.Error()}
		}
		_, _ = fmt.Fprintln(stdout, string(raw))
		return nil
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		trimmed = "ok"
	}
	_, _ = fmt.Fprintln(stdout, trimmed)
	return nil
}

// toCLIError maps API failures to their HTTP status and everything else that failed on
// the way to the backend to 502.
func toCLIError(output Output, err error) *cliError {
	var cErr *cliError
	if errors.As(err, &cErr) {
		return cErr
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		out := &cliError{status: apiErr.Status, message: apiErr.Message}
		if output == OutputJSON && len(apiErr.Body) > 0 && json.Valid(apiErr.Body) {
			out.rawJSON = compactJSON(apiErr.Body)
		}
		return out
	}

	switch {
	case errors.Is(err, board.ErrConfirmationRequired), errors.Is(err, board.ErrInFlight):
		return &cliError{status: http.StatusConflict, message: err.Error()}
	case errors.Is(err, board.ErrUnknownCard), errors.Is(err, board.ErrNotLoaded):
		return &cliError{status: http.StatusNotFound, message: err.Error()}
	}
	return &cliError{status: http.StatusBadGateway, message: err.Error()}
}

func wrapCLIError(status int, message string) error {
	return &cliError{status: status, message: message}
}

func compactJSON(raw []byte) []byte {
	var out bytes.Buffer
	if err := json.Compact(&out, raw); err != nil {
		return raw
	}
	return out.Bytes()
}

func asCLIError(err error, target **cliError) bool {
	return errors.As(err, target)
}

func FormatWatchLine(output Output, event model.Event) (string, error) {
	if output == OutputJSON {
		raw, err := json.Marshal(event)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	parts := make([]string, 0, 4)
	if event.Type != "" {
		parts = append(parts, fmt.Sprintf("type=%s", event.Type))
	}
	if event.BoardID > 0 {
		parts = append(parts, fmt.Sprintf("board=%d", event.BoardID))
	}
	if event.ProjectID > 0 {
		parts = append(parts, fmt.Sprintf("project=%d", event.ProjectID))
	}
	if !event.Timestamp.IsZero() {
		parts = append(parts, "at="+event.Timestamp.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if len(parts) == 0 {
		return "(event)", nil
	}
	return strings.Join(parts, " "), nil
}
