package devcollab

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
)

// NewLogger builds the process logger. Format is text, logfmt or json.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl := charmLog.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := charmLog.ParseLevel(strings.TrimSpace(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	var formatter charmLog.Formatter
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		formatter = charmLog.TextFormatter
	case "logfmt":
		formatter = charmLog.LogfmtFormatter
	case "json":
		formatter = charmLog.JSONFormatter
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	logger := charmLog.NewWithOptions(w, charmLog.Options{
		Level:           lvl,
		Prefix:          "devcollab",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter,
	})
	return slog.New(logger), nil
}
