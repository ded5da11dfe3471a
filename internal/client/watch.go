package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/gorilla/websocket"
)

// BuildWebsocketURL maps an http(s) server url onto the ws(s) change feed. A positive boardID
// narrows the feed to that board.
func BuildWebsocketURL(serverURL string, boardID int64) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(serverURL))
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid server url")
	}

	wsScheme := "ws"
	if parsed.Scheme == "https" {
		wsScheme = "wss"
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("server url must start with http:// or https://")
	}

	wsURL := &url.URL{
		Scheme: wsScheme,
		Host:   parsed.Host,
		Path:   strings.TrimRight(parsed.Path, "/") + "/ws",
	}
	if boardID > 0 {
		q := wsURL.Query()
		q.Set("board", strconv.FormatInt(boardID, 10))
		wsURL.RawQuery = q.Encode()
	}
	return wsURL.String(), nil
}

// WatchEvents streams change-feed events to fn until ctx is cancelled, the connection fails,
// or fn returns an error. Cancellation is not an error.
func (c *Client) WatchEvents(ctx context.Context, boardID int64, fn func(model.Event) error) error {
	wsURL, err := BuildWebsocketURL(c.server, boardID)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()
	c.logger.Debug("watching events", "url", wsURL)

	// ReadJSON blocks until socket activity, so closing the connection is what unblocks it.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "interrupt"),
			time.Now().Add(500*time.Millisecond),
		)
		_ = conn.Close()
	}()

	for {
		var event model.Event
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}
