package client

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/agnel18/DevCollab/internal/model"
)

type CreateBoardRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

type UpdateBoardRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

type CreateColumnRequest struct {
	Name     string  `json:"name"`
	Color    *string `json:"color,omitempty"`
	Position *int    `json:"position,omitempty"`
}

type UpdateColumnRequest struct {
	Name     *string `json:"name,omitempty"`
	Color    *string `json:"color,omitempty"`
	Position *int    `json:"position,omitempty"`
}

type ColumnDeletion struct {
	ID            int64  `json:"id"`
	Deleted       bool   `json:"deleted"`
	ReassignedTo  *int64 `json:"reassignedTo"`
	ProjectsMoved int64  `json:"projectsMoved"`
}

type CreateProjectRequest struct {
	Name               string        `json:"name"`
	Description        *string       `json:"description,omitempty"`
	BoardID            int64         `json:"boardId"`
	ColumnID           *int64        `json:"columnId,omitempty"`
	Status             *model.Status `json:"status,omitempty"`
	EstimatedPomodoros *int          `json:"estimatedPomodoros,omitempty"`
	PomodoroDuration   *int          `json:"pomodoroDuration,omitempty"`
	BreakDuration      *int          `json:"breakDuration,omitempty"`
}

// UpdateProjectRequest is a partial update; nil fields are left unchanged.
type UpdateProjectRequest struct {
	Name               *string       `json:"name,omitempty"`
	Description        *string       `json:"description,omitempty"`
	Status             *model.Status `json:"status,omitempty"`
	ColumnID           *int64        `json:"columnId,omitempty"`
	EstimatedPomodoros *int          `json:"estimatedPomodoros,omitempty"`
	PomodoroDuration   *int          `json:"pomodoroDuration,omitempty"`
	BreakDuration      *int          `json:"breakDuration,omitempty"`
}

// StartResult is the started project plus the ids the server paused to keep one timer running.
type StartResult struct {
	Project   model.Card
	PausedIDs []int64
}

// ReportQuery scopes a pomodoro report. Zero ids and empty bounds are left to the server
// defaults. From and To take RFC 3339 timestamps or YYYY-MM-DD dates.
type ReportQuery struct {
	BoardID   int64
	ProjectID int64
	From      string
	To        string
}

type Deletion struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

type PaletteEntry struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type ClientConfig struct {
	ServerURL                 string         `json:"server_url"`
	DragDistance              int            `json:"drag_distance"`
	Palette                   []PaletteEntry `json:"palette"`
	DefaultPomodoroMinutes    int            `json:"default_pomodoro_minutes"`
	DefaultBreakMinutes       int            `json:"default_break_minutes"`
	DefaultEstimatedPomodoros int            `json:"default_estimated_pomodoros"`
}

func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	return err
}

func (c *Client) ClientConfig(ctx context.Context) (ClientConfig, error) {
	var out ClientConfig
	_, err := c.do(ctx, http.MethodGet, "/client-config", nil, &out)
	return out, err
}

func (c *Client) ListBoards(ctx context.Context) ([]model.Board, error) {
	var out struct {
		Boards []model.Board `json:"boards"`
	}
	_, err := c.do(ctx, http.MethodGet, "/api/boards", nil, &out)
	return out.Boards, err
}

func (c *Client) GetBoard(ctx context.Context, id int64) (model.Board, error) {
	var out model.Board
	err := c.call(ctx, http.MethodGet, nil, &out, "/api/boards/", p("id", id))
	return out, err
}

func (c *Client) CreateBoard(ctx context.Context, body CreateBoardRequest) (model.Board, error) {
	var out model.Board
	_, err := c.do(ctx, http.MethodPost, "/api/boards", body, &out)
	return out, err
}

func (c *Client) UpdateBoard(ctx context.Context, id int64, body UpdateBoardRequest) (model.Board, error) {
	var out model.Board
	err := c.call(ctx, http.MethodPatch, body, &out, "/api/boards/", p("id", id))
	return out, err
}

func (c *Client) DeleteBoard(ctx context.Context, id int64) (Deletion, error) {
	var out Deletion
	err := c.call(ctx, http.MethodDelete, nil, &out, "/api/boards/", p("id", id))
	return out, err
}

func (c *Client) ListColumns(ctx context.Context, boardID int64) ([]model.Column, error) {
	var out struct {
		Columns []model.Column `json:"columns"`
	}
	err := c.call(ctx, http.MethodGet, nil, &out, "/api/boards/", p("boardId", boardID), "/columns")
	return out.Columns, err
}

func (c *Client) CreateColumn(ctx context.Context, boardID int64, body CreateColumnRequest) (model.Column, error) {
	var out model.Column
	err := c.call(ctx, http.MethodPost, body, &out, "/api/boards/", p("boardId", boardID), "/columns")
	return out, err
}

func (c *Client) UpdateColumn(ctx context.Context, boardID, columnID int64, body UpdateColumnRequest) (model.Column, error) {
	var out model.Column
	err := c.call(ctx, http.MethodPatch, body, &out, "/api/boards/", p("boardId", boardID), "/columns/", p("columnId", columnID))
	return out, err
}

func (c *Client) DeleteColumn(ctx context.Context, boardID, columnID int64) (ColumnDeletion, error) {
	var out ColumnDeletion
	err := c.call(ctx, http.MethodDelete, nil, &out, "/api/boards/", p("boardId", boardID), "/columns/", p("columnId", columnID))
	return out, err
}

func (c *Client) ListProjects(ctx context.Context) ([]model.Card, error) {
	var out struct {
		Projects []model.Card `json:"projects"`
	}
	_, err := c.do(ctx, http.MethodGet, "/api/projects", nil, &out)
	return out.Projects, err
}

func (c *Client) ListProjectsByBoard(ctx context.Context, boardID int64) ([]model.Card, error) {
	var out struct {
		Projects []model.Card `json:"projects"`
	}
	err := c.call(ctx, http.MethodGet, nil, &out, "/api/projects/board/", p("boardId", boardID))
	return out.Projects, err
}

func (c *Client) GetProject(ctx context.Context, id int64) (model.Card, error) {
	var out model.Card
	err := c.call(ctx, http.MethodGet, nil, &out, "/api/projects/", p("id", id))
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, body CreateProjectRequest) (model.Card, error) {
	var out model.Card
	_, err := c.do(ctx, http.MethodPost, "/api/projects", body, &out)
	return out, err
}

func (c *Client) UpdateProject(ctx context.Context, id int64, body UpdateProjectRequest) (model.Card, error) {
	var out model.Card
	err := c.call(ctx, http.MethodPatch, body, &out, "/api/projects/", p("id", id))
	return out, err
}

func (c *Client) DeleteProject(ctx context.Context, id int64) (Deletion, error) {
	var out Deletion
	err := c.call(ctx, http.MethodDelete, nil, &out, "/api/projects/", p("id", id))
	return out, err
}

func (c *Client) StartPomodoro(ctx context.Context, id int64) (StartResult, error) {
	path, err := route("/api/projects/", p("id", id), "/pomodoro/start")
	if err != nil {
		return StartResult{}, err
	}
	var out StartResult
	header, err := c.do(ctx, http.MethodPost, path, nil, &out.Project)
	if err != nil {
		return StartResult{}, err
	}
	for _, raw := range strings.Split(header.Get("X-Paused-Projects"), ",") {
		if pausedID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			out.PausedIDs = append(out.PausedIDs, pausedID)
		}
	}
	return out, nil
}

func (c *Client) PausePomodoro(ctx context.Context, id int64) (model.Card, error) {
	var out model.Card
	err := c.call(ctx, http.MethodPost, nil, &out, "/api/projects/", p("id", id), "/pomodoro/pause")
	return out, err
}

func (c *Client) StopPomodoro(ctx context.Context, id int64) (model.Card, error) {
	var out model.Card
	err := c.call(ctx, http.MethodPost, nil, &out, "/api/projects/", p("id", id), "/pomodoro/stop")
	return out, err
}

func (c *Client) ListSessions(ctx context.Context, id int64) ([]model.Session, error) {
	var out struct {
		Sessions []model.Session `json:"sessions"`
	}
	err := c.call(ctx, http.MethodGet, nil, &out, "/api/projects/", p("id", id), "/pomodoro/sessions")
	return out.Sessions, err
}

func (c *Client) PomodoroReport(ctx context.Context, query ReportQuery) (model.Report, error) {
	values := make([]string, 0, 4)
	for _, q := range []struct {
		name  string
		value any
		set   bool
	}{
		{"boardId", query.BoardID, query.BoardID != 0},
		{"projectId", query.ProjectID, query.ProjectID != 0},
		{"from", query.From, query.From != ""},
		{"to", query.To, query.To != ""},
	} {
		if !q.set {
			continue
		}
		encoded, err := queryParam(q.name, q.value)
		if err != nil {
			return model.Report{}, err
		}
		values = append(values, encoded)
	}
	path := "/api/pomodoro/report"
	if len(values) > 0 {
		path += "?" + strings.Join(values, "&")
	}
	var out model.Report
	_, err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) CreateTask(ctx context.Context, projectID int64, name string) (model.Task, error) {
	var out model.Task
	body := map[string]any{"projectId": projectID, "name": name}
	_, err := c.do(ctx, http.MethodPost, "/api/tasks", body, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id int64) (Deletion, error) {
	var out Deletion
	err := c.call(ctx, http.MethodDelete, nil, &out, "/api/tasks/", p("id", id))
	return out, err
}

func (c *Client) CreateSubtask(ctx context.Context, taskID int64, name string, estimated int) (model.Subtask, error) {
	var out model.Subtask
	body := map[string]any{"taskId": taskID, "name": name}
	if estimated > 0 {
		body["estimatedPomodoros"] = estimated
	}
	_, err := c.do(ctx, http.MethodPost, "/api/subtasks", body, &out)
	return out, err
}

func (c *Client) DeleteSubtask(ctx context.Context, id int64) (Deletion, error) {
	var out Deletion
	err := c.call(ctx, http.MethodDelete, nil, &out, "/api/subtasks/", p("id", id))
	return out, err
}

func (c *Client) call(ctx context.Context, method string, body, out any, parts ...any) error {
	path, err := route(parts...)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, method, path, body, out)
	return err
}
