package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerPomodoroOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "startPomodoro",
		Method:      http.MethodPost,
		Path:        "/api/projects/{id}/pomodoro/start",
		Summary:     "Start or resume the project timer",
		Description: "Any other running timer is paused in the same transaction. The project moves to DOING.",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.startPomodoro)

	huma.Register(s.api, huma.Operation{
		OperationID: "pausePomodoro",
		Method:      http.MethodPost,
		Path:        "/api/projects/{id}/pomodoro/pause",
		Summary:     "Pause the project timer",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.pausePomodoro)

	huma.Register(s.api, huma.Operation{
		OperationID: "stopPomodoro",
		Method:      http.MethodPost,
		Path:        "/api/projects/{id}/pomodoro/stop",
		Summary:     "Stop the project timer and record the time spent",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.stopPomodoro)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPomodoroSessions",
		Method:      http.MethodGet,
		Path:        "/api/projects/{id}/pomodoro/sessions",
		Summary:     "List recorded timer sessions, newest first",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.listPomodoroSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "pomodoroReport",
		Method:      http.MethodGet,
		Path:        "/api/pomodoro/report",
		Summary:     "Summarize recorded timer sessions over a window",
		Description: "Totals work and break time, completed pomodoros and a per-day breakdown for one board, one project or everything. The window defaults to the last seven days.",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, s.pomodoroReport)
}

type startPomodoroOutput struct {
	// PausedIDs lists the projects whose timers were paused to make room for this one.
	PausedIDs string `header:"X-Paused-Projects"`
	Body      model.Card
}

func (s *Server) startPomodoro(ctx context.Context, input *projectPathInput) (*startPomodoroOutput, error) {
	result, err := s.service.StartPomodoro(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	ids := make([]string, 0, len(result.Paused))
	for _, paused := range result.Paused {
		ids = append(ids, strconv.FormatInt(paused.ID, 10))
	}
	return &startPomodoroOutput{PausedIDs: strings.Join(ids, ","), Body: result.Card}, nil
}

func (s *Server) pausePomodoro(ctx context.Context, input *projectPathInput) (*projectOutput, error) {
	card, err := s.service.PausePomodoro(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &projectOutput{Body: card}, nil
}

func (s *Server) stopPomodoro(ctx context.Context, input *projectPathInput) (*projectOutput, error) {
	card, err := s.service.StopPomodoro(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &projectOutput{Body: card}, nil
}

type listSessionsOutput struct {
	Body struct {
		Sessions []model.Session `json:"sessions"`
	}
}

func (s *Server) listPomodoroSessions(ctx context.Context, input *projectPathInput) (*listSessionsOutput, error) {
	sessions, err := s.service.ListSessions(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &listSessionsOutput{}
	out.Body.Sessions = sessions
	return out, nil
}

type reportInput struct {
	BoardID   int64  `query:"boardId" doc:"Limit the report to one board"`
	ProjectID int64  `query:"projectId" doc:"Limit the report to one project"`
	From      string `query:"from" doc:"Window start, RFC 3339 or YYYY-MM-DD" example:"2026-03-02"`
	To        string `query:"to" doc:"Window end (exclusive), RFC 3339 or YYYY-MM-DD"`
}

type reportOutput struct {
	Body model.Report
}

func (s *Server) pomodoroReport(ctx context.Context, input *reportInput) (*reportOutput, error) {
	from, err := parseReportTime("from", input.From)
	if err != nil {
		return nil, err
	}
	to, err := parseReportTime("to", input.To)
	if err != nil {
		return nil, err
	}
	report, err := s.service.Report(ctx, service.ReportInput{
		BoardID:   input.BoardID,
		ProjectID: input.ProjectID,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &reportOutput{Body: report}, nil
}

// parseReportTime accepts a full timestamp or a bare UTC date. Empty yields the zero time.
func parseReportTime(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, huma.Error400BadRequest(name + " must be RFC 3339 or YYYY-MM-DD")
}
