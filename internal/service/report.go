package service

import (
	"context"
	"time"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/store"
)

// DefaultReportWindow is the span a report covers when no start is given.
const DefaultReportWindow = 7 * 24 * time.Hour

// ReportInput scopes a report. BoardID and ProjectID are exclusive; both zero reports across
// every board. A zero To means now and a zero From means To minus DefaultReportWindow.
type ReportInput struct {
	BoardID   int64
	ProjectID int64
	From      time.Time
	To        time.Time
}

// Report totals the recorded sessions in the window: work and break time, completed
// pomodoros and a per-day breakdown, plus the estimate against completed pomodoros of the
// cards in scope.
func (s *Service) Report(ctx context.Context, in ReportInput) (model.Report, error) {
	if in.BoardID != 0 && in.ProjectID != 0 {
		return model.Report{}, validationf("boardId and projectId cannot be combined")
	}
	to := in.To
	if to.IsZero() {
		to = s.now()
	}
	from := in.From
	if from.IsZero() {
		from = to.Add(-DefaultReportWindow)
	}
	if !from.Before(to) {
		return model.Report{}, validationf("from must be before to")
	}

	switch {
	case in.BoardID != 0:
		if _, err := s.store.GetBoard(ctx, in.BoardID); err != nil {
			return model.Report{}, storeError(err, "board not found", "get board failed")
		}
	case in.ProjectID != 0:
		if _, err := s.store.GetCard(ctx, in.ProjectID); err != nil {
			return model.Report{}, storeError(err, "project not found", "get project failed")
		}
	}

	scope := store.SessionScope{BoardID: in.BoardID, ProjectID: in.ProjectID}
	sessions, err := s.store.SessionsBetween(ctx, scope, from, to)
	if err != nil {
		return model.Report{}, newError(CodeInternal, "list sessions failed", err)
	}
	estimated, completed, err := s.store.EstimateTotals(ctx, scope)
	if err != nil {
		return model.Report{}, newError(CodeInternal, "sum estimates failed", err)
	}

	report := summarize(sessions)
	report.BoardID = in.BoardID
	report.ProjectID = in.ProjectID
	report.From = from.UTC()
	report.To = to.UTC()
	report.Estimate = model.Estimate{Estimated: estimated, Completed: completed}
	return report, nil
}

// summarize expects sessions ordered by start time.
func summarize(sessions []model.Session) model.Report {
	report := model.Report{Days: []model.ReportDay{}}
	for _, session := range sessions {
		date := session.StartedAt.UTC().Format(time.DateOnly)
		if n := len(report.Days); n == 0 || report.Days[n-1].Date != date {
			report.Days = append(report.Days, model.ReportDay{Date: date})
		}
		day := &report.Days[len(report.Days)-1]

		report.Sessions++
		day.Sessions++
		if session.IsBreak {
			report.BreakSeconds += session.Seconds
			continue
		}
		report.WorkSeconds += session.Seconds
		day.WorkSeconds += session.Seconds
		if session.Completed {
			report.CompletedPomodoros++
			day.CompletedPomodoros++
		}
	}
	return report
}
