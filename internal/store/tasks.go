package store

import (
	"context"
	"strings"
	"time"

	"github.com/agnel18/DevCollab/internal/model"
)

func (q *Queries) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	res, err := q.db.ExecContext(ctx, `INSERT INTO tasks (project_id, name) VALUES (?, ?)`, task.ProjectID, task.Name)
	if err != nil {
		return model.Task{}, err
	}
	if task.ID, err = res.LastInsertId(); err != nil {
		return model.Task{}, err
	}
	task.Subtasks = []model.Subtask{}
	return task, nil
}

func (q *Queries) GetTask(ctx context.Context, id int64) (model.Task, error) {
	var task model.Task
	err := q.db.QueryRowContext(ctx, `SELECT id, project_id, name FROM tasks WHERE id = ?`, id).Scan(&task.ID, &task.ProjectID, &task.Name)
	if err != nil {
		return model.Task{}, notFound(err, "task")
	}
	task.Subtasks = []model.Subtask{}
	return task, nil
}

func (q *Queries) DeleteTask(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id = ?`, id); err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "task")
}

func (q *Queries) CreateSubtask(ctx context.Context, subtask model.Subtask) (model.Subtask, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO subtasks (task_id, name, estimated_pomodoros, completed_pomodoros, total_seconds_spent) VALUES (?, ?, ?, ?, ?)`,
		subtask.TaskID, subtask.Name, subtask.EstimatedPomodoros, subtask.CompletedPomodoros, subtask.TotalSecondsSpent,
	)
	if err != nil {
		return model.Subtask{}, err
	}
	if subtask.ID, err = res.LastInsertId(); err != nil {
		return model.Subtask{}, err
	}
	return subtask, nil
}

func (q *Queries) GetSubtask(ctx context.Context, id int64) (model.Subtask, error) {
	var st model.Subtask
	err := q.db.QueryRowContext(ctx,
		`SELECT id, task_id, name, estimated_pomodoros, completed_pomodoros, total_seconds_spent FROM subtasks WHERE id = ?`, id,
	).Scan(&st.ID, &st.TaskID, &st.Name, &st.EstimatedPomodoros, &st.CompletedPomodoros, &st.TotalSecondsSpent)
	if err != nil {
		return model.Subtask{}, notFound(err, "subtask")
	}
	return st, nil
}

func (q *Queries) DeleteSubtask(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "subtask")
}

func (q *Queries) queryTasks(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Name); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (q *Queries) querySubtasks(ctx context.Context, query string, args ...any) ([]model.Subtask, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subtasks := make([]model.Subtask, 0)
	for rows.Next() {
		var st model.Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Name, &st.EstimatedPomodoros, &st.CompletedPomodoros, &st.TotalSecondsSpent); err != nil {
			return nil, err
		}
		subtasks = append(subtasks, st)
	}
	return subtasks, rows.Err()
}

func (q *Queries) InsertSession(ctx context.Context, session model.Session) (model.Session, error) {
	res, err := q.db.ExecContext(ctx, `
INSERT INTO pomodoro_sessions (project_id, started_at, ended_at, seconds, kind, is_break, completed)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		session.ProjectID,
		formatTime(session.StartedAt),
		formatTime(session.EndedAt),
		session.Seconds,
		string(session.Kind),
		boolToInt(session.IsBreak),
		boolToInt(session.Completed),
	)
	if err != nil {
		return model.Session{}, err
	}
	if session.ID, err = res.LastInsertId(); err != nil {
		return model.Session{}, err
	}
	return session, nil
}

// ListSessions returns a card's timer sessions, newest first.
func (q *Queries) ListSessions(ctx context.Context, projectID int64) ([]model.Session, error) {
	return q.listSessions(ctx, `
SELECT id, project_id, started_at, ended_at, seconds, kind, is_break, completed
FROM pomodoro_sessions
WHERE project_id = ?
ORDER BY ended_at DESC, id DESC
`, projectID)
}

// SessionScope narrows session and estimate queries. A zero id leaves that dimension open.
type SessionScope struct {
	BoardID   int64
	ProjectID int64
}

func (s SessionScope) where() (string, []any) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if s.BoardID != 0 {
		clauses = append(clauses, "c.board_id = ?")
		args = append(args, s.BoardID)
	}
	if s.ProjectID != 0 {
		clauses = append(clauses, "c.id = ?")
		args = append(args, s.ProjectID)
	}
	if len(clauses) == 0 {
		return "1 = 1", args
	}
	return strings.Join(clauses, " AND "), args
}

// SessionsBetween returns the sessions in scope that started in [from, to), oldest first.
// Sessions of deleted cards are gone with their card.
func (q *Queries) SessionsBetween(ctx context.Context, scope SessionScope, from, to time.Time) ([]model.Session, error) {
	where, args := scope.where()
	args = append(args, formatTime(from), formatTime(to))
	return q.listSessions(ctx, `
SELECT s.id, s.project_id, s.started_at, s.ended_at, s.seconds, s.kind, s.is_break, s.completed
FROM pomodoro_sessions s
JOIN cards c ON c.id = s.project_id
WHERE `+where+` AND s.started_at >= ? AND s.started_at < ?
ORDER BY s.started_at, s.id
`, args...)
}

// EstimateTotals sums estimated and completed pomodoros over the cards in scope.
func (q *Queries) EstimateTotals(ctx context.Context, scope SessionScope) (estimated, completed int, err error) {
	where, args := scope.where()
	err = q.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(c.estimated_pomodoros), 0), COALESCE(SUM(c.completed_pomodoros), 0)
FROM cards c
WHERE `+where, args...).Scan(&estimated, &completed)
	return estimated, completed, err
}

func (q *Queries) listSessions(ctx context.Context, query string, args ...any) ([]model.Session, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]model.Session, 0)
	for rows.Next() {
		var (
			s         model.Session
			started   string
			ended     string
			kind      string
			isBreak   int
			completed int
		)
		if err := rows.Scan(&s.ID, &s.ProjectID, &started, &ended, &s.Seconds, &kind, &isBreak, &completed); err != nil {
			return nil, err
		}
		if s.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if s.EndedAt, err = parseTime(ended); err != nil {
			return nil, err
		}
		s.Kind = model.SessionKind(kind)
		s.IsBreak = isBreak == 1
		s.Completed = completed == 1
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
