package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/agnel18/DevCollab/internal/model"
)

const cardColumns = `id, board_id, column_id, name, description, status, estimated_pomodoros, completed_pomodoros,
  total_seconds_spent, paused_elapsed_seconds, pomodoro_start, pomodoro_duration, break_duration, is_break,
  current_cycle, created_at, completed_at`

func (q *Queries) CreateCard(ctx context.Context, card model.Card) (model.Card, error) {
	res, err := q.db.ExecContext(ctx, `
INSERT INTO cards (
  board_id, column_id, name, description, status, estimated_pomodoros, completed_pomodoros,
  total_seconds_spent, paused_elapsed_seconds, pomodoro_start, pomodoro_duration, break_duration, is_break,
  current_cycle, created_at, completed_at
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		card.BoardID,
		nullableInt64(card.ColumnID),
		card.Name,
		card.Description,
		string(card.Status),
		card.EstimatedPomodoros,
		card.CompletedPomodoros,
		card.TotalSecondsSpent,
		card.PausedElapsedSeconds,
		formatTimePtr(card.TimerStartedAt),
		card.PomodoroDuration,
		card.BreakDuration,
		boolToInt(card.IsBreak),
		card.CurrentCycle,
		formatTime(card.CreatedAt),
		formatTimePtr(card.CompletedAt),
	)
	if err != nil {
		return model.Card{}, err
	}
	if card.ID, err = res.LastInsertId(); err != nil {
		return model.Card{}, err
	}
	card.Tasks = []model.Task{}
	return card, nil
}

// UpdateCard writes every mutable card field.
func (q *Queries) UpdateCard(ctx context.Context, card model.Card) error {
	res, err := q.db.ExecContext(ctx, `
UPDATE cards SET
  board_id = ?,
  column_id = ?,
  name = ?,
  description = ?,
  status = ?,
  estimated_pomodoros = ?,
  completed_pomodoros = ?,
  total_seconds_spent = ?,
  paused_elapsed_seconds = ?,
  pomodoro_start = ?,
  pomodoro_duration = ?,
  break_duration = ?,
  is_break = ?,
  current_cycle = ?,
  completed_at = ?
WHERE id = ?
`,
		card.BoardID,
		nullableInt64(card.ColumnID),
		card.Name,
		card.Description,
		string(card.Status),
		card.EstimatedPomodoros,
		card.CompletedPomodoros,
		card.TotalSecondsSpent,
		card.PausedElapsedSeconds,
		formatTimePtr(card.TimerStartedAt),
		card.PomodoroDuration,
		card.BreakDuration,
		boolToInt(card.IsBreak),
		card.CurrentCycle,
		formatTimePtr(card.CompletedAt),
		card.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "project")
}

func (q *Queries) GetCard(ctx context.Context, id int64) (model.Card, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	card, err := scanCard(row)
	if err != nil {
		return model.Card{}, notFound(err, "project")
	}
	if err := q.attachTasks(ctx, []*model.Card{&card}); err != nil {
		return model.Card{}, err
	}
	return card, nil
}

// ListCards returns all cards, or the cards of one board when boardID is non-zero.
func (q *Queries) ListCards(ctx context.Context, boardID int64) ([]model.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards`
	args := []any{}
	if boardID != 0 {
		query += ` WHERE board_id = ?`
		args = append(args, boardID)
	}
	query += ` ORDER BY id ASC`
	return q.listCards(ctx, query, args...)
}

// RunningCards lists cards whose timer is running.
func (q *Queries) RunningCards(ctx context.Context) ([]model.Card, error) {
	return q.listCards(ctx, `SELECT `+cardColumns+` FROM cards WHERE pomodoro_start IS NOT NULL ORDER BY id ASC`)
}

func (q *Queries) DeleteCard(ctx context.Context, id int64) error {
	stmts := []string{
		`DELETE FROM subtasks WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)`,
		`DELETE FROM tasks WHERE project_id = ?`,
		`DELETE FROM pomodoro_sessions WHERE project_id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := q.db.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	res, err := q.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "project")
}

func (q *Queries) listCards(ctx context.Context, query string, args ...any) ([]model.Card, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	cards := make([]model.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	ptrs := make([]*model.Card, len(cards))
	for i := range cards {
		ptrs[i] = &cards[i]
	}
	if err := q.attachTasks(ctx, ptrs); err != nil {
		return nil, err
	}
	return cards, nil
}

func scanCard(row rowScanner) (model.Card, error) {
	var (
		card        model.Card
		columnID    sql.NullInt64
		status      string
		isBreak     int
		started     sql.NullString
		created     string
		completedAt sql.NullString
	)
	if err := row.Scan(
		&card.ID,
		&card.BoardID,
		&columnID,
		&card.Name,
		&card.Description,
		&status,
		&card.EstimatedPomodoros,
		&card.CompletedPomodoros,
		&card.TotalSecondsSpent,
		&card.PausedElapsedSeconds,
		&started,
		&card.PomodoroDuration,
		&card.BreakDuration,
		&isBreak,
		&card.CurrentCycle,
		&created,
		&completedAt,
	); err != nil {
		return model.Card{}, err
	}
	card.ColumnID = int64Ptr(columnID)
	card.Status = model.Status(status)
	card.IsBreak = isBreak == 1

	var err error
	if card.TimerStartedAt, err = parseTimePtr(started); err != nil {
		return model.Card{}, err
	}
	if card.CreatedAt, err = parseTime(created); err != nil {
		return model.Card{}, err
	}
	if card.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return model.Card{}, err
	}
	card.Tasks = []model.Task{}
	return card, nil
}

// attachTasks loads tasks and subtasks for the given cards with two queries.
func (q *Queries) attachTasks(ctx context.Context, cards []*model.Card) error {
	if len(cards) == 0 {
		return nil
	}
	byID := make(map[int64]*model.Card, len(cards))
	ids := make([]any, 0, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	tasks, err := q.queryTasks(ctx, `SELECT id, project_id, name FROM tasks WHERE project_id IN (`+placeholders+`) ORDER BY id ASC`, ids...)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	taskIDs := make([]any, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	subtasks, err := q.querySubtasks(ctx,
		`SELECT id, task_id, name, estimated_pomodoros, completed_pomodoros, total_seconds_spent FROM subtasks WHERE task_id IN (`+
			strings.TrimSuffix(strings.Repeat("?,", len(taskIDs)), ",")+`) ORDER BY id ASC`,
		taskIDs...,
	)
	if err != nil {
		return err
	}
	byTask := map[int64][]model.Subtask{}
	for _, st := range subtasks {
		byTask[st.TaskID] = append(byTask[st.TaskID], st)
	}
	for _, t := range tasks {
		t.Subtasks = byTask[t.ID]
		if t.Subtasks == nil {
			t.Subtasks = []model.Subtask{}
		}
		card := byID[t.ProjectID]
		card.Tasks = append(card.Tasks, t)
	}
	return nil
}
