package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/agnel18/DevCollab/internal/model"
)

func (q *Queries) CreateBoard(ctx context.Context, board model.Board) (model.Board, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO boards (name, description, color, created_at) VALUES (?, ?, ?, ?)`,
		board.Name, board.Description, board.Color, formatTime(board.CreatedAt),
	)
	if err != nil {
		return model.Board{}, err
	}
	if board.ID, err = res.LastInsertId(); err != nil {
		return model.Board{}, err
	}
	board.Columns = []model.Column{}
	return board, nil
}

func (q *Queries) ListBoards(ctx context.Context) ([]model.Board, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, description, color, created_at FROM boards ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := make([]model.Board, 0)
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range boards {
		if boards[i].Columns, err = q.ListColumns(ctx, boards[i].ID); err != nil {
			return nil, err
		}
	}
	return boards, nil
}

func (q *Queries) GetBoard(ctx context.Context, id int64) (model.Board, error) {
	row := q.db.QueryRowContext(ctx, `SELECT id, name, description, color, created_at FROM boards WHERE id = ?`, id)
	board, err := scanBoard(row)
	if err != nil {
		return model.Board{}, notFound(err, "board")
	}
	if board.Columns, err = q.ListColumns(ctx, id); err != nil {
		return model.Board{}, err
	}
	return board, nil
}

func (q *Queries) UpdateBoard(ctx context.Context, board model.Board) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE boards SET name = ?, description = ?, color = ? WHERE id = ?`,
		board.Name, board.Description, board.Color, board.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "board")
}

// DeleteBoard removes the board with its columns, cards, tasks, subtasks and sessions.
func (q *Queries) DeleteBoard(ctx context.Context, id int64) error {
	stmts := []string{
		`DELETE FROM subtasks WHERE task_id IN (SELECT t.id FROM tasks t JOIN cards c ON c.id = t.project_id WHERE c.board_id = ?)`,
		`DELETE FROM tasks WHERE project_id IN (SELECT id FROM cards WHERE board_id = ?)`,
		`DELETE FROM pomodoro_sessions WHERE project_id IN (SELECT id FROM cards WHERE board_id = ?)`,
		`DELETE FROM cards WHERE board_id = ?`,
		`DELETE FROM board_columns WHERE board_id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := q.db.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	res, err := q.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "board")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoard(row rowScanner) (model.Board, error) {
	var (
		board   model.Board
		created string
	)
	if err := row.Scan(&board.ID, &board.Name, &board.Description, &board.Color, &created); err != nil {
		return model.Board{}, err
	}
	var err error
	if board.CreatedAt, err = parseTime(created); err != nil {
		return model.Board{}, err
	}
	return board, nil
}

func (q *Queries) CreateColumn(ctx context.Context, column model.Column) (model.Column, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO board_columns (board_id, name, position, color) VALUES (?, ?, ?, ?)`,
		column.BoardID, column.Name, column.Position, column.Color,
	)
	if err != nil {
		return model.Column{}, err
	}
	if column.ID, err = res.LastInsertId(); err != nil {
		return model.Column{}, err
	}
	return column, nil
}

// NextColumnPosition is one past the highest position on the board, or 0 for an empty board.
func (q *Queries) NextColumnPosition(ctx context.Context, boardID int64) (int, error) {
	var max sql.NullInt64
	if err := q.db.QueryRowContext(ctx, `SELECT MAX(position) FROM board_columns WHERE board_id = ?`, boardID).Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

func (q *Queries) ListColumns(ctx context.Context, boardID int64) ([]model.Column, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, board_id, name, position, color FROM board_columns WHERE board_id = ? ORDER BY position ASC, id ASC`,
		boardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make([]model.Column, 0)
	for rows.Next() {
		var c model.Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Name, &c.Position, &c.Color); err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

func (q *Queries) GetColumn(ctx context.Context, boardID, columnID int64) (model.Column, error) {
	var c model.Column
	err := q.db.QueryRowContext(ctx,
		`SELECT id, board_id, name, position, color FROM board_columns WHERE id = ? AND board_id = ?`,
		columnID, boardID,
	).Scan(&c.ID, &c.BoardID, &c.Name, &c.Position, &c.Color)
	if err != nil {
		return model.Column{}, notFound(err, "column")
	}
	return c, nil
}

func (q *Queries) UpdateColumn(ctx context.Context, column model.Column) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE board_columns SET name = ?, position = ?, color = ? WHERE id = ? AND board_id = ?`,
		column.Name, column.Position, column.Color, column.ID, column.BoardID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "column")
}

func (q *Queries) DeleteColumn(ctx context.Context, boardID, columnID int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM board_columns WHERE id = ? AND board_id = ?`, columnID, boardID)
	if err != nil {
		return err
	}
	return requireAffected(res, "column")
}

// ReassignColumn moves every card of a column to target, or detaches them when target is nil.
// A non-empty status is applied in the same statement, stamping completed_at on entry into DONE
// and clearing it otherwise. It returns the number of cards touched.
func (q *Queries) ReassignColumn(ctx context.Context, columnID int64, target *int64, status model.Status, now time.Time) (int64, error) {
	st := string(status)
	res, err := q.db.ExecContext(ctx, `
UPDATE cards SET
  column_id = ?,
  completed_at = CASE
    WHEN ? = '' THEN completed_at
    WHEN ? = 'DONE' THEN CASE WHEN status = 'DONE' AND completed_at IS NOT NULL THEN completed_at ELSE ? END
    ELSE NULL
  END,
  status = CASE WHEN ? = '' THEN status ELSE ? END
WHERE column_id = ?
`, nullableInt64(target), st, st, formatTime(now), st, st, columnID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
