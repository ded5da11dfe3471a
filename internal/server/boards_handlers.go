package server

import (
	"context"
	"net/http"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerBoardOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBoards",
		Method:      http.MethodGet,
		Path:        "/api/boards",
		Summary:     "List boards",
		Errors:      []int{http.StatusInternalServerError},
	}, s.listBoards)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBoard",
		Method:        http.MethodPost,
		Path:          "/api/boards",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create board with default columns",
		Errors:        []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, s.createBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBoard",
		Method:      http.MethodGet,
		Path:        "/api/boards/{id}",
		Summary:     "Get board",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.getBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBoard",
		Method:      http.MethodPatch,
		Path:        "/api/boards/{id}",
		Summary:     "Update board",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, s.updateBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBoard",
		Method:      http.MethodDelete,
		Path:        "/api/boards/{id}",
		Summary:     "Delete board with its columns and projects",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.deleteBoard)
}

type boardPathInput struct {
	ID int64 `path:"id"`
}

type boardOutput struct {
	Body model.Board
}

type listBoardsOutput struct {
	Body struct {
		Boards []model.Board `json:"boards"`
	}
}

func (s *Server) listBoards(ctx context.Context, _ *struct{}) (*listBoardsOutput, error) {
	boards, err := s.service.ListBoards(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &listBoardsOutput{}
	out.Body.Boards = boards
	return out, nil
}

type createBoardRequest struct {
	Name        string  `json:"name" minLength:"1"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty" doc:"Hex value or palette name"`
}

type createBoardInput struct {
	Body createBoardRequest
}

func (s *Server) createBoard(ctx context.Context, input *createBoardInput) (*boardOutput, error) {
	board, err := s.service.CreateBoard(ctx, service.BoardInput{
		Name:        input.Body.Name,
		Description: stringOrEmpty(input.Body.Description),
		Color:       stringOrEmpty(input.Body.Color),
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &boardOutput{Body: board}, nil
}

func (s *Server) getBoard(ctx context.Context, input *boardPathInput) (*boardOutput, error) {
	board, err := s.service.GetBoard(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &boardOutput{Body: board}, nil
}

type updateBoardInput struct {
	ID   int64 `path:"id"`
	Body struct {
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
		Color       *string `json:"color,omitempty"`
	}
}

func (s *Server) updateBoard(ctx context.Context, input *updateBoardInput) (*boardOutput, error) {
	board, err := s.service.UpdateBoard(ctx, input.ID, service.BoardPatch{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Color:       input.Body.Color,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &boardOutput{Body: board}, nil
}

type deleteOutput struct {
	Body struct {
		ID      int64 `json:"id"`
		Deleted bool  `json:"deleted"`
	}
}

func deleted(id int64) *deleteOutput {
	out := &deleteOutput{}
	out.Body.ID = id
	out.Body.Deleted = true
	return out
}

func (s *Server) deleteBoard(ctx context.Context, input *boardPathInput) (*deleteOutput, error) {
	if err := s.service.DeleteBoard(ctx, input.ID); err != nil {
		return nil, toHumaError(err)
	}
	return deleted(input.ID), nil
}

func (s *Server) registerColumnOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listColumns",
		Method:      http.MethodGet,
		Path:        "/api/boards/{boardId}/columns",
		Summary:     "List board columns by position",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.listColumns)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createColumn",
		Method:        http.MethodPost,
		Path:          "/api/boards/{boardId}/columns",
		DefaultStatus: http.StatusCreated,
		Summary:       "Add column",
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, s.createColumn)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateColumn",
		Method:      http.MethodPatch,
		Path:        "/api/boards/{boardId}/columns/{columnId}",
		Summary:     "Update column",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, s.updateColumn)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteColumn",
		Method:      http.MethodDelete,
		Path:        "/api/boards/{boardId}/columns/{columnId}",
		Summary:     "Delete column and reassign its projects",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.deleteColumn)
}

type columnsPathInput struct {
	BoardID int64 `path:"boardId"`
}

type columnPathInput struct {
	BoardID  int64 `path:"boardId"`
	ColumnID int64 `path:"columnId"`
}

type columnOutput struct {
	Body model.Column
}

type listColumnsOutput struct {
	Body struct {
		Columns []model.Column `json:"columns"`
	}
}

func (s *Server) listColumns(ctx context.Context, input *columnsPathInput) (*listColumnsOutput, error) {
	columns, err := s.service.ListColumns(ctx, input.BoardID)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &listColumnsOutput{}
	out.Body.Columns = columns
	return out, nil
}

type createColumnInput struct {
	BoardID int64 `path:"boardId"`
	Body    struct {
		Name     string  `json:"name" minLength:"1"`
		Color    *string `json:"color,omitempty"`
		Position *int    `json:"position,omitempty"`
	}
}

func (s *Server) createColumn(ctx context.Context, input *createColumnInput) (*columnOutput, error) {
	column, err := s.service.CreateColumn(ctx, input.BoardID, service.ColumnInput{
		Name:     input.Body.Name,
		Color:    stringOrEmpty(input.Body.Color),
		Position: input.Body.Position,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &columnOutput{Body: column}, nil
}

type updateColumnInput struct {
	BoardID  int64 `path:"boardId"`
	ColumnID int64 `path:"columnId"`
	Body     struct {
		Name     *string `json:"name,omitempty"`
		Color    *string `json:"color,omitempty"`
		Position *int    `json:"position,omitempty"`
	}
}

func (s *Server) updateColumn(ctx context.Context, input *updateColumnInput) (*columnOutput, error) {
	column, err := s.service.UpdateColumn(ctx, input.BoardID, input.ColumnID, service.ColumnPatch{
		Name:     input.Body.Name,
		Color:    input.Body.Color,
		Position: input.Body.Position,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &columnOutput{Body: column}, nil
}

type deleteColumnOutput struct {
	Body struct {
		ID           int64  `json:"id"`
		Deleted      bool   `json:"deleted"`
		ReassignedTo *int64 `json:"reassignedTo"`
		CardsMoved   int64  `json:"projectsMoved"`
	}
}

func (s *Server) deleteColumn(ctx context.Context, input *columnPathInput) (*deleteColumnOutput, error) {
	result, err := s.service.DeleteColumn(ctx, input.BoardID, input.ColumnID)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &deleteColumnOutput{}
	out.Body.ID = result.ColumnID
	out.Body.Deleted = true
	out.Body.ReassignedTo = result.ReassignedTo
	out.Body.CardsMoved = result.CardsMoved
	return out, nil
}
