package server

import (
	"context"
	"net/http"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerProjectOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listProjects",
		Method:      http.MethodGet,
		Path:        "/api/projects",
		Summary:     "List projects across all boards",
		Errors:      []int{http.StatusInternalServerError},
	}, s.listProjects)

	huma.Register(s.api, huma.Operation{
		OperationID: "listProjectsByBoard",
		Method:      http.MethodGet,
		Path:        "/api/projects/board/{boardId}",
		Summary:     "List projects of a board",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.listProjectsByBoard)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createProject",
		Method:        http.MethodPost,
		Path:          "/api/projects",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create project",
		Errors:        []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, s.createProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProject",
		Method:      http.MethodGet,
		Path:        "/api/projects/{id}",
		Summary:     "Get project",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.getProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProject",
		Method:      http.MethodPatch,
		Path:        "/api/projects/{id}",
		Summary:     "Update project fields, status or column",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, s.updateProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteProject",
		Method:      http.MethodDelete,
		Path:        "/api/projects/{id}",
		Summary:     "Delete project",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.deleteProject)
}

type projectPathInput struct {
	ID int64 `path:"id"`
}

type projectOutput struct {
	Body model.Card
}

type listProjectsOutput struct {
	Body struct {
		Projects []model.Card `json:"projects"`
	}
}

func (s *Server) listProjects(ctx context.Context, _ *struct{}) (*listProjectsOutput, error) {
	return s.projectList(ctx, 0)
}

func (s *Server) listProjectsByBoard(ctx context.Context, input *columnsPathInput) (*listProjectsOutput, error) {
	return s.projectList(ctx, input.BoardID)
}

func (s *Server) projectList(ctx context.Context, boardID int64) (*listProjectsOutput, error) {
	cards, err := s.service.ListCards(ctx, boardID)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &listProjectsOutput{}
	out.Body.Projects = cards
	return out, nil
}

type createProjectRequest struct {
	Name               string  `json:"name" minLength:"1"`
	Description        *string `json:"description,omitempty"`
	BoardID            int64   `json:"boardId"`
	ColumnID           *int64  `json:"columnId,omitempty"`
	Status             *string `json:"status,omitempty" enum:"TODO,DOING,DONE"`
	EstimatedPomodoros *int    `json:"estimatedPomodoros,omitempty"`
	PomodoroDuration   *int    `json:"pomodoroDuration,omitempty"`
	BreakDuration      *int    `json:"breakDuration,omitempty"`
}

type createProjectInput struct {
	Body createProjectRequest
}

func (s *Server) createProject(ctx context.Context, input *createProjectInput) (*projectOutput, error) {
	body := input.Body
	card, err := s.service.CreateCard(ctx, service.CardInput{
		BoardID:            body.BoardID,
		ColumnID:           body.ColumnID,
		Name:               body.Name,
		Description:        stringOrEmpty(body.Description),
		Status:             model.Status(stringOrEmpty(body.Status)),
		EstimatedPomodoros: intOrZero(body.EstimatedPomodoros),
		PomodoroDuration:   intOrZero(body.PomodoroDuration),
		BreakDuration:      intOrZero(body.BreakDuration),
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &projectOutput{Body: card}, nil
}

func (s *Server) getProject(ctx context.Context, input *projectPathInput) (*projectOutput, error) {
	card, err := s.service.GetCard(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &projectOutput{Body: card}, nil
}

type updateProjectInput struct {
	ID   int64 `path:"id"`
	Body struct {
		Name               *string `json:"name,omitempty"`
		Description        *string `json:"description,omitempty"`
		Status             *string `json:"status,omitempty" enum:"TODO,DOING,DONE"`
		ColumnID           *int64  `json:"columnId,omitempty"`
		EstimatedPomodoros *int    `json:"estimatedPomodoros,omitempty"`
		PomodoroDuration   *int    `json:"pomodoroDuration,omitempty"`
		BreakDuration      *int    `json:"breakDuration,omitempty"`
	}
}

func (s *Server) updateProject(ctx context.Context, input *updateProjectInput) (*projectOutput, error) {
	body := input.Body
	patch := service.CardPatch{
		Name:               body.Name,
		Description:        body.Description,
		ColumnID:           body.ColumnID,
		EstimatedPomodoros: body.EstimatedPomodoros,
		PomodoroDuration:   body.PomodoroDuration,
		BreakDuration:      body.BreakDuration,
	}
	if body.Status != nil {
		status := model.Status(stringOrEmpty(body.Status))
		patch.Status = &status
	}
	card, err := s.service.UpdateCard(ctx, input.ID, patch)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &projectOutput{Body: card}, nil
}

func (s *Server) deleteProject(ctx context.Context, input *projectPathInput) (*deleteOutput, error) {
	if err := s.service.DeleteCard(ctx, input.ID); err != nil {
		return nil, toHumaError(err)
	}
	return deleted(input.ID), nil
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
