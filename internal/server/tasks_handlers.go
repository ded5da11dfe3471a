package server

import (
	"context"
	"net/http"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTaskOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createTask",
		Method:        http.MethodPost,
		Path:          "/api/tasks",
		DefaultStatus: http.StatusCreated,
		Summary:       "Add task to project",
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, s.createTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTask",
		Method:      http.MethodDelete,
		Path:        "/api/tasks/{id}",
		Summary:     "Delete task and its subtasks",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.deleteTask)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createSubtask",
		Method:        http.MethodPost,
		Path:          "/api/subtasks",
		DefaultStatus: http.StatusCreated,
		Summary:       "Add subtask to task",
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, s.createSubtask)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSubtask",
		Method:      http.MethodDelete,
		Path:        "/api/subtasks/{id}",
		Summary:     "Delete subtask",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, s.deleteSubtask)
}

type createTaskInput struct {
	Body struct {
		ProjectID int64  `json:"projectId"`
		Name      string `json:"name" minLength:"1"`
	}
}

type taskOutput struct {
	Body model.Task
}

func (s *Server) createTask(ctx context.Context, input *createTaskInput) (*taskOutput, error) {
	task, err := s.service.CreateTask(ctx, input.Body.ProjectID, input.Body.Name)
	if err != nil {
		return nil, toHumaError(err)
	}
	if task.Subtasks == nil {
		task.Subtasks = []model.Subtask{}
	}
	return &taskOutput{Body: task}, nil
}

type idPathInput struct {
	ID int64 `path:"id"`
}

func (s *Server) deleteTask(ctx context.Context, input *idPathInput) (*deleteOutput, error) {
	if err := s.service.DeleteTask(ctx, input.ID); err != nil {
		return nil, toHumaError(err)
	}
	return deleted(input.ID), nil
}

type createSubtaskInput struct {
	Body struct {
		TaskID             int64  `json:"taskId"`
		Name               string `json:"name" minLength:"1"`
		EstimatedPomodoros *int   `json:"estimatedPomodoros,omitempty"`
	}
}

type subtaskOutput struct {
	Body model.Subtask
}

func (s *Server) createSubtask(ctx context.Context, input *createSubtaskInput) (*subtaskOutput, error) {
	subtask, err := s.service.CreateSubtask(ctx, input.Body.TaskID, input.Body.Name, intOrZero(input.Body.EstimatedPomodoros))
	if err != nil {
		return nil, toHumaError(err)
	}
	return &subtaskOutput{Body: subtask}, nil
}

func (s *Server) deleteSubtask(ctx context.Context, input *idPathInput) (*deleteOutput, error) {
	if err := s.service.DeleteSubtask(ctx, input.ID); err != nil {
		return nil, toHumaError(err)
	}
	return deleted(input.ID), nil
}
