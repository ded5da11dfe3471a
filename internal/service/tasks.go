package service

import (
	"context"
	"strings"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/store"
)

func (s *Service) CreateTask(ctx context.Context, projectID int64, name string) (model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, validationf("task name is required")
	}
	var (
		task    model.Task
		boardID int64
	)
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		card, err := q.GetCard(ctx, projectID)
		if err != nil {
			return err
		}
		boardID = card.BoardID
		task, err = q.CreateTask(ctx, model.Task{ProjectID: projectID, Name: name})
		return err
	})
	if err != nil {
		return model.Task{}, storeError(err, "project not found", "create task failed")
	}
	s.logger.Info("task created", "project_id", projectID, "task_id", task.ID)
	s.publish(model.NewEvent(model.EventTypeProjectUpdated, boardID, projectID))
	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	var card model.Card
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		task, err := q.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if card, err = q.GetCard(ctx, task.ProjectID); err != nil {
			return err
		}
		return q.DeleteTask(ctx, id)
	})
	if err != nil {
		return storeError(err, "task not found", "delete task failed")
	}
	s.logger.Info("task deleted", "task_id", id, "project_id", card.ID)
	s.publish(model.NewEvent(model.EventTypeProjectUpdated, card.BoardID, card.ID))
	return nil
}

func (s *Service) CreateSubtask(ctx context.Context, taskID int64, name string, estimated int) (model.Subtask, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Subtask{}, validationf("subtask name is required")
	}
	if estimated < 0 {
		return model.Subtask{}, validationf("estimated pomodoros cannot be negative")
	}
	if estimated == 0 {
		estimated = model.DefaultEstimatedPomodoros
	}
	var (
		subtask model.Subtask
		card    model.Card
	)
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		task, err := q.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if card, err = q.GetCard(ctx, task.ProjectID); err != nil {
			return err
		}
		subtask, err = q.CreateSubtask(ctx, model.Subtask{TaskID: taskID, Name: name, EstimatedPomodoros: estimated})
		return err
	})
	if err != nil {
		return model.Subtask{}, storeError(err, "task not found", "create subtask failed")
	}
	s.logger.Info("subtask created", "task_id", taskID, "subtask_id", subtask.ID)
	s.publish(model.NewEvent(model.EventTypeSubtaskAdded, card.BoardID, card.ID))
	return subtask, nil
}

func (s *Service) DeleteSubtask(ctx context.Context, id int64) error {
	var card model.Card
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		subtask, err := q.GetSubtask(ctx, id)
		if err != nil {
			return err
		}
		task, err := q.GetTask(ctx, subtask.TaskID)
		if err != nil {
			return err
		}
		if card, err = q.GetCard(ctx, task.ProjectID); err != nil {
			return err
		}
		return q.DeleteSubtask(ctx, id)
	})
	if err != nil {
		return storeError(err, "subtask not found", "delete subtask failed")
	}
	s.logger.Info("subtask deleted", "subtask_id", id)
	s.publish(model.NewEvent(model.EventTypeProjectUpdated, card.BoardID, card.ID))
	return nil
}
