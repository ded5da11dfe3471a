package taskcmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/agnel18/DevCollab/internal/devcollab/commands/common"
	"github.com/spf13/cobra"
)

func New(runtime common.Runtime, stdout io.Writer, handle common.HandleFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	taskCmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage tasks inside a project.",
	}

	addCmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"create"},
		Short:   "Add a task to a project.",
		Example: `devcollab task add -p 3 -n "Backend"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectID, _ := cmd.Flags().GetInt64("project")
			name, _ := cmd.Flags().GetString("name")
			if strings.TrimSpace(name) == "" {
				return wrapErr(http.StatusBadRequest, "--name cannot be empty")
			}
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			task, err := api.CreateTask(context.Background(), projectID, strings.TrimSpace(name))
			return handle(runtime.Output(), stdout, task, fmt.Sprintf("task #%d %s", task.ID, task.Name), err)
		},
	}
	addCmd.Flags().Int64P("project", "p", 0, "Project id")
	addCmd.Flags().StringP("name", "n", "", "Task name")
	_ = addCmd.MarkFlagRequired("project")
	_ = addCmd.MarkFlagRequired("name")

	deleteCmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Delete a task and its subtasks.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetInt64("id")
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			result, err := api.DeleteTask(context.Background(), id)
			return handle(runtime.Output(), stdout, result, common.Deleted("task", id), err)
		},
	}
	deleteCmd.Flags().Int64P("id", "i", 0, "Task id")
	_ = deleteCmd.MarkFlagRequired("id")

	taskCmd.AddCommand(addCmd, deleteCmd)
	return taskCmd
}

func NewSubtask(runtime common.Runtime, stdout io.Writer, handle common.HandleFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	subtaskCmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"subtasks", "sub"},
		Short:   "Manage subtasks of a task.",
	}

	addCmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"create"},
		Short:   "Add a subtask.",
		Example: `devcollab subtask add -t 7 -n "Schema" -e 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			taskID, _ := cmd.Flags().GetInt64("task")
			name, _ := cmd.Flags().GetString("name")
			estimate, _ := cmd.Flags().GetInt("estimate")
			if strings.TrimSpace(name) == "" {
				return wrapErr(http.StatusBadRequest, "--name cannot be empty")
			}
			if estimate < 0 {
				return wrapErr(http.StatusBadRequest, "--estimate cannot be negative")
			}
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			sub, err := api.CreateSubtask(context.Background(), taskID, strings.TrimSpace(name), estimate)
			return handle(runtime.Output(), stdout, sub, fmt.Sprintf("subtask #%d %s (%d pomodoros)", sub.ID, sub.Name, sub.EstimatedPomodoros), err)
		},
	}
	addCmd.Flags().Int64P("task", "t", 0, "Task id")
	addCmd.Flags().StringP("name", "n", "", "Subtask name")
	addCmd.Flags().IntP("estimate", "e", 0, "Estimated pomodoros (default 1)")
	_ = addCmd.MarkFlagRequired("task")
	_ = addCmd.MarkFlagRequired("name")

	deleteCmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Delete a subtask.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetInt64("id")
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			result, err := api.DeleteSubtask(context.Background(), id)
			return handle(runtime.Output(), stdout, result, common.Deleted("subtask", id), err)
		},
	}
	deleteCmd.Flags().Int64P("id", "i", 0, "Subtask id")
	_ = deleteCmd.MarkFlagRequired("id")

	subtaskCmd.AddCommand(addCmd, deleteCmd)
	return subtaskCmd
}
