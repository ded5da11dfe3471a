package cardcmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agnel18/DevCollab/internal/board"
	"github.com/agnel18/DevCollab/internal/client"
	"github.com/agnel18/DevCollab/internal/devcollab/commands/common"
	"github.com/agnel18/DevCollab/internal/dnd"
	"github.com/agnel18/DevCollab/internal/model"
	"github.com/spf13/cobra"
)

func New(runtime common.Runtime, stdout io.Writer, handle common.HandleFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	cardCmd := &cobra.Command{
		Use:     "card",
		Aliases: []string{"cards", "project", "projects"},
		Short:   "Manage projects (cards).",
		Long:    "Create, list, get, update, move, and delete projects. Each project carries its own Pomodoro timer.",
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects, optionally of one board.",
		Example: strings.TrimSpace(`devcollab card ls
devcollab card ls -b 1 --output json`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			boardID, _ := cmd.Flags().GetInt64("board")
			if boardID == 0 {
				boardID = runtime.DefaultBoard()
			}
			var cards []model.Card
			if boardID > 0 {
				cards, err = api.ListProjectsByBoard(context.Background(), boardID)
			} else {
				cards, err = api.ListProjects(context.Background())
			}
			return handle(runtime.Output(), stdout, map[string]any{"projects": cards}, common.CardLines(cards, time.Now()), err)
		},
	}
	listCmd.Flags().Int64P("board", "b", 0, "Board id")

	getCmd := &cobra.Command{
		Use:     "get",
		Aliases: []string{"show"},
		Short:   "Get one project with its tasks.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			id, _ := cmd.Flags().GetInt64("id")
			card, err := api.GetProject(context.Background(), id)
			return handle(runtime.Output(), stdout, card, detail(card), err)
		},
	}
	getCmd.Flags().Int64P("id", "i", 0, "Project id")
	_ = getCmd.MarkFlagRequired("id")

	createCmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Create a project.",
		Example: strings.TrimSpace(`devcollab card create -b 1 -n "Write docs"
devcollab card create -b 1 -n "Ship" -s DOING --work 45 --break 10 --estimate 3`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			boardID, _ := cmd.Flags().GetInt64("board")
			if boardID == 0 {
				boardID = runtime.DefaultBoard()
			}
			if boardID <= 0 {
				return wrapErr(http.StatusBadRequest, "--board is required (or set cli.board in the config file)")
			}
			name, _ := cmd.Flags().GetString("name")
			body := client.CreateProjectRequest{Name: strings.TrimSpace(name), BoardID: boardID}
			if body.Name == "" {
				return wrapErr(http.StatusBadRequest, "--name cannot be empty")
			}
			if cmd.Flags().Changed("description") {
				value, _ := cmd.Flags().GetString("description")
				body.Description = common.Trimmed(value)
			}
			if cmd.Flags().Changed("column") {
				value, _ := cmd.Flags().GetInt64("column")
				body.ColumnID = &value
			}
			if cmd.Flags().Changed("status") {
				status, err := statusFlag(cmd, wrapErr)
				if err != nil {
					return err
				}
				body.Status = &status
			}
			body.PomodoroDuration, body.BreakDuration, body.EstimatedPomodoros, err = timerFlags(cmd, wrapErr)
			if err != nil {
				return err
			}
			card, err := api.CreateProject(context.Background(), body)
			return handle(runtime.Output(), stdout, card, common.CardLine(card, time.Now()), err)
		},
	}
	createCmd.Flags().Int64P("board", "b", 0, "Board id")
	createCmd.Flags().Int64P("column", "c", 0, "Column id; defaults to the column matching the status")
	createCmd.Flags().StringP("name", "n", "", "Project name")
	createCmd.Flags().StringP("description", "d", "", "Project description")
	createCmd.Flags().StringP("status", "s", "", "Status (TODO|DOING|DONE)")
	addTimerFlags(createCmd)
	_ = createCmd.MarkFlagRequired("name")

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update project fields.",
		Example: strings.TrimSpace(`devcollab card update -i 3 --name "Write better docs"
devcollab card update -i 3 --work 50 --break 10`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			id, _ := cmd.Flags().GetInt64("id")
			body := client.UpdateProjectRequest{}
			if cmd.Flags().Changed("name") {
				value, _ := cmd.Flags().GetString("name")
				if strings.TrimSpace(value) == "" {
					return wrapErr(http.StatusBadRequest, "--name cannot be empty")
				}
				body.Name = common.Trimmed(value)
			}
			if cmd.Flags().Changed("desc") {
				value, _ := cmd.Flags().GetString("desc")
				body.Description = common.Trimmed(value)
			}
			if cmd.Flags().Changed("status") {
				status, err := statusFlag(cmd, wrapErr)
				if err != nil {
					return err
				}
				body.Status = &status
			}
			if cmd.Flags().Changed("column") {
				value, _ := cmd.Flags().GetInt64("column")
				body.ColumnID = &value
			}
			body.PomodoroDuration, body.BreakDuration, body.EstimatedPomodoros, err = timerFlags(cmd, wrapErr)
			if err != nil {
				return err
			}
			card, err := api.UpdateProject(context.Background(), id, body)
			return handle(runtime.Output(), stdout, card, common.CardLine(card, time.Now()), err)
		},
	}
	updateCmd.Flags().Int64P("id", "i", 0, "Project id")
	updateCmd.Flags().String("name", "", "New name")
	updateCmd.Flags().String("desc", "", "New description")
	updateCmd.Flags().StringP("status", "s", "", "New status (TODO|DOING|DONE)")
	updateCmd.Flags().Int64P("column", "c", 0, "New column id")
	addTimerFlags(updateCmd)
	_ = updateCmd.MarkFlagRequired("id")

	moveCmd := &cobra.Command{
		Use:   "move",
		Short: "Move a project to another column or status.",
		Example: strings.TrimSpace(`devcollab card move -i 3 -s DONE
devcollab card move -i 3 -c 12`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetInt64("id")
			var target dnd.Container
			switch {
			case cmd.Flags().Changed("column") && cmd.Flags().Changed("status"):
				return wrapErr(http.StatusBadRequest, "use either --status or --column, not both")
			case cmd.Flags().Changed("column"):
				columnID, _ := cmd.Flags().GetInt64("column")
				target = dnd.ColumnContainer(columnID)
			case cmd.Flags().Changed("status"):
				status, err := statusFlag(cmd, wrapErr)
				if err != nil {
					return err
				}
				target = dnd.StatusContainer(status)
			default:
				return wrapErr(http.StatusBadRequest, "--status or --column is required")
			}

			ctx := context.Background()
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			coord, err := common.CoordinatorFor(ctx, runtime, api, id)
			if err != nil {
				return handle(runtime.Output(), stdout, nil, "", err)
			}
			err = coord.HandleDragEnd(ctx, id, target)
			card, _ := coord.Snapshot().Card(id)
			return handle(runtime.Output(), stdout, card, common.CardLine(card, time.Now()), err)
		},
	}
	moveCmd.Flags().Int64P("id", "i", 0, "Project id")
	moveCmd.Flags().StringP("status", "s", "", "Target status (TODO|DOING|DONE)")
	moveCmd.Flags().Int64P("column", "c", 0, "Target column id")
	_ = moveCmd.MarkFlagRequired("id")

	deleteCmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Delete a project. Finished projects need --yes.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetInt64("id")
			yes, _ := cmd.Flags().GetBool("yes")
			ctx := context.Background()
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			coord, err := common.CoordinatorFor(ctx, runtime, api, id)
			if err != nil {
				return handle(runtime.Output(), stdout, nil, "", err)
			}
			err = coord.DeleteCard(ctx, id, yes)
			if errors.Is(err, board.ErrConfirmationRequired) {
				return wrapErr(http.StatusConflict, "project is finished; pass --yes to delete it")
			}
			return handle(runtime.Output(), stdout, client.Deletion{ID: id, Deleted: err == nil}, common.Deleted("project", id), err)
		},
	}
	deleteCmd.Flags().Int64P("id", "i", 0, "Project id")
	deleteCmd.Flags().BoolP("yes", "y", false, "Confirm deleting a finished project")
	_ = deleteCmd.MarkFlagRequired("id")

	cardCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, moveCmd, deleteCmd)
	return cardCmd
}

func addTimerFlags(cmd *cobra.Command) {
	cmd.Flags().Int("work", 0, "Work interval in minutes")
	cmd.Flags().Int("break", 0, "Break interval in minutes")
	cmd.Flags().Int("estimate", 0, "Estimated pomodoros")
}

func timerFlags(cmd *cobra.Command, wrapErr common.WrapErrorFunc) (work, brk, estimate *int, err error) {
	read := func(name string) (*int, error) {
		if !cmd.Flags().Changed(name) {
			return nil, nil
		}
		value, _ := cmd.Flags().GetInt(name)
		if value <= 0 {
			return nil, wrapErr(http.StatusBadRequest, "--"+name+" must be positive")
		}
		return &value, nil
	}
	if work, err = read("work"); err != nil {
		return nil, nil, nil, err
	}
	if brk, err = read("break"); err != nil {
		return nil, nil, nil, err
	}
	if estimate, err = read("estimate"); err != nil {
		return nil, nil, nil, err
	}
	return work, brk, estimate, nil
}

func statusFlag(cmd *cobra.Command, wrapErr common.WrapErrorFunc) (model.Status, error) {
	raw, _ := cmd.Flags().GetString("status")
	status, err := model.ParseStatus(raw)
	if err != nil {
		return "", wrapErr(http.StatusBadRequest, err.Error())
	}
	return status, nil
}

func detail(card model.Card) string {
	lines := []string{common.CardLine(card, time.Now())}
	if card.Description != "" {
		lines = append(lines, "  "+card.Description)
	}
	for _, task := range card.Tasks {
		lines = append(lines, "  task #"+itoa(task.ID)+" "+task.Name)
		for _, sub := range task.Subtasks {
			lines = append(lines, "    subtask #"+itoa(sub.ID)+" "+sub.Name+" ("+itoa(int64(sub.CompletedPomodoros))+"/"+itoa(int64(sub.EstimatedPomodoros))+")")
		}
	}
	return strings.Join(lines, "\n")
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
