package boardcmd

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/agnel18/DevCollab/internal/client"
	"github.com/agnel18/DevCollab/internal/devcollab/commands/common"
	"github.com/spf13/cobra"
)

func New(runtime common.Runtime, stdout io.Writer, handle common.HandleFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	boardCmd := &cobra.Command{
		Use:     "board",
		Aliases: []string{"boards"},
		Short:   "Manage boards.",
		Long:    "Create, list, get, update, and delete boards. New boards get To Do, Doing and Done columns.",
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List boards.",
		RunE: func(_ *cobra.Command, _ []string) error {
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			boards, err := api.ListBoards(context.Background())
			lines := make([]string, 0, len(boards))
			for _, b := range boards {
				lines = append(lines, common.BoardLine(b))
			}
			text := strings.Join(lines, "\n")
			if len(boards) == 0 {
				text = "no boards"
			}
			return handle(runtime.Output(), stdout, map[string]any{"boards": boards}, text, err)
		},
	}

	getCmd := &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"show"},
		Short:   "Get one board with its columns.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0], wrapErr)
			if err != nil {
				return err
			}
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			b, err := api.GetBoard(context.Background(), id)
			return handle(runtime.Output(), stdout, b, common.BoardLine(b), err)
		},
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Create a board.",
		Example: strings.TrimSpace(`devcollab board create -n "Sprint 12"
devcollab board create -n Personal --color purple -d "side projects"`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			name, _ := cmd.Flags().GetString("name")
			body := client.CreateBoardRequest{Name: strings.TrimSpace(name)}
			if body.Name == "" {
				return wrapErr(http.StatusBadRequest, "--name cannot be empty")
			}
			if cmd.Flags().Changed("description") {
				value, _ := cmd.Flags().GetString("description")
				body.Description = common.Trimmed(value)
			}
			if cmd.Flags().Changed("color") {
				value, _ := cmd.Flags().GetString("color")
				body.Color = common.Trimmed(value)
			}
			b, err := api.CreateBoard(context.Background(), body)
			return handle(runtime.Output(), stdout, b, common.BoardLine(b), err)
		},
	}
	createCmd.Flags().StringP("name", "n", "", "Board name")
	createCmd.Flags().StringP("description", "d", "", "Board description")
	createCmd.Flags().String("color", "", "Hex color or palette name (blue, red, green, purple, yellow, indigo, pink)")
	_ = createCmd.MarkFlagRequired("name")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update board name, description or color.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], wrapErr)
			if err != nil {
				return err
			}
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			body := client.UpdateBoardRequest{}
			if cmd.Flags().Changed("name") {
				value, _ := cmd.Flags().GetString("name")
				body.Name = common.Trimmed(value)
			}
			if cmd.Flags().Changed("description") {
				value, _ := cmd.Flags().GetString("description")
				body.Description = common.Trimmed(value)
			}
			if cmd.Flags().Changed("color") {
				value, _ := cmd.Flags().GetString("color")
				body.Color = common.Trimmed(value)
			}
			b, err := api.UpdateBoard(context.Background(), id, body)
			return handle(runtime.Output(), stdout, b, common.BoardLine(b), err)
		},
	}
	updateCmd.Flags().StringP("name", "n", "", "New name")
	updateCmd.Flags().StringP("description", "d", "", "New description")
	updateCmd.Flags().String("color", "", "New color")

	deleteCmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a board with its columns and projects.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0], wrapErr)
			if err != nil {
				return err
			}
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			result, err := api.DeleteBoard(context.Background(), id)
			return handle(runtime.Output(), stdout, result, common.Deleted("board", id), err)
		},
	}

	boardCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd)
	return boardCmd
}

func parseID(raw string, wrapErr common.WrapErrorFunc) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, wrapErr(http.StatusBadRequest, "invalid id: "+raw)
	}
	return id, nil
}
