package boardcmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/agnel18/DevCollab/internal/client"
	"github.com/agnel18/DevCollab/internal/devcollab/commands/common"
	"github.com/agnel18/DevCollab/internal/model"
	"github.com/spf13/cobra"
)

func NewColumn(runtime common.Runtime, stdout io.Writer, handle common.HandleFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	columnCmd := &cobra.Command{
		Use:     "column",
		Aliases: []string{"columns", "col"},
		Short:   "Manage board columns.",
	}

	addCmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"create"},
		Short:   "Add a column to a board.",
		Example: strings.TrimSpace(`devcollab column add -b 1 -n Review --color yellow
devcollab column add -b 1 -n Backlog --position 0`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			boardID, err := boardFlag(cmd, runtime, wrapErr)
			if err != nil {
				return err
			}
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			name, _ := cmd.Flags().GetString("name")
			body := client.CreateColumnRequest{Name: strings.TrimSpace(name)}
			if cmd.Flags().Changed("color") {
				value, _ := cmd.Flags().GetString("color")
				body.Color = common.Trimmed(value)
			}
			if cmd.Flags().Changed("position") {
				value, _ := cmd.Flags().GetInt("position")
				body.Position = &value
			}
			column, err := api.CreateColumn(context.Background(), boardID, body)
			return handle(runtime.Output(), stdout, column, columnLine(column), err)
		},
	}
	addCmd.Flags().Int64P("board", "b", 0, "Board id")
	addCmd.Flags().StringP("name", "n", "", "Column name")
	addCmd.Flags().String("color", "", "Hex color or palette name")
	addCmd.Flags().Int("position", 0, "Zero-based position; defaults to the end")
	_ = addCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List board columns in order.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			boardID, err := boardFlag(cmd, runtime, wrapErr)
			if err != nil {
				return err
			}
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			columns, err := api.ListColumns(context.Background(), boardID)
			lines := make([]string, 0, len(columns))
			for _, column := range columns {
				lines = append(lines, columnLine(column))
			}
			return handle(runtime.Output(), stdout, map[string]any{"columns": columns}, strings.Join(lines, "\n"), err)
		},
	}
	listCmd.Flags().Int64P("board", "b", 0, "Board id")

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Rename, recolor or reorder a column.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			boardID, err := boardFlag(cmd, runtime, wrapErr)
			if err != nil {
				return err
			}
			columnID, _ := cmd.Flags().GetInt64("column")
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			body := client.UpdateColumnRequest{}
			if cmd.Flags().Changed("name") {
				value, _ := cmd.Flags().GetString("name")
				body.Name = common.Trimmed(value)
			}
			if cmd.Flags().Changed("color") {
				value, _ := cmd.Flags().GetString("color")
				body.Color = common.Trimmed(value)
			}
			if cmd.Flags().Changed("position") {
				value, _ := cmd.Flags().GetInt("position")
				body.Position = &value
			}
			column, err := api.UpdateColumn(context.Background(), boardID, columnID, body)
			return handle(runtime.Output(), stdout, column, columnLine(column), err)
		},
	}
	updateCmd.Flags().Int64P("board", "b", 0, "Board id")
	updateCmd.Flags().Int64P("column", "c", 0, "Column id")
	updateCmd.Flags().StringP("name", "n", "", "New name")
	updateCmd.Flags().String("color", "", "New color")
	updateCmd.Flags().Int("position", 0, "New zero-based position")
	_ = updateCmd.MarkFlagRequired("column")

	deleteCmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Delete a column; its projects move to the first remaining column.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			boardID, err := boardFlag(cmd, runtime, wrapErr)
			if err != nil {
				return err
			}
			columnID, _ := cmd.Flags().GetInt64("column")
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			result, err := api.DeleteColumn(context.Background(), boardID, columnID)
			text := common.Deleted("column", columnID)
			if result.ReassignedTo != nil {
				text += fmt.Sprintf(", %d projects moved to column %d", result.ProjectsMoved, *result.ReassignedTo)
			}
			return handle(runtime.Output(), stdout, result, text, err)
		},
	}
	deleteCmd.Flags().Int64P("board", "b", 0, "Board id")
	deleteCmd.Flags().Int64P("column", "c", 0, "Column id")
	_ = deleteCmd.MarkFlagRequired("column")

	columnCmd.AddCommand(addCmd, listCmd, updateCmd, deleteCmd)
	return columnCmd
}

// boardFlag reads -b, falling back to the configured default board.
func boardFlag(cmd *cobra.Command, runtime common.Runtime, wrapErr common.WrapErrorFunc) (int64, error) {
	boardID, _ := cmd.Flags().GetInt64("board")
	if boardID == 0 {
		boardID = runtime.DefaultBoard()
	}
	if boardID <= 0 {
		return 0, wrapErr(http.StatusBadRequest, "--board is required (or set cli.board in the config file)")
	}
	return boardID, nil
}

func columnLine(column model.Column) string {
	return fmt.Sprintf("#%d %s position=%d color=%s", column.ID, column.Name, column.Position, column.Color)
}
