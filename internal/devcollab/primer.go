package devcollab

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/spf13/cobra"
)

func newPrimerCommand(cfg *Config, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "primer",
		Short: "Print concise usage guidance for scripts.",
		Long:  "Prints command templates, id rules and error shapes for automation.",
		Example: strings.TrimSpace(`devcollab primer
devcollab --output json primer`),
		RunE: func(_ *cobra.Command, _ []string) error {
			return printPrimer(cfg.Output, stdout)
		},
	}
}

var primerTemplates = [][2]string{
	{"list_boards", `devcollab --output json board ls`},
	{"create_board", `devcollab --output json board create -n "$NAME"`},
	{"list_columns", `devcollab --output json column ls -b "$BOARD"`},
	{"list_projects", `devcollab --output json card ls -b "$BOARD"`},
	{"create_project", `devcollab --output json card create -b "$BOARD" -n "$NAME" [-s TODO]`},
	{"get_project", `devcollab --output json card get -i "$ID"`},
	{"move_project", `devcollab --output json card move -i "$ID" -s DOING`},
	{"delete_project", `devcollab --output json card rm -i "$ID" [--yes]`},
	{"start_timer", `devcollab --output json timer start -i "$ID"`},
	{"pause_timer", `devcollab --output json timer pause -i "$ID"`},
	{"stop_timer", `devcollab --output json timer stop -i "$ID"`},
	{"list_sessions", `devcollab --output json timer sessions -i "$ID"`},
	{"weekly_report", `devcollab --output json timer report -b "$BOARD"`},
	{"add_task", `devcollab --output json task add -p "$ID" -n "$NAME"`},
	{"add_subtask", `devcollab --output json subtask add -t "$TASK" -n "$NAME" [-e 2]`},
	{"watch_events", `devcollab --output json watch [-b "$BOARD"]`},
}

var primerRules = []string{
	"Prefer --output json for any command whose output will be parsed.",
	"Ids are numeric and global. Use board ls and card ls to discover them.",
	"Only one timer runs at a time. Starting one pauses the other running project.",
	"Starting a timer moves the project to DOING.",
	"Deleting a DONE project needs --yes.",
	"watch is long-running and must be stopped by the caller.",
}

func printPrimer(output Output, stdout io.Writer) error {
	statuses := []string{string(model.StatusTodo), string(model.StatusDoing), string(model.StatusDone)}

	if output == OutputJSON {
		templates := make(map[string]string, len(primerTemplates))
		for _, t := range primerTemplates {
			templates[t[0]] = t[1]
		}
		payload := map[string]any{
			"name":              "devcollab",
			"mode":              "machine",
			"statuses":          statuses,
			"global_flags":      []string{"--server-url", "--output", "--log-level"},
			"execution_rules":   primerRules,
			"command_templates": templates,
			"error_shape": map[string]any{
				"backend_problem_json": map[string]any{"title": "Not Found", "status": 404, "detail": "project not found"},
				"cli_fallback_json":    map[string]any{"status": 502, "error": "gateway or CLI processing error"},
			},
			"watch_event_shape": map[string]any{
				"id":        "01J...",
				"type":      string(model.EventTypeProjectUpdated),
				"boardId":   1,
				"projectId": 3,
				"timestamp": "2026-02-20T12:34:56Z",
			},
		}
		raw, _ := json.Marshal(payload)
		_, _ = fmt.Fprintln(stdout, string(raw))
		return nil
	}

	lines := []string{"DEVCOLLAB PRIMER", "", "RULES"}
	for i, rule := range primerRules {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, rule))
	}
	lines = append(lines, "", "STATUSES", strings.Join(statuses, " | "), "", "COMMAND TEMPLATES")
	for _, t := range primerTemplates {
		lines = append(lines, strings.ToUpper(t[0])+": "+t[1])
	}
	lines = append(lines,
		"",
		"ERROR SHAPE",
		`- backend problem JSON: {"title":...,"status":...,"detail":...}`,
		`- CLI fallback JSON: {"status":<int>,"error":"<message>"}`,
	)
	_, _ = fmt.Fprintln(stdout, strings.Join(lines, "\n"))
	return nil
}
