package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/clil/internal/config"
	"github.com/abhisek/clil/internal/export"
	"github.com/abhisek/clil/internal/ui/theme"
)

var exportCmd = &cobra.Command{
	Use:   "export [task...]",
	Short: "Render a task list to PDF or DOCX",
	Example: `  clil export --format docx --out tasks.docx "Task 1: Read the text." "Task 2: Discuss."
  clil export --in tasks.json --out tasks.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd,
			config.WithFlag("export.font_path", cmd.Flags().Lookup("font")),
		)
		if err != nil {
			return err
		}

		formatName, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		tasks := args
		if in, _ := cmd.Flags().GetString("in"); in != "" {
			if len(args) > 0 {
				return fmt.Errorf("pass tasks either as arguments or with --in, not both")
			}
			if tasks, err = readTasksFile(in); err != nil {
				return err
			}
		}

		dest, _ := cmd.Flags().GetString("out")
		if dest == "" {
			dest = format.Filename()
		}
		if err := renderFile(export.NewRenderer(cfg.Export), format, tasks, dest); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme.Hint.Render(fmt.Sprintf("Saved %d tasks to %s", len(tasks), dest)))
		return nil
	},
}

// readTasksFile accepts either a JSON array of strings or an object with a
// "tasks" array, the body shape of the export endpoints.
func readTasksFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var body struct {
		Tasks []string `json:"tasks"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("parse %s: expected a JSON array or {\"tasks\": [...]}: %w", path, err)
	}
	return body.Tasks, nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", "pdf", "Output format: pdf or docx")
	exportCmd.Flags().StringP("out", "o", "", "Destination file (default clil_tasks.<format>)")
	exportCmd.Flags().String("in", "", "Read tasks from a JSON file")
	exportCmd.Flags().String("font", "", "TrueType font for PDF output (overrides CLIL_PDF_FONT)")
}
