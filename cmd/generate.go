package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/clil/internal/config"
	"github.com/abhisek/clil/internal/export"
	"github.com/abhisek/clil/internal/logger"
	"github.com/abhisek/clil/internal/taskgen"
	"github.com/abhisek/clil/internal/ui/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate CLIL tasks for a topic",
	Example: `  clil generate --topic Photosynthesis --subject Biology --level B1
  clil generate -t Volcanoes --list --count 5 --export pdf --out volcanoes.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd,
			config.WithFlag("llm.provider", cmd.Flags().Lookup("provider")),
		)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		req, err := generateRequest(cmd)
		if err != nil {
			return err
		}

		var exportFormat export.Format
		if f, _ := cmd.Flags().GetString("export"); f != "" {
			if exportFormat, err = export.ParseFormat(f); err != nil {
				return err
			}
		}

		log, err := logger.New(cfg.Log.Mode)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		gen, err := newGenerator(cmd.Context(), cfg, st.EventRepo(), log)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		listMode, _ := cmd.Flags().GetBool("list")
		out := cmd.OutOrStdout()

		var lines []string
		if listMode {
			list, err := gen.GenerateList(cmd.Context(), req)
			if err != nil {
				return err
			}
			lines = list.Tasks
			if asJSON {
				return writeJSON(out, list)
			}
			printTaskList(out, req, list)
		} else {
			res, err := gen.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			lines = res.Tasks.Lines()
			if asJSON {
				return writeJSON(out, res.Tasks)
			}
			printResult(out, req, res)
		}

		if exportFormat == "" {
			return nil
		}
		dest, _ := cmd.Flags().GetString("out")
		if dest == "" {
			dest = exportFormat.Filename()
		}
		if err := renderFile(export.NewRenderer(cfg.Export), exportFormat, lines, dest); err != nil {
			return err
		}
		fmt.Fprintln(out, theme.Hint.Render("Saved "+dest))
		return nil
	},
}

func generateRequest(cmd *cobra.Command) (taskgen.Request, error) {
	flags := cmd.Flags()
	topic, _ := flags.GetString("topic")
	subject, _ := flags.GetString("subject")
	level, _ := flags.GetString("level")
	bloom, _ := flags.GetString("bloom")
	format, _ := flags.GetString("format")
	count, _ := flags.GetInt("count")

	req := taskgen.Request{
		Topic:      topic,
		Subject:    subject,
		Level:      level,
		BloomLevel: bloom,
		Format:     format,
		Count:      count,
	}
	return req.Normalize()
}

func printResult(w io.Writer, req taskgen.Request, res taskgen.Result) {
	fmt.Fprintln(w, theme.Title.Render("CLIL Tasks: "+req.Topic))
	fmt.Fprintln(w, theme.Subtitle.Render(fmt.Sprintf("%s · %s · %s", req.Subject, req.Level, req.BloomLevel)))

	body := strings.Join([]string{
		theme.Label.Render("Reading") + "  " + theme.Body.Render(res.Tasks.Reading),
		theme.Label.Render("Writing") + "  " + theme.Body.Render(res.Tasks.Writing),
		theme.Label.Render("Speaking") + " " + theme.Body.Render(res.Tasks.Speaking),
	}, "\n")
	fmt.Fprintln(w, theme.Card.Render(body))

	status := "Outcome: " + theme.Outcome(res.Outcome.String())
	if res.Reason != "" {
		status += " " + theme.Hint.Render("("+res.Reason+")")
	}
	fmt.Fprintln(w, status)
}

func printTaskList(w io.Writer, req taskgen.Request, list taskgen.TaskList) {
	fmt.Fprintln(w, theme.Title.Render("CLIL Tasks: "+req.Topic))
	if len(list.Tasks) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("The model returned no tasks."))
		return
	}
	rows := make([]string, len(list.Tasks))
	for i, task := range list.Tasks {
		rows[i] = theme.Body.Render(task)
	}
	fmt.Fprintln(w, theme.Card.Render(strings.Join(rows, "\n")))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderFile writes tasks to dest, removing a partial file on failure.
func renderFile(r *export.Renderer, format export.Format, tasks []string, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	err = r.Render(f, format, tasks)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", dest, cerr)
	}
	if err != nil {
		_ = os.Remove(dest)
		return err
	}
	return nil
}

func init() {
	f := generateCmd.Flags()
	f.StringP("topic", "t", "", "Lesson topic (required)")
	f.StringP("subject", "s", "", "Subject area (default General)")
	f.StringP("level", "l", "", "CEFR English level (default A2)")
	f.String("bloom", "", "Bloom's taxonomy level (default Understand)")
	f.String("format", "", "Task format for --list (default question)")
	f.IntP("count", "n", 0, "Number of tasks for --list (1-20, default 3)")
	f.Bool("list", false, "Generate a numbered task list instead of reading/writing/speaking tasks")
	f.Bool("json", false, "Print the result as JSON")
	f.String("export", "", "Also export the tasks: pdf or docx")
	f.StringP("out", "o", "", "Export destination (default clil_tasks.<format>)")
	f.String("provider", "", "LLM provider: openai, anthropic, gemini, openrouter or mock")
	_ = generateCmd.MarkFlagRequired("topic")
}
