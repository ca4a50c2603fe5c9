package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/clil/internal/config"
	"github.com/abhisek/clil/internal/llm"
	"github.com/abhisek/clil/internal/logger"
	"github.com/abhisek/clil/internal/store"
	"github.com/abhisek/clil/internal/taskgen"
)

var rootCmd = &cobra.Command{
	Use:   "clil",
	Short: "CLIL task generator",
	Long:  "clil generates Content and Language Integrated Learning tasks with an LLM and exports them as PDF or DOCX.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default: $XDG_CONFIG_HOME/clil/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CLIL_DB env var)")
	rootCmd.PersistentFlags().String("log-mode", "", "Log mode: dev or prod (overrides CLIL_LOG_MODE env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration with the persistent flags applied
// on top, plus any command-specific options.
func loadConfig(cmd *cobra.Command, opts ...config.Option) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	opts = append([]config.Option{
		config.WithFlag("store.path", cmd.Flags().Lookup("db")),
		config.WithFlag("log.mode", cmd.Flags().Lookup("log-mode")),
	}, opts...)

	cfg, err := config.Load(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the event database, creating its directory if needed.
func openStore(cfg *config.Config) (*store.Store, error) {
	if err := store.EnsureDir(cfg.Store.Path); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newGenerator builds the provider chain and the task generator on top.
func newGenerator(ctx context.Context, cfg *config.Config, events store.EventRepo, log *logger.Logger) (*taskgen.LLMGenerator, error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM, events, log)
	if err != nil {
		return nil, fmt.Errorf("configure LLM provider: %w", err)
	}
	return taskgen.New(provider, cfg.Generation, events, log), nil
}
