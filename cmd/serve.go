package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/clil/internal/config"
	"github.com/abhisek/clil/internal/export"
	"github.com/abhisek/clil/internal/logger"
	"github.com/abhisek/clil/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd,
			config.WithFlag("server.addr", cmd.Flags().Lookup("addr")),
			config.WithFlag("server.allowed_origin", cmd.Flags().Lookup("origin")),
			config.WithFlag("llm.provider", cmd.Flags().Lookup("provider")),
		)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		log, err := logger.New(cfg.Log.Mode)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()

		if cfg.Log.Mode != "dev" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		gen, err := newGenerator(ctx, cfg, st.EventRepo(), log)
		if err != nil {
			return err
		}

		srv := server.New(cfg.Server, server.Deps{
			Generator: gen,
			Renderer:  export.NewRenderer(cfg.Export),
			Log:       log,
		})

		log.Info("starting clil service",
			"version", version,
			"addr", cfg.Server.Addr,
			"allowed_origin", cfg.Server.AllowedOrigin,
			"provider", cfg.LLM.Provider,
			"db", cfg.Store.Path,
		)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides CLIL_ADDR, default :5000)")
	serveCmd.Flags().String("origin", "", "Allowed CORS origin (overrides CLIL_ALLOWED_ORIGIN)")
	serveCmd.Flags().String("provider", "", "LLM provider: openai, anthropic, gemini, openrouter or mock")
}
