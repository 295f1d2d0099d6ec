package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/tasknest/internal/agent"
	"github.com/soyeahso/tasknest/internal/auth"
	"github.com/soyeahso/tasknest/internal/config"
	"github.com/soyeahso/tasknest/internal/gateway"
	"github.com/soyeahso/tasknest/internal/llm"
	"github.com/soyeahso/tasknest/internal/store"
	"github.com/soyeahso/tasknest/internal/tasks"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tasknest server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			dbPath := cfg.Database.Path
			if dbPath == "" {
				dbPath = filepath.Join(paths.Data, "tasknest.db")
			}
			db, err := store.Open(dbPath, log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
			log.Info().Str("path", dbPath).Msg("database ready")

			taskSvc := tasks.NewService(store.NewTaskStore(db), log)
			tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret,
				time.Duration(cfg.Auth.TokenHours)*time.Hour)

			var opts []gateway.ServerOption
			if cfg.OpenAI.APIKey != "" {
				client := llm.NewOpenAIClient(llm.OpenAIConfig{
					APIKey:  cfg.OpenAI.APIKey,
					Model:   cfg.OpenAI.Model,
					BaseURL: cfg.OpenAI.BaseURL,
				}, log)
				runner := agent.NewRunner(
					agent.RunnerConfig{Model: cfg.OpenAI.Model},
					client,
					agent.NewCatalog(taskSvc),
					log,
				)
				opts = append(opts, gateway.WithRunner(runner))
				log.Info().Str("model", cfg.OpenAI.Model).Msg("assistant enabled")
			} else {
				log.Warn().Msg("no OpenAI API key configured — chat endpoint will be unavailable")
			}

			srv := gateway.New(cfg, tokens,
				store.NewUserStore(db),
				store.NewConversationStore(db),
				taskSvc, log, opts...)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
