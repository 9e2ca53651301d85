package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/Sintu8737/timesheet/internal/api"
	"github.com/Sintu8737/timesheet/internal/auth"
	"github.com/Sintu8737/timesheet/internal/config"
	"github.com/Sintu8737/timesheet/internal/metrics"
	"github.com/Sintu8737/timesheet/internal/service"
	"github.com/Sintu8737/timesheet/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the timesheet HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
	root := &cobra.Command{
		Use:          "timesheet",
		Short:        "Weekly timesheet tracker API",
		Long:         "timesheet serves a JSON API for logging hours against projects and tracking weekly completion.\nConfiguration is read from the environment and an optional .env file.",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, newHashPasswordCommand())
	return root
}

func newHashPasswordCommand() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for use as passwordHash in a seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func runServer(parent context.Context) error {
	cfg := config.Load()
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed, err := internal.LoadSeed(cfg.SeedFile)
	if err != nil {
		logger.Errorf("failed to load seed: %v", err)
		return err
	}
	repo, err := storage.New(ctx, cfg, seed.Timesheets, logger)
	if err != nil {
		logger.Errorf("failed to init storage: %v", err)
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Errorf("failed to close storage: %v", err)
		}
	}()

	svc, err := service.NewTimesheetService(ctx, repo, service.Options{
		Threshold: cfg.WeeklyThreshold,
		Catalog:   seed.Catalog,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	sessions, err := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, nil)
	if err != nil {
		return err
	}
	provider, err := newProvider(cfg, seed, sessions, logger)
	if err != nil {
		return err
	}

	app := &api.Application{
		Log:        logger,
		Service:    svc,
		Provider:   provider,
		SessionSet: sessions,
		Collectors: metrics.New(),
		AppEnv:     cfg.Env,
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(app, cfg.AuthRequired),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server running on %s (env=%s, storage=%s, auth=%s)", cfg.HTTPAddr, cfg.Env, cfg.StorageBackend, cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Errorf("failed to start server: %v", err)
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
		return err
	}
	return nil
}

func newProvider(cfg *config.Config, seed *internal.Seed, sessions *auth.Sessions, logger internal.Logger) (auth.Provider, error) {
	if cfg.AuthMode == config.AuthModeRemote {
		return auth.NewRemoteProvider(cfg.AuthServiceURL, sessions, logger), nil
	}
	registry, err := auth.NewRegistry(seed.Users, bcrypt.DefaultCost)
	if err != nil {
		logger.Errorf("failed to load users: %v", err)
		return nil, err
	}
	logger.Infof("auth: %d local users", registry.Len())
	return auth.NewLocalProvider(registry, sessions, logger), nil
}
