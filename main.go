package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"scrawl/config"
	"scrawl/config/database"
	"scrawl/internal/mcp"
	handler "scrawl/internal/note"
	"scrawl/internal/note/repository"
	"scrawl/internal/note/service"
	"scrawl/pkg/logger"
	"scrawl/router"
	"scrawl/socket"
)

func main() {
	root := &cobra.Command{
		Use:   "scrawl",
		Short: "Backend for the scrawl handwritten-notes app",
	}
	root.AddCommand(serveCmd())
	root.AddCommand(seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the environment and configuration shared by all commands.
func setup() (*config.Config, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level)

	if envErr != nil {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}
	return cfg, nil
}

// buildRepository returns the configured note store and a release func for
// whatever it holds open.
func buildRepository(cfg *config.Config) (repository.Repository, func(), error) {
	if cfg.Storage.Driver == config.DriverMemory {
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Open(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	store, err := repository.NewSQLStore(db, cfg.Storage.Driver)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the notes API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			repo, cleanup, err := buildRepository(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			hub := socket.NewHub()
			go hub.Run()

			svc := service.NewNoteService(repo, hub)
			if cfg.Storage.Driver == config.DriverMemory && cfg.Storage.Seed {
				if err := svc.Seed(cmd.Context()); err != nil {
					return err
				}
			}

			h := router.Setup(handler.NewNoteHandler(svc), hub, mcp.NewServer(svc), cfg.CORS.Origin)

			srv := &http.Server{
				Addr:         cfg.Addr,
				Handler:      h,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh

				logger.Sugar.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Sugar.Errorf("Server shutdown error: %v", err)
				}
			}()

			logger.Sugar.Infof("scrawl listening on %s (storage: %s)", cfg.Addr, cfg.Storage.Driver)
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			logger.Sugar.Info("Server stopped")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the welcome notes into an empty durable store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver == config.DriverMemory {
				return fmt.Errorf("the memory store seeds itself on startup; seed targets sqlite or postgres")
			}

			repo, cleanup, err := buildRepository(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			svc := service.NewNoteService(repo, nil)
			if err := svc.Seed(cmd.Context()); err != nil {
				return err
			}
			logger.Sugar.Info("Welcome notes seeded")
			return nil
		},
	}
}
