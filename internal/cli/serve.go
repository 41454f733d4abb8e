package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse/internal/adapter/driven/github"
	"github.com/repopulse/repopulse/internal/adapter/driven/sqlite"
	api "github.com/repopulse/repopulse/internal/adapter/driving/http"
	"github.com/repopulse/repopulse/internal/application"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides LISTEN_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	addr := listenAddr
	if addr == "" {
		addr = cfg.ListenAddr
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := sqlite.RunMigrations(db.Writer); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	sqlite.EnsureIndexes(cmd.Context(), db)

	client := github.NewClient(cfg.GithubToken)
	dashboard := application.NewDashboardService(client, sqlite.NewActivityRepo(db))
	handler := api.NewHandler(
		dashboard,
		sqlite.NewPRRepo(db),
		sqlite.NewIssueRepo(db),
		sqlite.NewCommentRepo(db),
	)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("dashboard listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
