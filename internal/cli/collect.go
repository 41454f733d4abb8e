package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse/internal/adapter/driven/github"
	"github.com/repopulse/repopulse/internal/adapter/driven/sqlite"
	"github.com/repopulse/repopulse/internal/application"
)

var (
	collectRepos    []string
	includeComments bool
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run a one-shot collection of the configured repositories",
	Long: `Fetches repository metadata, pull requests, issues, comments, and
contributor activity for each configured repository and upserts the
records into the local store. Re-runs are safe.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringSliceVar(&collectRepos, "repo", nil,
		"repository to collect as owner/name (repeatable; overrides REPOSITORIES)")
	collectCmd.Flags().BoolVar(&includeComments, "include-comments", true,
		"collect issue comments, review comments, and reviews")
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repos := collectRepos
	if len(repos) == 0 {
		repos = cfg.Repositories
	}
	if len(repos) == 0 {
		return errors.New("no repositories configured: set REPOSITORIES or pass --repo")
	}

	comments := includeComments && cfg.IncludeComments

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
	collector := application.NewCollectorService(
		client,
		sqlite.NewPRRepo(db),
		sqlite.NewIssueRepo(db),
		sqlite.NewCommentRepo(db),
		sqlite.NewActivityRepo(db),
		comments,
	)

	slog.Info("collection starting", "repositories", len(repos), "include_comments", comments)

	if err := collector.Run(cmd.Context(), repos); err != nil {
		if application.IsFatal(err) {
			return fmt.Errorf("credentials rejected, aborting: %w", err)
		}
		return err
	}

	slog.Info("collection finished")
	return nil
}
