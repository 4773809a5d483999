package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/matching"
	"github.com/spf13/cobra"
)

var (
	matchJobID    string
	matchUserID   string
	matchMinScore int
	matchPageSize int
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank candidates for a job, or jobs for a candidate",
	Long:  `Rank all embedded candidate profiles against a job posting (--job), or all embedded ACTIVE job postings against a candidate profile (--user).`,
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchJobID, "job", "", "Job ID to rank candidates for")
	matchCmd.Flags().StringVar(&matchUserID, "user", "", "Candidate user ID to rank jobs for")
	matchCmd.Flags().IntVar(&matchMinScore, "min-score", 0, "Drop results scoring below this (0-100)")
	matchCmd.Flags().IntVar(&matchPageSize, "page-size", 0, "Maximum results to return (default 50)")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	if (matchJobID == "") == (matchUserID == "") {
		return fmt.Errorf("exactly one of --job or --user is required")
	}

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("a database URL is required: set DATABASE_URL or database_url in the config file")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	matcher := matching.NewMatcher(database, database)
	opts := matchOptions(cfg, matchMinScore, matchPageSize,
		cmd.Flags().Changed("min-score"), cmd.Flags().Changed("page-size"))

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "matching with min_score=%d page_size=%d\n", opts.MinScore, opts.PageSize)
	}

	var result any
	if matchJobID != "" {
		jobID, err := uuid.Parse(matchJobID)
		if err != nil {
			return fmt.Errorf("invalid job ID: %w", err)
		}
		result, err = matcher.MatchCandidatesForJob(ctx, jobID, opts)
		if err != nil {
			return err
		}
	} else {
		userID, err := uuid.Parse(matchUserID)
		if err != nil {
			return fmt.Errorf("invalid user ID: %w", err)
		}
		result, err = matcher.MatchJobsForProfile(ctx, userID, opts)
		if err != nil {
			return err
		}
	}

	return printJSON(result)
}

// matchOptions resolves matching options: explicit flags win, otherwise
// the config file's min_score and page_size apply.
func matchOptions(cfg config.Config, flagMinScore, flagPageSize int, minScoreSet, pageSizeSet bool) matching.Options {
	opts := matching.Options{MinScore: flagMinScore, PageSize: flagPageSize}
	if !minScoreSet {
		opts.MinScore = cfg.MinScore
	}
	if !pageSizeSet {
		opts.PageSize = cfg.PageSize
	}
	return opts
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
