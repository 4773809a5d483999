package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/talent-match/internal/search"
	"github.com/spf13/cobra"
)

var (
	searchQuery    string
	searchLocation string
	searchJobType  string
	searchLevel    string
	searchSortBy   string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search job postings",
	Long:  `Search ACTIVE job postings. With --query, results are ranked by semantic relevance; without it, filters and sort order apply.`,
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "Free-text query for semantic ranking")
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "Location filter (substring match)")
	searchCmd.Flags().StringVar(&searchJobType, "job-type", "", "Job type filter (FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP)")
	searchCmd.Flags().StringVar(&searchLevel, "experience-level", "", "Experience level filter (ENTRY, INTERMEDIATE, SENIOR, EXECUTIVE)")
	searchCmd.Flags().StringVar(&searchSortBy, "sort-by", "", "Sort order for filtered search (recent, salary)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	database, embedder, err := connectBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	defer embedder.Close()

	filters := search.JobFilters{
		Query:    searchQuery,
		Location: searchLocation,
		SortBy:   searchSortBy,
	}
	if searchJobType != "" {
		filters.JobType = []string{searchJobType}
	}
	if searchLevel != "" {
		filters.ExperienceLevel = []string{searchLevel}
	}

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "searching with query=%q location=%q\n", filters.Query, filters.Location)
	}

	svc := search.NewService(database, embedder)

	// CLI searches are anonymous: no history is recorded.
	result, err := svc.SearchJobs(ctx, filters, nil)
	if err != nil {
		return err
	}

	return printJSON(result)
}
