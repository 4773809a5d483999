package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/embedding"
	"github.com/spf13/cobra"
)

var (
	embedProfileID string
	embedJobID     string
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Generate an embedding for a profile or job posting",
	Long:  `Render a candidate profile or job posting to text, embed it, and store the vector.`,
	RunE:  runEmbed,
}

func init() {
	embedCmd.Flags().StringVar(&embedProfileID, "profile", "", "User ID of the candidate profile to embed")
	embedCmd.Flags().StringVar(&embedJobID, "job", "", "ID of the job posting to embed")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(_ *cobra.Command, _ []string) error {
	if (embedProfileID == "") == (embedJobID == "") {
		return fmt.Errorf("exactly one of --profile or --job is required")
	}

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

	generator := embedding.NewGenerator(database, embedder)

	if embedProfileID != "" {
		userID, err := uuid.Parse(embedProfileID)
		if err != nil {
			return fmt.Errorf("invalid profile user ID: %w", err)
		}
		if err := generator.GenerateProfileEmbedding(ctx, userID); err != nil {
			return err
		}
		fmt.Printf("Profile embedding generated for %s\n", userID)
		return nil
	}

	jobID, err := uuid.Parse(embedJobID)
	if err != nil {
		return fmt.Errorf("invalid job ID: %w", err)
	}
	if err := generator.GenerateJobEmbedding(ctx, jobID); err != nil {
		return err
	}
	fmt.Printf("Job embedding generated for %s\n", jobID)
	return nil
}

// connectBackends opens the database pool and the embedding client from
// the resolved configuration.
func connectBackends(ctx context.Context, cfg config.Config) (*db.DB, *embedding.GeminiEmbedder, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("a database URL is required: set DATABASE_URL or database_url in the config file")
	}
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("a Gemini API key is required: set GEMINI_API_KEY or api_key in the config file")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	embedder, err := embedding.NewGeminiEmbedder(ctx, cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return database, embedder, nil
}
