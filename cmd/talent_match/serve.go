package main

import (
	"fmt"
	"log"
	"time"

	"github.com/jonathan/talent-match/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for matching, recommendations and semantic job search.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("a database URL is required: set DATABASE_URL or database_url in the config file")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("a Gemini API key is required: set GEMINI_API_KEY or api_key in the config file")
	}

	if cfg.Verbose {
		log.Printf("Effective config: port=%d read_timeout=%ds write_timeout=%ds", cfg.Port, cfg.ReadTimeout, cfg.WriteTimeout)
	}

	srv, err := server.New(server.Config{
		Port:         cfg.Port,
		DatabaseURL:  cfg.DatabaseURL,
		APIKey:       cfg.APIKey,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
