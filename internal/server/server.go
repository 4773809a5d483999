// Package server provides the HTTP REST API for matching and semantic search.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/embedding"
	"github.com/jonathan/talent-match/internal/llm"
	"github.com/jonathan/talent-match/internal/matching"
	"github.com/jonathan/talent-match/internal/query"
	"github.com/jonathan/talent-match/internal/search"
	"github.com/jonathan/talent-match/internal/server/middleware"
)

// Service interfaces consumed by the handlers. The concrete
// implementations are wired in New; tests substitute stubs.
type matchService interface {
	MatchCandidatesForJob(ctx context.Context, jobID uuid.UUID, opts matching.Options) ([]matching.CandidateMatch, error)
	MatchJobsForProfile(ctx context.Context, userID uuid.UUID, opts matching.Options) ([]matching.JobMatch, error)
}

type recommendService interface {
	RecommendJobsForProfile(ctx context.Context, userID uuid.UUID) ([]matching.JobMatch, error)
}

type searchService interface {
	SearchJobs(ctx context.Context, filters search.JobFilters, userID *uuid.UUID) (*search.Result, error)
}

type queryProcessor interface {
	Enhance(ctx context.Context, userQuery string) (*query.EnhancedQuery, error)
}

type embeddingGenerator interface {
	GenerateProfileEmbedding(ctx context.Context, userID uuid.UUID) error
	GenerateJobEmbedding(ctx context.Context, jobID uuid.UUID) error
}

type explainService interface {
	ExplainMatch(ctx context.Context, profileText, jobText string, matchScore int) string
}

// entityStore is the direct relational access the handlers need beyond
// the services: ownership checks, explanation inputs, search history.
type entityStore interface {
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*db.Profile, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (*db.Job, error)
	GetProfileEmbedding(ctx context.Context, userID uuid.UUID) ([]float32, error)
	GetJobEmbedding(ctx context.Context, jobID uuid.UUID) ([]float32, error)
	ListSearchRecords(ctx context.Context, userID uuid.UUID, limit int) ([]db.SearchRecord, error)
	DeleteSearchRecord(ctx context.Context, userID, recordID uuid.UUID) error
	DeleteAllSearchRecords(ctx context.Context, userID uuid.UUID) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	database    *db.DB
	store       entityStore
	matcher     matchService
	recommender recommendService
	searcher    searchService
	processor   queryProcessor
	generator   embeddingGenerator
	explainer   explainService
	llmClient   llm.Client
	embedder    *embedding.GeminiEmbedder
	jwtService  *JWTService
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string

	// Zero timeouts use the built-in defaults.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c Config) readTimeout() time.Duration {
	if c.ReadTimeout <= 0 {
		return 15 * time.Second
	}
	return c.ReadTimeout
}

func (c Config) writeTimeout() time.Duration {
	// LLM-backed endpoints can be slow
	if c.WriteTimeout <= 0 {
		return 60 * time.Second
	}
	return c.WriteTimeout
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	llmClient, err := llm.NewGeminiClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	embedder, err := embedding.NewGeminiEmbedder(ctx, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		database:    database,
		store:       database,
		matcher:     matching.NewMatcher(database, database),
		recommender: matching.NewRecommender(database, database),
		searcher:    search.NewService(database, embedder),
		processor:   query.NewProcessor(llmClient),
		generator:   embedding.NewGenerator(database, embedder),
		explainer:   matching.NewExplainer(llmClient),
		llmClient:   llmClient,
		embedder:    embedder,
		jwtService:  NewJWTService(jwtConfig),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.readTimeout(),
		WriteTimeout: cfg.writeTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes assembles the router with middleware applied. Everything except
// the health check sits behind token verification.
func (s *Server) routes() http.Handler {
	api := http.NewServeMux()

	// Embedding generation
	api.HandleFunc("POST /ai/profile-embedding", s.handleGenerateProfileEmbedding)
	api.HandleFunc("POST /ai/job-embedding", s.handleGenerateJobEmbedding)

	// Matching
	api.HandleFunc("POST /matching/candidates", s.handleMatchCandidates)
	api.HandleFunc("GET /matching/jobs", s.handleMatchJobs)
	api.HandleFunc("GET /recommendations", s.handleRecommendations)
	api.HandleFunc("POST /matching/explanation", s.handleExplainMatch)

	// Search
	api.HandleFunc("POST /search/jobs", s.handleSearchJobs)
	api.HandleFunc("POST /search/process-query", s.handleProcessQuery)
	api.HandleFunc("GET /search/history", s.handleListSearchHistory)
	api.HandleFunc("DELETE /search/history/{id}", s.handleDeleteSearchRecord)
	api.HandleFunc("DELETE /search/history", s.handleClearSearchHistory)

	authenticated := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(api)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/", authenticated)

	return s.withLogging(s.withCORS(mux))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.llmClient.Close(); err != nil {
		log.Printf("Error closing LLM client: %v", err)
	}
	if err := s.embedder.Close(); err != nil {
		log.Printf("Error closing embedder: %v", err)
	}
	s.database.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps a service error to its HTTP status and writes it.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] internal error: %v", err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
