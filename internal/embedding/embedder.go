// Package embedding generates and persists vector embeddings for
// candidate profiles and job postings.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Embedder converts text into a fixed-length dense vector.
type Embedder interface {
	// Embed returns a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimension returns the dimensionality of the output vectors.
	Dimension() int
}

const (
	defaultEmbeddingModel = "text-embedding-004"
	defaultDimension      = 768

	// embedTimeout bounds the provider call; embedding is the one
	// network-bound step on the search and generation paths.
	embedTimeout = 30 * time.Second
)

// GeminiEmbedder implements Embedder using the Gemini embeddings API.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewGeminiEmbedder creates a GeminiEmbedder with the default model.
func NewGeminiEmbedder(ctx context.Context, apiKey string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEmbedder{
		client:    client,
		model:     defaultEmbeddingModel,
		dimension: defaultDimension,
	}, nil
}

// Embed generates an embedding vector for the given text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	model := e.client.EmbeddingModel(e.model)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}
	if len(resp.Embedding.Values) != e.dimension {
		return nil, fmt.Errorf("unexpected embedding dimension: got %d, want %d",
			len(resp.Embedding.Values), e.dimension)
	}

	return resp.Embedding.Values, nil
}

// Dimension returns the dimensionality of vectors produced by this embedder.
func (e *GeminiEmbedder) Dimension() int {
	return e.dimension
}

// Close releases resources held by the underlying client.
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
