// Package server provides the HTTP REST API for matching and semantic search.
package server

import (
	"net/http"

	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/embedding"
	"github.com/jonathan/talent-match/internal/matching"
	"github.com/jonathan/talent-match/internal/query"
	"github.com/jonathan/talent-match/internal/search"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
// Missing-embedding errors map to 400 rather than 404: the entity exists,
// the caller just has to trigger embedding generation first.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *matching.AnchorEmbeddingMissingError, *db.EmbeddingMissingError:
		return http.StatusBadRequest
	case *embedding.ProfileIncompleteError:
		return http.StatusBadRequest
	case *search.InvalidFilterError, *query.EmptyQueryError:
		return http.StatusBadRequest
	case *embedding.NotFoundError:
		return http.StatusNotFound
	case *search.UnavailableError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
