package service

import (
	"context"

	"github.com/weiawesome/social-search/internal/domain"
)

// SearchService defines the interface for search business logic.
type SearchService interface {
	// Search answers the global search box with one bundle per request.
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResultsBundle, error)
	// Pattern returns the LIKE pattern a term is matched with.
	Pattern(term string) string
}
