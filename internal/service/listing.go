package service

import (
	"context"
	"fmt"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
	"github.com/landsalelk/landsalelk-sub005/internal/utils"
)

// ListingRepository is the storage needed by the listing search
type ListingRepository interface {
	SearchListings(ctx context.Context, filters model.SearchFilters, limit int) ([]model.Listing, error)
}

// ListingService runs the listing search behind a SEARCH intent
type ListingService struct {
	repo   ListingRepository
	ranker *Ranker
	limit  int
}

// NewListingService creates a new listing service
func NewListingService(repo ListingRepository, ranker *Ranker, limit int) *ListingService {
	if limit <= 0 {
		limit = 12
	}
	return &ListingService{
		repo:   repo,
		ranker: ranker,
		limit:  limit,
	}
}

// Search finds and ranks listings for the extracted filters.
// Without any filter there is nothing to search for and no query is run.
func (s *ListingService) Search(ctx context.Context, filters model.SearchFilters) ([]model.ListingResult, error) {
	if filters.IsEmpty() {
		return []model.ListingResult{}, nil
	}

	if filters.Category != nil {
		category := utils.NormalizeCategory(*filters.Category)
		filters.Category = &category
	}

	listings, err := s.repo.SearchListings(ctx, filters, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	return s.ranker.RankResults(listings, filters), nil
}
