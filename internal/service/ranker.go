package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
	"github.com/landsalelk/landsalelk-sub005/internal/utils"
)

// Match reason constants
const (
	ReasonTypeMatch     = "Listing type match"
	ReasonLocationMatch = "Location match"
	ReasonCategoryMatch = "Category match"
	ReasonPriceMatch    = "Price within budget"
	ReasonNewlyListed   = "Newly listed"
	ReasonGeneralMatch  = "General match"
)

// Ranker handles ranking and scoring of search results
type Ranker struct {
	weightPrice   float64
	weightRecency float64
	now           func() time.Time
}

// NewRanker creates a new ranker with specified weights
func NewRanker(weightPrice, weightRecency float64) *Ranker {
	return &Ranker{
		weightPrice:   weightPrice,
		weightRecency: weightRecency,
		now:           time.Now,
	}
}

// RankResults scores and ranks search results
func (r *Ranker) RankResults(listings []model.Listing, filters model.SearchFilters) []model.ListingResult {
	results := make([]model.ListingResult, 0, len(listings))

	for _, listing := range listings {
		priceScore := r.calculatePriceScore(listing.Price, filters.MaxPrice)
		recencyScore := r.calculateRecencyScore(listing.CreatedAt)

		results = append(results, model.ListingResult{
			Listing:        listing,
			Score:          (r.weightPrice * priceScore) + (r.weightRecency * recencyScore),
			MatchedReasons: r.generateMatchedReasons(listing, filters, priceScore),
		})
	}

	// Sort by score descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// calculatePriceScore calculates how well the price matches the user's budget
func (r *Ranker) calculatePriceScore(price, maxPrice *float64) float64 {
	if price == nil {
		return 0.5 // Neutral score if no price
	}
	if maxPrice == nil || *maxPrice <= 0 {
		return 1.0 // Full score if no budget
	}
	if *price > *maxPrice {
		return 0.0
	}

	// Closer to the budget is better
	score := *price / *maxPrice
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// calculateRecencyScore calculates recency score based on listing date
func (r *Ranker) calculateRecencyScore(createdAt time.Time) float64 {
	if createdAt.IsZero() {
		return 0.5 // Neutral score if no date
	}

	daysSinceListed := r.now().Sub(createdAt).Hours() / 24
	if daysSinceListed < 0 {
		daysSinceListed = 0
	}

	// Exponential decay: after 30 days ~0.74, after 90 days ~0.41
	return math.Exp(-0.01 * daysSinceListed)
}

// generateMatchedReasons generates human-readable reasons for why this listing matched
func (r *Ranker) generateMatchedReasons(listing model.Listing, filters model.SearchFilters, priceScore float64) []string {
	reasons := []string{}

	if filters.Type != nil && strings.EqualFold(listing.ListingType, string(*filters.Type)) {
		reasons = append(reasons, ReasonTypeMatch)
	}

	if filters.Location != nil && listing.Location != nil &&
		strings.Contains(strings.ToLower(*listing.Location), strings.ToLower(*filters.Location)) {
		reasons = append(reasons, ReasonLocationMatch)
	}

	if filters.Category != nil && listing.Category != nil && utils.FuzzyMatchCategory(*filters.Category, *listing.Category) {
		reasons = append(reasons, ReasonCategoryMatch)
	}

	if filters.MaxPrice != nil && listing.Price != nil && priceScore > 0 {
		reasons = append(reasons, ReasonPriceMatch)
	}

	if !listing.CreatedAt.IsZero() && r.now().Sub(listing.CreatedAt) < 7*24*time.Hour {
		reasons = append(reasons, ReasonNewlyListed)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}

	return reasons
}
