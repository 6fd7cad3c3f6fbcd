package model

import (
	"time"
)

// Listing represents a property listing
type Listing struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	ListingType string    `json:"listing_type" db:"listing_type"`
	Category    *string   `json:"category,omitempty" db:"category"`
	Location    *string   `json:"location,omitempty" db:"location"`
	Price       *float64  `json:"price,omitempty" db:"price"`
	Description *string   `json:"description,omitempty" db:"description"`
	URL         *string   `json:"url,omitempty" db:"url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ListingResult represents a search result with additional metadata
type ListingResult struct {
	Listing
	Score          float64  `json:"score"`
	MatchedReasons []string `json:"matched_reasons"`
}

// Lead is a captured buyer enquiry
type Lead struct {
	ID           string    `json:"id" db:"id"`
	SessionID    *string   `json:"session_id,omitempty" db:"session_id"`
	Name         *string   `json:"name,omitempty" db:"name"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Requirements *string   `json:"requirements,omitempty" db:"requirements"`
	Location     *string   `json:"location,omitempty" db:"location"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
