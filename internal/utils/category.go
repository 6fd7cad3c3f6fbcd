package utils

import (
	"strings"
	"unicode"
)

// Categories lists the listing categories the assistant knows about
var Categories = []string{
	"House",
	"Apartment",
	"Commercial",
	"Bare Land",
	"Coconut Land",
	"Tea Estate",
	"Paddy Field",
	"Rubber Land",
	"Cinnamon Land",
}

// categoryAliases maps common phrasings to a canonical category.
// Aliases match whole words, checked in order, so land phrases come before
// the building words they contain.
var categoryAliases = []struct {
	alias    string
	category string
}{
	{"bare land", "Bare Land"},
	{"empty land", "Bare Land"},
	{"vacant land", "Bare Land"},
	{"flat land", "Bare Land"},
	{"level land", "Bare Land"},
	{"coconut", "Coconut Land"},
	{"tea", "Tea Estate"},
	{"paddy", "Paddy Field"},
	{"rice field", "Paddy Field"},
	{"rubber", "Rubber Land"},
	{"cinnamon", "Cinnamon Land"},
	{"apartment", "Apartment"},
	{"flat", "Apartment"},
	{"condo", "Apartment"},
	{"commercial", "Commercial"},
	{"shop", "Commercial"},
	{"office", "Commercial"},
	{"warehouse", "Commercial"},
	{"house", "House"},
	{"home", "House"},
	{"villa", "House"},
	{"annex", "House"},
}

// NormalizeCategory normalizes a category name to its standard form.
// Unknown values are returned trimmed, as given.
func NormalizeCategory(category string) string {
	trimmed := strings.TrimSpace(category)
	lower := strings.ToLower(trimmed)
	if lower == "" {
		return ""
	}

	for _, c := range Categories {
		if strings.ToLower(c) == lower {
			return c
		}
	}

	words := " " + strings.Join(strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ") + " "
	for _, a := range categoryAliases {
		if strings.Contains(words, " "+a.alias+" ") || strings.Contains(words, " "+a.alias+"s ") {
			return a.category
		}
	}

	return trimmed
}

// FuzzyMatchCategory reports whether a stored category matches a requested one
func FuzzyMatchCategory(requested, stored string) bool {
	want := NormalizeCategory(requested)
	if want == "" {
		return true
	}
	got := NormalizeCategory(stored)
	if strings.EqualFold(want, got) {
		return true
	}
	return strings.Contains(strings.ToLower(stored), strings.ToLower(strings.TrimSpace(requested)))
}
