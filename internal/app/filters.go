package app

import (
	"slices"
	"sort"
	"strings"

	"valley_travel/internal/domain"
)

// FilterHotels applies the filter panel to hs and returns a new, sorted slice.
// Within the star set any value matches; across categories and within the
// amenity set every condition must hold.
func FilterHotels(hs []domain.Hotel, f domain.FilterState) []domain.Hotel {
	q := strings.ToLower(strings.TrimSpace(f.SearchQuery))
	out := make([]domain.Hotel, 0, len(hs))
	for _, h := range hs {
		if q != "" &&
			!strings.Contains(strings.ToLower(h.Name), q) &&
			!strings.Contains(strings.ToLower(h.Location), q) {
			continue
		}
		if h.Price < f.PriceMin {
			continue
		}
		if f.PriceMax > 0 && h.Price > f.PriceMax {
			continue
		}
		if len(f.Stars) > 0 && !slices.Contains(f.Stars, h.Stars) {
			continue
		}
		if !hasAll(h, f.Amenities) {
			continue
		}
		out = append(out, h)
	}
	if less := comparator(f.SortBy); less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func hasAll(h domain.Hotel, amenities []string) bool {
	for _, a := range amenities {
		if !h.HasAmenity(a) {
			return false
		}
	}
	return true
}

func comparator(by domain.SortBy) func(a, b domain.Hotel) bool {
	switch by {
	case domain.SortPriceAsc:
		return func(a, b domain.Hotel) bool { return a.Price < b.Price }
	case domain.SortPriceDesc:
		return func(a, b domain.Hotel) bool { return a.Price > b.Price }
	case domain.SortRatingDesc:
		return func(a, b domain.Hotel) bool { return a.Rating > b.Rating }
	case domain.SortReviewsDesc:
		return func(a, b domain.Hotel) bool { return a.Reviews > b.Reviews }
	case domain.SortNameAsc:
		return func(a, b domain.Hotel) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}
	return nil
}

// ParseSortBy falls back to recommended order (input order) for unknown values.
func ParseSortBy(s string) domain.SortBy {
	switch v := domain.SortBy(strings.ToLower(strings.TrimSpace(s))); v {
	case domain.SortPriceAsc, domain.SortPriceDesc, domain.SortRatingDesc, domain.SortReviewsDesc, domain.SortNameAsc:
		return v
	}
	return ""
}
