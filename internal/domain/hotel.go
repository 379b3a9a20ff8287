package domain

import "strings"

type HotelStatus string

const (
	HotelPending  HotelStatus = "pending"
	HotelApproved HotelStatus = "approved"
	HotelRejected HotelStatus = "rejected"
)

// Hotel is the listing shape the site renders in cards and dashboards.
type Hotel struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Location  string      `json:"location"`
	Price     float64     `json:"price"`
	Taxes     float64     `json:"taxes"`
	Stars     int         `json:"stars"`
	Rating    float64     `json:"rating"`
	Reviews   int         `json:"reviews"`
	Amenities []string    `json:"amenities"`
	Image     string      `json:"image"`
	Status    HotelStatus `json:"status"`
}

// HasAmenity matches case-insensitively.
func (h Hotel) HasAmenity(a string) bool {
	for _, x := range h.Amenities {
		if strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(a)) {
			return true
		}
	}
	return false
}

// HotelDraft is what a partner submits for a new listing.
type HotelDraft struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Price       float64  `json:"price"`
	Taxes       float64  `json:"taxes"`
	Stars       int      `json:"stars"`
	Amenities   []string `json:"amenities"`
	Image       string   `json:"image"`
	Description string   `json:"description,omitempty"`
	OwnerUID    string   `json:"ownerUid,omitempty"`
}

// HotelPatch carries a partial update; nil fields are left unchanged.
type HotelPatch struct {
	Name      *string   `json:"name,omitempty"`
	Location  *string   `json:"location,omitempty"`
	Price     *float64  `json:"price,omitempty"`
	Taxes     *float64  `json:"taxes,omitempty"`
	Stars     *int      `json:"stars,omitempty"`
	Rating    *float64  `json:"rating,omitempty"`
	Reviews   *int      `json:"reviews,omitempty"`
	Amenities *[]string `json:"amenities,omitempty"`
	Image     *string   `json:"image,omitempty"`
}

func (h Hotel) Apply(p HotelPatch) Hotel {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Location != nil {
		h.Location = *p.Location
	}
	if p.Price != nil {
		h.Price = *p.Price
	}
	if p.Taxes != nil {
		h.Taxes = *p.Taxes
	}
	if p.Stars != nil {
		h.Stars = *p.Stars
	}
	if p.Rating != nil {
		h.Rating = *p.Rating
	}
	if p.Reviews != nil {
		h.Reviews = *p.Reviews
	}
	if p.Amenities != nil {
		h.Amenities = append([]string(nil), (*p.Amenities)...)
	}
	if p.Image != nil {
		h.Image = *p.Image
	}
	return h
}

type SortBy string

const (
	SortPriceAsc    SortBy = "price_asc"
	SortPriceDesc   SortBy = "price_desc"
	SortRatingDesc  SortBy = "rating_desc"
	SortReviewsDesc SortBy = "reviews_desc"
	SortNameAsc     SortBy = "name_asc"
)

// FilterState is the filter panel's input. PriceMax <= 0 means no upper bound.
type FilterState struct {
	SearchQuery string   `json:"searchQuery"`
	PriceMin    float64  `json:"priceMin"`
	PriceMax    float64  `json:"priceMax"`
	Stars       []int    `json:"starRating"`
	Amenities   []string `json:"amenities"`
	SortBy      SortBy   `json:"sortBy"`
}
