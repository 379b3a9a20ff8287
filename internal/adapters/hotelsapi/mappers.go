package hotelsapi

import (
	"strconv"
	"strings"

	"valley_travel/internal/domain"
)

// The hotels backend has shipped a few shapes over time (Mongo "_id", nested
// pricing, amenity objects). Alias lists keep the mapping in one place.
var hotelAliases = map[string][]string{
	"id":        {"_id", "id", "hotelId"},
	"name":      {"name", "hotelName", "title"},
	"location":  {"location", "city", "address.city", "address"},
	"price":     {"price", "pricing.price", "pricePerNight", "defaultRate"},
	"taxes":     {"taxes", "pricing.taxes", "tax"},
	"stars":     {"stars", "starRating", "rating.stars"},
	"rating":    {"rating", "rating.value", "averageRating"},
	"reviews":   {"reviews", "reviewCount", "rating.count"},
	"amenities": {"amenities", "facilities"},
	"image":     {"image", "imageUrl", "images"},
	"status":    {"status", "approvalStatus"},
}

func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func firstString(m map[string]any, key string) string {
	for _, p := range hotelAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case []any:
			// first image of a gallery
			for _, it := range v {
				if s, ok := it.(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// firstFloat accepts numbers or numeric strings like "4,5".
func firstFloat(m map[string]any, key string) float64 {
	for _, p := range hotelAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func firstStrings(m map[string]any, key string) []string {
	for _, p := range hotelAliases[key] {
		raw, ok := lookupAny(m, p).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				if n, ok := t["name"].(string); ok && n != "" {
					out = append(out, n)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func mapHotel(m map[string]any) domain.Hotel {
	return domain.Hotel{
		ID:        firstString(m, "id"),
		Name:      firstString(m, "name"),
		Location:  firstString(m, "location"),
		Price:     firstFloat(m, "price"),
		Taxes:     firstFloat(m, "taxes"),
		Stars:     int(firstFloat(m, "stars")),
		Rating:    firstFloat(m, "rating"),
		Reviews:   int(firstFloat(m, "reviews")),
		Amenities: firstStrings(m, "amenities"),
		Image:     firstString(m, "image"),
		Status:    mapStatus(firstString(m, "status")),
	}
}

// mapHotels drops records without an id; def fills a missing status.
func mapHotels(in []map[string]any, def domain.HotelStatus) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(in))
	for _, m := range in {
		h := mapHotel(m)
		if h.ID == "" {
			continue
		}
		if h.Status == "" {
			h.Status = def
		}
		out = append(out, h)
	}
	return out
}

func mapStatus(s string) domain.HotelStatus {
	switch strings.ToLower(s) {
	case "approved", "active":
		return domain.HotelApproved
	case "rejected":
		return domain.HotelRejected
	case "pending":
		return domain.HotelPending
	}
	return domain.HotelStatus(strings.ToLower(s))
}
