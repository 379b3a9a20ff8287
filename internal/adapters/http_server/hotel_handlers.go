package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"valley_travel/internal/adapters/observability"
	"valley_travel/internal/app"
	"valley_travel/internal/domain"
)

// listValues accepts both repeated keys and comma-separated values.
func listValues(q map[string][]string, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func parseFilters(r *http.Request) (domain.FilterState, map[string]string) {
	q := r.URL.Query()
	f := domain.FilterState{
		SearchQuery: q.Get("q"),
		Amenities:   listValues(q, "amenities"),
		SortBy:      app.ParseSortBy(q.Get("sortBy")),
	}
	bad := map[string]string{}
	if v := q.Get("minPrice"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			bad["minPrice"] = "minPrice must be a non-negative number"
		}
		f.PriceMin = n
	}
	if v := q.Get("maxPrice"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			bad["maxPrice"] = "maxPrice must be a number"
		}
		f.PriceMax = n
	}
	for _, s := range listValues(q, "stars") {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 5 {
			bad["stars"] = "stars must be integers between 1 and 5"
			break
		}
		f.Stars = append(f.Stars, n)
	}
	return f, bad
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	f, bad := parseFilters(r)
	if len(bad) > 0 {
		writeProblemFields(w, http.StatusBadRequest, "Invalid Filters", "check the query parameters", bad)
		return
	}
	writeJSON(w, http.StatusOK, app.FilterHotels(h.Directory.Hotels(), f), "")
}

func (h *Handlers) addHotel(w http.ResponseWriter, r *http.Request) {
	var d domain.HotelDraft
	if !decodeBody(w, r, &d) {
		return
	}
	d.OwnerUID = claimsFrom(r.Context()).UID
	hotel, err := h.Directory.AddHotel(r.Context(), d)
	observability.ObserveDirectory("add", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, hotel, "Hotel submitted for review")
}

func (h *Handlers) listPending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Directory.Pending(), "")
}

func (h *Handlers) refreshHotels(w http.ResponseWriter, r *http.Request) {
	err := h.Directory.RefreshAll(r.Context())
	observability.ObserveDirectory("refresh", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	hotels, pending := h.Directory.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{"hotels": hotels, "pendingHotels": pending}, "")
}

func (h *Handlers) approveHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Directory.ApproveHotel(r.Context(), chi.URLParam(r, "id"))
	observability.ObserveDirectory("approve", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel, "Hotel approved")
}

func (h *Handlers) rejectHotel(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	err := h.Directory.RejectHotel(r.Context(), chi.URLParam(r, "id"), in.Reason)
	observability.ObserveDirectory("reject", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "Hotel rejected")
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	var p domain.HotelPatch
	if !decodeBody(w, r, &p) {
		return
	}
	err := h.Directory.UpdateHotel(r.Context(), chi.URLParam(r, "id"), p)
	observability.ObserveDirectory("update", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "Hotel updated")
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	err := h.Directory.DeleteHotel(r.Context(), chi.URLParam(r, "id"))
	observability.ObserveDirectory("delete", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
