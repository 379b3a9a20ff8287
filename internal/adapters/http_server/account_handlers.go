package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"valley_travel/internal/domain"
)

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDToken string `json:"idToken"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	s, err := h.Auth.Exchange(r.Context(), in.IDToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s, "")
}

func (h *Handlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Favorites.ListFavorites(r.Context(), claimsFrom(r.Context()).UID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ids, "")
}

func (h *Handlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.Favorites.AddFavorite(r.Context(), claimsFrom(r.Context()).UID, chi.URLParam(r, "hotelID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.Favorites.RemoveFavorite(r.Context(), claimsFrom(r.Context()).UID, chi.URLParam(r, "hotelID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listRegistrations(w http.ResponseWriter, r *http.Request) {
	st := domain.RegistrationStatus(r.URL.Query().Get("status"))
	switch st {
	case "", domain.RegistrationPending, domain.RegistrationApproved, domain.RegistrationRejected:
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid Status", "status must be pending, approved or rejected")
		return
	}
	recs, err := h.Registrations.List(r.Context(), st)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs, "")
}

func (h *Handlers) approveRegistration(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Registrations.Approve(r.Context(), chi.URLParam(r, "id"), claimsFrom(r.Context()).UID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec, "Registration approved")
}

func (h *Handlers) rejectRegistration(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	rec, err := h.Registrations.Reject(r.Context(), chi.URLParam(r, "id"), claimsFrom(r.Context()).UID, in.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec, "Registration rejected")
}
