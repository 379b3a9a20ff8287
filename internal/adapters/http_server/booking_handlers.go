package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"valley_travel/internal/adapters/observability"
	"valley_travel/internal/app"
)

func (h *Handlers) listPackages(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Catalog.ListPackages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps, "")
}

func (h *Handlers) getPackage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	p, err := h.Catalog.GetPackage(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p, "")
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req app.BookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	co, err := h.Bookings.CreateBooking(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObservePayment("order_created")
	writeJSON(w, http.StatusCreated, co, "")
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b, "")
}

func (h *Handlers) confirmPayment(w http.ResponseWriter, r *http.Request) {
	var c app.PaymentConfirmation
	if !decodeBody(w, r, &c) {
		return
	}
	b, err := h.Bookings.ConfirmPayment(r.Context(), chi.URLParam(r, "id"), c)
	if err != nil {
		observability.ObservePayment("verify_failed")
		writeError(w, r, err)
		return
	}
	observability.ObservePayment("paid")
	writeJSON(w, http.StatusOK, b, "Payment successful! Your booking is confirmed.")
}

func (h *Handlers) failPayment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	b, err := h.Bookings.FailPayment(r.Context(), chi.URLParam(r, "id"), in.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObservePayment("failed")
	writeJSON(w, http.StatusOK, b, "Payment failed. You can try again.")
}
