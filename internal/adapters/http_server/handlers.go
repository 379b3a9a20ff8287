package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"valley_travel/internal/app"
	"valley_travel/internal/domain"
)

type Handlers struct {
	Wizards       *app.WizardSessions
	Directory     *app.DirectoryStore
	Registrations *app.RegistrationService
	Catalog       *app.CatalogService
	Bookings      *app.BookingService
	Auth          *app.AuthService
	Favorites     domain.FavoritesStore
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/sessions", h.createSession)

	s.mux.Post("/v1/registrations/wizard", h.openWizard)
	s.mux.Get("/v1/registrations/wizard/{id}", h.getWizard)
	s.mux.Delete("/v1/registrations/wizard/{id}", h.closeWizard)
	s.mux.Put("/v1/registrations/wizard/{id}/personal", h.updatePersonal)
	s.mux.Put("/v1/registrations/wizard/{id}/hotel", h.updateHotelInfo)
	s.mux.Put("/v1/registrations/wizard/{id}/rates", h.updateRates)
	s.mux.Put("/v1/registrations/wizard/{id}/availability", h.updateAvailability)
	s.mux.Put("/v1/registrations/wizard/{id}/legal", h.updateLegal)
	s.mux.Post("/v1/registrations/wizard/{id}/next", h.wizardStep("next", (*app.Wizard).Next))
	s.mux.Post("/v1/registrations/wizard/{id}/previous", h.wizardStep("previous", (*app.Wizard).Previous))
	s.mux.Post("/v1/registrations/wizard/{id}/skip", h.wizardStep("skip", (*app.Wizard).Skip))
	s.mux.Post("/v1/registrations/wizard/{id}/submit", h.submitWizard)

	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Get("/v1/packages", h.listPackages)
	s.mux.Get("/v1/packages/{id}", h.getPackage)
	s.mux.Post("/v1/bookings", h.createBooking)
	s.mux.Get("/v1/bookings/{id}", h.getBooking)
	s.mux.Post("/v1/bookings/{id}/payment", h.confirmPayment)
	s.mux.Post("/v1/bookings/{id}/payment-failed", h.failPayment)

	s.mux.Group(func(r chi.Router) {
		r.Use(Authenticate(s.tokens))
		r.Post("/v1/hotels", h.addHotel)
		r.Get("/v1/favorites", h.listFavorites)
		r.Put("/v1/favorites/{hotelID}", h.addFavorite)
		r.Delete("/v1/favorites/{hotelID}", h.removeFavorite)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(app.RoleAdmin))
			r.Get("/v1/admin/hotels/pending", h.listPending)
			r.Post("/v1/admin/hotels/refresh", h.refreshHotels)
			r.Post("/v1/admin/hotels/{id}/approve", h.approveHotel)
			r.Post("/v1/admin/hotels/{id}/reject", h.rejectHotel)
			r.Patch("/v1/admin/hotels/{id}", h.updateHotel)
			r.Delete("/v1/admin/hotels/{id}", h.deleteHotel)
			r.Get("/v1/admin/registrations", h.listRegistrations)
			r.Post("/v1/admin/registrations/{id}/approve", h.approveRegistration)
			r.Post("/v1/admin/registrations/{id}/reject", h.rejectRegistration)
		})
	})
}
