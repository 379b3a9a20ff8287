package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"valley_travel/internal/adapters/observability"
	"valley_travel/internal/app"
	"valley_travel/internal/domain"
)

type wizardView struct {
	ID string `json:"id"`
	app.WizardState
}

// view hides the passwords the draft carries until submission.
func view(id string, st app.WizardState) wizardView {
	st.Draft.Personal.Password = ""
	st.Draft.Personal.ConfirmPassword = ""
	return wizardView{ID: id, WizardState: st}
}

// writeWizard answers with the saved state even when the action failed, so the
// form can render field errors and the banner.
func writeWizard(w http.ResponseWriter, r *http.Request, id string, st app.WizardState, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, view(id, st), st.Banner)
		return
	}
	if _, ok := domain.AsValidation(err); ok {
		writeEnvelope(w, http.StatusUnprocessableEntity, envelope{Data: view(id, st), Message: st.Banner})
		return
	}
	writeError(w, r, err)
}

func (h *Handlers) openWizard(w http.ResponseWriter, r *http.Request) {
	id, st, err := h.Wizards.Open(r.Context())
	observability.ObserveWizard("open", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view(id, st), "")
}

func (h *Handlers) getWizard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := h.Wizards.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view(id, st), "")
}

func (h *Handlers) closeWizard(w http.ResponseWriter, r *http.Request) {
	err := h.Wizards.Close(r.Context(), chi.URLParam(r, "id"))
	observability.ObserveWizard("close", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateSection decodes one step's fields and stores them in the draft.
func updateSection[T any](h *Handlers, apply func(*app.Wizard, T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in T
		if !decodeBody(w, r, &in) {
			return
		}
		id := chi.URLParam(r, "id")
		st, err := h.Wizards.Do(r.Context(), id, func(wz *app.Wizard) error { return apply(wz, in) })
		writeWizard(w, r, id, st, err)
	}
}

func (h *Handlers) updatePersonal(w http.ResponseWriter, r *http.Request) {
	updateSection(h, (*app.Wizard).UpdatePersonal)(w, r)
}

func (h *Handlers) updateHotelInfo(w http.ResponseWriter, r *http.Request) {
	updateSection(h, (*app.Wizard).UpdateHotel)(w, r)
}

func (h *Handlers) updateRates(w http.ResponseWriter, r *http.Request) {
	updateSection(h, (*app.Wizard).UpdateRates)(w, r)
}

func (h *Handlers) updateAvailability(w http.ResponseWriter, r *http.Request) {
	updateSection(h, (*app.Wizard).UpdateAvailability)(w, r)
}

func (h *Handlers) updateLegal(w http.ResponseWriter, r *http.Request) {
	updateSection(h, (*app.Wizard).UpdateLegal)(w, r)
}

func (h *Handlers) wizardStep(action string, step func(*app.Wizard) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		st, err := h.Wizards.Do(r.Context(), id, step)
		observability.ObserveWizard(action, err)
		writeWizard(w, r, id, st, err)
	}
}

func (h *Handlers) submitWizard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := h.Wizards.Submit(r.Context(), id)
	observability.ObserveWizard("submit", err)
	if errors.Is(err, domain.ErrSubmitInFlight) {
		writeProblem(w, http.StatusConflict, "Conflict", "a submission is already in progress")
		return
	}
	if err != nil && st.Phase == app.PhaseFailed {
		// registrar failure; the banner carries the partner-facing message
		writeEnvelope(w, http.StatusUnprocessableEntity, envelope{Data: view(id, st), Message: st.Banner})
		return
	}
	writeWizard(w, r, id, st, err)
}
