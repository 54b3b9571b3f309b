package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handlePatients(w http.ResponseWriter, r *http.Request) {
	writeJson(w, h.store.Patients())
}

func (h *Handler) handlePatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	patient, ok := h.store.Patient(id)

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("Paziente non trovato"))
		return
	}

	writeJson(w, patient)
}
