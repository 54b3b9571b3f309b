package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fondazionealfieri/clinicalfolders/pkg/entity"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	document, ok := h.store.Document(id)

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("Documento non trovato"))
		return
	}

	writeJson(w, document)
}

func (h *Handler) handleUpdateEntities(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Entities []entity.Entity `json:"entities"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	count, ok := h.store.UpdateEntities(id, body.Entities)

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("Documento non trovato"))
		return
	}

	writeJson(w, UpdateResult{
		Success:    true,
		DocumentID: id,

		UpdatedEntities: count,
	})
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, ok := h.store.DeleteDocument(id)

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("Documento non trovato"))
		return
	}

	writeJson(w, result)
}

func (h *Handler) handleFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	id := strings.TrimSuffix(name, ".pdf")

	data, ok := h.store.DocumentPDF(id)

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("File non trovato"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Write(data)
}
