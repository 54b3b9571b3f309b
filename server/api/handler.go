package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	store    *Store
	pipeline *Pipeline
}

func New(store *Store, pipeline *Pipeline) (*Handler, error) {
	h := &Handler{
		store:    store,
		pipeline: pipeline,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Get("/api/patients", h.handlePatients)
	r.Get("/api/patient/{id}", h.handlePatient)

	r.Get("/api/document/{id}", h.handleDocument)
	r.Put("/api/document/{id}", h.handleUpdateEntities)
	r.Delete("/api/document/{id}", h.handleDeleteDocument)

	r.Post("/api/upload-document", h.handleUpload)

	r.Get("/api/document-packet-status/{id}", h.handlePacketStatus)
	r.Get("/api/document-ocr-text/{id}", h.handleOCRText)
	r.Get("/api/document-packet-files/{id}", h.handlePacketFiles)
	r.Get("/api/debug-processing-status/{id}", h.handleDebugStatus)

	r.Get("/api/export-excel", h.handleExport)

	r.Get("/files/{name}", h.handleFile)
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)

	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	w.Write([]byte(text))
}
