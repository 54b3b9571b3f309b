package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handlePacketStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, ok := h.store.Job(id)

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("Elaborazione non trovata"))
		return
	}

	writeJson(w, job)
}

func (h *Handler) handleOCRText(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	text, ok := h.store.OCRText(id)

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("Testo OCR non disponibile"))
		return
	}

	writeJson(w, OCRText{
		PatientID: id,
		OCRText:   text,
	})
}

func (h *Handler) handlePacketFiles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, ok := h.store.Job(id)

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("Elaborazione non trovata"))
		return
	}

	patientID := job.PatientID

	files := PacketFiles{
		PatientID:   patientID,
		PatientPath: "patients/" + patientID,

		Folders: map[string]FolderInfo{},
	}

	for _, created := range job.DocumentsCreated {
		folder := files.Folders[created.DocumentType]

		if folder.Path == "" {
			folder.Path = files.PatientPath + "/" + created.DocumentType
		}

		var size int64

		if data, ok := h.store.DocumentPDF(created.DocumentID); ok {
			size = int64(len(data))
		}

		folder.Files = append(folder.Files, FileInfo{
			Name: created.Filename,
			Path: folder.Path + "/" + created.Filename,
			Size: size,
			Type: "application/pdf",
		})

		files.Folders[created.DocumentType] = folder
	}

	writeJson(w, files)
}

// handleDebugStatus dumps the raw job state, shape unspecified on
// purpose.
func (h *Handler) handleDebugStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, ok := h.store.Job(id)

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("Elaborazione non trovata"))
		return
	}

	writeJson(w, map[string]any{
		"job": job,

		"terminal": job.Terminal(),
	})
}
