package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type uploadFile struct {
	Name    string
	Content []byte
}

func (h *Handler) readFile(r *http.Request) (*uploadFile, error) {
	file, header, err := r.FormFile("file")

	if err != nil {
		return nil, errors.New("Nessun file ricevuto")
	}

	defer file.Close()

	data, err := io.ReadAll(file)

	if err != nil {
		return nil, err
	}

	return &uploadFile{
		Name:    header.Filename,
		Content: data,
	}, nil
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, err := h.readFile(r)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if !strings.HasSuffix(strings.ToLower(file.Name), ".pdf") {
		writeError(w, http.StatusBadRequest, errors.New("Il file deve essere un PDF"))
		return
	}

	patientID := r.FormValue("patient_id")

	if r.FormValue("process_as_packet") == "true" {
		hadPatientID := patientID != ""

		if !hadPatientID {
			patientID = "temp_" + uuid.NewString()
		}

		go h.pipeline.Process(patientID, file.Name, file.Content, hadPatientID)

		writeJson(w, UploadResult{
			PatientID: patientID,
			Status:    "processing",
		})

		return
	}

	if patientID == "" {
		writeError(w, http.StatusBadRequest, errors.New("patient_id mancante"))
		return
	}

	documentType := r.FormValue("document_type")

	if documentType == "" {
		documentType = "documento"
	}

	document := h.store.AddDocument(patientID, r.FormValue("patient_name"), documentType, file.Name, sectionEntities(documentType), file.Content)

	writeJson(w, document)
}
