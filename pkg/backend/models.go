package backend

import (
	"slices"
)

type Patient struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	DocumentCount    int    `json:"document_count"`
	LastDocumentDate string `json:"last_document_date,omitempty"`
}

type Document struct {
	ID string `json:"id"`

	Filename     string `json:"filename"`
	DocumentType string `json:"document_type"`
	UploadDate   string `json:"upload_date,omitempty"`

	EntitiesCount int    `json:"entities_count"`
	Status        string `json:"status"`
}

type PatientDetail struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Documents []Document `json:"documents"`
}

// Processing stage names, in pipeline order.
const (
	StatusQueued              = "queued"
	StatusOCRRunning          = "ocr_running"
	StatusOCRDone             = "ocr_done"
	StatusSegmenting          = "segmenting"
	StatusSegmented           = "segmented"
	StatusExtracting          = "extracting"
	StatusProcessingSections  = "processing_sections"
	StatusConsolidating       = "consolidating"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
	StatusFailed              = "failed"
)

var terminalStatuses = []string{StatusCompleted, StatusCompletedWithErrors, StatusFailed}

type DocumentCreated struct {
	DocumentID   string `json:"document_id"`
	DocumentType string `json:"document_type"`
	Filename     string `json:"filename"`

	Status        string `json:"status"`
	EntitiesCount int    `json:"entities_count"`
}

type ProcessingStatus struct {
	PatientID string `json:"patient_id"`

	Status   string `json:"status"`
	Message  string `json:"message"`
	Progress int    `json:"progress"`

	Filename       string `json:"filename,omitempty"`
	CurrentSection string `json:"current_section,omitempty"`

	SectionsFound   []string `json:"sections_found"`
	SectionsMissing []string `json:"sections_missing"`

	DocumentsCreated []DocumentCreated `json:"documents_created"`
	Errors           []string          `json:"errors"`

	OriginalPatientID string `json:"original_patient_id,omitempty"`
	FinalPatientID    string `json:"final_patient_id,omitempty"`
}

// Terminal reports whether no further status changes can follow.
func (s *ProcessingStatus) Terminal() bool {
	return slices.Contains(terminalStatuses, s.Status)
}

type UploadResult struct {
	PatientID string `json:"patient_id"`
	Status    string `json:"status"`
}

type UpdateResult struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"document_id"`

	UpdatedEntities int `json:"updated_entities"`
}

type DeleteResult struct {
	Success bool `json:"success"`

	PatientDeleted      bool `json:"patient_deleted"`
	DocumentTypeDeleted bool `json:"document_type_deleted"`

	Error string `json:"error,omitempty"`
}

type OCRText struct {
	PatientID string `json:"patient_id"`
	OCRText   string `json:"ocr_text"`
}

type FileInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type FolderInfo struct {
	Path  string     `json:"path"`
	Files []FileInfo `json:"files"`
}

type PacketFiles struct {
	PatientID   string `json:"patient_id"`
	PatientPath string `json:"patient_path"`

	Folders map[string]FolderInfo `json:"folders"`
}
