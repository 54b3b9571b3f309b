package api

import (
	"github.com/fondazionealfieri/clinicalfolders/pkg/backend"
	"github.com/fondazionealfieri/clinicalfolders/pkg/entity"
)

// Wire types are owned by pkg/backend; the server serves the same
// shapes the client decodes.
type Patient = backend.Patient
type Document = backend.Document
type PatientDetail = backend.PatientDetail

type ProcessingStatus = backend.ProcessingStatus
type DocumentCreated = backend.DocumentCreated

type UploadResult = backend.UploadResult
type UpdateResult = backend.UpdateResult
type DeleteResult = backend.DeleteResult

type OCRText = backend.OCRText
type FileInfo = backend.FileInfo
type FolderInfo = backend.FolderInfo
type PacketFiles = backend.PacketFiles

const (
	StatusQueued              = backend.StatusQueued
	StatusOCRRunning          = backend.StatusOCRRunning
	StatusOCRDone             = backend.StatusOCRDone
	StatusSegmenting          = backend.StatusSegmenting
	StatusSegmented           = backend.StatusSegmented
	StatusExtracting          = backend.StatusExtracting
	StatusProcessingSections  = backend.StatusProcessingSections
	StatusConsolidating       = backend.StatusConsolidating
	StatusCompleted           = backend.StatusCompleted
	StatusCompletedWithErrors = backend.StatusCompletedWithErrors
	StatusFailed              = backend.StatusFailed
)

// DocumentDetail is the server's full document payload. Unlike the
// client's raw view, entities here are always in normalized form.
type DocumentDetail struct {
	ID string `json:"id"`

	PatientID    string `json:"patient_id"`
	DocumentType string `json:"document_type"`
	Filename     string `json:"filename"`
	PDFPath      string `json:"pdf_path,omitempty"`
	Status       string `json:"status,omitempty"`

	Entities []entity.Entity `json:"entities"`
}
