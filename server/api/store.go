package api

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fondazionealfieri/clinicalfolders/pkg/entity"
)

type documentRecord struct {
	DocumentDetail

	UploadDate time.Time
	PDF        []byte
}

type patientRecord struct {
	ID   string
	Name string

	Documents []string
}

// Store is the in-memory state behind the development backend. The
// upload handlers and the processing pipeline goroutines share it, so
// every access goes through the mutex.
type Store struct {
	mu sync.RWMutex

	patients map[string]*patientRecord
	order    []string

	documents map[string]*documentRecord

	jobs    map[string]*ProcessingStatus
	aliases map[string]string

	ocr map[string]string

	newID func() string
	seq   int
}

type StoreOption func(*Store)

// WithIDGenerator overrides how patient identifiers are assigned when
// an upload carries none.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		s.newID = fn
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		patients:  map[string]*patientRecord{},
		documents: map[string]*documentRecord{},

		jobs:    map[string]*ProcessingStatus{},
		aliases: map[string]string{},

		ocr: map[string]string{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.newID == nil {
		s.newID = func() string {
			s.seq++
			return fmt.Sprintf("%s-%04d", time.Now().Format("2006"), s.seq)
		}
	}

	return s
}

// DocumentID builds a document identifier the way the production
// backend does: doc_{patient}_{type}_{filename without extension}.
func DocumentID(patientID, documentType, filename string) string {
	name := strings.TrimSuffix(filename, ".pdf")
	name = strings.TrimSuffix(name, ".PDF")

	return fmt.Sprintf("doc_%s_%s_%s", patientID, documentType, name)
}

func (s *Store) Patients() []Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Patient, 0, len(s.order))

	for _, id := range s.order {
		p := s.patients[id]

		result = append(result, Patient{
			ID:   p.ID,
			Name: p.Name,

			DocumentCount:    len(p.Documents),
			LastDocumentDate: s.lastDocumentDateLocked(p),
		})
	}

	return result
}

func (s *Store) lastDocumentDateLocked(p *patientRecord) string {
	var last time.Time

	for _, id := range p.Documents {
		if d := s.documents[id]; d != nil && d.UploadDate.After(last) {
			last = d.UploadDate
		}
	}

	if last.IsZero() {
		return ""
	}

	return last.Format("2006-01-02")
}

func (s *Store) Patient(id string) (*PatientDetail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patients[id]

	if !ok {
		return nil, false
	}

	detail := &PatientDetail{
		ID:   p.ID,
		Name: p.Name,

		Documents: []Document{},
	}

	for _, docID := range p.Documents {
		d := s.documents[docID]

		detail.Documents = append(detail.Documents, Document{
			ID: d.ID,

			Filename:     d.Filename,
			DocumentType: d.DocumentType,
			UploadDate:   d.UploadDate.Format("2006-01-02"),

			EntitiesCount: len(d.Entities),
			Status:        d.Status,
		})
	}

	return detail, true
}

func (s *Store) Document(id string) (*DocumentDetail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[id]

	if !ok {
		return nil, false
	}

	detail := d.DocumentDetail

	return &detail, true
}

func (s *Store) DocumentPDF(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[id]

	if !ok || d.PDF == nil {
		return nil, false
	}

	return d.PDF, true
}

// AddDocument files a processed document under a patient, creating the
// patient on first use.
func (s *Store) AddDocument(patientID, patientName, documentType, filename string, entities []entity.Entity, pdf []byte) *DocumentDetail {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.patients[patientID]

	if !ok {
		if patientName == "" {
			patientName = "Paziente " + patientID
		}

		p = &patientRecord{ID: patientID, Name: patientName}

		s.patients[patientID] = p
		s.order = append(s.order, patientID)
	}

	id := DocumentID(patientID, documentType, filename)

	record := &documentRecord{
		DocumentDetail: DocumentDetail{
			ID: id,

			PatientID:    patientID,
			DocumentType: documentType,
			Filename:     filename,
			PDFPath:      "/files/" + id + ".pdf",
			Status:       "processed",

			Entities: entities,
		},

		UploadDate: time.Now(),
		PDF:        pdf,
	}

	if _, exists := s.documents[id]; !exists {
		p.Documents = append(p.Documents, id)
	}

	s.documents[id] = record

	detail := record.DocumentDetail

	return &detail
}

func (s *Store) UpdateEntities(id string, entities []entity.Entity) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]

	if !ok {
		return 0, false
	}

	d.Entities = entities

	return len(entities), true
}

// DeleteDocument removes a document, cascading to the patient when it
// was the last one. The result mirrors the production backend's flags.
func (s *Store) DeleteDocument(id string) (*DeleteResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]

	if !ok {
		return nil, false
	}

	delete(s.documents, id)

	result := &DeleteResult{Success: true}

	p := s.patients[d.PatientID]

	if p == nil {
		return result, true
	}

	var remaining []string
	typeDeleted := true

	for _, docID := range p.Documents {
		if docID == id {
			continue
		}

		remaining = append(remaining, docID)

		if other := s.documents[docID]; other != nil && other.DocumentType == d.DocumentType {
			typeDeleted = false
		}
	}

	p.Documents = remaining
	result.DocumentTypeDeleted = typeDeleted

	if len(p.Documents) == 0 {
		delete(s.patients, p.ID)

		for i, patientID := range s.order {
			if patientID == p.ID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}

		result.PatientDeleted = true
	}

	return result, true
}

// NextPatientID assigns a fresh patient identifier, used when the true
// ID has to be "extracted" from document content.
func (s *Store) NextPatientID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.newID()
}

func (s *Store) PutJob(status *ProcessingStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[status.PatientID] = status
}

// UpdateJob mutates a job's status under the store lock.
func (s *Store) UpdateJob(id string, fn func(*ProcessingStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, ok := s.jobs[s.resolveLocked(id)]; ok {
		fn(job)
	}
}

// Job resolves identifier aliases, so a job stays reachable under its
// provisional identifier after the final one is assigned.
func (s *Store) Job(id string) (*ProcessingStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[s.resolveLocked(id)]

	if !ok {
		return nil, false
	}

	snapshot := *job

	return &snapshot, true
}

func (s *Store) resolveLocked(id string) string {
	if canonical, ok := s.aliases[id]; ok {
		return canonical
	}

	return id
}

// Alias makes the final identifier resolve to the job keyed under the
// provisional one.
func (s *Store) Alias(finalID, originalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.aliases[finalID] = originalID
}

func (s *Store) SetOCRText(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ocr[id] = text
}

func (s *Store) OCRText(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.ocr[s.resolveLocked(id)]

	return text, ok
}

// ExportRow is one spreadsheet line: a single entity of a document.
type ExportRow struct {
	PatientName string
	PatientID   string

	Filename     string
	DocumentType string

	EntityType  string
	EntityValue string
	Confidence  float64
}

func (s *Store) ExportRows() []ExportRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []ExportRow

	for _, patientID := range s.order {
		p := s.patients[patientID]

		for _, docID := range p.Documents {
			d := s.documents[docID]

			for _, e := range d.Entities {
				rows = append(rows, ExportRow{
					PatientName: p.Name,
					PatientID:   p.ID,

					Filename:     d.Filename,
					DocumentType: d.DocumentType,

					EntityType:  e.Type,
					EntityValue: e.Value,
					Confidence:  e.Confidence,
				})
			}
		}
	}

	return rows
}
