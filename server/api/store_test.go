package api

import (
	"testing"

	"github.com/fondazionealfieri/clinicalfolders/pkg/entity"
)

func TestDocumentID(t *testing.T) {
	id := DocumentID("2025-0007", "lettera_dimissione", "cartella.pdf")

	if id != "doc_2025-0007_lettera_dimissione_cartella" {
		t.Errorf("unexpected document id %q", id)
	}
}

func TestDeleteDocumentCascade(t *testing.T) {
	store := NewStore()

	entities := []entity.Entity{{ID: "diagnosi", Type: "Diagnosi", Value: "test", Confidence: 1}}

	first := store.AddDocument("2025-0001", "", "lettera_dimissione", "a.pdf", entities, nil)
	second := store.AddDocument("2025-0001", "", "lettera_dimissione", "b.pdf", entities, nil)

	result, ok := store.DeleteDocument(first.ID)

	if !ok || !result.Success {
		t.Fatal("expected delete to succeed")
	}

	if result.PatientDeleted {
		t.Error("patient should survive while documents remain")
	}

	if result.DocumentTypeDeleted {
		t.Error("document type should survive, another document has it")
	}

	result, ok = store.DeleteDocument(second.ID)

	if !ok || !result.PatientDeleted || !result.DocumentTypeDeleted {
		t.Error("deleting the last document should cascade to the patient")
	}

	if _, ok := store.Patient("2025-0001"); ok {
		t.Error("patient should be gone")
	}
}

func TestJobAlias(t *testing.T) {
	store := NewStore()

	store.PutJob(&ProcessingStatus{PatientID: "temp_1", Status: StatusQueued})
	store.Alias("2025-0001", "temp_1")

	store.UpdateJob("2025-0001", func(job *ProcessingStatus) {
		job.PatientID = "2025-0001"
		job.Status = StatusCompleted
	})

	job, ok := store.Job("temp_1")

	if !ok {
		t.Fatal("job should stay reachable under the provisional id")
	}

	if job.PatientID != "2025-0001" || job.Status != StatusCompleted {
		t.Errorf("unexpected job %+v", job)
	}
}
