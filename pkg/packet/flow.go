package packet

import (
	"context"
	"fmt"
	"strings"

	"github.com/fondazionealfieri/clinicalfolders/pkg/backend"
)

// ValidationError is a rejected upload, detected before any network
// call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Flow is the single packet-upload implementation shared by every
// upload surface: validate, upload, then poll the job to a terminal
// state under a possibly rebound identifier.
type Flow struct {
	client *backend.Client
	poller *Poller
}

func NewFlow(client *backend.Client, opts ...Option) *Flow {
	status := func(ctx context.Context, id string) (*backend.ProcessingStatus, error) {
		return client.Packets.Status(ctx, id)
	}

	return &Flow{
		client: client,
		poller: New(status, opts...),
	}
}

// Run uploads the packet and blocks until its processing reaches a
// terminal state. Validation and upload failures return an error;
// everything after the upload is reported through the Result.
func (f *Flow) Run(ctx context.Context, input backend.PacketUploadRequest) (Result, error) {
	if input.Reader == nil {
		return Result{State: StateIdle}, &ValidationError{
			Field:   "file",
			Message: "seleziona un PDF della cartella clinica",
		}
	}

	if !strings.HasSuffix(strings.ToLower(input.Name), ".pdf") {
		return Result{State: StateIdle}, &ValidationError{
			Field:   "file",
			Message: "il file deve essere un PDF",
		}
	}

	resp, err := f.client.Packets.Upload(ctx, input)

	if err != nil {
		return Result{State: StateSubmitting}, err
	}

	id := resp.PatientID

	if id == "" {
		id = input.PatientID
	}

	if id == "" {
		id = "_unknown"
	}

	if f.poller.onUpdate != nil {
		f.poller.onUpdate(&backend.ProcessingStatus{
			PatientID: id,

			Status:   backend.StatusQueued,
			Message:  "Avvio elaborazione pacchetto clinico...",
			Progress: 5,

			Filename: input.Name,

			SectionsFound:    []string{},
			SectionsMissing:  []string{},
			DocumentsCreated: []backend.DocumentCreated{},
			Errors:           []string{},
		})
	}

	return f.poller.Run(ctx, id), nil
}
