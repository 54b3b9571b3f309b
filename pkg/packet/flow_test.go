package packet_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fondazionealfieri/clinicalfolders/pkg/backend"
	"github.com/fondazionealfieri/clinicalfolders/pkg/packet"

	"github.com/stretchr/testify/require"
)

func TestFlowValidation(t *testing.T) {
	flow := packet.NewFlow(backend.New("http://localhost:0"))

	var valErr *packet.ValidationError

	_, err := flow.Run(context.Background(), backend.PacketUploadRequest{Name: "cartella.pdf"})
	require.True(t, errors.As(err, &valErr))
	require.Equal(t, "file", valErr.Field)

	_, err = flow.Run(context.Background(), backend.PacketUploadRequest{
		Name:   "cartella.docx",
		Reader: strings.NewReader("x"),
	})
	require.True(t, errors.As(err, &valErr))
	require.Equal(t, "il file deve essere un PDF", valErr.Message)
}

func TestFlowUploadAndPoll(t *testing.T) {
	var polls atomic.Int64

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/upload-document", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		require.Equal(t, "true", r.FormValue("process_as_packet"))

		json.NewEncoder(w).Encode(backend.UploadResult{PatientID: "tmp-1", Status: "processing"})
	})

	mux.HandleFunc("GET /api/document-packet-status/{id}", func(w http.ResponseWriter, r *http.Request) {
		n := polls.Add(1)

		status := backend.ProcessingStatus{
			PatientID: r.PathValue("id"),

			Status:   backend.StatusSegmenting,
			Progress: 50,
		}

		switch {
		case n == 2:
			status.FinalPatientID = "2025-0007"

		case n >= 3:
			require.Equal(t, "2025-0007", r.PathValue("id"))

			status.Status = backend.StatusCompleted
			status.Progress = 100
			status.FinalPatientID = "2025-0007"
		}

		json.NewEncoder(w).Encode(status)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	var seeded *backend.ProcessingStatus

	flow := packet.NewFlow(backend.New(server.URL),
		packet.WithInterval(5*time.Millisecond),
		packet.WithUpdateFunc(func(s *backend.ProcessingStatus) {
			if seeded == nil {
				seeded = s
			}
		}))

	result, err := flow.Run(context.Background(), backend.PacketUploadRequest{
		Name:   "cartella.pdf",
		Reader: strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)

	require.Equal(t, packet.StateCompleted, result.State)
	require.Equal(t, "2025-0007", result.PatientID)

	require.NotNil(t, seeded)
	require.Equal(t, backend.StatusQueued, seeded.Status)
	require.Equal(t, 5, seeded.Progress)
}
