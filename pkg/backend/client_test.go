package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fondazionealfieri/clinicalfolders/pkg/backend"

	"github.com/stretchr/testify/require"
)

func TestPatientsList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/patients", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"001","name":"Mario Rossi","document_count":3,"last_document_date":"2024-01-15"}]`))
	}))
	defer server.Close()

	c := backend.New(server.URL, backend.WithToken("secret"))

	patients, err := c.Patients.List(context.Background())
	require.NoError(t, err)

	require.Len(t, patients, 1)
	require.Equal(t, "001", patients[0].ID)
	require.Equal(t, "Mario Rossi", patients[0].Name)
	require.Equal(t, 3, patients[0].DocumentCount)
}

func TestRequestError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Paziente non trovato"))
	}))
	defer server.Close()

	c := backend.New(server.URL)

	_, err := c.Patients.Get(context.Background(), "999")
	require.Error(t, err)

	var reqErr *backend.RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, "patients.get", reqErr.Operation)
	require.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	require.Equal(t, "Paziente non trovato", reqErr.Message)
}

func TestNetworkError(t *testing.T) {
	c := backend.New("http://127.0.0.1:1")

	_, err := c.Patients.List(context.Background())
	require.Error(t, err)

	var netErr *backend.NetworkError
	require.True(t, errors.As(err, &netErr))
	require.Equal(t, "patients.list", netErr.Operation)
	require.NotNil(t, netErr.Unwrap())
}

func TestDeleteBodyLevelFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "DELETE", r.Method)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error":"documento in uso"}`))
	}))
	defer server.Close()

	c := backend.New(server.URL)

	_, err := c.Documents.Delete(context.Background(), "doc_1")
	require.Error(t, err)

	var reqErr *backend.RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, "documento in uso", reqErr.Message)
}

func TestPacketUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		require.Equal(t, "true", r.FormValue("process_as_packet"))
		require.Empty(t, r.FormValue("patient_id"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		require.Equal(t, "cartella.pdf", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"patient_id":"tmp-123","status":"processing"}`))
	}))
	defer server.Close()

	c := backend.New(server.URL)

	result, err := c.Packets.Upload(context.Background(), backend.PacketUploadRequest{
		Name:   "cartella.pdf",
		Reader: strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)

	require.Equal(t, "tmp-123", result.PatientID)
}

func TestDocumentDetailPDF(t *testing.T) {
	d := &backend.DocumentDetail{PDFPathLegacy: "/files/doc.pdf"}
	require.Equal(t, "/files/doc.pdf", d.PDF())

	d.PDFPath = "/v2/files/doc.pdf"
	require.Equal(t, "/v2/files/doc.pdf", d.PDF())
}
