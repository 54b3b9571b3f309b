// Package backend is the typed HTTP client for the remote
// OCR/extraction backend serving the clinical document API.
package backend

import (
	"net/http"
)

type Client struct {
	Patients  PatientService
	Documents DocumentService

	Packets PacketService
	Export  ExportService
}

// New builds a client for the given base URL. The URL is normalized
// (scheme added, trailing slash stripped); an empty URL falls back to
// the production backend.
func New(url string, opts ...RequestOption) *Client {
	opts = append(opts, WithURL(NormalizeURL(url)))

	return &Client{
		Patients:  NewPatientService(opts...),
		Documents: NewDocumentService(opts...),

		Packets: NewPacketService(opts...),
		Export:  NewExportService(opts...),
	}
}

func newRequestConfig(opts ...RequestOption) *RequestConfig {
	c := &RequestConfig{
		Client: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
