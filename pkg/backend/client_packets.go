package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

type PacketUploadRequest struct {
	Name   string
	Reader io.Reader

	// PatientID is optional: the backend extracts the true patient
	// identifier from the document content when omitted.
	PatientID string
}

type PacketService struct {
	Options []RequestOption
}

func NewPacketService(opts ...RequestOption) PacketService {
	return PacketService{
		Options: opts,
	}
}

// Upload sends a PDF marked for multi-section packet processing and
// returns the provisional tracking identifier.
func (r *PacketService) Upload(ctx context.Context, input PacketUploadRequest, opts ...RequestOption) (*UploadResult, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	if input.Name == "" {
		input.Name = uuid.New().String() + ".pdf"
	}

	var data bytes.Buffer
	w := multipart.NewWriter(&data)

	file, err := w.CreateFormFile("file", input.Name)

	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(file, input.Reader); err != nil {
		return nil, err
	}

	if input.PatientID != "" {
		w.WriteField("patient_id", input.PatientID)
	}

	w.WriteField("process_as_packet", "true")

	w.Close()

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/api/upload-document", &data)
	req.Header.Set("Content-Type", w.FormDataContentType())

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "packets.upload", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError("packets.upload", resp)
	}

	var result UploadResult

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *PacketService) Status(ctx context.Context, id string, opts ...RequestOption) (*ProcessingStatus, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/api/document-packet-status/"+url.PathEscape(id), nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "packets.status", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError("packets.status", resp)
	}

	var result ProcessingStatus

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *PacketService) OCRText(ctx context.Context, id string, opts ...RequestOption) (*OCRText, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/api/document-ocr-text/"+url.PathEscape(id), nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "packets.ocrtext", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError("packets.ocrtext", resp)
	}

	var result OCRText

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *PacketService) Files(ctx context.Context, id string, opts ...RequestOption) (*PacketFiles, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/api/document-packet-files/"+url.PathEscape(id), nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "packets.files", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError("packets.files", resp)
	}

	var result PacketFiles

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DebugStatus fetches the backend's raw processing-state dump for a
// packet. The shape is backend-internal, so it stays untyped.
func (r *PacketService) DebugStatus(ctx context.Context, id string, opts ...RequestOption) (map[string]any, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/api/debug-processing-status/"+url.PathEscape(id), nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "packets.debug", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError("packets.debug", resp)
	}

	var result map[string]any

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result, nil
}
