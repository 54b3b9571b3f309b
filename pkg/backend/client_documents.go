package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/fondazionealfieri/clinicalfolders/pkg/entity"

	"github.com/google/uuid"
)

// DocumentDetail is the remote backend's document payload. Entities is
// kept raw because the backend emits heterogeneous entity shapes; use
// NormalizedEntities for the uniform display form.
type DocumentDetail struct {
	ID string `json:"id"`

	PatientID    string `json:"patient_id"`
	DocumentType string `json:"document_type"`
	Filename     string `json:"filename"`
	Status       string `json:"status,omitempty"`

	PDFPath       string `json:"pdf_path,omitempty"`
	PDFPathLegacy string `json:"pdfPath,omitempty"`

	Entities json.RawMessage `json:"entities"`
}

// PDF returns the document's PDF path, preferring the snake_case key
// over the legacy camelCase one.
func (d *DocumentDetail) PDF() string {
	if d.PDFPath != "" {
		return d.PDFPath
	}

	return d.PDFPathLegacy
}

func (d *DocumentDetail) NormalizedEntities() []entity.Entity {
	return entity.NormalizePayload(d.Entities)
}

type UploadRequest struct {
	Name   string
	Reader io.Reader

	PatientID    string
	DocumentType string
}

type DocumentService struct {
	Options []RequestOption
}

func NewDocumentService(opts ...RequestOption) DocumentService {
	return DocumentService{
		Options: opts,
	}
}

func (r *DocumentService) Get(ctx context.Context, id string, opts ...RequestOption) (*DocumentDetail, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/api/document/"+url.PathEscape(id), nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "documents.get", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError("documents.get", resp)
	}

	var result DocumentDetail

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *DocumentService) UpdateEntities(ctx context.Context, id string, entities []entity.Entity, opts ...RequestOption) (*UpdateResult, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var data bytes.Buffer

	body := map[string]any{
		"entities": entities,
	}

	if err := json.NewEncoder(&data).Encode(body); err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, "PUT", c.URL+"/api/document/"+url.PathEscape(id), &data)
	req.Header.Set("Content-Type", "application/json")

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "documents.update", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError("documents.update", resp)
	}

	var result UpdateResult

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Delete removes a document. The backend reports a body-level success
// flag alongside the HTTP status, so both are checked.
func (r *DocumentService) Delete(ctx context.Context, id string, opts ...RequestOption) (*DeleteResult, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "DELETE", c.URL+"/api/document/"+url.PathEscape(id), nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "documents.delete", Err: err}
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, &NetworkError{Operation: "documents.delete", Err: err}
	}

	var result DeleteResult

	json.Unmarshal(data, &result)

	if resp.StatusCode != http.StatusOK || !result.Success {
		message := result.Error

		if message == "" {
			message = strings.TrimSpace(string(data))
		}

		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}

		return nil, &RequestError{
			Operation:  "documents.delete",
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	return &result, nil
}

// Upload sends a single PDF for synchronous extraction under a known
// patient and document type.
func (r *DocumentService) Upload(ctx context.Context, input UploadRequest, opts ...RequestOption) (*DocumentDetail, error) {
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

	w.WriteField("patient_id", input.PatientID)

	if input.DocumentType != "" {
		w.WriteField("document_type", input.DocumentType)
	}

	w.Close()

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/api/upload-document", &data)
	req.Header.Set("Content-Type", w.FormDataContentType())

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "documents.upload", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError("documents.upload", resp)
	}

	var result DocumentDetail

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}
