package backend

import (
	"context"
	"io"
	"net/http"
)

type ExportService struct {
	Options []RequestOption
}

func NewExportService(opts ...RequestOption) ExportService {
	return ExportService{
		Options: opts,
	}
}

// Spreadsheet downloads the backend's full clinical-data export as an
// xlsx blob.
func (r *ExportService) Spreadsheet(ctx context.Context, opts ...RequestOption) ([]byte, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/api/export-excel", nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "export.spreadsheet", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError("export.spreadsheet", resp)
	}

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, &NetworkError{Operation: "export.spreadsheet", Err: err}
	}

	return data, nil
}
