// Package viewer holds the PDF viewing state and the highlight overlay
// geometry: mapping entity bounding boxes in PDF point space onto
// percentage rectangles of the rendered page.
package viewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Fallback page size in PDF points (ISO A4), used when a document's
// true page dimensions are unavailable.
const (
	FallbackPageWidth  = 595.0
	FallbackPageHeight = 842.0
)

type PageSize struct {
	Width  float64
	Height float64
}

// LoadError is a failed PDF fetch or read. It keeps the URL so the
// error state can show what was requested.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load pdf %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Document owns a fetched PDF: the raw bytes plus the page count and
// per-page dimensions read from them.
type Document struct {
	Data []byte

	pageCount int
	pageSizes []PageSize
}

// Fetch downloads the PDF once into a locally owned buffer, so later
// renders never re-request it.
func Fetch(ctx context.Context, client *http.Client, url string) (*Document, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)

	if err != nil {
		return nil, &LoadError{URL: url, Err: err}
	}

	resp, err := client.Do(req)

	if err != nil {
		return nil, &LoadError{URL: url, Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{URL: url, Err: errors.New(resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, &LoadError{URL: url, Err: err}
	}

	return NewDocument(data), nil
}

// NewDocument inspects the PDF bytes for page count and true page
// dimensions. An unreadable PDF degrades to a single page with
// fallback dimensions instead of failing, so the viewer stays usable.
func NewDocument(data []byte) *Document {
	d := &Document{
		Data: data,

		pageCount: 1,
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	rs := bytes.NewReader(data)

	count, err := api.PageCount(rs, conf)

	if err != nil || count < 1 {
		return d
	}

	d.pageCount = count

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return d
	}

	dims, err := api.PageDims(rs, conf)

	if err != nil {
		return d
	}

	for _, dim := range dims {
		d.pageSizes = append(d.pageSizes, PageSize{Width: dim.Width, Height: dim.Height})
	}

	return d
}

func (d *Document) PageCount() int {
	return d.pageCount
}

// PageSize returns the true dimensions of a page, or the A4 fallback
// when the page is out of range or dimensions could not be read.
func (d *Document) PageSize(page int) PageSize {
	if page < 1 || page > len(d.pageSizes) {
		return PageSize{Width: FallbackPageWidth, Height: FallbackPageHeight}
	}

	size := d.pageSizes[page-1]

	if size.Width <= 0 || size.Height <= 0 {
		return PageSize{Width: FallbackPageWidth, Height: FallbackPageHeight}
	}

	return size
}
