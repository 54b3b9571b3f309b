package viewer_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fondazionealfieri/clinicalfolders/pkg/entity"
	"github.com/fondazionealfieri/clinicalfolders/pkg/viewer"

	"github.com/stretchr/testify/require"
)

// minimalPDF builds a valid empty PDF with the given number of
// letter-size pages.
func minimalPDF(t *testing.T, pages int) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	var offsets []int

	write := func(obj string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(obj)
	}

	kids := make([]string, 0, pages)

	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+i))
	}

	write("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	write(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", strings.Join(kids, " "), pages))

	for i := range pages {
		write(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n", 3+i))
	}

	xref := buf.Len()

	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")

	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

func TestNewDocument(t *testing.T) {
	doc := viewer.NewDocument(minimalPDF(t, 3))

	require.Equal(t, 3, doc.PageCount())
	require.Equal(t, viewer.PageSize{Width: 612, Height: 792}, doc.PageSize(1))
}

func TestNewDocumentUnreadable(t *testing.T) {
	doc := viewer.NewDocument([]byte("not a pdf"))

	require.Equal(t, 1, doc.PageCount())
	require.Equal(t, viewer.PageSize{Width: 595, Height: 842}, doc.PageSize(1))
	require.Equal(t, viewer.PageSize{Width: 595, Height: 842}, doc.PageSize(99))
}

func TestFetch(t *testing.T) {
	data := minimalPDF(t, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/doc.pdf" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Write(data)
	}))
	defer server.Close()

	doc, err := viewer.Fetch(context.Background(), nil, server.URL+"/files/doc.pdf")
	require.NoError(t, err)
	require.Equal(t, data, doc.Data)

	_, err = viewer.Fetch(context.Background(), nil, server.URL+"/files/missing.pdf")
	require.Error(t, err)

	var loadErr *viewer.LoadError
	require.True(t, errors.As(err, &loadErr))
	require.Equal(t, server.URL+"/files/missing.pdf", loadErr.URL)
}

func testEntities() []entity.Entity {
	return []entity.Entity{
		{ID: "e1", Type: "Paziente", Value: "Mario Rossi", Confidence: 0.95, Position: &entity.Position{Page: 1, X0: 10, Y0: 10, X1: 100, Y1: 25}},
		{ID: "e2", Type: "Data", Value: "02/01/2025", Confidence: 0.9, Position: &entity.Position{Page: 2, X0: 10, Y0: 40, X1: 80, Y1: 55}},
		{ID: "e3", Type: "Nota", Value: "senza posizione", Confidence: 1},
	}
}

func TestViewerSelect(t *testing.T) {
	v := viewer.New(viewer.NewDocument(minimalPDF(t, 3)), testEntities())

	selected, pageChanged := v.Select("e1")
	require.Equal(t, "e1", selected)
	require.False(t, pageChanged)
	require.Equal(t, 1, v.Page())

	// entity on another page switches the view
	selected, pageChanged = v.Select("e2")
	require.Equal(t, "e2", selected)
	require.True(t, pageChanged)
	require.Equal(t, 2, v.Page())

	// selecting again toggles off
	selected, _ = v.Select("e2")
	require.Empty(t, selected)
	require.Empty(t, v.Selected())
}

func TestViewerKeys(t *testing.T) {
	v := viewer.New(viewer.NewDocument(minimalPDF(t, 2)), nil)

	require.False(t, v.HandleKey(viewer.KeyLeft, false), "already on first page")
	require.True(t, v.HandleKey(viewer.KeyRight, false))
	require.Equal(t, 2, v.Page())
	require.False(t, v.HandleKey(viewer.KeyDown, false), "clamped at last page")
	require.True(t, v.HandleKey(viewer.KeyUp, false))
	require.Equal(t, 1, v.Page())

	require.False(t, v.HandleKey(viewer.KeyRight, true), "ignored inside text input")
	require.Equal(t, 1, v.Page())
}

func TestViewerHighlights(t *testing.T) {
	v := viewer.New(viewer.NewDocument(minimalPDF(t, 2)), testEntities())

	highlights := v.Highlights()
	require.Len(t, highlights, 1)
	require.Equal(t, "e1", highlights[0].Entity.ID)

	v.SetPage(2)

	highlights = v.Highlights()
	require.Len(t, highlights, 1)
	require.Equal(t, "e2", highlights[0].Entity.ID)
}
