package viewer

import (
	"github.com/fondazionealfieri/clinicalfolders/pkg/entity"
)

// Rect is a highlight rectangle expressed as percentages of the
// rendered page, so it stays put across zoom changes.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// OverlayRect maps a bounding box in PDF points onto the page it
// belongs to. size should be the true page size; a zero size falls
// back to A4.
func OverlayRect(position *entity.Position, size PageSize) Rect {
	w, h := size.Width, size.Height

	if w <= 0 || h <= 0 {
		w, h = FallbackPageWidth, FallbackPageHeight
	}

	return Rect{
		Left:   position.X0 / w * 100,
		Top:    position.Y0 / h * 100,
		Width:  (position.X1 - position.X0) / w * 100,
		Height: (position.Y1 - position.Y0) / h * 100,
	}
}
