package viewer

import (
	"github.com/fondazionealfieri/clinicalfolders/pkg/entity"
)

type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
)

// Highlight is an entity placed on the current page together with its
// overlay rectangle.
type Highlight struct {
	Entity entity.Entity
	Rect   Rect
}

// Viewer tracks the page, zoom and selection state for one document.
type Viewer struct {
	doc      *Document
	entities []entity.Entity

	page     int
	scale    float64
	selected string
}

func New(doc *Document, entities []entity.Entity) *Viewer {
	return &Viewer{
		doc:      doc,
		entities: entities,

		page:  1,
		scale: 1.5,
	}
}

func (v *Viewer) Page() int {
	return v.page
}

func (v *Viewer) PageCount() int {
	return v.doc.PageCount()
}

func (v *Viewer) Scale() float64 {
	return v.scale
}

func (v *Viewer) SetScale(scale float64) {
	if scale > 0 {
		v.scale = scale
	}
}

func (v *Viewer) Selected() string {
	return v.selected
}

// SetPage clamps to [1, PageCount] and reports whether the page
// actually changed.
func (v *Viewer) SetPage(page int) bool {
	page = min(max(page, 1), v.doc.PageCount())

	if page == v.page {
		return false
	}

	v.page = page

	return true
}

// Select toggles the selection: selecting the current entity again
// clears it. Selecting an entity whose bounding box lies on another
// page switches to that page; the returned flag reports the switch.
func (v *Viewer) Select(id string) (string, bool) {
	if id == v.selected {
		v.selected = ""
		return "", false
	}

	v.selected = id

	for _, e := range v.entities {
		if e.ID != id || e.Position == nil {
			continue
		}

		if e.Position.Page != v.page {
			return v.selected, v.SetPage(e.Position.Page)
		}

		break
	}

	return v.selected, false
}

// HandleKey pages the document with the arrow keys. Key presses are
// ignored while focus is inside a text input. Reports whether the page
// changed.
func (v *Viewer) HandleKey(key Key, inTextInput bool) bool {
	if inTextInput {
		return false
	}

	switch key {
	case KeyLeft, KeyUp:
		return v.SetPage(v.page - 1)

	case KeyRight, KeyDown:
		return v.SetPage(v.page + 1)
	}

	return false
}

// Highlights returns the overlay rectangles for every entity whose
// bounding box falls on the current page.
func (v *Viewer) Highlights() []Highlight {
	size := v.doc.PageSize(v.page)

	var result []Highlight

	for _, e := range v.entities {
		if e.Position == nil || e.Position.Page != v.page {
			continue
		}

		result = append(result, Highlight{
			Entity: e,
			Rect:   OverlayRect(e.Position, size),
		})
	}

	return result
}
