package entity

// Position locates an extracted value on a page of the source PDF.
// Coordinates are PDF points as reported by the extraction backend.
type Position struct {
	Page int `json:"page"`

	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Entity is the uniform record every backend payload shape is reduced
// to. After Normalize, Value is always a display string and Confidence
// is always set.
type Entity struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Value      string    `json:"value"`
	Confidence float64   `json:"confidence"`
	Position   *Position `json:"position,omitempty"`
}
