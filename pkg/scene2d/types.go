package scene2d

// Scene2D is a set of orthographic drawings of one building.
type Scene2D struct {
	Metadata Metadata `json:"metadata"`
	Front    View     `json:"front"`
	Side     View     `json:"side"`
	Plan     View     `json:"plan"`
}

// Metadata holds building-level summary data.
type Metadata struct {
	Name        string  `json:"name,omitempty"`
	Floors      int     `json:"floors"`
	HeightM     float64 `json:"height_m"`
	WidthM      float64 `json:"width_m"`
	DepthM      float64 `json:"depth_m"`
	GeneratedAt string  `json:"generated_at"`
}

// View is one orthographic projection. Coordinates are [horizontal,
// vertical] in metres with vertical increasing upwards.
type View struct {
	Name   string     `json:"name"`
	Min    [2]float64 `json:"min"`
	Max    [2]float64 `json:"max"`
	Rects  []Rect2D   `json:"rects"`
	Labels []Label2D  `json:"labels,omitempty"`
}

// Rect2D is the projected outline of one solid.
type Rect2D struct {
	ID      string     `json:"id"`
	Type    string     `json:"type"`
	Min     [2]float64 `json:"min"`
	Max     [2]float64 `json:"max"`
	Color   string     `json:"color"`
	Opacity float64    `json:"opacity"`
}

// Label2D is an annotation anchored at a point.
type Label2D struct {
	Text     string     `json:"text"`
	Position [2]float64 `json:"position"`
}

// Width returns the horizontal extent of the view.
func (v View) Width() float64 { return v.Max[0] - v.Min[0] }

// Height returns the vertical extent of the view.
func (v View) Height() float64 { return v.Max[1] - v.Min[1] }
