package analytics

// Quantities holds the derived measurements of one composed building.
// Areas are in m², lengths in m, volumes in m³.
type Quantities struct {
	Floors         int     `json:"floors"`
	FootprintArea  float64 `json:"footprint_area_m2"`
	GrossFloorArea float64 `json:"gross_internal_floor_area_m2"`
	FacadePlanArea float64 `json:"facade_plan_area_m2"`

	GlassHeight    float64 `json:"glass_height_m"`
	FacadeHeight   float64 `json:"facade_height_m"`
	StoreyHeight   float64 `json:"storey_height_m"`
	FloorSpacing   float64 `json:"floor_spacing_m"`
	BuildingHeight float64 `json:"building_height_m"`

	GlazedWallArea    float64 `json:"glazed_wall_area_m2"`
	OpaqueWallArea    float64 `json:"opaque_wall_area_m2"`
	WindowToWallRatio float64 `json:"window_to_wall_ratio"`

	GlazingVolume float64 `json:"glazing_volume_m3"`
	FacadeVolume  float64 `json:"facade_volume_m3"`
}

// DataItem is one labelled entry of the data panel. Value is nil for
// placeholder items that carry only a label.
type DataItem struct {
	Label  string   `json:"label"`
	Value  *float64 `json:"value,omitempty"`
	Suffix string   `json:"suffix,omitempty"`
}

// NewItem returns a valued item.
func NewItem(label string, value float64, suffix string) DataItem {
	return DataItem{Label: label, Value: &value, Suffix: suffix}
}

// Placeholder returns a label-only item.
func Placeholder(label string) DataItem {
	return DataItem{Label: label}
}
