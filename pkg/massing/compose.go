package massing

import (
	"math"

	"github.com/ChicagoDave/massing/pkg/geo"
	"github.com/ChicagoDave/massing/pkg/spec"
)

// Solid and group names used in the floor unit.
const (
	FloorName   = "floor"
	GlazingName = "glazing"
	FacadeName  = "facade"
)

// Dimensions holds the storey construction constants.
type Dimensions struct {
	BaseGlassHeight  float64 `json:"base_glass_height"`
	BaseFacadeHeight float64 `json:"base_facade_height"`
	FacadeOffset     float64 `json:"facade_offset"`
	FacadeOverhang   float64 `json:"facade_overhang"`
	FloorSpacing     float64 `json:"floor_spacing"`
}

// DefaultDimensions returns the reference constants. The glass and
// facade base heights differ, so the storey height varies with the
// glazing ratio; see StoreyHeightConstant.
func DefaultDimensions() Dimensions {
	return Dimensions{
		BaseGlassHeight:  4,
		BaseFacadeHeight: 2,
		FacadeOffset:     1.5,
		FacadeOverhang:   1,
		FloorSpacing:     3,
	}
}

// DimensionsFrom applies project overrides on top of the defaults.
// Missing fields keep the default value, as do negative or non-finite
// ones.
func DimensionsFrom(def *spec.MassingDef) Dimensions {
	d := DefaultDimensions()
	if def == nil {
		return d
	}
	override := func(dst *float64, v *float64) {
		if v != nil && *v >= 0 && !math.IsInf(*v, 0) {
			*dst = *v
		}
	}
	override(&d.BaseGlassHeight, def.BaseGlassHeight)
	override(&d.BaseFacadeHeight, def.BaseFacadeHeight)
	override(&d.FacadeOffset, def.FacadeOffset)
	override(&d.FacadeOverhang, def.FacadeOverhang)
	override(&d.FloorSpacing, def.FloorSpacing)
	return d
}

// StoreyHeights splits a storey into glass and facade heights for the
// given glazing percentage, clamped to [0,100].
func (d Dimensions) StoreyHeights(glazingRatio float64) (glass, facade float64) {
	r := clampRatio(glazingRatio) / 100
	return r * d.BaseGlassHeight, (1 - r) * d.BaseFacadeHeight
}

// StoreyHeightConstant reports whether glass+facade height is the same
// for every glazing ratio, which holds only when the base heights match.
func (d Dimensions) StoreyHeightConstant() bool {
	return math.Abs(d.BaseGlassHeight-d.BaseFacadeHeight) < 1e-9
}

// Massing is the composed building.
type Massing struct {
	Floor        *Group         `json:"floor"`
	Building     *LinearPattern `json:"building"`
	GlassHeight  float64        `json:"glass_height"`
	FacadeHeight float64        `json:"facade_height"`
	Dimensions   Dimensions     `json:"dimensions"`
}

// Compose builds the solid tree for p. It never fails: out-of-range
// inputs are clamped (negative sizes to zero, glazing to [0,100],
// negative floors to zero) and zero floors give an empty building.
func Compose(p spec.BuildingParameters, d Dimensions) *Massing {
	width := nonNegative(p.Width)
	length := nonNegative(p.Length)
	glassH, facadeH := d.StoreyHeights(p.GlazingRatio)

	glazing := NewSolid(GlazingName, geo.V(width, length, glassH), Glass)

	facade := NewSolid(FacadeName,
		geo.V(width+d.FacadeOverhang, length+d.FacadeOverhang, facadeH),
		FacadeMaterial(p.FacadeColor),
	).Translate(geo.V(0, 0, d.FacadeOffset))

	floor := NewGroup(FloorName, glazing, facade)
	building := NewLinearPattern(floor, geo.AxisZ, p.Floors, d.FloorSpacing)

	return &Massing{
		Floor:        floor,
		Building:     building,
		GlassHeight:  glassH,
		FacadeHeight: facadeH,
		Dimensions:   d,
	}
}

// FloorCount returns the number of floor units in the building.
func (m *Massing) FloorCount() int {
	return m.Building.Len()
}

// Bounds returns the bounding box of the whole building.
func (m *Massing) Bounds() geo.Box {
	return m.Building.Bounds()
}

// Glazing returns the glazing solid of the floor unit.
func (m *Massing) Glazing() Solid {
	return m.Floor.Children[0].(Solid)
}

// Facade returns the facade solid of the floor unit.
func (m *Massing) Facade() Solid {
	return m.Floor.Children[1].(Solid)
}

// Height returns the overall building height from the lowest to the
// highest solid, zero for an empty building.
func (m *Massing) Height() float64 {
	return m.Bounds().Size().Z
}

func clampRatio(r float64) float64 {
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(0, math.Min(100, r))
}
