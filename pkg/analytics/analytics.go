// Package analytics derives areas, heights and ratios from a composed
// building and lays them out as a key/value data panel.
package analytics

import (
	"github.com/ChicagoDave/massing/pkg/massing"
	"github.com/ChicagoDave/massing/pkg/spec"
	"github.com/ChicagoDave/massing/pkg/validation"
)

// GrossFloorArea returns width*length*floors, the area sent to the
// carbon service. Negative inputs count as zero.
func GrossFloorArea(p spec.BuildingParameters) float64 {
	floors := max(p.Floors, 0)
	return max(p.Width, 0) * max(p.Length, 0) * float64(floors)
}

// Resolve computes the quantities of m built from p and runs the
// analytical checks. Returns quantities and a validation report.
func Resolve(p spec.BuildingParameters, m *massing.Massing) (*Quantities, *validation.Report) {
	report := validation.NewReport()

	glazing := m.Glazing()
	facade := m.Facade()
	floors := float64(m.FloorCount())

	// 1. Plan areas
	footprint := glazing.Bounds().Footprint()
	facadePlan := facade.Bounds().Footprint()

	// 2. Wall areas, per floor perimeter times height
	glazed := perimeter(glazing) * m.GlassHeight * floors
	opaque := perimeter(facade) * m.FacadeHeight * floors
	wwr := 0.0
	if glazed+opaque > 0 {
		wwr = glazed / (glazed + opaque)
	}

	q := &Quantities{
		Floors:            m.FloorCount(),
		FootprintArea:     footprint,
		GrossFloorArea:    GrossFloorArea(p),
		FacadePlanArea:    facadePlan,
		GlassHeight:       m.GlassHeight,
		FacadeHeight:      m.FacadeHeight,
		StoreyHeight:      m.GlassHeight + m.FacadeHeight,
		FloorSpacing:      m.Dimensions.FloorSpacing,
		BuildingHeight:    m.Height(),
		GlazedWallArea:    glazed,
		OpaqueWallArea:    opaque,
		WindowToWallRatio: wwr,
		GlazingVolume:     glazing.Volume() * floors,
		FacadeVolume:      facade.Volume() * floors,
	}

	// 3. Analytical validation
	validateAnalytical(m, q, report)

	return q, report
}

func perimeter(s massing.Solid) float64 {
	return 2 * (s.Size.X + s.Size.Y)
}
