package cost

import "github.com/ChicagoDave/massing/pkg/spec"

// Unit cost constants for the local estimate, in $.
const (
	SlabCostPerM2       = 150.0 // $/m² per structural level
	SubstructurePerM2   = 400.0 // $/m² of footprint
	CurtainWallPerM2    = 900.0 // $/m² of glazed wall
	OpaqueFacadePerM2   = 450.0 // $/m² of opaque facade
	DefaultInterestRate = 0.05
	DefaultDebtTermYrs  = 30
)

// FitOutCostPerM2 is the fit-out rate by typology, $/m² GIA.
var FitOutCostPerM2 = map[spec.Typology]float64{
	spec.TypologyOffice:      2500,
	spec.TypologyResidential: 2000,
	spec.TypologyEducation:   2800,
	spec.TypologyRetail:      1800,
	spec.TypologyHotel:       2600,
	spec.TypologyMixedUse:    2300,
}

// MaterialFactor scales structure and envelope cost by material choice.
var MaterialFactor = map[spec.MaterialChoice]float64{
	spec.MaterialsLowCarbon:    1.08,
	spec.MaterialsConventional: 1.00,
	spec.MaterialsHighCarbon:   0.95,
}
