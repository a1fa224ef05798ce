// Package cost produces a local construction-cost estimate from the
// derived quantities of a building.
package cost

import (
	"math"

	"github.com/ChicagoDave/massing/pkg/analytics"
	"github.com/ChicagoDave/massing/pkg/spec"
)

// Breakdown itemizes costs by category.
type Breakdown struct {
	Substructure float64 `json:"substructure"`
	Structure    float64 `json:"structure"`
	Glazing      float64 `json:"glazing"`
	Facade       float64 `json:"facade"`
	FitOut       float64 `json:"fit_out"`
	Total        float64 `json:"total"`
}

// Financing describes how construction is funded.
type Financing struct {
	InterestRate  float64 `json:"interest_rate"`
	DebtTermYears int     `json:"debt_term_years"`
}

// DefaultFinancing returns a 30-year loan at 5%.
func DefaultFinancing() Financing {
	return Financing{InterestRate: DefaultInterestRate, DebtTermYears: DefaultDebtTermYrs}
}

// Report is the complete cost output.
type Report struct {
	Estimate Breakdown `json:"estimate"`

	Summary struct {
		TotalConstruction float64 `json:"total_construction"`
		PerM2GIA          float64 `json:"per_m2_gia"`
		AnnualDebtService float64 `json:"annual_debt_service"`
	} `json:"summary"`
}

// Estimate computes the aggregate cost of the building described by p
// and q. Unknown typologies and materials fall back to the office rate
// and a neutral factor.
func Estimate(p spec.BuildingParameters, q *analytics.Quantities, f Financing) *Report {
	report := &Report{}

	rate, ok := FitOutCostPerM2[p.Typology]
	if !ok {
		rate = FitOutCostPerM2[spec.TypologyOffice]
	}
	factor, ok := MaterialFactor[p.MaterialChoice]
	if !ok {
		factor = 1
	}

	substructure := q.FacadePlanArea * SubstructurePerM2 * factor
	structure := q.GrossFloorArea * SlabCostPerM2 * factor
	glazing := q.GlazedWallArea * CurtainWallPerM2
	facade := q.OpaqueWallArea * OpaqueFacadePerM2 * factor
	fitOut := q.GrossFloorArea * rate

	report.Estimate = makeBreakdown(substructure, structure, glazing, facade, fitOut)

	total := report.Estimate.Total
	report.Summary.TotalConstruction = total
	if q.GrossFloorArea > 0 {
		report.Summary.PerM2GIA = total / q.GrossFloorArea
	}
	report.Summary.AnnualDebtService = computeAnnualDebtService(total, f.InterestRate, f.DebtTermYears)

	return report
}

// Items lists the summary figures for the data panel.
func (r *Report) Items() []analytics.DataItem {
	return []analytics.DataItem{
		analytics.NewItem("Construction Cost", math.Round(r.Summary.TotalConstruction), "$"),
		analytics.NewItem("Cost per m² GIA", math.Round(r.Summary.PerM2GIA), "$"),
	}
}

// computeAnnualDebtService uses the standard annuity formula.
// P * r(1+r)^n / ((1+r)^n - 1)
// At 0% interest, returns principal / term.
func computeAnnualDebtService(principal, rate float64, termYears int) float64 {
	if termYears <= 0 {
		return 0
	}
	if rate <= 0 {
		return principal / float64(termYears)
	}
	n := float64(termYears)
	factor := math.Pow(1+rate, n)
	return principal * rate * factor / (factor - 1)
}

func makeBreakdown(substructure, structure, glazing, facade, fitOut float64) Breakdown {
	return Breakdown{
		Substructure: substructure,
		Structure:    structure,
		Glazing:      glazing,
		Facade:       facade,
		FitOut:       fitOut,
		Total:        substructure + structure + glazing + facade + fitOut,
	}
}
