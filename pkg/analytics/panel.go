package analytics

import (
	"github.com/ChicagoDave/massing/pkg/carbon"
)

// Carbon panel labels.
const (
	LabelEmbodiedCarbon   = "Embodied Carbon (kgCO2e/m² GIA)"
	LabelWarmingPotential = "Warming Potential (°C)"
	LabelNoToken          = "No access token provided"
	LabelEstimateFailed   = "Carbon estimate failed"
)

// QuantityItems lists the headline quantities for display.
func QuantityItems(q *Quantities) []DataItem {
	return []DataItem{
		NewItem("Gross Internal Floor Area", q.GrossFloorArea, "m²"),
		NewItem("Footprint", q.FootprintArea, "m²"),
		NewItem("Building Height", q.BuildingHeight, "m"),
		NewItem("Storey Height", q.StoreyHeight, "m"),
		NewItem("Glazed Wall Area", q.GlazedWallArea, "m²"),
		NewItem("Window-to-Wall Ratio", q.WindowToWallRatio, ""),
	}
}

// CarbonItems turns an estimator outcome into panel items: two values
// when available, otherwise a single placeholder.
func CarbonItems(o carbon.Outcome) []DataItem {
	switch {
	case o.Available():
		return []DataItem{
			NewItem(LabelEmbodiedCarbon, o.Estimate.CO2ePerSquareMeter, ""),
			NewItem(LabelWarmingPotential, o.Estimate.WarmingPotential, ""),
		}
	case o.Status == carbon.StatusFailed:
		label := LabelEstimateFailed
		if o.Reason != "" {
			label += ": " + o.Reason
		}
		return []DataItem{Placeholder(label)}
	default:
		return []DataItem{Placeholder(LabelNoToken)}
	}
}
