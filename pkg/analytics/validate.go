package analytics

import (
	"fmt"

	"github.com/ChicagoDave/massing/pkg/massing"
	"github.com/ChicagoDave/massing/pkg/validation"
)

// High glazing fractions are flagged for solar gain.
const maxComfortableWWR = 0.6

// validateAnalytical runs the checks that need composed geometry.
func validateAnalytical(m *massing.Massing, q *Quantities, report *validation.Report) {
	validateStoreyHeight(m, report)
	validateFloorStacking(m, report)
	validateWindowToWall(q, report)
}

func validateStoreyHeight(m *massing.Massing, report *validation.Report) {
	d := m.Dimensions
	if d.StoreyHeightConstant() {
		return
	}
	report.AddWarning(validation.Result{
		Level:       validation.LevelAnalytical,
		Message:     fmt.Sprintf("storey height varies with glazing ratio (glass base %.2f m, facade base %.2f m)", d.BaseGlassHeight, d.BaseFacadeHeight),
		Field:       "massing.base_facade_height",
		ActualValue: d.BaseFacadeHeight,
		Expected:    fmt.Sprintf("%.2f", d.BaseGlassHeight),
		Suggestions: []string{
			"Set base_glass_height and base_facade_height to the same value for a constant storey height",
		},
	})
}

func validateFloorStacking(m *massing.Massing, report *validation.Report) {
	unit := m.Floor.Bounds()
	if unit.IsEmpty() {
		return
	}
	extent := unit.Size().Z
	spacing := m.Dimensions.FloorSpacing
	if m.FloorCount() > 1 && extent > spacing+1e-9 {
		report.AddWarning(validation.Result{
			Level:        validation.LevelAnalytical,
			Message:      fmt.Sprintf("floor unit is %.2f m tall but floors are %.2f m apart, adjacent floors overlap", extent, spacing),
			Field:        "glazing_ratio",
			ActualValue:  extent,
			Expected:     fmt.Sprintf("<= %.2f m", spacing),
			ConflictWith: "massing.floor_spacing",
			Suggestions: []string{
				"Reduce glazing_ratio",
				fmt.Sprintf("Increase floor_spacing to at least %.2f", extent),
			},
		})
	}
}

func validateWindowToWall(q *Quantities, report *validation.Report) {
	if q.WindowToWallRatio > maxComfortableWWR {
		report.AddInfo(validation.Result{
			Level:       validation.LevelAnalytical,
			Message:     fmt.Sprintf("window-to-wall ratio %.2f is above %.2f; expect high solar gain", q.WindowToWallRatio, maxComfortableWWR),
			Field:       "glazing_ratio",
			ActualValue: q.WindowToWallRatio,
			Expected:    fmt.Sprintf("<= %.2f", maxComfortableWWR),
		})
	}
}
