package validation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/massing/pkg/spec"
)

// ValidateParameters performs input validation on a building parameter set.
// It checks ranges and enumerations before any geometry is generated.
func ValidateParameters(p spec.BuildingParameters) *Report {
	r := NewReport()

	validateFootprint(p, r)
	validateFloors(p, r)
	validateGlazing(p, r)
	validateLabels(p, r)

	return r
}

func validateFootprint(p spec.BuildingParameters, r *Report) {
	dims := []struct {
		field string
		value float64
	}{
		{"width", p.Width},
		{"length", p.Length},
	}
	for _, d := range dims {
		if math.IsNaN(d.value) || math.IsInf(d.value, 0) {
			r.AddError(Result{
				Level:       LevelParameters,
				Message:     fmt.Sprintf("%s must be a finite number", d.field),
				Field:       d.field,
				ActualValue: fmt.Sprint(d.value),
				Expected:    "finite > 0",
			})
			continue
		}
		if d.value <= 0 {
			r.AddError(Result{
				Level:       LevelParameters,
				Message:     fmt.Sprintf("%s must be greater than 0", d.field),
				Field:       d.field,
				ActualValue: d.value,
				Expected:    "> 0",
			})
		}
	}
}

func validateFloors(p spec.BuildingParameters, r *Report) {
	if p.Floors < 1 {
		r.AddError(Result{
			Level:       LevelParameters,
			Message:     "floors must be at least 1",
			Field:       "floors",
			ActualValue: p.Floors,
			Expected:    ">= 1",
		})
		return
	}

	if p.Floors > spec.MaxComposeFloors {
		r.AddError(Result{
			Level:       LevelParameters,
			Message:     fmt.Sprintf("floors %d exceeds the limit of %d", p.Floors, spec.MaxComposeFloors),
			Field:       "floors",
			ActualValue: p.Floors,
			Expected:    fmt.Sprintf("<= %d", spec.MaxComposeFloors),
		})
		return
	}

	if p.Floors < spec.MinFloors || p.Floors > spec.MaxFloors {
		r.AddWarning(Result{
			Level:       LevelParameters,
			Message:     fmt.Sprintf("floors %d is outside the form range (%d-%d)", p.Floors, spec.MinFloors, spec.MaxFloors),
			Field:       "floors",
			ActualValue: p.Floors,
			Expected:    fmt.Sprintf("%d-%d", spec.MinFloors, spec.MaxFloors),
		})
	}
}

func validateGlazing(p spec.BuildingParameters, r *Report) {
	g := p.GlazingRatio
	if math.IsNaN(g) || g <= 0 || g >= 100 {
		r.AddError(Result{
			Level:       LevelParameters,
			Message:     fmt.Sprintf("glazing_ratio %v must be strictly between 0 and 100", g),
			Field:       "glazing_ratio",
			ActualValue: fmt.Sprint(g),
			Expected:    "0 < ratio < 100",
		})
		return
	}

	if g < spec.MinGlazingRatio || g > spec.MaxGlazingRatio {
		r.AddWarning(Result{
			Level:       LevelParameters,
			Message:     fmt.Sprintf("glazing_ratio %.2f is outside the form range (%.0f-%.0f)", g, spec.MinGlazingRatio, spec.MaxGlazingRatio),
			Field:       "glazing_ratio",
			ActualValue: g,
			Expected:    fmt.Sprintf("%.0f-%.0f", spec.MinGlazingRatio, spec.MaxGlazingRatio),
		})
	}
}

func validateLabels(p spec.BuildingParameters, r *Report) {
	if !p.Typology.Valid() {
		names := make([]string, 0, len(spec.Typologies))
		for _, t := range spec.Typologies {
			names = append(names, string(t))
		}
		r.AddError(Result{
			Level:       LevelParameters,
			Message:     fmt.Sprintf("unknown typology %q", p.Typology),
			Field:       "typology",
			ActualValue: string(p.Typology),
			Suggestions: names,
		})
	}

	if !p.MaterialChoice.Valid() {
		names := make([]string, 0, len(spec.MaterialChoices))
		for _, m := range spec.MaterialChoices {
			names = append(names, string(m))
		}
		r.AddError(Result{
			Level:       LevelParameters,
			Message:     fmt.Sprintf("unknown material choice %q", p.MaterialChoice),
			Field:       "materials",
			ActualValue: string(p.MaterialChoice),
			Suggestions: names,
		})
	}
}
