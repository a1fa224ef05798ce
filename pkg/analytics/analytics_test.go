package analytics

import (
	"errors"
	"math"
	"testing"

	"github.com/ChicagoDave/massing/pkg/carbon"
	"github.com/ChicagoDave/massing/pkg/massing"
	"github.com/ChicagoDave/massing/pkg/spec"
)

func resolveDefault(t *testing.T, p spec.BuildingParameters, d massing.Dimensions) *Quantities {
	t.Helper()
	q, _ := Resolve(p, massing.Compose(p, d))
	return q
}

func TestGrossFloorArea(t *testing.T) {
	p := spec.DefaultParameters()
	if got := GrossFloorArea(p); got != 19200 {
		t.Errorf("GrossFloorArea(30x40x16) = %v, want 19200", got)
	}

	p.Floors = 0
	if got := GrossFloorArea(p); got != 0 {
		t.Errorf("GrossFloorArea with 0 floors = %v, want 0", got)
	}

	p.Floors = -2
	if got := GrossFloorArea(p); got != 0 {
		t.Errorf("GrossFloorArea with negative floors = %v, want 0", got)
	}
}

func TestResolveDefaultBuilding(t *testing.T) {
	p := spec.DefaultParameters()
	q := resolveDefault(t, p, massing.DefaultDimensions())

	if q.Floors != 16 {
		t.Errorf("Floors = %d, want 16", q.Floors)
	}
	if q.FootprintArea != 1200 {
		t.Errorf("FootprintArea = %v, want 1200", q.FootprintArea)
	}
	if q.FacadePlanArea != 31*41 {
		t.Errorf("FacadePlanArea = %v, want %v", q.FacadePlanArea, 31*41)
	}
	if math.Abs(q.StoreyHeight-2.8) > 1e-9 {
		t.Errorf("StoreyHeight = %v, want 2.8", q.StoreyHeight)
	}
	if math.Abs(q.BuildingHeight-47.9) > 1e-9 {
		t.Errorf("BuildingHeight = %v, want 47.9", q.BuildingHeight)
	}

	// 140 m perimeter * 1.6 m * 16 floors
	if math.Abs(q.GlazedWallArea-3584) > 1e-6 {
		t.Errorf("GlazedWallArea = %v, want 3584", q.GlazedWallArea)
	}
	if q.WindowToWallRatio <= 0 || q.WindowToWallRatio >= 1 {
		t.Errorf("WindowToWallRatio = %v, want in (0,1)", q.WindowToWallRatio)
	}
}

func TestResolveFlagsStoreyHeightMismatch(t *testing.T) {
	p := spec.DefaultParameters()
	_, report := Resolve(p, massing.Compose(p, massing.DefaultDimensions()))

	if !report.Valid {
		t.Errorf("mismatch should be a warning, not an error: %v", report.Errors)
	}
	found := false
	for _, w := range report.Warnings {
		if w.Field == "massing.base_facade_height" {
			found = true
		}
	}
	if !found {
		t.Error("expected storey height warning for default dimensions")
	}

	d := massing.DefaultDimensions()
	d.BaseFacadeHeight = d.BaseGlassHeight
	_, report = Resolve(p, massing.Compose(p, d))
	for _, w := range report.Warnings {
		if w.Field == "massing.base_facade_height" {
			t.Error("consistent dimensions should not be flagged")
		}
	}
}

func TestResolveFlagsOverlappingFloors(t *testing.T) {
	p := spec.DefaultParameters()
	p.GlazingRatio = 90
	_, report := Resolve(p, massing.Compose(p, massing.DefaultDimensions()))

	found := false
	for _, w := range report.Warnings {
		if w.ConflictWith == "massing.floor_spacing" {
			found = true
		}
	}
	if !found {
		t.Error("expected overlap warning at 90% glazing")
	}

	p.GlazingRatio = 40
	_, report = Resolve(p, massing.Compose(p, massing.DefaultDimensions()))
	for _, w := range report.Warnings {
		if w.ConflictWith == "massing.floor_spacing" {
			t.Errorf("unexpected overlap warning at 40%%: %s", w.Message)
		}
	}
}

func TestResolveHighGlazingInfo(t *testing.T) {
	p := spec.DefaultParameters()
	p.GlazingRatio = 95
	d := massing.DefaultDimensions()
	d.BaseFacadeHeight = d.BaseGlassHeight
	_, report := Resolve(p, massing.Compose(p, d))

	if len(report.Info) == 0 {
		t.Error("expected window-to-wall info at 95% glazing")
	}
}

func TestResolveEmptyBuilding(t *testing.T) {
	p := spec.DefaultParameters()
	p.Floors = 0
	q, report := Resolve(p, massing.Compose(p, massing.DefaultDimensions()))

	if q.GrossFloorArea != 0 || q.BuildingHeight != 0 || q.GlazedWallArea != 0 {
		t.Errorf("empty building should have zero quantities: %+v", q)
	}
	if q.WindowToWallRatio != 0 {
		t.Errorf("WindowToWallRatio = %v, want 0", q.WindowToWallRatio)
	}
	if report == nil {
		t.Fatal("expected report")
	}
}

func TestCarbonItemsAvailable(t *testing.T) {
	items := CarbonItems(carbon.Outcome{
		Status:   carbon.StatusAvailable,
		Estimate: &carbon.Estimate{CO2ePerSquareMeter: 42.0, WarmingPotential: 3.1},
	})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Label != LabelEmbodiedCarbon || *items[0].Value != 42.0 {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Label != LabelWarmingPotential || *items[1].Value != 3.1 {
		t.Errorf("second item = %+v", items[1])
	}
}

func TestCarbonItemsPlaceholders(t *testing.T) {
	items := CarbonItems(carbon.Outcome{Status: carbon.StatusUnavailable})
	if len(items) != 1 || items[0].Label != LabelNoToken || items[0].Value != nil {
		t.Errorf("unavailable items = %+v", items)
	}

	err := errors.New("token exchange failed: status 500")
	items = CarbonItems(carbon.Outcome{Status: carbon.StatusFailed, Reason: err.Error(), Err: err})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Label != "Carbon estimate failed: token exchange failed: status 500" {
		t.Errorf("failed label = %q", items[0].Label)
	}
}

func TestQuantityItems(t *testing.T) {
	q := resolveDefault(t, spec.DefaultParameters(), massing.DefaultDimensions())
	items := QuantityItems(q)
	if items[0].Label != "Gross Internal Floor Area" || *items[0].Value != 19200 {
		t.Errorf("first item = %+v", items[0])
	}
	for _, it := range items {
		if it.Value == nil {
			t.Errorf("quantity item %q has no value", it.Label)
		}
	}
}
