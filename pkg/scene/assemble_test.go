package scene

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/ChicagoDave/massing/pkg/massing"
	"github.com/ChicagoDave/massing/pkg/spec"
)

func assembleTestGraph(t *testing.T, p spec.BuildingParameters) *Graph {
	t.Helper()
	return Assemble("test", massing.Compose(p, massing.DefaultDimensions()))
}

func TestAssembleProducesGraph(t *testing.T) {
	g := assembleTestGraph(t, spec.DefaultParameters())
	if len(g.Entities) != 32 {
		t.Fatalf("expected 32 entities for 16 floors, got %d", len(g.Entities))
	}
	if g.Metadata.Floors != 16 {
		t.Errorf("metadata floors = %d, want 16", g.Metadata.Floors)
	}
	if g.Metadata.BuildID == "" {
		t.Error("expected build ID")
	}
	if len(g.Groups.Floors) != 16 {
		t.Errorf("floor groups = %d, want 16", len(g.Groups.Floors))
	}
	if len(g.Groups.EntityTypes[EntityGlazing]) != 16 || len(g.Groups.EntityTypes[EntityFacade]) != 16 {
		t.Errorf("entity type groups = %v", g.Groups.EntityTypes)
	}
	if len(g.Groups.Materials["glass"]) != 16 {
		t.Errorf("glass material group = %d, want 16", len(g.Groups.Materials["glass"]))
	}
}

func TestAssembleYUp(t *testing.T) {
	p := spec.DefaultParameters()
	p.Floors = 2
	g := assembleTestGraph(t, p)

	e, ok := g.Entity("floor-02/facade")
	if !ok {
		t.Fatal("floor-02/facade not found")
	}
	// Facade of the second floor is centred at z=3+1.5 with height 1.2.
	if math.Abs(e.Position.Y-3.9) > 1e-9 {
		t.Errorf("facade base Y = %v, want 3.9", e.Position.Y)
	}
	if e.Dimensions.X != 31 || e.Dimensions.Z != 41 {
		t.Errorf("facade plan = %vx%v, want 31x41", e.Dimensions.X, e.Dimensions.Z)
	}
	if math.Abs(e.Dimensions.Y-1.2) > 1e-9 {
		t.Errorf("facade height = %v, want 1.2", e.Dimensions.Y)
	}
	if e.Color != p.FacadeColor.Hex() || e.Opacity != 1 {
		t.Errorf("facade color/opacity = %s/%v", e.Color, e.Opacity)
	}
	if e.Floor != "floor-02" || e.Type != EntityFacade {
		t.Errorf("facade floor/type = %s/%s", e.Floor, e.Type)
	}

	glass, _ := g.Entity("floor-01/glazing")
	if glass.Opacity != 0.5 || glass.Color != "#4DA6FF" {
		t.Errorf("glazing material = %s/%v", glass.Color, glass.Opacity)
	}
}

func TestAssembleBounds(t *testing.T) {
	g := assembleTestGraph(t, spec.DefaultParameters())
	b := g.Metadata.Bounds

	if math.Abs(b.Min.Y-(-0.8)) > 1e-9 || math.Abs(b.Max.Y-47.1) > 1e-9 {
		t.Errorf("vertical bounds = [%v, %v], want [-0.8, 47.1]", b.Min.Y, b.Max.Y)
	}
	if math.Abs(b.Max.X-b.Min.X-31) > 1e-9 || math.Abs(b.Max.Z-b.Min.Z-41) > 1e-9 {
		t.Errorf("plan bounds = %v..%v", b.Min, b.Max)
	}
}

func TestAssembleEmptyBuilding(t *testing.T) {
	p := spec.DefaultParameters()
	p.Floors = 0
	g := assembleTestGraph(t, p)

	if len(g.Entities) != 0 {
		t.Errorf("expected no entities, got %d", len(g.Entities))
	}
	if g.Metadata.Bounds != (BoundingBox{}) {
		t.Errorf("empty bounds = %+v", g.Metadata.Bounds)
	}
	if _, err := json.Marshal(g); err != nil {
		t.Errorf("empty graph must marshal: %v", err)
	}
}
