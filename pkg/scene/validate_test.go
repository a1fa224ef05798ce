package scene

import (
	"testing"

	"github.com/ChicagoDave/massing/pkg/massing"
	"github.com/ChicagoDave/massing/pkg/spec"
)

func validGraph() *Graph {
	g := NewGraph()
	g.Entities = []Entity{
		{
			ID:         "floor-01/glazing",
			Type:       EntityGlazing,
			Position:   Vec3{X: 0, Y: -0.8, Z: 0},
			Dimensions: Vec3{X: 30, Y: 1.6, Z: 40},
			Rotation:   [4]float64{0, 0, 0, 1},
			Material:   "glass",
			Floor:      "floor-01",
		},
		{
			ID:         "floor-01/facade",
			Type:       EntityFacade,
			Position:   Vec3{X: 0, Y: 0.9, Z: 0},
			Dimensions: Vec3{X: 31, Y: 1.2, Z: 41},
			Rotation:   [4]float64{0, 0, 0, 1},
			Material:   "facade",
			Floor:      "floor-01",
		},
	}
	g.Groups.Floors["floor-01"] = []string{"floor-01/glazing", "floor-01/facade"}
	g.Groups.Materials["glass"] = []string{"floor-01/glazing"}
	g.Groups.Materials["facade"] = []string{"floor-01/facade"}
	g.Groups.EntityTypes[EntityGlazing] = []string{"floor-01/glazing"}
	g.Groups.EntityTypes[EntityFacade] = []string{"floor-01/facade"}
	g.Metadata = Metadata{
		Floors: 1,
		Bounds: BoundingBox{
			Min: Vec3{X: -15.5, Y: -0.8, Z: -20.5},
			Max: Vec3{X: 15.5, Y: 2.1, Z: 20.5},
		},
	}
	return g
}

func TestValidateGraph_Valid(t *testing.T) {
	r := ValidateGraph(validGraph())
	if !r.Valid {
		t.Errorf("expected valid, got %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", r.Warnings)
	}
}

func TestValidateGraph_Nil(t *testing.T) {
	r := ValidateGraph(nil)
	if r.Valid {
		t.Error("expected invalid for nil graph")
	}
}

func TestValidateGraph_DuplicateID(t *testing.T) {
	g := validGraph()
	g.Entities = append(g.Entities, g.Entities[0])
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for duplicate ID")
	}
}

func TestValidateGraph_OrphanedGroupReference(t *testing.T) {
	g := validGraph()
	g.Groups.Floors["floor-01"] = append(g.Groups.Floors["floor-01"], "nonexistent")
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for orphaned group reference")
	}
}

func TestValidateGraph_MissingGroupMembership(t *testing.T) {
	g := validGraph()
	g.Groups.Materials["glass"] = []string{}
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for missing group membership")
	}
}

func TestValidateGraph_EmptyID(t *testing.T) {
	g := validGraph()
	g.Entities = append(g.Entities, Entity{
		ID:         "",
		Type:       EntitySolid,
		Dimensions: Vec3{X: 2, Y: 0.1, Z: 10},
		Rotation:   [4]float64{0, 0, 0, 1},
	})
	g.Groups.EntityTypes[EntitySolid] = []string{""}
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for empty ID")
	}
}

func TestValidateGraph_FloorCountMismatch(t *testing.T) {
	g := validGraph()
	g.Metadata.Floors = 2
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid when floor groups disagree with metadata")
	}
}

func TestValidateGraph_OutsideBounds(t *testing.T) {
	g := validGraph()
	g.Entities[1].Position.Y = 10
	r := ValidateGraph(g)
	if len(r.Warnings) == 0 {
		t.Error("expected bounds warning")
	}
}

func TestValidateGraph_ZeroDimensionWarning(t *testing.T) {
	g := validGraph()
	g.Entities[0].Dimensions.Y = 0
	r := ValidateGraph(g)
	if len(r.Warnings) == 0 {
		t.Error("expected warning for zero dimension")
	}
}

func TestValidateGraph_RealGraph(t *testing.T) {
	p := spec.DefaultParameters()
	g := Assemble("real", massing.Compose(p, massing.DefaultDimensions()))
	r := ValidateGraph(g)
	if !r.Valid {
		t.Errorf("real graph validation failed: %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
	t.Logf("validated %d entities: %s", len(g.Entities), r.Summary)
}
