package scene2d

import (
	"math"
	"testing"

	"github.com/ChicagoDave/massing/pkg/massing"
	"github.com/ChicagoDave/massing/pkg/spec"
)

func testScene(t *testing.T, floors int) *Scene2D {
	t.Helper()
	p := spec.DefaultParameters()
	p.Floors = floors
	return Assemble2D("test", massing.Compose(p, massing.DefaultDimensions()))
}

func TestAssemble2DMetadata(t *testing.T) {
	s := testScene(t, 16)

	if s.Metadata.Floors != 16 {
		t.Errorf("floors = %d, want 16", s.Metadata.Floors)
	}
	if math.Abs(s.Metadata.HeightM-47.9) > 1e-9 {
		t.Errorf("height = %v, want 47.9", s.Metadata.HeightM)
	}
	if s.Metadata.WidthM != 31 || s.Metadata.DepthM != 41 {
		t.Errorf("plan size = %vx%v, want 31x41", s.Metadata.WidthM, s.Metadata.DepthM)
	}
}

func TestAssemble2DFrontElevation(t *testing.T) {
	s := testScene(t, 3)
	front := s.Front

	if len(front.Rects) != 6 {
		t.Fatalf("front rects = %d, want 6", len(front.Rects))
	}
	if len(front.Labels) != 3 {
		t.Errorf("front labels = %d, want 3", len(front.Labels))
	}
	if front.Labels[2].Text != "floor-03" {
		t.Errorf("top label = %q, want floor-03", front.Labels[2].Text)
	}

	glazing := front.Rects[0]
	if glazing.Type != "glazing" {
		t.Errorf("first rect type = %q, want glazing", glazing.Type)
	}
	if glazing.Min[0] != -15 || glazing.Max[0] != 15 {
		t.Errorf("glazing horizontal extent = [%v, %v], want [-15, 15]", glazing.Min[0], glazing.Max[0])
	}
	if math.Abs(front.Width()-31) > 1e-9 {
		t.Errorf("front width = %v, want 31", front.Width())
	}
}

func TestAssemble2DSideAndPlan(t *testing.T) {
	s := testScene(t, 4)

	if math.Abs(s.Side.Width()-41) > 1e-9 {
		t.Errorf("side width = %v, want 41", s.Side.Width())
	}
	if math.Abs(s.Side.Height()-s.Front.Height()) > 1e-9 {
		t.Error("side and front elevations should share a height")
	}
	if len(s.Plan.Rects) != 2 {
		t.Errorf("plan rects = %d, want one floor unit", len(s.Plan.Rects))
	}
	if math.Abs(s.Plan.Width()-31) > 1e-9 || math.Abs(s.Plan.Height()-41) > 1e-9 {
		t.Errorf("plan = %vx%v, want 31x41", s.Plan.Width(), s.Plan.Height())
	}
}

func TestAssemble2DEmpty(t *testing.T) {
	s := testScene(t, 0)
	if len(s.Front.Rects) != 0 || len(s.Front.Labels) != 0 {
		t.Error("expected empty front view")
	}
	if s.Front.Width() != 0 || s.Front.Height() != 0 {
		t.Errorf("empty view extent = %vx%v", s.Front.Width(), s.Front.Height())
	}
	// Plan still shows the floor unit so the footprint is visible.
	if len(s.Plan.Rects) != 2 {
		t.Errorf("plan rects = %d, want 2", len(s.Plan.Rects))
	}
}
