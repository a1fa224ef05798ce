package scene2d

import (
	"iter"
	"math"
	"time"

	"github.com/ChicagoDave/massing/pkg/geo"
	"github.com/ChicagoDave/massing/pkg/massing"
)

// axis selects the two model axes a view projects onto.
type axis func(geo.Vec3) [2]float64

var (
	frontAxes axis = func(v geo.Vec3) [2]float64 { return [2]float64{v.X, v.Z} }
	sideAxes  axis = func(v geo.Vec3) [2]float64 { return [2]float64{v.Y, v.Z} }
	planAxes  axis = func(v geo.Vec3) [2]float64 { return [2]float64{v.X, v.Y} }
)

// Assemble2D projects a composed building into front and side
// elevations and a plan. Elevations label every floor; the plan shows
// only the first floor unit since every floor is identical in plan.
func Assemble2D(name string, m *massing.Massing) *Scene2D {
	size := m.Bounds().Size()
	return &Scene2D{
		Metadata: Metadata{
			Name:        name,
			Floors:      m.FloorCount(),
			HeightM:     size.Z,
			WidthM:      size.X,
			DepthM:      size.Y,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Front: assembleView("front", m.Building.Solids(), frontAxes, floorLabels(m)),
		Side:  assembleView("side", m.Building.Solids(), sideAxes, nil),
		Plan:  assembleView("plan", m.Floor.Solids(), planAxes, nil),
	}
}

func assembleView(name string, solids iter.Seq[massing.Solid], project axis, labels []Label2D) View {
	v := View{Name: name, Rects: []Rect2D{}, Labels: labels}
	minV := [2]float64{math.MaxFloat64, math.MaxFloat64}
	maxV := [2]float64{-math.MaxFloat64, -math.MaxFloat64}

	for s := range solids {
		b := s.Bounds()
		lo, hi := project(b.Min), project(b.Max)
		_, leaf := massing.SplitName(s.Name)
		v.Rects = append(v.Rects, Rect2D{
			ID:      s.Name,
			Type:    leaf,
			Min:     lo,
			Max:     hi,
			Color:   s.Material.Color.Hex(),
			Opacity: s.Material.Opacity,
		})
		for i := range 2 {
			minV[i] = math.Min(minV[i], lo[i])
			maxV[i] = math.Max(maxV[i], hi[i])
		}
	}

	if len(v.Rects) > 0 {
		v.Min, v.Max = minV, maxV
	}
	return v
}

// floorLabels places a floor number to the right of each floor unit.
func floorLabels(m *massing.Massing) []Label2D {
	labels := make([]Label2D, 0, m.FloorCount())
	for _, g := range m.Building.Copies() {
		b := g.Bounds()
		labels = append(labels, Label2D{
			Text:     g.Name,
			Position: [2]float64{b.Max.X, b.Center().Z},
		})
	}
	return labels
}
