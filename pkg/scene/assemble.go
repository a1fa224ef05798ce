package scene

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ChicagoDave/massing/pkg/massing"
)

// Assemble converts a composed building into a scene graph. Model
// space is Z-up; the graph is Y-up with model Y mapped to -Z.
func Assemble(name string, m *massing.Massing) *Graph {
	g := NewGraph()

	for s := range m.Building.Solids() {
		addEntity(g, entityFromSolid(s))
	}

	g.Metadata = Metadata{
		BuildID:     uuid.NewString(),
		Name:        name,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Floors:      m.FloorCount(),
		Bounds:      computeBounds(g.Entities),
	}

	return g
}

func entityFromSolid(s massing.Solid) Entity {
	floor, leaf := massing.SplitName(s.Name)

	eType := EntitySolid
	switch leaf {
	case massing.GlazingName:
		eType = EntityGlazing
	case massing.FacadeName:
		eType = EntityFacade
	}

	return Entity{
		ID:   s.Name,
		Type: eType,
		Position: Vec3{
			X: s.Offset.X,
			Y: s.Offset.Z - s.Size.Z/2,
			Z: -s.Offset.Y,
		},
		Dimensions: Vec3{
			X: s.Size.X,
			Y: s.Size.Z,
			Z: s.Size.Y,
		},
		Rotation: identityQuat(),
		Material: s.Material.Name,
		Color:    s.Material.Color.Hex(),
		Opacity:  s.Material.Opacity,
		Floor:    floor,
		Metadata: map[string]any{"volume_m3": s.Volume()},
	}
}

// addEntity appends an entity and updates all group indices.
func addEntity(g *Graph, e Entity) {
	g.Entities = append(g.Entities, e)
	id := e.ID

	if e.Floor != "" {
		g.Groups.Floors[e.Floor] = append(g.Groups.Floors[e.Floor], id)
	}
	if e.Material != "" {
		g.Groups.Materials[e.Material] = append(g.Groups.Materials[e.Material], id)
	}
	g.Groups.EntityTypes[e.Type] = append(g.Groups.EntityTypes[e.Type], id)
}

// computeBounds calculates the AABB of all entities.
func computeBounds(entities []Entity) BoundingBox {
	if len(entities) == 0 {
		return BoundingBox{}
	}
	minV := Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	maxV := Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}

	for _, e := range entities {
		lo, hi := extent(e)
		minV = minV.Min(lo)
		maxV = maxV.Max(hi)
	}
	return BoundingBox{Min: minV, Max: maxV}
}

// extent returns the min and max corners of e.
func extent(e Entity) (lo, hi Vec3) {
	halfX := e.Dimensions.X / 2
	halfZ := e.Dimensions.Z / 2
	lo = Vec3{X: e.Position.X - halfX, Y: e.Position.Y, Z: e.Position.Z - halfZ}
	hi = Vec3{X: e.Position.X + halfX, Y: e.Position.Y + e.Dimensions.Y, Z: e.Position.Z + halfZ}
	return lo, hi
}

func identityQuat() [4]float64 {
	return [4]float64{0, 0, 0, 1}
}
