// Package scene flattens a solid tree into the Y-up entity list the
// viewer renders.
package scene

import "github.com/ChicagoDave/massing/pkg/geo"

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityGlazing EntityType = "glazing"
	EntityFacade  EntityType = "facade"
	EntitySolid   EntityType = "solid"
)

// Vec3 is a 3D vector in viewer space (Y up).
type Vec3 = geo.Vec3

// BoundingBox defines an axis-aligned bounding box.
type BoundingBox struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Entity is a single box in the scene graph. Position is the centre of
// the base face; the box extends Dimensions.Y upwards from it.
type Entity struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	Position   Vec3           `json:"position"`
	Dimensions Vec3           `json:"dimensions"`
	Rotation   [4]float64     `json:"rotation"` // quaternion [x, y, z, w]
	Material   string         `json:"material"`
	Color      string         `json:"color"`
	Opacity    float64        `json:"opacity"`
	Floor      string         `json:"floor,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Graph is the complete scene graph for one build.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
	Groups   Groups   `json:"groups"`
}

// Metadata holds scene-level information.
type Metadata struct {
	BuildID     string      `json:"build_id"`
	Name        string      `json:"name,omitempty"`
	GeneratedAt string      `json:"generated_at"`
	Floors      int         `json:"floors"`
	Bounds      BoundingBox `json:"bounds"`
}

// Groups organizes entity IDs by various axes for fast filtering.
type Groups struct {
	Floors      map[string][]string     `json:"floors"`
	Materials   map[string][]string     `json:"materials"`
	EntityTypes map[EntityType][]string `json:"entity_types"`
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: []Entity{},
		Groups: Groups{
			Floors:      make(map[string][]string),
			Materials:   make(map[string][]string),
			EntityTypes: make(map[EntityType][]string),
		},
	}
}

// Entity returns the entity with the given ID.
func (g *Graph) Entity(id string) (Entity, bool) {
	for _, e := range g.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}
