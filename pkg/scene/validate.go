package scene

import (
	"fmt"

	"github.com/ChicagoDave/massing/pkg/validation"
)

// ValidateGraph performs structural validation on a scene graph.
// It checks entity integrity, group index consistency, floor count and
// bounds enclosure.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelGeometry,
			Message: "scene graph is nil",
		})
		return r
	}

	validateEntityIDs(g, r)
	validateGroupIndices(g, r)
	validateGroupMembership(g, r)
	validateFloorCount(g, r)
	validateBoundsEnclosure(g, r)
	validateEntityDimensions(g, r)

	return r
}

func validateEntityIDs(g *Graph, r *validation.Report) {
	seen := make(map[string]int, len(g.Entities))

	for i, e := range g.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("entity at index %d has empty ID", i),
				Field:       fmt.Sprintf("entities[%d].id", i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("duplicate entity ID %q at indices %d and %d", e.ID, prev, i),
				Field:       fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

// groupIndex is one named axis of Groups keyed by string.
type groupIndex struct {
	name    string
	members map[string][]string
}

func (g *Graph) indices() []groupIndex {
	types := make(map[string][]string, len(g.Groups.EntityTypes))
	for k, v := range g.Groups.EntityTypes {
		types[string(k)] = v
	}
	return []groupIndex{
		{"floors", g.Groups.Floors},
		{"materials", g.Groups.Materials},
		{"entity_types", types},
	}
}

func validateGroupIndices(g *Graph, r *validation.Report) {
	entityIDs := make(map[string]bool, len(g.Entities))
	for _, e := range g.Entities {
		entityIDs[e.ID] = true
	}

	for _, idx := range g.indices() {
		for name, ids := range idx.members {
			for _, id := range ids {
				if !entityIDs[id] {
					r.AddError(validation.Result{
						Level:       validation.LevelGeometry,
						Message:     fmt.Sprintf("group %s.%s references non-existent entity %q", idx.name, name, id),
						Field:       fmt.Sprintf("groups.%s.%s", idx.name, name),
						ActualValue: id,
						Expected:    "existing entity ID",
					})
				}
			}
		}
	}
}

func validateGroupMembership(g *Graph, r *validation.Report) {
	sets := make(map[string]map[string]map[string]bool)
	for _, idx := range g.indices() {
		byName := make(map[string]map[string]bool, len(idx.members))
		for name, ids := range idx.members {
			m := make(map[string]bool, len(ids))
			for _, id := range ids {
				m[id] = true
			}
			byName[name] = m
		}
		sets[idx.name] = byName
	}

	check := func(e Entity, index, key string, required bool) {
		if key == "" {
			if required {
				r.AddError(validation.Result{
					Level:   validation.LevelGeometry,
					Message: fmt.Sprintf("entity %q has no %s", e.ID, index),
					Field:   "entities." + e.ID,
				})
			}
			return
		}
		members, ok := sets[index][key]
		if !ok {
			r.AddError(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("entity %q has %s %q but no such group exists", e.ID, index, key),
				Field:       "groups." + index,
				ActualValue: key,
			})
			return
		}
		if !members[e.ID] {
			r.AddError(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("entity %q has %s %q but is not in that group", e.ID, index, key),
				Field:       fmt.Sprintf("groups.%s.%s", index, key),
				ActualValue: e.ID,
			})
		}
	}

	for _, e := range g.Entities {
		if e.ID == "" {
			continue
		}
		check(e, "entity_types", string(e.Type), true)
		check(e, "materials", e.Material, false)
		check(e, "floors", e.Floor, false)
	}
}

func validateFloorCount(g *Graph, r *validation.Report) {
	if got := len(g.Groups.Floors); got != g.Metadata.Floors {
		r.AddError(validation.Result{
			Level:       validation.LevelGeometry,
			Message:     fmt.Sprintf("scene has %d floor groups but metadata declares %d floors", got, g.Metadata.Floors),
			Field:       "groups.floors",
			ActualValue: got,
			Expected:    fmt.Sprint(g.Metadata.Floors),
		})
	}
}

func validateBoundsEnclosure(g *Graph, r *validation.Report) {
	b := g.Metadata.Bounds
	const tolerance = 1e-6

	for _, e := range g.Entities {
		lo, hi := extent(e)
		if lo.X < b.Min.X-tolerance || lo.Y < b.Min.Y-tolerance || lo.Z < b.Min.Z-tolerance ||
			hi.X > b.Max.X+tolerance || hi.Y > b.Max.Y+tolerance || hi.Z > b.Max.Z+tolerance {
			r.AddWarning(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("entity %q extent %v..%v outside scene bounds %v..%v", e.ID, lo, hi, b.Min, b.Max),
				Field:       "metadata.bounds",
				ActualValue: e.Position,
			})
			break
		}
	}
}

func validateEntityDimensions(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		if e.Dimensions.X <= 0 || e.Dimensions.Y <= 0 || e.Dimensions.Z <= 0 {
			r.AddWarning(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("entity %q has zero or negative dimension (%.2f, %.2f, %.2f)", e.ID, e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				Field:       fmt.Sprintf("entities.%s.dimensions", e.ID),
				ActualValue: fmt.Sprintf("%.2f x %.2f x %.2f", e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				Expected:    "all dimensions > 0",
			})
		}
	}
}
