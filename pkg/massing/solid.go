// Package massing builds the solid tree for a parametric building:
// stacked floor units of glazing and facade replicated up the Z axis.
package massing

import (
	"iter"
	"math"
	"strings"

	"github.com/ChicagoDave/massing/pkg/geo"
	"github.com/ChicagoDave/massing/pkg/spec"
)

// Material tags a solid with a render color and opacity.
type Material struct {
	Name    string   `json:"name"`
	Color   spec.RGB `json:"color"`
	Opacity float64  `json:"opacity"`
}

// Glass is the fixed translucent-blue glazing material.
var Glass = Material{
	Name:    "glass",
	Color:   spec.RGB{R: 0x4D, G: 0xA6, B: 0xFF},
	Opacity: 0.5,
}

// FacadeMaterial returns the opaque facade material in the given color.
func FacadeMaterial(c spec.RGB) Material {
	return Material{Name: "facade", Color: c, Opacity: 1}
}

// Object is any node of the solid tree.
type Object interface {
	// Solids yields every leaf solid with its absolute offset. Solid
	// names are prefixed with the names of enclosing groups.
	Solids() iter.Seq[Solid]
	// Bounds returns the axis-aligned box around all leaf solids.
	Bounds() geo.Box
}

// Solid is an axis-aligned box centred on Offset.
type Solid struct {
	Name     string   `json:"name"`
	Size     geo.Vec3 `json:"size"`
	Offset   geo.Vec3 `json:"offset"`
	Material Material `json:"material"`
}

// NewSolid returns a solid at the origin. Negative or NaN sizes are
// clamped to zero.
func NewSolid(name string, size geo.Vec3, m Material) Solid {
	return Solid{
		Name:     name,
		Size:     geo.V(nonNegative(size.X), nonNegative(size.Y), nonNegative(size.Z)),
		Material: m,
	}
}

// Translate returns a copy of s moved by v.
func (s Solid) Translate(v geo.Vec3) Solid {
	s.Offset = s.Offset.Add(v)
	return s
}

func (s Solid) Solids() iter.Seq[Solid] {
	return func(yield func(Solid) bool) {
		yield(s)
	}
}

func (s Solid) Bounds() geo.Box {
	return geo.CenteredBox(s.Offset, s.Size)
}

// Volume returns the box volume.
func (s Solid) Volume() float64 {
	return s.Size.X * s.Size.Y * s.Size.Z
}

// Group is a collection of objects moved together.
type Group struct {
	Name     string   `json:"name"`
	Offset   geo.Vec3 `json:"offset"`
	Children []Object `json:"-"`
}

// NewGroup returns a group of the given children at the origin.
func NewGroup(name string, children ...Object) *Group {
	return &Group{Name: name, Children: children}
}

// Translate returns a copy of g moved by v. Children are shared.
func (g *Group) Translate(v geo.Vec3) *Group {
	return &Group{Name: g.Name, Offset: g.Offset.Add(v), Children: g.Children}
}

// PathSeparator joins group and solid names in flattened solid names.
const PathSeparator = "/"

// SplitName splits a flattened name such as "floor-01/glazing" into its
// enclosing group path and leaf. A name without a separator has no group.
func SplitName(name string) (group, leaf string) {
	i := strings.LastIndex(name, PathSeparator)
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+len(PathSeparator):]
}

// Rename returns a copy of g with a new name. Children are shared.
func (g *Group) Rename(name string) *Group {
	return &Group{Name: name, Offset: g.Offset, Children: g.Children}
}

func (g *Group) Solids() iter.Seq[Solid] {
	return func(yield func(Solid) bool) {
		for _, child := range g.Children {
			for s := range child.Solids() {
				s = s.Translate(g.Offset)
				if g.Name != "" {
					s.Name = g.Name + PathSeparator + s.Name
				}
				if !yield(s) {
					return
				}
			}
		}
	}
}

func (g *Group) Bounds() geo.Box {
	return boundsOf(g)
}

func boundsOf(o Object) geo.Box {
	b := geo.EmptyBox()
	for s := range o.Solids() {
		b = b.Union(s.Bounds())
	}
	return b
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
