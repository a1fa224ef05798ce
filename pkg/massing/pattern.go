package massing

import (
	"fmt"
	"iter"

	"github.com/ChicagoDave/massing/pkg/geo"
)

// LinearPattern replicates a group Count times along Direction with a
// fixed Spacing between consecutive copies. Copies are produced on
// demand; nothing is cached between calls.
type LinearPattern struct {
	Base      *Group   `json:"base"`
	Direction geo.Vec3 `json:"direction"`
	Spacing   float64  `json:"spacing"`
	Count     int      `json:"count"`
}

// NewLinearPattern returns a pattern of count copies of base. A
// negative count is treated as zero and the direction is normalized.
func NewLinearPattern(base *Group, direction geo.Vec3, count int, spacing float64) *LinearPattern {
	if count < 0 {
		count = 0
	}
	return &LinearPattern{
		Base:      base,
		Direction: direction.Normalize(),
		Spacing:   spacing,
		Count:     count,
	}
}

// Len returns the number of copies.
func (p *LinearPattern) Len() int {
	return p.Count
}

// Copy returns the i-th copy (0-based), translated i*Spacing along
// Direction and named "<base>-NN" with a 1-based index.
func (p *LinearPattern) Copy(i int) *Group {
	g := p.Base.Translate(p.Direction.Scale(float64(i) * p.Spacing))
	return g.Rename(fmt.Sprintf("%s-%02d", p.Base.Name, i+1))
}

// Copies yields each copy with its 0-based index.
func (p *LinearPattern) Copies() iter.Seq2[int, *Group] {
	return func(yield func(int, *Group) bool) {
		for i := range p.Count {
			if !yield(i, p.Copy(i)) {
				return
			}
		}
	}
}

// Expand materializes every copy.
func (p *LinearPattern) Expand() []*Group {
	groups := make([]*Group, 0, p.Count)
	for _, g := range p.Copies() {
		groups = append(groups, g)
	}
	return groups
}

func (p *LinearPattern) Solids() iter.Seq[Solid] {
	return func(yield func(Solid) bool) {
		for _, g := range p.Copies() {
			for s := range g.Solids() {
				if !yield(s) {
					return
				}
			}
		}
	}
}

func (p *LinearPattern) Bounds() geo.Box {
	return boundsOf(p)
}
