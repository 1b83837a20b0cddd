package geometry

import (
	"math"

	"github.com/piwi3910/RailCraft/internal/model"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scene is the full primitive set of one rebuild.
type Scene struct {
	Variant    model.Variant     `json:"variant"`
	Primitives []model.Primitive `json:"primitives"`
}

func (s *Scene) add(p model.Primitive) {
	s.Primitives = append(s.Primitives, p)
}

// Len returns the number of primitives.
func (s Scene) Len() int {
	return len(s.Primitives)
}

// Count returns the number of primitives with the given role.
func (s Scene) Count(role model.Role) int {
	n := 0
	for _, p := range s.Primitives {
		if p.Role == role {
			n++
		}
	}
	return n
}

// Bounds returns the axis-aligned box around every primitive.
// An empty scene has a zero box.
func (s Scene) Bounds() r3.Box {
	if len(s.Primitives) == 0 {
		return r3.Box{}
	}
	b := s.Primitives[0].Bounds()
	for _, p := range s.Primitives[1:] {
		b = union(b, p.Bounds())
	}
	return b
}

// Within reports whether every primitive lies inside env, allowing tol
// for float rounding.
func (s Scene) Within(env r3.Box, tol float64) bool {
	for _, p := range s.Primitives {
		b := p.Bounds()
		if b.Min.X < env.Min.X-tol || b.Min.Y < env.Min.Y-tol || b.Min.Z < env.Min.Z-tol {
			return false
		}
		if b.Max.X > env.Max.X+tol || b.Max.Y > env.Max.Y+tol || b.Max.Z > env.Max.Z+tol {
			return false
		}
	}
	return true
}

func union(a, b r3.Box) r3.Box {
	return r3.Box{
		Min: r3.Vec{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y), Z: math.Min(a.Min.Z, b.Min.Z)},
		Max: r3.Vec{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y), Z: math.Max(a.Max.Z, b.Max.Z)},
	}
}
