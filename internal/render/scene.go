// Package render owns the backend resources of the displayed primitive set.
package render

import (
	"sync"

	"github.com/piwi3910/RailCraft/internal/geometry"
	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/monitoring"
	"gonum.org/v1/gonum/spatial/r3"
)

// Resource is the backend state held for one primitive.
type Resource interface {
	Release()
}

// Backend draws primitives. Create is called once per primitive of a new
// set, then Commit presents the set with its bounds.
type Backend interface {
	Create(p model.Primitive) Resource
	Commit(bounds r3.Box)
}

// Scene holds the live primitive set and releases every resource of the
// previous set before a replacement is created.
type Scene struct {
	mu        sync.Mutex
	backend   Backend
	current   geometry.Scene
	resources []Resource
	rebuilds  int
	released  int
}

// NewScene returns an empty scene drawing through backend.
func NewScene(backend Backend) *Scene {
	return &Scene{backend: backend}
}

// Replace discards the current set and shows g.
func (s *Scene) Replace(g geometry.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()
	s.resources = make([]Resource, 0, len(g.Primitives))
	for _, p := range g.Primitives {
		s.resources = append(s.resources, s.backend.Create(p))
	}
	s.current = g
	s.rebuilds++
	s.backend.Commit(g.Bounds())
	monitoring.Logf("render: rebuild %d, %d primitives (%s)", s.rebuilds, len(g.Primitives), g.Variant)
}

// Release frees every live resource and empties the scene.
func (s *Scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
	s.current = geometry.Scene{}
}

func (s *Scene) releaseLocked() {
	for _, r := range s.resources {
		if r != nil {
			r.Release()
			s.released++
		}
	}
	s.resources = nil
}

// Current returns the displayed primitive set.
func (s *Scene) Current() geometry.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Live returns the number of resources currently held.
func (s *Scene) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.resources)
}

// Stats returns the number of rebuilds and released resources so far.
func (s *Scene) Stats() (rebuilds, released int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuilds, s.released
}
