package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/RailCraft/internal/geometry"
	"github.com/piwi3910/RailCraft/internal/model"
)

type fakeResource struct {
	backend  *fakeBackend
	released bool
}

func (r *fakeResource) Release() {
	if r.released {
		r.backend.doubleFree++
		return
	}
	r.released = true
	r.backend.live--
}

type fakeBackend struct {
	live       int
	created    int
	doubleFree int
	commits    []r3.Box
}

func (b *fakeBackend) Create(model.Primitive) Resource {
	b.live++
	b.created++
	return &fakeResource{backend: b}
}

func (b *fakeBackend) Commit(bounds r3.Box) {
	b.commits = append(b.commits, bounds)
}

func TestReplaceReleasesPreviousSet(t *testing.T) {
	backend := &fakeBackend{}
	scene := NewScene(backend)

	first, _ := geometry.BuildDesign(model.NewDesign(model.VariantFlatBar))
	scene.Replace(first)
	require.Equal(t, first.Len(), backend.live)

	second, _ := geometry.BuildDesign(model.NewDesign(model.VariantRectFrame))
	scene.Replace(second)
	assert.Equal(t, second.Len(), backend.live, "only the new set stays alive")
	assert.Equal(t, first.Len()+second.Len(), backend.created)
	assert.Equal(t, second.Len(), scene.Live())
	assert.Len(t, backend.commits, 2)
	assert.Equal(t, second.Bounds(), backend.commits[1])

	rebuilds, released := scene.Stats()
	assert.Equal(t, 2, rebuilds)
	assert.Equal(t, first.Len(), released)
}

func TestMemoryBoundedOverManyRebuilds(t *testing.T) {
	backend := &fakeBackend{}
	scene := NewScene(backend)
	d := model.NewDesign(model.VariantFlatBar)

	for i := 0; i < 50; i++ {
		d.FlatBar.Length = 1000 + float64(i)*100
		g, _ := geometry.BuildDesign(d)
		scene.Replace(g)
		assert.Equal(t, g.Len(), backend.live)
	}
	assert.Equal(t, 0, backend.doubleFree)
}

func TestRelease(t *testing.T) {
	backend := &fakeBackend{}
	scene := NewScene(backend)
	g, _ := geometry.BuildDesign(model.NewDesign(model.VariantRectFrame))
	scene.Replace(g)

	scene.Release()
	assert.Equal(t, 0, backend.live)
	assert.Equal(t, 0, scene.Live())
	assert.Equal(t, 0, scene.Current().Len())

	scene.Release()
	assert.Equal(t, 0, backend.doubleFree, "releasing twice frees nothing twice")
}
