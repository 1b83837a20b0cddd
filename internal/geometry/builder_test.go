package geometry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RailCraft/internal/layout"
	"github.com/piwi3910/RailCraft/internal/model"
)

func TestFlatBarDefaultCounts(t *testing.T) {
	scene, l := BuildDesign(model.NewDesign(model.VariantFlatBar))

	require.Equal(t, 4, l.PostCount())
	assert.Equal(t, 8, scene.Count(model.RolePostPipe))
	assert.Equal(t, 4, scene.Count(model.RoleBasePlate))
	assert.Equal(t, 4, scene.Count(model.RoleStem))
	assert.Equal(t, 4, scene.Count(model.RoleHead))
	assert.Equal(t, 8, scene.Count(model.RoleAnchor))
	assert.Equal(t, 4, scene.Count(model.RoleCapTop))
	assert.Equal(t, 4, scene.Count(model.RoleCapBottom))
	assert.Equal(t, 3, scene.Count(model.RoleRailTop))
	assert.Equal(t, 3, scene.Count(model.RoleRailBottom))
	assert.Equal(t, 18, scene.Count(model.RolePicket))
	assert.Equal(t, 0, scene.Count(model.RoleRailMid))
}

func TestFlatBarBottomCapFollowsBottomRail(t *testing.T) {
	d := model.NewDesign(model.VariantFlatBar)
	d.Visibility = d.Visibility.Toggled(model.PartBottomRail)
	scene, _ := BuildDesign(d)

	assert.Equal(t, 0, scene.Count(model.RoleCapBottom))
	assert.Equal(t, 0, scene.Count(model.RoleRailBottom))
	assert.Equal(t, 4, scene.Count(model.RoleCapTop), "top caps are drawn whenever posts are")
}

func TestFlatBarColors(t *testing.T) {
	d := model.NewDesign(model.VariantFlatBar)
	d.Color = "#ff0000"
	scene, _ := BuildDesign(d)
	red, _ := model.ParseHexColor("#ff0000")

	for _, p := range scene.Primitives {
		switch p.Role {
		case model.RolePostPipe, model.RoleRailTop, model.RoleRailBottom, model.RoleCapTop, model.RoleCapBottom:
			assert.Equal(t, red, p.Color, p.Role)
		case model.RoleBasePlate, model.RoleStem, model.RoleHead:
			assert.Equal(t, model.BaseColor, p.Color, p.Role)
		case model.RoleAnchor:
			assert.Equal(t, model.AnchorColor, p.Color)
		case model.RolePicket:
			assert.Equal(t, model.PicketColor, p.Color)
		}
	}
}

func TestFlatBarPostAssembly(t *testing.T) {
	scene, l := BuildDesign(model.NewDesign(model.VariantFlatBar))

	var pipes []model.Primitive
	for _, p := range scene.Primitives {
		if p.Post == 1 && p.Role == model.RolePostPipe {
			pipes = append(pipes, p)
		}
	}
	require.Len(t, pipes, 2)
	assert.InDelta(t, 1000-l.SafeGap/2, pipes[0].Center.X, 1e-9)
	assert.InDelta(t, 1000+l.SafeGap/2, pipes[1].Center.X, 1e-9)
	assert.Equal(t, 20, pipes[0].Segments)
	assert.Equal(t, 10.0, pipes[0].Radius())
	// picket height = 1100 - 60 - 12
	assert.Equal(t, 1028.0, pipes[0].Size.Y)
	assert.Equal(t, 580.0, pipes[0].Center.Y)
}

func TestFlatBarAnchorsSitOnPlate(t *testing.T) {
	scene, l := BuildDesign(model.NewDesign(model.VariantFlatBar))

	for _, p := range scene.Primitives {
		if p.Role != model.RoleAnchor {
			continue
		}
		assert.InDelta(t, l.Post.BasePlateT, p.Bounds().Min.Y, 1e-9)
		assert.Equal(t, 6.0, p.Radius())
	}
}

func TestFlatBarHiddenPostsLeaveRailsFullLength(t *testing.T) {
	d := model.NewDesign(model.VariantFlatBar)
	d.Visibility = d.Visibility.Toggled(model.PartPosts)
	scene, l := BuildDesign(d)

	assert.Equal(t, 0, scene.Count(model.RolePostPipe))
	assert.Equal(t, 0, scene.Count(model.RoleCapTop))
	for _, p := range scene.Primitives {
		if p.Role == model.RoleRailTop {
			assert.Equal(t, l.Interval, p.Size.X)
		}
	}
}

func TestRectFrameDefaultCounts(t *testing.T) {
	scene, l := BuildDesign(model.NewDesign(model.VariantRectFrame))

	require.Equal(t, 3, l.NumSections)
	assert.Equal(t, 4, scene.Count(model.RoleBasePlate))
	assert.Equal(t, 4, scene.Count(model.RolePost))
	assert.Equal(t, 3, scene.Count(model.RoleRailBottom))
	assert.Equal(t, 3, scene.Count(model.RoleRailMid))
	assert.Equal(t, 3, scene.Count(model.RoleRailTop))
	assert.Equal(t, 2*l.InfillCount(), scene.Count(model.RoleFrameVertical))
	assert.Equal(t, 2*l.InfillCount(), scene.Count(model.RoleFrameHorizontal))
}

func TestRectFrameUsesFinishColor(t *testing.T) {
	d := model.NewDesign(model.VariantRectFrame)
	d.Color = "#123456"
	scene, _ := BuildDesign(d)
	want, _ := model.ParseHexColor("#123456")

	for _, p := range scene.Primitives {
		assert.Equal(t, want, p.Color, p.Role)
	}
}

func TestRectFrameCornerJoint(t *testing.T) {
	prims := rectFrame(0, 500, 100, 120, 45, 6, model.DefaultColor)
	require.Len(t, prims, 4)

	left, right, top, bot := prims[0], prims[1], prims[2], prims[3]
	assert.Equal(t, 126.0, left.Size.Y, "verticals gain one bar thickness")
	assert.Equal(t, 94.0, top.Size.X, "horizontals lose one bar thickness")

	// horizontals end exactly at the inner faces of the verticals
	assert.InDelta(t, left.Bounds().Max.X, top.Bounds().Min.X, 1e-9)
	assert.InDelta(t, right.Bounds().Min.X, top.Bounds().Max.X, 1e-9)
	// verticals end flush with the outer faces of the horizontals
	assert.InDelta(t, top.Bounds().Max.Y, left.Bounds().Max.Y, 1e-9)
	assert.InDelta(t, bot.Bounds().Min.Y, left.Bounds().Min.Y, 1e-9)
}

func TestRectFrameStepPreset(t *testing.T) {
	d := model.NewDesign(model.VariantRectFrame)
	d.Visibility = d.Visibility.WithStep(2)
	scene, _ := BuildDesign(d)

	assert.Equal(t, 4, scene.Count(model.RolePost))
	assert.Equal(t, 3, scene.Count(model.RoleRailBottom))
	assert.Equal(t, 0, scene.Count(model.RoleFrameVertical))
	assert.Equal(t, 0, scene.Count(model.RoleRailMid))
	assert.Equal(t, 0, scene.Count(model.RoleRailTop))

	d.Visibility = d.Visibility.WithStep(0)
	scene, _ = BuildDesign(d)
	assert.Equal(t, 0, scene.Len())
	assert.Equal(t, 0.0, scene.Bounds().Max.X)
}

func TestBuildIsIdempotent(t *testing.T) {
	for _, v := range model.Variants {
		d := model.NewDesign(v)
		l := layout.Derive(d)
		a := Build(d, l)
		b := Build(d, l)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("%s: rebuild differs (-first +second):\n%s", v, diff)
		}
	}
}

func TestSceneStaysInsideEnvelope(t *testing.T) {
	designs := []model.Design{}
	for _, src := range []model.MapSource{
		{},
		{"totalL": "100", "postInt": "100"},
		{"totalL": "3050", "postInt": "1000", "picketGap": "30"},
		{"totalL": "12345", "postInt": "777", "pipeOD": "60", "barT": "20", "ground": "0"},
		{"height": "200", "barT": "80"},
	} {
		designs = append(designs, model.ReadDesign(model.VariantFlatBar, src, model.NewVisibility(model.VariantFlatBar)))
	}
	for _, src := range []model.MapSource{
		{},
		{"totalL": "3050", "postInt": "1000"},
		{"totalL": "200", "postInt": "200", "moduleH": "900", "height": "300"},
		{"totalL": "8000", "postInt": "1200", "moduleGap": "1", "moduleW": "40"},
	} {
		designs = append(designs, model.ReadDesign(model.VariantRectFrame, src, model.NewVisibility(model.VariantRectFrame)))
	}

	for i, d := range designs {
		scene, l := BuildDesign(d)
		assert.True(t, scene.Within(l.Envelope, 1e-6), "design %d (%s) escapes its envelope", i, d.Variant)
	}
}

func TestBoundsOfDefaultFlatBar(t *testing.T) {
	scene, l := BuildDesign(model.NewDesign(model.VariantFlatBar))
	b := scene.Bounds()

	// base plates overhang the end posts by half their width
	assert.InDelta(t, -l.Post.BasePlateW/2, b.Min.X, 1e-9)
	assert.InDelta(t, 3000+l.Post.BasePlateW/2, b.Max.X, 1e-9)
	assert.Equal(t, 0.0, b.Min.Y)
	assert.InDelta(t, 1103.0, b.Max.Y, 1e-9)
}
