package geometry

import (
	"image/color"
	"math"

	"github.com/piwi3910/RailCraft/internal/layout"
	"github.com/piwi3910/RailCraft/internal/model"
	"gonum.org/v1/gonum/spatial/r3"
)

const picketSegments = 16

// Build emits the primitive set of design d laid out as l. It never mutates
// its inputs and returns a fresh scene on every call.
func Build(d model.Design, l layout.Layout) Scene {
	c, err := model.ParseHexColor(d.Color)
	if err != nil {
		c = model.DefaultColor
	}
	if d.Variant == model.VariantRectFrame {
		return buildRectFrame(d.RectFrame, l, d.Visibility, c)
	}
	return buildFlatBar(d.FlatBar, d.Post, l, d.Visibility, c)
}

// BuildDesign derives the layout of d and builds it.
func BuildDesign(d model.Design) (Scene, layout.Layout) {
	l := layout.Derive(d)
	return Build(d, l), l
}

func buildFlatBar(p model.FlatBarParams, cfg model.PostConfig, l layout.Layout, vis model.Visibility, c color.NRGBA) Scene {
	scene := Scene{Variant: model.VariantFlatBar}
	post := l.Post
	z := cfg.PostZ
	lv := l.Levels

	if vis.Shows(model.PartPosts) {
		for i, pm := range l.Posts {
			x := pm.X
			for _, dx := range []float64{-l.SafeGap / 2, l.SafeGap / 2} {
				pipe := model.NewCylinder(model.RolePostPipe, r3.Vec{X: x + dx, Y: lv.InfillCenter, Z: z},
					p.PipeOD/2*cfg.PipeRadiusScale, lv.PostHeight, cfg.PipeSegments, c)
				scene.addPost(pipe, i)
			}

			scene.addPost(model.NewBox(model.RoleBasePlate,
				r3.Vec{X: x, Y: post.BasePlateT / 2, Z: z},
				r3.Vec{X: post.BasePlateW, Y: post.BasePlateT, Z: post.BasePlateD}, model.BaseColor), i)

			if stemH := p.Ground + cfg.StemInsetY; stemH > 0 {
				scene.addPost(model.NewBox(model.RoleStem,
					r3.Vec{X: x, Y: stemH / 2, Z: z},
					r3.Vec{X: post.StemW, Y: stemH, Z: post.StemD}, model.BaseColor), i)
			}

			scene.addPost(model.NewBox(model.RoleHead,
				r3.Vec{X: x, Y: p.Ground + post.HeadT/2, Z: z},
				r3.Vec{X: post.HeadW, Y: post.HeadT, Z: post.HeadD}, model.BaseColor), i)

			for _, o := range cfg.AnchorOffsets() {
				scene.addPost(model.NewCylinder(model.RoleAnchor,
					r3.Vec{X: x + o[0], Y: post.BasePlateT + cfg.AnchorHeight/2, Z: z + o[1]},
					cfg.AnchorRadius, cfg.AnchorHeight, cfg.HoleSegments, model.AnchorColor), i)
			}

			capSize := r3.Vec{X: pm.CapLength, Y: p.BarThickness, Z: p.BarWidth}
			if cfg.MakeTopCap {
				scene.addPost(model.NewBox(model.RoleCapTop, r3.Vec{X: x, Y: lv.TopRail, Z: z}, capSize, c), i)
			}
			if cfg.MakeBottomCap && vis.Shows(model.PartBottomRail) {
				scene.addPost(model.NewBox(model.RoleCapBottom, r3.Vec{X: x, Y: lv.BottomRail, Z: z}, capSize, c), i)
			}
		}
	}

	for _, s := range l.Sections {
		if vis.Shows(model.PartTopRail) {
			scene.addSection(model.NewBox(model.RoleRailTop,
				r3.Vec{X: s.TopRailCenter, Y: lv.TopRail, Z: z},
				r3.Vec{X: s.TopRailLength, Y: p.BarThickness, Z: p.BarWidth}, c), s.Index)
		}
		if vis.Shows(model.PartBottomRail) {
			scene.addSection(model.NewBox(model.RoleRailBottom,
				r3.Vec{X: s.RailCenter, Y: lv.BottomRail, Z: z},
				r3.Vec{X: s.RailLength, Y: p.BarThickness, Z: p.BarWidth}, c), s.Index)
		}
		if vis.Shows(model.PartInfill) {
			for _, x := range s.InfillX {
				scene.addSection(model.NewCylinder(model.RolePicket,
					r3.Vec{X: x, Y: lv.InfillCenter, Z: z},
					p.PipeOD/2, lv.InfillHeight, picketSegments, model.PicketColor), s.Index)
			}
		}
	}
	return scene
}

// buildRectFrame paints every primitive with the finish color c.
func buildRectFrame(p model.RectFrameParams, l layout.Layout, vis model.Visibility, c color.NRGBA) Scene {
	scene := Scene{Variant: model.VariantRectFrame}
	lv := l.Levels

	if vis.Shows(model.PartPosts) {
		for i, pm := range l.Posts {
			scene.addPost(model.NewBox(model.RoleBasePlate,
				r3.Vec{X: pm.X, Y: p.BasePlateT / 2},
				r3.Vec{X: p.BasePlateWidth, Y: p.BasePlateT, Z: p.BasePlateDepth}, c), i)
			scene.addPost(model.NewBox(model.RolePost,
				r3.Vec{X: pm.X, Y: lv.PostBase + lv.PostHeight/2},
				r3.Vec{X: p.PostWidth, Y: lv.PostHeight, Z: p.PostDepth}, c), i)
		}
	}

	railSize := func(length float64) r3.Vec {
		return r3.Vec{X: length, Y: p.RailHeight, Z: p.RailWidth}
	}

	for _, s := range l.Sections {
		if s.RailLength > 0 {
			if vis.Shows(model.PartBottomRail) {
				scene.addSection(model.NewBox(model.RoleRailBottom,
					r3.Vec{X: s.RailCenter, Y: lv.BottomRail}, railSize(s.RailLength), c), s.Index)
			}
			if vis.Shows(model.PartMidRail) {
				scene.addSection(model.NewBox(model.RoleRailMid,
					r3.Vec{X: s.RailCenter, Y: lv.MidRail}, railSize(s.RailLength), c), s.Index)
			}
		}
		if vis.Shows(model.PartInfill) {
			for _, cx := range s.InfillX {
				for _, f := range rectFrame(cx, lv.InfillCenter, p.ModuleWidth, p.ModuleHeight, p.BarWidth, p.BarThickness, c) {
					scene.addSection(f, s.Index)
				}
			}
		}
		if vis.Shows(model.PartTopRail) {
			scene.addSection(model.NewBox(model.RoleRailTop,
				r3.Vec{X: s.TopRailCenter, Y: lv.TopRail}, railSize(s.TopRailLength), c), s.Index)
		}
	}
	return scene
}

// rectFrame returns the four bars of one box-frame module. Verticals are
// lengthened by barT and horizontals shortened by barT so the corners meet
// without overlap.
func rectFrame(cx, cy, innerW, innerH, barW, barT float64, c color.NRGBA) []model.Primitive {
	hLen := math.Max(10, innerW)
	vLen := math.Max(10, innerH)
	vSize := r3.Vec{X: barT, Y: vLen + barT, Z: barW}
	hSize := r3.Vec{X: math.Max(10, hLen-barT), Y: barT, Z: barW}

	return []model.Primitive{
		model.NewBox(model.RoleFrameVertical, r3.Vec{X: cx - hLen/2, Y: cy}, vSize, c),
		model.NewBox(model.RoleFrameVertical, r3.Vec{X: cx + hLen/2, Y: cy}, vSize, c),
		model.NewBox(model.RoleFrameHorizontal, r3.Vec{X: cx, Y: cy + vLen/2}, hSize, c),
		model.NewBox(model.RoleFrameHorizontal, r3.Vec{X: cx, Y: cy - vLen/2}, hSize, c),
	}
}

func (s *Scene) addPost(p model.Primitive, post int) {
	p.Post = post
	s.add(p)
}

func (s *Scene) addSection(p model.Primitive, section int) {
	p.Section = section
	s.add(p)
}
