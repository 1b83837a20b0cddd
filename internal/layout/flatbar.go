package layout

import (
	"math"

	"github.com/piwi3910/RailCraft/internal/model"
)

// FlatBarPolicy lays out the flat-bar / pipe railing: equal sections sized
// by rounding length/pitch, pipe pair posts and evenly spaced pickets.
type FlatBarPolicy struct{}

func (FlatBarPolicy) Variant() model.Variant { return model.VariantFlatBar }

func (FlatBarPolicy) Derive(d model.Design) Layout {
	p := d.FlatBar
	p.PostPitch = usablePitch(p.PostPitch, model.FlatBarFields)
	cfg := d.Post

	numSections := int(math.Max(1, math.Round(p.Length/p.PostPitch)))
	interval := p.Length / float64(numSections)
	safeGap := math.Max(p.PicketGap, p.PipeOD+cfg.PairGapExtra)

	picketH := math.Max(50, p.Height-p.Ground-2*p.BarThickness)
	picketY := p.Ground + p.BarThickness + picketH/2

	post := cfg.Resolve(safeGap, p.PipeOD, p.BarWidth, p.BarThickness)

	l := Layout{
		Variant:     model.VariantFlatBar,
		Length:      p.Length,
		Height:      p.Height,
		NumSections: numSections,
		Interval:    interval,
		SafeGap:     safeGap,
		Post:        post,
		Levels: Levels{
			TopRail:      p.Height,
			BottomRail:   p.Ground + p.BarThickness/2,
			InfillCenter: picketY,
			InfillHeight: picketH,
			PostBase:     p.Ground + p.BarThickness,
			PostHeight:   picketH,
		},
	}

	l.Posts = make([]PostMeta, numSections+1)
	for i := range l.Posts {
		l.Posts[i] = PostMeta{
			X:          float64(i) * interval,
			HeadW:      post.HeadW,
			BasePlateW: post.BasePlateW,
			CapLength:  post.CapLength,
		}
	}

	postsShown := d.Visibility.Shows(model.PartPosts)
	netWidth := interval - safeGap
	subCount := int(math.Max(0, math.Floor(netWidth/safeGap)-1))
	spacing := netWidth / float64(subCount+1)

	l.Sections = make([]Section, numSections)
	for i := range l.Sections {
		x0 := float64(i) * interval
		s := Section{
			Index:         i,
			X0:            x0,
			X1:            x0 + interval,
			Center:        x0 + interval/2,
			Length:        interval,
			InfillSpacing: spacing,
		}

		barLen := interval
		if postsShown {
			s.EndCut = flatBarEndCut(cfg, l.Posts[i], l.Posts[i+1])
			barLen = math.Max(cfg.RailMinLength, interval-2*s.EndCut)
		}
		s.RailLength, s.RailCenter = barLen, s.Center
		s.TopRailLength, s.TopRailCenter = barLen, s.Center

		s.InfillX = make([]float64, subCount)
		for j := 1; j <= subCount; j++ {
			s.InfillX[j-1] = x0 + safeGap/2 + spacing*float64(j)
		}
		l.Sections[i] = s
	}

	l.Envelope = envelope(p.Length, flatBarHalfWidth(cfg, post, safeGap, p.PipeOD), flatBarTop(cfg, post, p, picketY+picketH/2), flatBarHalfDepth(cfg, post, p), l.Sections)
	return l
}

// flatBarEndCut is the larger of the flanking posts' head (or base plate)
// half width and cap half length plus clearance.
func flatBarEndCut(cfg model.PostConfig, left, right PostMeta) float64 {
	baseL, baseR := left.HeadW, right.HeadW
	if !cfg.BarCutUseHeadW {
		baseL, baseR = left.BasePlateW, right.BasePlateW
	}
	cutX := math.Max(baseL, baseR)/2 + cfg.BarCutExtra
	capHalf := math.Max(left.CapLength, right.CapLength)/2 + cfg.RailCapClearance
	return math.Max(cutX, capHalf)
}

func flatBarHalfWidth(cfg model.PostConfig, post model.ResolvedPost, safeGap, pipeOD float64) float64 {
	hx := maxOf(
		safeGap/2+pipeOD/2*cfg.PipeRadiusScale,
		post.BasePlateW/2,
		post.StemW/2,
		post.HeadW/2,
		post.CapLength/2,
	)
	for _, o := range cfg.AnchorOffsets() {
		hx = math.Max(hx, math.Abs(o[0])+cfg.AnchorRadius)
	}
	return hx
}

func flatBarHalfDepth(cfg model.PostConfig, post model.ResolvedPost, p model.FlatBarParams) float64 {
	hz := maxOf(
		post.BasePlateD/2,
		post.StemD/2,
		post.HeadD/2,
		p.BarWidth/2,
		p.PipeOD/2*cfg.PipeRadiusScale,
	)
	for _, o := range cfg.AnchorOffsets() {
		hz = math.Max(hz, math.Abs(o[1])+cfg.AnchorRadius)
	}
	return math.Abs(cfg.PostZ) + hz
}

func flatBarTop(cfg model.PostConfig, post model.ResolvedPost, p model.FlatBarParams, picketTop float64) float64 {
	return maxOf(
		p.Height+p.BarThickness/2,
		picketTop,
		post.BasePlateT+cfg.AnchorHeight,
		p.Ground+post.HeadT,
		p.Ground+cfg.StemInsetY,
	)
}
