package layout

import (
	"math"

	"github.com/piwi3910/RailCraft/internal/model"
)

// postStepEpsilon absorbs float drift when stepping post positions by pitch.
const postStepEpsilon = 0.001

// RectFramePolicy lays out the post + rect-frame railing. Posts are stepped
// by the raw pitch and a final post is forced at the railing end, so the
// last section may be shorter than the others.
type RectFramePolicy struct{}

func (RectFramePolicy) Variant() model.Variant { return model.VariantRectFrame }

func (RectFramePolicy) Derive(d model.Design) Layout {
	p := d.RectFrame
	p.PostPitch = usablePitch(p.PostPitch, model.RectFrameFields)

	xs := RectFramePostXs(p.Length, p.PostPitch)

	yBotRailTop := p.RailStartY + p.RailHeight
	yMidRailBottom := yBotRailTop + p.ModuleHeight + p.BarThickness
	moduleTop := yMidRailBottom - p.BarThickness/2
	moduleBot := yBotRailTop + p.BarThickness/2

	l := Layout{
		Variant:     model.VariantRectFrame,
		Length:      p.Length,
		Height:      p.Height,
		NumSections: len(xs) - 1,
		Interval:    p.PostPitch,
		Levels: Levels{
			TopRail:      p.Height - p.RailHeight/2,
			MidRail:      yMidRailBottom + p.RailHeight/2,
			BottomRail:   p.RailStartY + p.RailHeight/2,
			InfillCenter: (moduleTop + moduleBot) / 2,
			InfillHeight: p.ModuleHeight,
			PostBase:     p.BasePlateT,
			PostHeight:   math.Max(50, p.Height-p.RailHeight-p.BasePlateT),
		},
	}

	l.Posts = make([]PostMeta, len(xs))
	for i, x := range xs {
		l.Posts[i] = PostMeta{X: x, HeadW: p.PostWidth, BasePlateW: p.BasePlateWidth}
	}

	l.Sections = make([]Section, l.NumSections)
	for i := range l.Sections {
		xL, xR := xs[i], xs[i+1]
		s := Section{
			Index:         i,
			X0:            xL,
			X1:            xR,
			Center:        (xL + xR) / 2,
			Length:        xR - xL,
			EndCut:        p.PostWidth / 2,
			TopRailLength: xR - xL,
			TopRailCenter: (xL + xR) / 2,
			InfillSpacing: p.ModuleWidth + p.ModuleGap,
		}

		// Rails stop at the post faces even when posts are hidden.
		leftFace := xL + p.PostWidth/2
		rightFace := xR - p.PostWidth/2
		if inner := rightFace - leftFace; inner > 0 {
			s.RailLength = inner
			s.RailCenter = (leftFace + rightFace) / 2
		}
		s.InfillX = CenterModules(leftFace, rightFace-leftFace, p.BarThickness/2, p.ModuleWidth, p.ModuleGap)
		l.Sections[i] = s
	}

	hx := math.Max(p.BasePlateWidth/2, p.PostWidth/2)
	hz := maxOf(p.BasePlateDepth/2, p.PostDepth/2, p.RailWidth/2, p.BarWidth/2)
	top := maxOf(
		p.Height,
		p.BasePlateT+l.Levels.PostHeight,
		yMidRailBottom+p.RailHeight,
		l.Levels.InfillCenter+(p.ModuleHeight+p.BarThickness)/2,
	)
	l.Envelope = envelope(p.Length, hx, top, hz, l.Sections)
	return l
}

// RectFramePostXs steps post positions from 0 by pitch and forces a final
// post at length. A pitch that is not positive uses the default pitch.
func RectFramePostXs(length, pitch float64) []float64 {
	pitch = usablePitch(pitch, model.RectFrameFields)
	var xs []float64
	for x := 0.0; x < length-postStepEpsilon; x += pitch {
		xs = append(xs, x)
	}
	if len(xs) == 0 {
		xs = append(xs, 0)
	}
	if math.Abs(xs[len(xs)-1]-length) > postStepEpsilon {
		xs = append(xs, length)
	}
	return xs
}

// CenterModules returns the center X of every module that fits in the span
// starting at x0 after trimming cut from both ends. The block of modules
// and gaps is centered in the trimmed span.
func CenterModules(x0, span, cut, moduleW, gap float64) []float64 {
	start := x0 + cut
	usable := math.Max(0, span-2*cut)
	if usable < moduleW {
		return nil
	}
	pitch := moduleW + gap
	n := int(math.Floor((usable + gap) / pitch))
	if n <= 0 {
		return nil
	}
	used := float64(n)*moduleW + float64(n-1)*gap
	first := start + usable/2 - used/2 + moduleW/2

	centers := make([]float64, n)
	for i := range centers {
		centers[i] = first + float64(i)*pitch
	}
	return centers
}
