package layout

import (
	"math"

	"github.com/piwi3910/RailCraft/internal/model"
	"gonum.org/v1/gonum/spatial/r3"
)

// Policy derives the discrete layout of one product variant.
// Derive must be pure: the geometry builder and the quote calculator both
// call it and rely on getting identical results for the same design.
type Policy interface {
	Variant() model.Variant
	Derive(d model.Design) Layout
}

// PolicyFor returns the layout policy of variant v.
func PolicyFor(v model.Variant) Policy {
	if v == model.VariantRectFrame {
		return RectFramePolicy{}
	}
	return FlatBarPolicy{}
}

// Derive is shorthand for PolicyFor(d.Variant).Derive(d).
func Derive(d model.Design) Layout {
	return PolicyFor(d.Variant).Derive(d)
}

// PostMeta describes one post position.
type PostMeta struct {
	X          float64 `json:"x"`
	HeadW      float64 `json:"head_w"`
	BasePlateW float64 `json:"base_plate_w"`
	CapLength  float64 `json:"cap_length"` // 0 when the variant has no caps
}

// Section is the span between two neighbouring posts.
type Section struct {
	Index  int     `json:"index"`
	X0     float64 `json:"x0"`
	X1     float64 `json:"x1"`
	Center float64 `json:"center"`
	Length float64 `json:"length"`

	// EndCut is the clearance kept free at each end of the bottom/mid rails.
	EndCut        float64 `json:"end_cut"`
	RailLength    float64 `json:"rail_length"` // bottom and mid rails, 0 = no rail fits
	RailCenter    float64 `json:"rail_center"`
	TopRailLength float64 `json:"top_rail_length"`
	TopRailCenter float64 `json:"top_rail_center"`

	// Infill centers: picket X positions or module center X positions.
	InfillX       []float64 `json:"infill_x"`
	InfillSpacing float64   `json:"infill_spacing"`
}

// InfillCount returns the number of infill pieces in the section.
func (s Section) InfillCount() int {
	return len(s.InfillX)
}

// Levels holds the vertical positions shared by every section. All Y values
// are centers unless named otherwise.
type Levels struct {
	TopRail    float64 `json:"top_rail"`
	MidRail    float64 `json:"mid_rail"` // rect-frame only
	BottomRail float64 `json:"bottom_rail"`

	InfillCenter float64 `json:"infill_center"`
	InfillHeight float64 `json:"infill_height"` // picket length or module inner height

	PostBase   float64 `json:"post_base"` // bottom of the post member
	PostHeight float64 `json:"post_height"`
}

// Layout is the derived, immutable layout of one design.
type Layout struct {
	Variant     model.Variant `json:"variant"`
	Length      float64       `json:"length"`
	Height      float64       `json:"height"`
	NumSections int           `json:"num_sections"`
	Interval    float64       `json:"interval"` // actual section length (rect-frame: the pitch)
	SafeGap     float64       `json:"safe_gap"` // flat-bar pipe pair gap and picket pitch floor

	Posts    []PostMeta `json:"posts"`
	Sections []Section  `json:"sections"`
	Levels   Levels     `json:"levels"`

	// Post holds the resolved flat-bar post assembly dimensions.
	Post model.ResolvedPost `json:"post"`

	// Envelope bounds every primitive the geometry builder may emit for
	// this layout, whatever the visibility.
	Envelope r3.Box `json:"envelope"`
}

// PostCount returns the number of post positions.
func (l Layout) PostCount() int {
	return len(l.Posts)
}

// PostPipeCount returns the number of post members: two pipes per position
// on the flat-bar railing, one tube on the rect-frame railing.
func (l Layout) PostPipeCount() int {
	if l.Variant == model.VariantFlatBar {
		return 2 * len(l.Posts)
	}
	return len(l.Posts)
}

// InfillCount returns the total infill pieces over every section.
func (l Layout) InfillCount() int {
	n := 0
	for _, s := range l.Sections {
		n += s.InfillCount()
	}
	return n
}

// envelope builds a box spanning [-hx, length+hx] widened to every rail span.
func envelope(length, hx, top, hz float64, sections []Section) r3.Box {
	minX, maxX := -hx, length+hx
	for _, s := range sections {
		for _, span := range [][2]float64{
			{s.RailCenter, s.RailLength},
			{s.TopRailCenter, s.TopRailLength},
		} {
			if span[1] <= 0 {
				continue
			}
			minX = math.Min(minX, span[0]-span[1]/2)
			maxX = math.Max(maxX, span[0]+span[1]/2)
		}
	}
	return r3.Box{
		Min: r3.Vec{X: minX, Y: 0, Z: -hz},
		Max: r3.Vec{X: maxX, Y: top, Z: hz},
	}
}

// usablePitch returns pitch, or the default pitch of the field table when
// pitch is not a positive finite number.
func usablePitch(pitch float64, fields []model.FieldSpec) float64 {
	if pitch > 0 && !math.IsInf(pitch, 0) {
		return pitch
	}
	for _, f := range fields {
		if f.Name == model.FieldPitch {
			return f.Default
		}
	}
	return 1000
}

func maxOf(v float64, rest ...float64) float64 {
	for _, r := range rest {
		v = math.Max(v, r)
	}
	return v
}
