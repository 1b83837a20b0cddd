package model

import "math"

// DimSource names a value another dimension may be linked to.
type DimSource string

const (
	SourceBarThickness   DimSource = "bar_thickness"
	SourceBarWidth       DimSource = "bar_width"
	SourceBasePlateDepth DimSource = "base_plate_depth"
)

// Sources holds the resolved values dimensions can be linked to.
type Sources map[DimSource]float64

// Dim is a derived dimension: either a fixed value or a scaled link to a source.
// Dims are resolved once per rebuild.
type Dim interface {
	Resolve(src Sources) float64
	isDim()
}

// Fixed is a dimension with a constant value.
type Fixed float64

func (f Fixed) Resolve(Sources) float64 { return float64(f) }
func (Fixed) isDim()                    {}

// Linked resolves to max(Min, source*Scale + Offset).
type Linked struct {
	Source DimSource
	Scale  float64
	Offset float64
	Min    float64
}

func (l Linked) Resolve(src Sources) float64 {
	return math.Max(l.Min, src[l.Source]*l.Scale+l.Offset)
}
func (Linked) isDim() {}

// PostConfig is the flat-bar post assembly configuration. Scalar fields are
// fixed design constants; Dim fields may be linked to the bar section.
type PostConfig struct {
	PairGapExtra    float64 // Added to pipe OD for the minimum pipe-pair gap
	PipeRadiusScale float64
	PipeSegments    int

	StemWidth  Dim
	StemDScale float64 // Stem depth = bar width * scale
	StemInsetY float64

	HeadWScale     float64 // Head width = base plate width * scale
	HeadThickness  Dim
	HeadDepth      Dim
	BasePlateT     Dim
	BasePlateZ     float64 // Base plate depth = bar width * scale
	BasePlateExtra float64 // Added to gap + pipe OD for the base plate width

	HoleCount    int // 2 or 4 anchors
	HoleOffset   float64
	HoleSegments int
	AnchorHeight float64
	AnchorRadius float64

	BarCutUseHeadW   bool // End cuts use head width instead of base plate width
	BarCutExtra      float64
	MakeTopCap       bool
	MakeBottomCap    bool
	CapExtra         float64
	CapMin           float64
	RailCapClearance float64
	RailMinLength    float64
	PostZ            float64
}

// DefaultPostConfig returns the standard flat-bar post assembly.
func DefaultPostConfig() PostConfig {
	return PostConfig{
		PairGapExtra:    2,
		PipeRadiusScale: 1.0,
		PipeSegments:    20,

		StemWidth:  Linked{Source: SourceBarThickness, Scale: 1.6, Min: 2},
		StemDScale: 1.0,
		StemInsetY: 0,

		HeadWScale:     0.6,
		HeadThickness:  Linked{Source: SourceBarThickness, Scale: 1.0},
		HeadDepth:      Linked{Source: SourceBarWidth, Scale: 1.0, Min: 2},
		BasePlateT:     Linked{Source: SourceBarThickness, Scale: 1.8, Min: 2},
		BasePlateZ:     1.5,
		BasePlateExtra: 40,

		HoleCount:    2,
		HoleOffset:   35,
		HoleSegments: 24,
		AnchorHeight: 10,
		AnchorRadius: 6,

		BarCutUseHeadW:   true,
		BarCutExtra:      0,
		MakeTopCap:       true,
		MakeBottomCap:    true,
		CapExtra:         0,
		CapMin:           40,
		RailCapClearance: 2,
		RailMinLength:    80,
		PostZ:            0,
	}
}

// ResolvedPost holds every post dimension for one rebuild.
type ResolvedPost struct {
	BasePlateW float64
	BasePlateT float64
	BasePlateD float64
	StemW      float64
	StemD      float64
	HeadW      float64
	HeadT      float64
	HeadD      float64
	CapLength  float64
}

// Resolve computes the post dimensions for a pipe-pair gap, pipe OD and bar section.
func (c PostConfig) Resolve(safeGap, pipeOD, barW, barT float64) ResolvedPost {
	r := ResolvedPost{
		BasePlateW: safeGap + pipeOD + c.BasePlateExtra,
		BasePlateD: barW * c.BasePlateZ,
		StemD:      barW * c.StemDScale,
	}
	src := Sources{
		SourceBarThickness:   barT,
		SourceBarWidth:       barW,
		SourceBasePlateDepth: r.BasePlateD,
	}
	r.BasePlateT = c.BasePlateT.Resolve(src)
	r.StemW = c.StemWidth.Resolve(src)
	r.HeadW = r.BasePlateW * c.HeadWScale
	r.HeadT = c.HeadThickness.Resolve(src)
	r.HeadD = c.HeadDepth.Resolve(src)

	capBase := r.BasePlateW
	if c.BarCutUseHeadW {
		capBase = r.HeadW
	}
	r.CapLength = math.Max(c.CapMin, capBase+c.CapExtra)
	return r
}

// AnchorOffsets returns the (x, z) offsets of the anchors around a post center.
func (c PostConfig) AnchorOffsets() [][2]float64 {
	off := c.HoleOffset
	if c.HoleCount == 2 {
		return [][2]float64{{-off, 0}, {off, 0}}
	}
	return [][2]float64{{-off, -off}, {off, -off}, {-off, off}, {off, off}}
}
