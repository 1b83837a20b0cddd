package model

// Design is the complete input state of one rebuild: the variant, its
// validated parameters, the part visibility and the finish color.
// It is passed by value through layout, geometry and quoting.
type Design struct {
	Variant    Variant         `json:"variant"`
	FlatBar    FlatBarParams   `json:"flat_bar"`
	RectFrame  RectFrameParams `json:"rect_frame"`
	Post       PostConfig      `json:"-"`
	Visibility Visibility      `json:"visibility"`
	Color      string          `json:"color"` // "#rrggbb"
}

// NewDesign returns a design of variant v with default parameters.
func NewDesign(v Variant) Design {
	return Design{
		Variant:    v,
		FlatBar:    DefaultFlatBarParams(),
		RectFrame:  DefaultRectFrameParams(),
		Post:       DefaultPostConfig(),
		Visibility: NewVisibility(v),
		Color:      HexColor(DefaultColor),
	}
}

// ReadDesign reads the parameters of variant v from src, keeping vis as the
// visibility state.
func ReadDesign(v Variant, src FieldSource, vis Visibility) Design {
	d := NewDesign(v)
	switch v {
	case VariantRectFrame:
		d.RectFrame = ReadRectFrameParams(src)
	default:
		d.FlatBar = ReadFlatBarParams(src)
	}
	if vis.Variant == v {
		d.Visibility = vis
	}
	d.Color = ReadColor(src, d.Color)
	return d
}

// Length returns the total railing length of the active variant.
func (d Design) Length() float64 {
	if d.Variant == VariantRectFrame {
		return d.RectFrame.Length
	}
	return d.FlatBar.Length
}

// Height returns the total railing height of the active variant.
func (d Design) Height() float64 {
	if d.Variant == VariantRectFrame {
		return d.RectFrame.Height
	}
	return d.FlatBar.Height
}
