package model

import (
	"math"
	"strconv"
	"strings"
)

// FieldSource supplies raw user-editable field values by name.
// ok is false when the field does not exist at all.
type FieldSource interface {
	Field(name string) (value string, ok bool)
}

// MapSource is a FieldSource backed by a plain map.
type MapSource map[string]string

func (m MapSource) Field(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// UnsetRule says which parsed values count as "not entered" and fall back to the default.
type UnsetRule int

const (
	UnsetNone        UnsetRule = iota // only empty / non-numeric input falls back
	UnsetZero                         // 0 also falls back
	UnsetNonPositive                  // 0 and negative values fall back
)

// FieldSpec describes one numeric parameter field: its default and its floor.
type FieldSpec struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Default float64 `json:"default"`
	Min     float64 `json:"min"`
	Unset   UnsetRule
}

// Read returns the validated value of the field from src.
// Non-finite or unparseable input yields the default; the result is never below Min.
func (f FieldSpec) Read(src FieldSource) float64 {
	v := f.Default
	if src != nil {
		if raw, ok := src.Field(f.Name); ok {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				v = parsed
			}
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = f.Default
	}
	switch f.Unset {
	case UnsetZero:
		if v == 0 {
			v = f.Default
		}
	case UnsetNonPositive:
		if v <= 0 {
			v = f.Default
		}
	}
	return math.Max(f.Min, v)
}

// Field names shared by both product forms.
const (
	FieldLength = "totalL"
	FieldHeight = "height"
	FieldPitch  = "postInt"
	FieldBarW   = "barW"
	FieldBarT   = "barT"
	FieldColor  = "allColor"
)

// FlatBarParams are the validated inputs of the flat-bar/pipe railing.
type FlatBarParams struct {
	Length       float64 `json:"length"`        // Total railing length (mm)
	Height       float64 `json:"height"`        // Total height to top rail center (mm)
	PostPitch    float64 `json:"post_pitch"`    // Nominal post spacing (mm)
	PicketGap    float64 `json:"picket_gap"`    // Picket pitch and post pipe pair gap (mm)
	PipeOD       float64 `json:"pipe_od"`       // Pipe outside diameter (mm)
	BarWidth     float64 `json:"bar_width"`     // Flat bar width, the rail depth (mm)
	BarThickness float64 `json:"bar_thickness"` // Flat bar thickness (mm)
	Ground       float64 `json:"ground"`        // Clearance from floor to bottom rail (mm)
}

// FlatBarFields is the field table for FlatBarParams, in form order.
var FlatBarFields = []FieldSpec{
	{Name: FieldLength, Label: "Total length (mm)", Default: 3000, Min: 100},
	{Name: FieldHeight, Label: "Height (mm)", Default: 1100, Min: 200},
	{Name: FieldPitch, Label: "Post pitch (mm)", Default: 1000, Min: 100, Unset: UnsetNonPositive},
	{Name: "picketGap", Label: "Picket gap (mm)", Default: 120, Min: 1},
	{Name: "pipeOD", Label: "Pipe OD (mm)", Default: 20, Min: 6},
	{Name: FieldBarW, Label: "Bar width (mm)", Default: 50, Min: 1},
	{Name: FieldBarT, Label: "Bar thickness (mm)", Default: 6, Min: 1},
	{Name: "ground", Label: "Ground clearance (mm)", Default: 60, Min: 0},
}

// ReadFlatBarParams reads and floors every flat-bar field from src.
func ReadFlatBarParams(src FieldSource) FlatBarParams {
	v := readAll(FlatBarFields, src)
	return FlatBarParams{
		Length:       v[0],
		Height:       v[1],
		PostPitch:    v[2],
		PicketGap:    v[3],
		PipeOD:       v[4],
		BarWidth:     v[5],
		BarThickness: v[6],
		Ground:       v[7],
	}
}

// DefaultFlatBarParams returns the flat-bar defaults.
func DefaultFlatBarParams() FlatBarParams {
	return ReadFlatBarParams(nil)
}

// RectFrameParams are the validated inputs of the post + rect-frame railing.
type RectFrameParams struct {
	Length         float64 `json:"length"`
	Height         float64 `json:"height"`
	PostPitch      float64 `json:"post_pitch"`
	PostWidth      float64 `json:"post_width"` // Along the railing (mm)
	PostDepth      float64 `json:"post_depth"` // Across the railing (mm)
	BasePlateT     float64 `json:"base_plate_t"`
	RailWidth      float64 `json:"rail_width"`  // Tube depth across the railing (mm)
	RailHeight     float64 `json:"rail_height"` // Tube height (mm)
	RailStartY     float64 `json:"rail_start_y"`
	BarWidth       float64 `json:"bar_width"`
	BarThickness   float64 `json:"bar_thickness"`
	ModuleWidth    float64 `json:"module_width"`
	ModuleHeight   float64 `json:"module_height"`
	ModuleGap      float64 `json:"module_gap"`
	BasePlateWidth float64 `json:"base_plate_width"`
	BasePlateDepth float64 `json:"base_plate_depth"`
}

// RectFrameFields is the field table for RectFrameParams, in form order.
// A zero entry counts as "not entered" on this form.
var RectFrameFields = []FieldSpec{
	{Name: FieldLength, Label: "Total length (mm)", Default: 3000, Min: 200, Unset: UnsetZero},
	{Name: FieldHeight, Label: "Height (mm)", Default: 1200, Min: 300, Unset: UnsetZero},
	{Name: FieldPitch, Label: "Post pitch (mm)", Default: 1000, Min: 200, Unset: UnsetNonPositive},
	{Name: "postW", Label: "Post width (mm)", Default: 50, Min: 20, Unset: UnsetZero},
	{Name: "postH", Label: "Post depth (mm)", Default: 50, Min: 20, Unset: UnsetZero},
	{Name: "basePlateT", Label: "Base plate thickness (mm)", Default: 10, Min: 4, Unset: UnsetZero},
	{Name: "railW", Label: "Rail width (mm)", Default: 50, Min: 20, Unset: UnsetZero},
	{Name: "railH", Label: "Rail height (mm)", Default: 30, Min: 10, Unset: UnsetZero},
	{Name: "railStartY", Label: "Bottom rail start (mm)", Default: 80, Min: 0, Unset: UnsetZero},
	{Name: FieldBarW, Label: "Frame bar width (mm)", Default: 45, Min: 5, Unset: UnsetZero},
	{Name: FieldBarT, Label: "Frame bar thickness (mm)", Default: 6, Min: 2, Unset: UnsetZero},
	{Name: "moduleW", Label: "Module width (mm)", Default: 100, Min: 40, Unset: UnsetZero},
	{Name: "moduleH", Label: "Module height (mm)", Default: 120, Min: 40, Unset: UnsetZero},
	{Name: "moduleGap", Label: "Module gap (mm)", Default: 80, Min: 0, Unset: UnsetZero},
	{Name: "basePlateW", Label: "Base plate width (mm)", Default: 220, Min: 60, Unset: UnsetZero},
	{Name: "basePlateD", Label: "Base plate depth (mm)", Default: 120, Min: 40, Unset: UnsetZero},
}

// ReadRectFrameParams reads and floors every rect-frame field from src.
func ReadRectFrameParams(src FieldSource) RectFrameParams {
	v := readAll(RectFrameFields, src)
	return RectFrameParams{
		Length:         v[0],
		Height:         v[1],
		PostPitch:      v[2],
		PostWidth:      v[3],
		PostDepth:      v[4],
		BasePlateT:     v[5],
		RailWidth:      v[6],
		RailHeight:     v[7],
		RailStartY:     v[8],
		BarWidth:       v[9],
		BarThickness:   v[10],
		ModuleWidth:    v[11],
		ModuleHeight:   v[12],
		ModuleGap:      v[13],
		BasePlateWidth: v[14],
		BasePlateDepth: v[15],
	}
}

// DefaultRectFrameParams returns the rect-frame defaults.
func DefaultRectFrameParams() RectFrameParams {
	return ReadRectFrameParams(nil)
}

// ReadColor reads the color field, falling back to def when missing or invalid.
func ReadColor(src FieldSource, def string) string {
	if src != nil {
		if raw, ok := src.Field(FieldColor); ok {
			if c, err := ParseHexColor(raw); err == nil {
				return HexColor(c)
			}
		}
	}
	if c, err := ParseHexColor(def); err == nil {
		return HexColor(c)
	}
	return HexColor(DefaultColor)
}

func readAll(fields []FieldSpec, src FieldSource) []float64 {
	out := make([]float64, len(fields))
	for i, f := range fields {
		out[i] = f.Read(src)
	}
	return out
}

// FieldsFor returns the field table of a variant.
func FieldsFor(v Variant) []FieldSpec {
	if v == VariantRectFrame {
		return RectFrameFields
	}
	return FlatBarFields
}
