package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadFlatBarParamsDefaults(t *testing.T) {
	p := ReadFlatBarParams(MapSource{})

	assert.Equal(t, 3000.0, p.Length)
	assert.Equal(t, 1100.0, p.Height)
	assert.Equal(t, 1000.0, p.PostPitch)
	assert.Equal(t, 120.0, p.PicketGap)
	assert.Equal(t, 20.0, p.PipeOD)
	assert.Equal(t, 50.0, p.BarWidth)
	assert.Equal(t, 6.0, p.BarThickness)
	assert.Equal(t, 60.0, p.Ground)
}

func TestReadFlatBarParamsFloors(t *testing.T) {
	p := ReadFlatBarParams(MapSource{
		"totalL":    "10",
		"height":    "50",
		"picketGap": "0",
		"pipeOD":    "2",
	})

	assert.Equal(t, 100.0, p.Length, "length floored at 100")
	assert.Equal(t, 200.0, p.Height, "height floored at 200")
	assert.Equal(t, 1.0, p.PicketGap, "gap floored at 1")
	assert.Equal(t, 6.0, p.PipeOD, "pipe OD floored at 6")
}

func TestReadFlatBarParamsInvalidFallsBackToDefault(t *testing.T) {
	p := ReadFlatBarParams(MapSource{
		"totalL":  "abc",
		"postInt": "-5",
		"barW":    "NaN",
		"barT":    "+Inf",
		"height":  "  1250 ",
	})

	assert.Equal(t, 3000.0, p.Length)
	assert.Equal(t, 1000.0, p.PostPitch, "non-positive pitch falls back to default")
	assert.Equal(t, 50.0, p.BarWidth)
	assert.Equal(t, 6.0, p.BarThickness)
	assert.Equal(t, 1250.0, p.Height, "surrounding spaces are ignored")
}

func TestReadRectFrameParamsZeroIsUnset(t *testing.T) {
	p := ReadRectFrameParams(MapSource{
		"railStartY": "0",
		"moduleGap":  "0",
		"postW":      "5",
	})

	assert.Equal(t, 80.0, p.RailStartY, "zero start falls back to default")
	assert.Equal(t, 80.0, p.ModuleGap, "zero gap falls back to default")
	assert.Equal(t, 20.0, p.PostWidth, "post width floored at 20")
}

func TestReadRectFrameParamsDefaults(t *testing.T) {
	p := DefaultRectFrameParams()

	assert.Equal(t, 3000.0, p.Length)
	assert.Equal(t, 1200.0, p.Height)
	assert.Equal(t, 100.0, p.ModuleWidth)
	assert.Equal(t, 120.0, p.ModuleHeight)
	assert.Equal(t, 220.0, p.BasePlateWidth)
	assert.Equal(t, 120.0, p.BasePlateDepth)
}

func TestReadColor(t *testing.T) {
	assert.Equal(t, "#ff8800", ReadColor(MapSource{"allColor": "#FF8800"}, "#666666"))
	assert.Equal(t, "#666666", ReadColor(MapSource{"allColor": "orange"}, "#666666"))
	assert.Equal(t, "#666666", ReadColor(nil, "bogus"))
}

func TestReadDesignKeepsMatchingVisibility(t *testing.T) {
	vis := NewVisibility(VariantFlatBar).Toggled(PartInfill)
	d := ReadDesign(VariantFlatBar, MapSource{"totalL": "4000"}, vis)

	assert.Equal(t, 4000.0, d.Length())
	assert.False(t, d.Visibility.Shows(PartInfill))

	other := ReadDesign(VariantRectFrame, MapSource{}, vis)
	assert.Equal(t, VariantRectFrame, other.Visibility.Variant, "visibility of another variant is ignored")
	assert.Equal(t, 1200.0, other.Height())
}

func TestParseVariant(t *testing.T) {
	v, ok := ParseVariant("post-double-rail-rectframe")
	assert.True(t, ok)
	assert.Equal(t, VariantRectFrame, v)

	_, ok = ParseVariant("glass")
	assert.False(t, ok)
}
