// Package gcode writes CNC drilling programs for the anchor holes of the
// post base plates.
package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/RailCraft/internal/layout"
	"github.com/piwi3910/RailCraft/internal/model"
)

// BasePlate is one base plate blank with its anchor holes. Hole positions
// are offsets from the plate center; the program puts the plate's lower
// left corner at the machine origin.
type BasePlate struct {
	Width        float64      // X extent (mm)
	Depth        float64      // Y extent on the machine bed (mm)
	Thickness    float64      // mm
	HoleDiameter float64      // mm
	Holes        [][2]float64 // (x, y) offsets from the plate center
	Quantity     int          // Plates needed for the railing
}

// PlateFor returns the base plate of a design, or false when the variant
// has no drilled base plates.
func PlateFor(d model.Design, l layout.Layout) (BasePlate, bool) {
	if d.Variant != model.VariantFlatBar || l.PostCount() == 0 {
		return BasePlate{}, false
	}
	return BasePlate{
		Width:        l.Post.BasePlateW,
		Depth:        l.Post.BasePlateD,
		Thickness:    l.Post.BasePlateT,
		HoleDiameter: 2 * d.Post.AnchorRadius,
		Holes:        d.Post.AnchorOffsets(),
		Quantity:     l.PostCount(),
	}, true
}

// Generator produces GCode for base plate drilling.
type Generator struct {
	Settings model.DrillSettings
	profile  model.GCodeProfile
}

func New(settings model.DrillSettings) *Generator {
	return NewWithProfiles(settings, nil)
}

// NewWithProfiles is New with user-defined profiles taking precedence over
// the built-in ones.
func NewWithProfiles(settings model.DrillSettings, custom []model.GCodeProfile) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.ResolveProfile(settings.GCodeProfile, custom),
	}
}

// GenerateBasePlate produces the drilling program for one plate. The same
// program is run once per plate.
func (g *Generator) GenerateBasePlate(plate BasePlate) string {
	var b strings.Builder

	g.writeHeader(&b, plate)
	for i, h := range plate.Holes {
		g.writeHole(&b, plate, h, i+1)
	}
	if g.usesCannedCycle() && g.profile.CancelCycle != "" {
		b.WriteString(g.profile.CancelCycle + "\n")
	}
	g.writeFooter(&b)
	return b.String()
}

// DrillDepth is the total Z depth of every hole.
func (g *Generator) DrillDepth(plate BasePlate) float64 {
	return plate.Thickness + g.Settings.Breakthrough
}

// ToolDiameter is the drill used: the configured bit, or the hole size when unset.
func (g *Generator) ToolDiameter(plate BasePlate) float64 {
	if g.Settings.ToolDiameter > 0 {
		return g.Settings.ToolDiameter
	}
	return plate.HoleDiameter
}

func (g *Generator) usesCannedCycle() bool {
	return g.profile.PeckCycle != "" && g.Settings.PeckDepth > 0
}

func (g *Generator) writeHeader(b *strings.Builder, plate BasePlate) {
	p := g.profile

	b.WriteString(g.comment("RailCraft GCode - Base plate drilling"))
	b.WriteString(g.comment(fmt.Sprintf("Plate: %.1f x %.1f x %.1f mm, qty %d",
		plate.Width, plate.Depth, plate.Thickness, plate.Quantity)))
	b.WriteString(g.comment(fmt.Sprintf("Holes: %d x %.1f mm, depth %.1f mm",
		len(plate.Holes), plate.HoleDiameter, g.DrillDepth(plate))))
	b.WriteString(g.comment(fmt.Sprintf("Tool: %.1fmm, Feed: %.0f mm/min, Peck: %.1fmm",
		g.ToolDiameter(plate), g.Settings.FeedRate, g.Settings.PeckDepth)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	if g.ToolDiameter(plate) > plate.HoleDiameter {
		b.WriteString(g.comment("WARNING: tool is larger than the anchor hole"))
	}
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}

	if p.SpindleStart != "" {
		b.WriteString(fmt.Sprintf(p.SpindleStart+"\n", g.Settings.SpindleSpeed))
	}

	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(0), g.format(0)))
	b.WriteString("\n")
}

func (g *Generator) writeHole(b *strings.Builder, plate BasePlate, offset [2]float64, n int) {
	p := g.profile
	x := plate.Width/2 + offset[0]
	y := plate.Depth/2 + offset[1]
	depth := g.DrillDepth(plate)

	b.WriteString(g.comment(fmt.Sprintf("--- Hole %d ---", n)))

	if g.usesCannedCycle() {
		b.WriteString(fmt.Sprintf("%s X%s Y%s Z%s R%s Q%s F%s\n", p.PeckCycle,
			g.format(x), g.format(y), g.format(-depth), g.format(g.Settings.RetractZ),
			g.format(g.Settings.PeckDepth), g.format(g.Settings.FeedRate)))
		return
	}

	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(x), g.format(y)))
	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.RetractZ)))
	for _, z := range PeckDepths(depth, g.Settings.PeckDepth) {
		b.WriteString(fmt.Sprintf("%s Z%s F%s\n", p.FeedMove, g.format(-z), g.format(g.Settings.FeedRate)))
		b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.RetractZ)))
	}
	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
}

// PeckDepths lists the successive plunge depths down to depth. A
// non-positive peck drills in one plunge.
func PeckDepths(depth, peck float64) []float64 {
	if depth <= 0 {
		return nil
	}
	if peck <= 0 {
		return []float64{depth}
	}
	n := int(math.Ceil(depth/peck - 1e-9))
	out := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, math.Min(float64(i)*peck, depth))
	}
	return out
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString("\n")
	b.WriteString(g.comment("=== Job complete ==="))

	if p.SpindleStop != "" {
		b.WriteString(p.SpindleStop + "\n")
	}

	for _, code := range p.EndCode {
		code = strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ))
		b.WriteString(code + "\n")
	}
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.DecimalPlaces)
	return fmt.Sprintf(format, v)
}
