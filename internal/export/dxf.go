package export

import (
	"fmt"

	"github.com/piwi3910/RailCraft/internal/geometry"
	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/monitoring"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names, one per group of railing parts.
const (
	LayerPosts  = "POSTS"
	LayerRails  = "RAILS"
	LayerInfill = "INFILL"
	LayerBase   = "BASE"
)

var dxfLayers = []struct {
	name  string
	color color.ColorNumber
}{
	{LayerPosts, color.Cyan},
	{LayerRails, color.Green},
	{LayerInfill, color.Yellow},
	{LayerBase, color.Red},
}

// LayerFor returns the DXF layer a primitive role is drawn on.
func LayerFor(role model.Role) string {
	switch role {
	case model.RoleRailTop, model.RoleRailMid, model.RoleRailBottom,
		model.RoleCapTop, model.RoleCapBottom:
		return LayerRails
	case model.RolePicket, model.RoleFrameVertical, model.RoleFrameHorizontal:
		return LayerInfill
	case model.RoleBasePlate, model.RoleStem, model.RoleHead, model.RoleAnchor:
		return LayerBase
	default:
		return LayerPosts
	}
}

// ExportElevationDXF writes the front elevation of the scene: every
// primitive is drawn as its outline projected onto the X/Y plane.
func ExportElevationDXF(path string, scene geometry.Scene) error {
	if scene.Len() == 0 {
		return fmt.Errorf("scene has no primitives to export")
	}

	d := dxf.NewDrawing()
	for _, l := range dxfLayers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer %s: %w", l.name, err)
		}
	}

	for _, p := range scene.Primitives {
		if err := d.ChangeLayer(LayerFor(p.Role)); err != nil {
			return fmt.Errorf("select layer: %w", err)
		}
		if err := drawOutline(d, p); err != nil {
			return fmt.Errorf("draw %s: %w", p.Role, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("save dxf: %w", err)
	}
	monitoring.Logf("export: elevation with %d primitives written to %s", scene.Len(), path)
	return nil
}

// drawOutline draws the X/Y rectangle of a primitive as four lines.
func drawOutline(d *drawing.Drawing, p model.Primitive) error {
	b := p.Bounds()
	corners := [][2]float64{
		{b.Min.X, b.Min.Y},
		{b.Max.X, b.Min.Y},
		{b.Max.X, b.Max.Y},
		{b.Min.X, b.Max.Y},
	}
	for i := range corners {
		a, c := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, c[0], c[1], 0); err != nil {
			return err
		}
	}
	return nil
}
