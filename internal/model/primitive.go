package model

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// Shape is the kind of solid a primitive describes.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeCylinder
)

func (s Shape) String() string {
	if s == ShapeCylinder {
		return "Cylinder"
	}
	return "Box"
}

// Role identifies what a primitive is in the railing.
type Role string

const (
	RolePostPipe        Role = "post-pipe"
	RoleBasePlate       Role = "base-plate"
	RoleStem            Role = "stem"
	RoleHead            Role = "head"
	RoleAnchor          Role = "anchor"
	RoleCapTop          Role = "cap-top"
	RoleCapBottom       Role = "cap-bottom"
	RoleRailTop         Role = "rail-top"
	RoleRailMid         Role = "rail-mid"
	RoleRailBottom      Role = "rail-bottom"
	RolePicket          Role = "picket"
	RolePost            Role = "post"
	RoleFrameVertical   Role = "frame-vertical"
	RoleFrameHorizontal Role = "frame-horizontal"
)

// Primitive is one positioned solid.
// Axes: X runs along the railing, Y is up, Z is depth.
// Size is the full extent of the solid; for a cylinder X and Z are the
// diameter and Y the length along its (vertical) axis.
type Primitive struct {
	Shape    Shape       `json:"shape"`
	Role     Role        `json:"role"`
	Center   r3.Vec      `json:"center"`
	Size     r3.Vec      `json:"size"`
	Segments int         `json:"segments,omitempty"` // cylinder facet count hint
	Color    color.NRGBA `json:"color"`
	Post     int         `json:"post"`    // post index, -1 if not part of a post
	Section  int         `json:"section"` // section index, -1 if not part of a section
}

// NewBox returns a box primitive.
func NewBox(role Role, center, size r3.Vec, c color.NRGBA) Primitive {
	return Primitive{Shape: ShapeBox, Role: role, Center: center, Size: size, Color: c, Post: -1, Section: -1}
}

// NewCylinder returns a vertical cylinder primitive.
func NewCylinder(role Role, center r3.Vec, radius, height float64, segments int, c color.NRGBA) Primitive {
	return Primitive{
		Shape:    ShapeCylinder,
		Role:     role,
		Center:   center,
		Size:     r3.Vec{X: 2 * radius, Y: height, Z: 2 * radius},
		Segments: segments,
		Color:    c,
		Post:     -1,
		Section:  -1,
	}
}

// Bounds returns the axis-aligned bounding box of the primitive.
func (p Primitive) Bounds() r3.Box {
	half := r3.Scale(0.5, p.Size)
	return r3.Box{Min: r3.Sub(p.Center, half), Max: r3.Add(p.Center, half)}
}

// Radius returns the cylinder radius (half the X size).
func (p Primitive) Radius() float64 {
	return p.Size.X / 2
}
