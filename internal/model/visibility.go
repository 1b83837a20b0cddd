package model

// Part is a toggleable group of railing members.
type Part int

const (
	PartPosts Part = iota
	PartBottomRail
	PartInfill
	PartMidRail
	PartTopRail
	partCount
)

func (p Part) String() string {
	switch p {
	case PartPosts:
		return "Posts"
	case PartBottomRail:
		return "Bottom rail"
	case PartInfill:
		return "Infill"
	case PartMidRail:
		return "Mid rail"
	case PartTopRail:
		return "Top rail"
	default:
		return "Unknown"
	}
}

// BuildOrder returns the fixed part order a variant's build steps follow.
// The flat-bar railing has no mid rail.
func BuildOrder(v Variant) []Part {
	if v == VariantRectFrame {
		return []Part{PartPosts, PartBottomRail, PartInfill, PartMidRail, PartTopRail}
	}
	return []Part{PartPosts, PartBottomRail, PartInfill, PartTopRail}
}

// Visibility is the part toggle state plus the build step preset it came from.
// Shown is always the source of truth; Step is 0 whenever the flags were set by hand.
type Visibility struct {
	Variant Variant         `json:"variant"`
	Shown   [partCount]bool `json:"shown"`
	Step    int             `json:"step"`
}

// NewVisibility returns the initial state of a variant: the flat-bar form
// starts with every part on at step 0, the rect-frame form at its last step.
func NewVisibility(v Variant) Visibility {
	vis := Visibility{Variant: v}
	if v == VariantRectFrame {
		return vis.WithStep(vis.MaxStep())
	}
	for _, p := range BuildOrder(v) {
		vis.Shown[p] = true
	}
	return vis
}

// Shows reports whether part p is visible.
func (vis Visibility) Shows(p Part) bool {
	if p < 0 || p >= partCount {
		return false
	}
	return vis.Shown[p]
}

// MaxStep is the number of build steps of the variant.
func (vis Visibility) MaxStep() int {
	return len(BuildOrder(vis.Variant))
}

// WithStep applies build step s (clamped): exactly the first s parts of the
// build order are shown.
func (vis Visibility) WithStep(s int) Visibility {
	if s < 0 {
		s = 0
	}
	if s > vis.MaxStep() {
		s = vis.MaxStep()
	}
	out := Visibility{Variant: vis.Variant, Step: s}
	for i, p := range BuildOrder(vis.Variant) {
		out.Shown[p] = i < s
	}
	return out
}

// NextStep advances the build step. The rect-frame form wraps from the
// last step to 0; the flat-bar form stops at the last step.
func (vis Visibility) NextStep() Visibility {
	s := vis.Step + 1
	if s > vis.MaxStep() && vis.Variant == VariantRectFrame {
		s = 0
	}
	return vis.WithStep(s)
}

// PrevStep goes back one build step, wrapping to the last step on the rect-frame form.
func (vis Visibility) PrevStep() Visibility {
	s := vis.Step - 1
	if s < 0 && vis.Variant == VariantRectFrame {
		s = vis.MaxStep()
	}
	return vis.WithStep(s)
}

// Toggled flips part p by hand, which resets the step to 0.
// Parts outside the variant's build order are left untouched.
func (vis Visibility) Toggled(p Part) Visibility {
	for _, q := range BuildOrder(vis.Variant) {
		if q == p {
			vis.Shown[p] = !vis.Shown[p]
			vis.Step = 0
			return vis
		}
	}
	return vis
}
