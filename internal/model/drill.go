package model

// DrillSettings holds the CNC configuration for base plate drilling.
type DrillSettings struct {
	ToolDiameter float64 `json:"tool_diameter"` // Drill bit diameter in mm, 0 = use anchor diameter
	FeedRate     float64 `json:"feed_rate"`     // Drilling feed rate mm/min
	SpindleSpeed int     `json:"spindle_speed"` // RPM
	SafeZ        float64 `json:"safe_z"`        // Safe retract height mm
	RetractZ     float64 `json:"retract_z"`     // R plane for canned cycles mm
	PeckDepth    float64 `json:"peck_depth"`    // Peck increment mm, 0 = single plunge
	Breakthrough float64 `json:"breakthrough"`  // Extra depth below the plate mm
	GCodeProfile string  `json:"gcode_profile"` // Name of the GCode profile to use
}

// DefaultDrillSettings returns drilling defaults for mild steel plate.
func DefaultDrillSettings() DrillSettings {
	return DrillSettings{
		ToolDiameter: 0,
		FeedRate:     80,
		SpindleSpeed: 600,
		SafeZ:        10,
		RetractZ:     2,
		PeckDepth:    3,
		Breakthrough: 1.5,
		GCodeProfile: "Generic",
	}
}

// GCodeProfile defines a post-processor configuration for different CNC controllers.
type GCodeProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	StartCode    []string `json:"start_code"`    // Commands at start of file
	SpindleStart string   `json:"spindle_start"` // Spindle on command (e.g., "M3 S%d")
	SpindleStop  string   `json:"spindle_stop"`
	RapidMove    string   `json:"rapid_move"`
	FeedMove     string   `json:"feed_move"`
	PeckCycle    string   `json:"peck_cycle"` // Canned peck drilling cycle, empty = expand by hand
	CancelCycle  string   `json:"cancel_cycle"`
	EndCode      []string `json:"end_code"`

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"`
	DecimalPlaces int    `json:"decimal_places"`
}

// Built-in GCode profiles
var GCodeProfiles = []GCodeProfile{
	{
		Name:          "Grbl",
		Description:   "Standard Grbl configuration (Arduino CNC shields)",
		StartCode:     []string{"G90", "G21", "G17"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		PeckCycle:     "",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC (formerly EMC2)",
		StartCode:     []string{"G90", "G21", "G17", "G94", "G98"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		PeckCycle:     "G83",
		CancelCycle:   "G80",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 4,
	},
	{
		Name:          "Generic",
		Description:   "Generic standard GCode",
		StartCode:     []string{"G90", "G21"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		PeckCycle:     "G83",
		CancelCycle:   "G80",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
}

// GetProfile returns a GCode profile by name, or the Generic profile if not found.
func GetProfile(name string) GCodeProfile {
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1]
}

// GetProfileNames returns a list of all available profile names.
func GetProfileNames() []string {
	var names []string
	for _, p := range GCodeProfiles {
		names = append(names, p.Name)
	}
	return names
}

// ResolveProfile looks name up in the custom profiles first, then falls
// back to GetProfile.
func ResolveProfile(name string, custom []GCodeProfile) GCodeProfile {
	for _, p := range custom {
		if p.Name == name {
			return p
		}
	}
	return GetProfile(name)
}
