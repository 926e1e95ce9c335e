package card

// Layout tags one of the closed set of page layout variants.
type Layout string

const (
	LayoutClassic Layout = "classic"
	LayoutModern  Layout = "modern"
	LayoutMinimal Layout = "minimal"
)

// Layouts lists the closed set in the order the editor offers them.
func Layouts() []Layout {
	return []Layout{LayoutClassic, LayoutModern, LayoutMinimal}
}

// Valid reports whether the layout belongs to the closed set.
func (l Layout) Valid() bool {
	switch l {
	case LayoutClassic, LayoutModern, LayoutMinimal:
		return true
	}
	return false
}

// DefaultPrimaryColor is the accent used when a profile has not picked one.
const DefaultPrimaryColor = "#c6ff00"

// AccentPalette is the fixed set of accent swatches the editor offers.
// A profile may still carry any custom color string; the palette affects
// rendering of the picker only, never data validity.
func AccentPalette() []string {
	return []string{"#c6ff00", "#3b82f6", "#ec4899", "#8b5cf6", "#ef4444"}
}

// Theme is the rendering policy embedded in a profile. It never affects
// data validity.
type Theme struct {
	Layout       Layout
	PrimaryColor string
}

// DefaultTheme returns the theme applied to newly created profiles.
func DefaultTheme() Theme {
	return Theme{Layout: LayoutClassic, PrimaryColor: DefaultPrimaryColor}
}

// EffectiveColor returns the primary color, falling back to the default.
func (t Theme) EffectiveColor() string {
	if t.PrimaryColor == "" {
		return DefaultPrimaryColor
	}
	return t.PrimaryColor
}

// EffectiveLayout returns the layout, falling back to classic.
func (t Theme) EffectiveLayout() Layout {
	if !t.Layout.Valid() {
		return LayoutClassic
	}
	return t.Layout
}
