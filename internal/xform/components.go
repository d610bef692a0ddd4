package xform

import "strings"

// Components selects which parts of a Transform an operation touches.
type Components uint8

const (
	// Position selects the translation component.
	Position Components = 1 << iota
	// Rotation selects the rotation component.
	Rotation
	// Scale selects the scale component.
	Scale

	// None selects nothing. An override with no components is not an override.
	None Components = 0
	// All selects position, rotation and scale.
	All = Position | Rotation | Scale
)

// Has reports whether every component in other is selected.
func (c Components) Has(other Components) bool {
	return c&other == other && other != None
}

// Empty reports whether no component is selected.
func (c Components) Empty() bool {
	return c&All == None
}

// String renders the mask as "position|rotation|scale" or "none".
func (c Components) String() string {
	if c.Empty() {
		return "none"
	}
	var parts []string
	if c&Position != 0 {
		parts = append(parts, "position")
	}
	if c&Rotation != 0 {
		parts = append(parts, "rotation")
	}
	if c&Scale != 0 {
		parts = append(parts, "scale")
	}
	return strings.Join(parts, "|")
}

// ParseComponents parses the output of String. Unknown names are ignored.
func ParseComponents(s string) Components {
	var c Components
	for _, part := range strings.Split(s, "|") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "position":
			c |= Position
		case "rotation":
			c |= Rotation
		case "scale":
			c |= Scale
		case "all":
			c |= All
		}
	}
	return c
}
