package viewpipeline

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Attribute is a text attribute flag, combinable with the others.
type Attribute uint8

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse
	AttrStrikethrough
)

// Has reports whether attr is set.
func (a Attribute) Has(attr Attribute) bool { return a&attr != 0 }

// Style is the visual style carried by a Token or an Overlay. Colors are
// colorful.Color rather than raw RGB triples so overlay styling (e.g. a
// diagnostic-severity gradient) can blend or interpolate them directly.
type Style struct {
	Foreground    colorful.Color
	Background    colorful.Color
	HasForeground bool
	HasBackground bool
	Attributes    Attribute
}

// DefaultStyle is the style with no color and no attributes set; a
// renderer interprets it as "use the terminal's default colors".
func DefaultStyle() Style { return Style{} }

// WithForeground returns a copy of s with the given foreground color set.
func (s Style) WithForeground(c colorful.Color) Style {
	s.Foreground, s.HasForeground = c, true
	return s
}

// WithBackground returns a copy of s with the given background color set.
func (s Style) WithBackground(c colorful.Color) Style {
	s.Background, s.HasBackground = c, true
	return s
}

// WithAttribute returns a copy of s with attr added.
func (s Style) WithAttribute(attr Attribute) Style {
	s.Attributes |= attr
	return s
}

// Merge layers other on top of s: other's colors and attributes take
// precedence when set, s's show through otherwise.
func (s Style) Merge(other Style) Style {
	result := s
	if other.HasForeground {
		result.Foreground, result.HasForeground = other.Foreground, true
	}
	if other.HasBackground {
		result.Background, result.HasBackground = other.Background, true
	}
	result.Attributes |= other.Attributes
	return result
}
