package viewpipeline

import (
	"github.com/rivo/uniseg"
	"golang.org/x/text/width"
)

// DisplayWidth returns the number of screen cells a grapheme cluster
// occupies, walking clusters with uniseg (the same library
// internal/cursor uses for grapheme-aware motion) and widening each
// cluster's leading rune with golang.org/x/text/width's East Asian
// width classification.
func DisplayWidth(s string) int {
	total := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		total += clusterWidth(g.Runes())
	}
	return total
}

func clusterWidth(runes []rune) int {
	if len(runes) == 0 {
		return 0
	}
	r := runes[0]
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	case width.EastAsianNarrow, width.EastAsianHalfwidth, width.EastAsianAmbiguous, width.Neutral:
		if r < 0x20 {
			return 0
		}
		return 1
	default:
		return 1
	}
}

// ExpandTab returns how many columns a tab at the given display column
// consumes to reach the next tabWidth stop.
func ExpandTab(col, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	return tabWidth - (col % tabWidth)
}
