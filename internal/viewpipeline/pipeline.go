package viewpipeline

import (
	"github.com/inkwell-editor/core/internal/buffer"
	"github.com/inkwell-editor/core/internal/marker"
)

// ViewportMetadata is the slice of viewport state a Transformer needs to
// make wrap/placement decisions without importing internal/viewport.
type ViewportMetadata struct {
	TopByte     ByteOffset
	Width       int
	ComposeWidth int
}

// Transformer replaces the base token stream with a presentation-layer
// stream. It may omit source tokens, insert synthetic ones (Source with
// HasSource false), rewrite a source-mapped token's text while keeping
// its Source, or emit its own KindBreak tokens to override built-in
// wrapping. With no transformer registered the pipeline runs Identity.
type Transformer func(base []Token, primary ByteOffset, secondary []ByteOffset, meta ViewportMetadata) []Token

// Identity is the pipeline's behavior with no transformer registered: it
// passes the base tokens through unchanged.
func Identity(base []Token, _ ByteOffset, _ []ByteOffset, _ ViewportMetadata) []Token {
	return base
}

// BuildBaseTokens tokenizes every byte in [start, end) of snap: newlines
// become Newline tokens, runs of printable bytes become Text tokens split
// at character boundaries, and tabs/expandable whitespace become one
// Space token per visual cell they occupy, per the tab width recorded on
// the buffer.
func BuildBaseTokens(snap *buffer.Snapshot, start, end ByteOffset) []Token {
	tabWidth := snap.TabWidth()
	var tokens []Token
	col := 0
	offset := start

	for offset < end {
		r, size := snap.RuneAt(offset)
		if size == 0 {
			break
		}
		switch r {
		case '\n':
			tokens = append(tokens, Token{Kind: KindNewline, Text: "\n", Source: SourceAt(offset)})
			col = 0
		case '\t':
			cells := ExpandTab(col, tabWidth)
			for i := 0; i < cells; i++ {
				tokens = append(tokens, Token{Kind: KindSpace, Text: " ", Source: SourceAt(offset)})
			}
			col += cells
		default:
			// One Text token per character so conceal ranges and
			// overlay spans can cover a prefix or suffix of a longer
			// run without splitting a token mid-text.
			text := string(r)
			tokens = append(tokens, Token{Kind: KindText, Text: text, Source: SourceAt(offset)})
			col += DisplayWidth(text)
		}
		offset += ByteOffset(size)
	}

	return tokens
}

// ApplyConceal replaces tokens whose source falls within a conceal range
// with the range's replacement (or drops them if it has none), unless
// CursorReveal is set and a cursor falls inside the range — in which case
// the range is skipped and its tokens render raw.
//
// A cursor_reveal range's "inside" test is widened to its namespace's
// envelope: the span from the earliest start to the latest end among every
// cursor_reveal range sharing that namespace. A markdown bold span is
// typically two sibling ranges — the opening and closing "**" — added
// under one namespace; a cursor sitting on the word between them (inside
// neither delimiter's own bytes) still reveals both, rather than only the
// delimiter the cursor happens to touch.
func ApplyConceal(tokens []Token, conceals []resolvedConceal, cursors []ByteOffset) []Token {
	if len(conceals) == 0 {
		return tokens
	}

	envelopes := revealEnvelopes(conceals)
	active := make([]resolvedConceal, 0, len(conceals))
	for _, c := range conceals {
		if c.CursorReveal {
			env := envelopes[c.Namespace]
			if anyInRange(cursors, env.start, env.end) {
				continue
			}
		}
		active = append(active, c)
	}
	if len(active) == 0 {
		return tokens
	}

	out := make([]Token, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		if rng := sourceCoveredBy(active, tok.Source); rng != nil {
			if rng.HasReplacement && rng.Replacement != "" {
				out = append(out, Token{Kind: KindText, Text: rng.Replacement, Source: SourceAt(rng.Start)})
			}
			for i < len(tokens) && sourceCoveredBy(active, tokens[i].Source) == rng {
				i++
			}
			continue
		}
		out = append(out, tok)
		i++
	}
	return out
}

func sourceCoveredBy(ranges []resolvedConceal, src Source) *resolvedConceal {
	if !src.HasSource {
		return nil
	}
	return coveredBy(ranges, src.Offset)
}

type revealSpan struct {
	start, end ByteOffset
}

// revealEnvelopes computes, per namespace, the [start,end) span bounded by
// the earliest start and latest end among that namespace's cursor_reveal
// ranges. Namespaces with no cursor_reveal ranges are absent from the
// result, so a zero-value lookup (no entry) never accidentally matches a
// cursor at offset 0.
func revealEnvelopes(conceals []resolvedConceal) map[string]revealSpan {
	envelopes := make(map[string]revealSpan)
	for _, c := range conceals {
		if !c.CursorReveal {
			continue
		}
		span, ok := envelopes[c.Namespace]
		if !ok {
			envelopes[c.Namespace] = revealSpan{start: c.Start, end: c.End}
			continue
		}
		if c.Start < span.start {
			span.start = c.Start
		}
		if c.End > span.end {
			span.end = c.End
		}
		envelopes[c.Namespace] = span
	}
	return envelopes
}

func anyInRange(offsets []ByteOffset, start, end ByteOffset) bool {
	for _, o := range offsets {
		if o >= start && o < end {
			return true
		}
	}
	return false
}

func coveredBy(ranges []resolvedConceal, offset ByteOffset) *resolvedConceal {
	for i := range ranges {
		if offset >= ranges[i].Start && offset < ranges[i].End {
			return &ranges[i]
		}
	}
	return nil
}

// ApplyOverlays layers overlay styling onto tokens keyed by z: for each
// token, the highest-z overlay covering its source byte wins the style.
// Overlays never alter Source mapping.
func ApplyOverlays(tokens []Token, overlays []resolvedOverlay) []Token {
	if len(overlays) == 0 {
		return tokens
	}
	out := make([]Token, len(tokens))
	copy(out, tokens)
	for i, tok := range out {
		if !tok.Source.HasSource {
			continue
		}
		var winner *resolvedOverlay
		for j := range overlays {
			o := &overlays[j]
			covers := tok.Source.Offset >= o.Start && tok.Source.Offset < o.End
			if !covers && o.ExtendToLineEnd && tok.Source.Offset >= o.Start {
				covers = true
			}
			if !covers {
				continue
			}
			if winner == nil || o.Z > winner.Z {
				winner = o
			}
		}
		if winner != nil {
			out[i].Style = out[i].Style.Merge(winner.Style)
		}
	}
	return out
}

// Wrap inserts soft Break tokens at composeWidth when the transformer
// step produced none of its own (Break tokens from a transformer are
// authoritative and Wrap leaves them alone). Break preference looks
// backward up to lookback Space tokens for a natural break point before
// falling back to a hard break at the width column.
func Wrap(tokens []Token, composeWidth, lookback int) []Token {
	for _, t := range tokens {
		if t.Kind == KindBreak {
			return tokens
		}
	}
	if composeWidth <= 0 {
		return tokens
	}

	out := make([]Token, 0, len(tokens))
	col := 0
	lastSpaceIdx := -1
	for _, tok := range tokens {
		if tok.Kind == KindNewline {
			out = append(out, tok)
			col = 0
			lastSpaceIdx = -1
			continue
		}

		w := tok.Len()
		if tok.Kind == KindSpace {
			w = 1
		} else if tok.Kind == KindText {
			w = DisplayWidth(tok.Text)
		}

		if col+w > composeWidth {
			if lastSpaceIdx >= 0 && len(out)-lastSpaceIdx <= lookback {
				breakAt := lastSpaceIdx + 1
				rest := append([]Token{{Kind: KindBreak}}, out[breakAt:]...)
				out = append(out[:breakAt], rest...)
			} else {
				out = append(out, Token{Kind: KindBreak})
			}
			col = 0
			lastSpaceIdx = -1
		}

		if tok.Kind == KindSpace {
			lastSpaceIdx = len(out)
		}
		out = append(out, tok)
		col += w
	}
	return out
}

// BuildParams collects everything Build needs to go from a buffer
// snapshot to a render-ready Stream.
type BuildParams struct {
	Snapshot         *buffer.Snapshot
	Markers          *marker.Tree
	Overlays         *Manager
	TopByte, EndByte ByteOffset
	PrimaryCursor    ByteOffset
	SecondaryCursors []ByteOffset
	Transform        Transformer
	ComposeWidth     int
	WrapLookback     int
}

// Build runs the full view pipeline: tokenize, transform (or Identity),
// conceal, wrap, and overlay-style, returning a Stream stamped with the
// TopByte it was built for.
func Build(p BuildParams) Stream {
	base := BuildBaseTokens(p.Snapshot, p.TopByte, p.EndByte)

	transform := p.Transform
	if transform == nil {
		transform = Identity
	}
	meta := ViewportMetadata{TopByte: p.TopByte, ComposeWidth: p.ComposeWidth}
	tokens := transform(base, p.PrimaryCursor, p.SecondaryCursors, meta)

	if p.Overlays != nil && p.Markers != nil {
		cursors := append([]ByteOffset{p.PrimaryCursor}, p.SecondaryCursors...)
		tokens = ApplyConceal(tokens, p.Overlays.Conceals(p.Markers), cursors)
		tokens = Wrap(tokens, p.ComposeWidth, p.WrapLookback)
		tokens = ApplyOverlays(tokens, p.Overlays.Overlays(p.Markers))
	} else {
		tokens = Wrap(tokens, p.ComposeWidth, p.WrapLookback)
	}

	return Stream{Tokens: tokens, TopByte: p.TopByte}
}

// IsStale reports whether a Stream was built for a different top_byte
// than currentTopByte, per the pipeline's stale-frame policy: a renderer
// MUST suppress output rather than paint a mismatched stream.
func (s Stream) IsStale(currentTopByte ByteOffset) bool {
	return s.TopByte != currentTopByte
}
