// Package viewpipeline turns a buffer snapshot and viewport into a screen
// token stream: base tokenization, an optional transformer pass, conceal
// ranges, and z-layered overlay styling, with a char-index to source-byte
// mapping preserved through every stage.
package viewpipeline

import (
	"github.com/inkwell-editor/core/internal/buffer"
)

// ByteOffset mirrors buffer.ByteOffset so callers outside internal/buffer
// don't need to import it just to spell out a source offset.
type ByteOffset = buffer.ByteOffset

// Kind tags a Token's role in the stream.
type Kind uint8

const (
	// KindText is a run of printable characters.
	KindText Kind = iota
	// KindNewline is a single line-ending token.
	KindNewline
	// KindSpace is one visual cell of expandable whitespace (e.g. one
	// tab stop column). Tabs expand to one Space token per cell.
	KindSpace
	// KindBreak marks a soft-wrap point. Authoritative when emitted by a
	// transformer; otherwise inserted by the pipeline's own wrap pass.
	KindBreak
)

// Source is the originating byte offset of a token, or "no source" for
// synthetic tokens a transformer inserted. A cursor can never land on a
// token with HasSource false; motion backtracks to the nearest token
// that does.
type Source struct {
	Offset    ByteOffset
	HasSource bool
}

// SourceAt returns a Source pointing at offset.
func SourceAt(offset ByteOffset) Source { return Source{Offset: offset, HasSource: true} }

// NoSource returns a Source with no originating byte.
func NoSource() Source { return Source{} }

// Token is one unit of the view pipeline's stream, from base tokenization
// through the final overlay pass.
type Token struct {
	Kind   Kind
	Text   string
	Source Source
	Style  Style

	// AfterContent marks a token as trailing, ghost-text-style content
	// appended past the end of real line content (§4.9 overlay layering).
	AfterContent bool
}

// Len returns the number of runes the token's text occupies; Newline and
// Break tokens report 0 since they don't advance a screen column.
func (t Token) Len() int {
	if t.Kind == KindNewline || t.Kind == KindBreak {
		return 0
	}
	return len([]rune(t.Text))
}

// Stream is a sequence of tokens plus the per-character mapping back to
// source bytes, keyed by the index of the rune each character represents
// (not byte index, since transformers may replace text while preserving
// source — "pipe displays as │ but still maps to its byte").
type Stream struct {
	Tokens []Token

	// TopByte is the viewport top_byte this stream was built for. A
	// renderer comparing against a viewport with a different TopByte
	// must treat the stream as stale (§4.9 stale-frame policy).
	TopByte ByteOffset
}

// CharSources flattens the stream into one Source per rune, in stream
// order, for cursor screen-position and click-to-position lookups.
func (s Stream) CharSources() []Source {
	out := make([]Source, 0, len(s.Tokens))
	for _, tok := range s.Tokens {
		if tok.Kind == KindNewline || tok.Kind == KindBreak {
			continue
		}
		for i := 0; i < tok.Len(); i++ {
			if i == 0 {
				out = append(out, tok.Source)
			} else {
				out = append(out, NoSource())
			}
		}
	}
	return out
}

// NearestSource returns the Source of the token at or nearest to charIdx
// that has HasSource true, searching forward then backward. Used by
// arrow-key motion to skip over synthetic tokens.
func NearestSource(sources []Source, charIdx int) (ByteOffset, bool) {
	if len(sources) == 0 {
		return 0, false
	}
	if charIdx < 0 {
		charIdx = 0
	}
	if charIdx >= len(sources) {
		charIdx = len(sources) - 1
	}
	for i := charIdx; i < len(sources); i++ {
		if sources[i].HasSource {
			return sources[i].Offset, true
		}
	}
	for i := charIdx - 1; i >= 0; i-- {
		if sources[i].HasSource {
			return sources[i].Offset, true
		}
	}
	return 0, false
}
