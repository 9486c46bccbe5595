package viewpipeline

import "testing"

func TestTokenLen(t *testing.T) {
	text := Token{Kind: KindText, Text: "abc"}
	if got := text.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}

	nl := Token{Kind: KindNewline, Text: "\n"}
	if got := nl.Len(); got != 0 {
		t.Errorf("Newline Len() = %d, want 0", got)
	}
}

func TestStreamCharSources(t *testing.T) {
	s := Stream{Tokens: []Token{
		{Kind: KindText, Text: "ab", Source: SourceAt(10)},
		{Kind: KindNewline, Text: "\n", Source: SourceAt(12)},
		{Kind: KindText, Text: "c", Source: NoSource()},
	}}

	sources := s.CharSources()
	if len(sources) != 3 {
		t.Fatalf("len(sources) = %d, want 3", len(sources))
	}
	if !sources[0].HasSource || sources[0].Offset != 10 {
		t.Errorf("sources[0] = %+v, want offset 10", sources[0])
	}
	if sources[1].HasSource {
		t.Error("second char of a multi-char token should have no source")
	}
	if sources[2].HasSource {
		t.Error("synthetic token's char should have no source")
	}
}

func TestNearestSource(t *testing.T) {
	sources := []Source{NoSource(), NoSource(), SourceAt(5), NoSource(), SourceAt(9)}

	if off, ok := NearestSource(sources, 0); !ok || off != 5 {
		t.Errorf("NearestSource(0) = (%d, %v), want (5, true)", off, ok)
	}
	if off, ok := NearestSource(sources, 3); !ok || off != 9 {
		t.Errorf("NearestSource(3) = (%d, %v), want (9, true)", off, ok)
	}
	if _, ok := NearestSource(nil, 0); ok {
		t.Error("NearestSource on empty slice should fail")
	}
}
