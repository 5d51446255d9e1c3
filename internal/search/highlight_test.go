package search

import (
	"errors"
	"testing"

	"manifesto-reader/internal/domain"
)

func TestHighlight_MarksActiveAndInactive(t *testing.T) {
	text := "energy <and> Energy & energy"
	idx := Build([]domain.PageText{{PageNumber: 1, Text: text}})
	matches := Search("energy", idx)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}

	annotated, err := Highlight(text, matches, matches[1].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if annotated.Text() != text {
		t.Fatalf("segments do not reassemble the text: %q", annotated.Text())
	}

	var kinds []SegmentKind
	for _, seg := range annotated.Segments {
		kinds = append(kinds, seg.Kind)
	}
	want := []SegmentKind{SegmentMatch, SegmentPlain, SegmentActive, SegmentPlain, SegmentMatch}
	if len(kinds) != len(want) {
		t.Fatalf("unexpected segments: %+v", annotated.Segments)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("segment %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}

	wantHTML := `<mark class="search-hit" data-match-id="p1-o0">energy</mark>` +
		` &lt;and&gt; ` +
		`<mark class="search-hit active" data-match-id="p1-o13">Energy</mark>` +
		` &amp; ` +
		`<mark class="search-hit" data-match-id="p1-o22">energy</mark>`
	if got := annotated.HTML(); got != wantHTML {
		t.Fatalf("unexpected html:\n got %s\nwant %s", got, wantHTML)
	}
}

func TestHighlight_NoMatchesEscapesOnly(t *testing.T) {
	annotated, err := Highlight(`<script>alert("x")</script>`, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := annotated.HTML(); got != "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;" {
		t.Fatalf("unexpected html: %s", got)
	}

	empty, err := Highlight("", nil, "")
	if err != nil || len(empty.Segments) != 0 {
		t.Fatalf("expected no segments for empty text, got %+v err=%v", empty, err)
	}
}

func TestHighlight_UnknownActiveIDLeavesAllInactive(t *testing.T) {
	text := "energy energy"
	matches := Search("energy", Build([]domain.PageText{{PageNumber: 1, Text: text}}))

	annotated, err := Highlight(text, matches, "p9-o0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, seg := range annotated.Segments {
		if seg.Kind == SegmentActive {
			t.Fatalf("no segment should be active: %+v", annotated.Segments)
		}
	}
}

func TestHighlight_AcceptsUnsortedMatches(t *testing.T) {
	text := "ab ab"
	matches := []domain.SearchMatch{
		{ID: "b", Start: 3, End: 5},
		{ID: "a", Start: 0, End: 2},
	}
	annotated, err := Highlight(text, matches, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if annotated.Segments[0].MatchID != "a" || annotated.Segments[0].Kind != SegmentActive {
		t.Fatalf("expected first segment to be active match a: %+v", annotated.Segments)
	}
}

func TestHighlight_RejectsUntrustedMatches(t *testing.T) {
	text := "energy policy"
	cases := []struct {
		name    string
		matches []domain.SearchMatch
		want    error
	}{
		{"overlap", []domain.SearchMatch{{ID: "a", Start: 0, End: 6}, {ID: "b", Start: 3, End: 9}}, domain.ErrOverlappingMatches},
		{"out of bounds", []domain.SearchMatch{{ID: "a", Start: 10, End: 40}}, domain.ErrInvalidArgument},
		{"empty span", []domain.SearchMatch{{ID: "a", Start: 2, End: 2}}, domain.ErrInvalidArgument},
		{"negative start", []domain.SearchMatch{{ID: "a", Start: -1, End: 2}}, domain.ErrInvalidArgument},
		{"text mismatch", []domain.SearchMatch{{ID: "a", Start: 0, End: 6, MatchedText: "energ"}}, domain.ErrInvalidArgument},
		{"same length different text", []domain.SearchMatch{{ID: "a", Start: 0, End: 6, MatchedText: "zzzzzz"}}, domain.ErrInvalidArgument},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			annotated, err := Highlight(text, tc.matches, "")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(annotated.Segments) != 0 {
				t.Fatalf("expected no partial output, got %+v", annotated.Segments)
			}
		})
	}
}
