package search

import (
	"fmt"
	"sort"
	"strings"

	"manifesto-reader/internal/domain"

	"golang.org/x/net/html"
)

// SegmentKind tells how a run of text is displayed.
type SegmentKind string

const (
	SegmentPlain  SegmentKind = "plain"
	SegmentMatch  SegmentKind = "match"
	SegmentActive SegmentKind = "active"
)

// Segment is one run of annotated text.
type Segment struct {
	Kind    SegmentKind `json:"kind"`
	Text    string      `json:"text"`
	MatchID string      `json:"match_id,omitempty"`
}

// Annotated is page text split into plain and highlighted runs.
// Concatenating every Segment.Text yields the original text.
type Annotated struct {
	Segments []Segment `json:"segments"`
}

// Highlight splits text around the given matches. The match whose ID equals
// activeID is marked active, every other match inactive. Matches may come
// in any order but must lie within text and must not overlap; otherwise an
// error is returned and no output is produced.
func Highlight(text string, matches []domain.SearchMatch, activeID string) (Annotated, error) {
	if len(matches) == 0 {
		if text == "" {
			return Annotated{}, nil
		}
		return Annotated{Segments: []Segment{{Kind: SegmentPlain, Text: text}}}, nil
	}

	ordered := make([]domain.SearchMatch, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	prevEnd := 0
	for i, m := range ordered {
		if m.Start < 0 || m.End <= m.Start || m.End > len(text) {
			return Annotated{}, fmt.Errorf("match %q span [%d,%d) outside text of length %d: %w",
				m.ID, m.Start, m.End, len(text), domain.ErrInvalidArgument)
		}
		if m.MatchedText != "" && m.MatchedText != text[m.Start:m.End] {
			return Annotated{}, fmt.Errorf("match %q text %q does not match span [%d,%d): %w",
				m.ID, m.MatchedText, m.Start, m.End, domain.ErrInvalidArgument)
		}
		if i > 0 && m.Start < prevEnd {
			return Annotated{}, fmt.Errorf("match %q starts at %d before previous end %d: %w",
				m.ID, m.Start, prevEnd, domain.ErrOverlappingMatches)
		}
		prevEnd = m.End
	}

	segments := make([]Segment, 0, len(ordered)*2+1)
	cursor := 0
	for _, m := range ordered {
		if m.Start > cursor {
			segments = append(segments, Segment{Kind: SegmentPlain, Text: text[cursor:m.Start]})
		}
		kind := SegmentMatch
		if activeID != "" && m.ID == activeID {
			kind = SegmentActive
		}
		segments = append(segments, Segment{Kind: kind, Text: text[m.Start:m.End], MatchID: m.ID})
		cursor = m.End
	}
	if cursor < len(text) {
		segments = append(segments, Segment{Kind: SegmentPlain, Text: text[cursor:]})
	}
	return Annotated{Segments: segments}, nil
}

// HTML renders the annotation as escaped HTML with <mark> elements around
// matches. Plain runs are escaped so page text can never be read as markup.
func (a Annotated) HTML() string {
	var b strings.Builder
	for _, seg := range a.Segments {
		switch seg.Kind {
		case SegmentActive:
			b.WriteString(`<mark class="search-hit active" data-match-id="`)
			b.WriteString(html.EscapeString(seg.MatchID))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(seg.Text))
			b.WriteString("</mark>")
		case SegmentMatch:
			b.WriteString(`<mark class="search-hit" data-match-id="`)
			b.WriteString(html.EscapeString(seg.MatchID))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(seg.Text))
			b.WriteString("</mark>")
		default:
			b.WriteString(html.EscapeString(seg.Text))
		}
	}
	return b.String()
}

// Text reassembles the plain text.
func (a Annotated) Text() string {
	var b strings.Builder
	for _, seg := range a.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}
