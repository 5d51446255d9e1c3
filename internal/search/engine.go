package search

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"manifesto-reader/internal/domain"
)

// Search finds every case-insensitive, literal occurrence of query in idx.
// Matches never overlap: after a hit the scan resumes at the hit's end.
// The result is ordered by page, then start offset, and is freshly
// allocated on every call. A query that is empty after trimming yields no
// matches.
func Search(query string, idx *TextIndex) []domain.SearchMatch {
	needle := foldCase(normalizeText(strings.TrimSpace(query)))
	if needle == "" || idx.PageCount() == 0 {
		return []domain.SearchMatch{}
	}

	matches := make([]domain.SearchMatch, 0)
	global := 0
	for _, page := range idx.Entries() {
		spans := findSpans(page.Text, needle)
		for i, sp := range spans {
			matches = append(matches, domain.SearchMatch{
				ID:               MatchID(page.PageNumber, sp.start),
				PageNumber:       page.PageNumber,
				MatchIndexOnPage: i,
				GlobalIndex:      global,
				Start:            sp.start,
				End:              sp.end,
				MatchedText:      page.Text[sp.start:sp.end],
			})
			global++
		}
	}
	return matches
}

// MatchID derives the stable id of a match from its page and start offset.
func MatchID(page, start int) string {
	return "p" + strconv.Itoa(page) + "-o" + strconv.Itoa(start)
}

// MatchesOnPage returns the matches that belong to page, preserving order.
func MatchesOnPage(matches []domain.SearchMatch, page int) []domain.SearchMatch {
	var out []domain.SearchMatch
	for _, m := range matches {
		if m.PageNumber == page {
			out = append(out, m)
		}
	}
	return out
}

type span struct {
	start, end int
}

// findSpans returns byte spans in text where the folded needle occurs.
func findSpans(text, needle string) []span {
	if text == "" {
		return nil
	}
	folded, offsets := foldWithOffsets(text)

	var spans []span
	from := 0
	for from <= len(folded)-len(needle) {
		i := strings.Index(folded[from:], needle)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(needle)
		if offsets == nil {
			spans = append(spans, span{start: start, end: end})
		} else {
			spans = append(spans, span{start: offsets[start], end: offsets[end]})
		}
		from = end
	}
	return spans
}

// foldCase lowers every rune on its own so that folded text keeps one rune
// per original rune.
func foldCase(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// foldWithOffsets folds text and, when folding changed any rune's encoded
// width, returns a table mapping folded byte offsets back to text offsets.
// offsets is nil when the two strings line up byte for byte.
func foldWithOffsets(text string) (string, []int) {
	folded := foldCase(text)
	if len(folded) == len(text) && sameWidths(text, folded) {
		return folded, nil
	}

	offsets := make([]int, len(folded)+1)
	fi := 0
	for ti, r := range text {
		lr := unicode.ToLower(r)
		w := utf8.RuneLen(lr)
		if w < 0 {
			w = len(string(lr))
		}
		for k := 0; k < w; k++ {
			offsets[fi+k] = ti
		}
		fi += w
	}
	offsets[len(folded)] = len(text)
	return folded, offsets
}

func sameWidths(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		_, wa := utf8.DecodeRuneInString(a)
		_, wb := utf8.DecodeRuneInString(b)
		if wa != wb {
			return false
		}
		a, b = a[wa:], b[wb:]
	}
	return len(a) == len(b)
}
