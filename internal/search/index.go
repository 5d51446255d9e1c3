// Package search holds the per-page text index and the literal,
// case-insensitive search and highlight functions built on it.
package search

import (
	"strings"

	"manifesto-reader/internal/domain"

	"golang.org/x/text/unicode/norm"
)

// TextIndex maps page numbers 1..N to extracted text. It is immutable
// once built; a document reload builds a new one.
type TextIndex struct {
	pages []string // pages[i] is page i+1
}

// Build creates an index from extracted pages. It never fails: pages that
// are missing from the input are indexed as empty text, non-positive page
// numbers are dropped and the first occurrence of a duplicate page wins.
func Build(pages []domain.PageText) *TextIndex {
	last := 0
	for _, p := range pages {
		if p.PageNumber > last {
			last = p.PageNumber
		}
	}

	idx := &TextIndex{pages: make([]string, last)}
	seen := make([]bool, last)
	for _, p := range pages {
		if p.PageNumber < 1 || seen[p.PageNumber-1] {
			continue
		}
		seen[p.PageNumber-1] = true
		idx.pages[p.PageNumber-1] = normalizeText(p.Text)
	}
	return idx
}

// Empty returns an index with no pages.
func Empty() *TextIndex {
	return &TextIndex{}
}

// Get returns the text of a page. The bool is false for pages outside 1..N.
func (t *TextIndex) Get(page int) (string, bool) {
	if t == nil || page < 1 || page > len(t.pages) {
		return "", false
	}
	return t.pages[page-1], true
}

// Entries returns every page in ascending page order.
func (t *TextIndex) Entries() []domain.PageText {
	if t == nil {
		return nil
	}
	out := make([]domain.PageText, len(t.pages))
	for i, text := range t.pages {
		out[i] = domain.PageText{PageNumber: i + 1, Text: text}
	}
	return out
}

// PageCount returns N.
func (t *TextIndex) PageCount() int {
	if t == nil {
		return 0
	}
	return len(t.pages)
}

// Size returns the total indexed text length in bytes.
func (t *TextIndex) Size() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, p := range t.pages {
		n += len(p)
	}
	return n
}

// normalizeText makes page text safe to slice by byte offsets: invalid
// UTF-8 is dropped and the text is NFC-composed so that a query typed
// with precomposed characters matches extracted decomposed ones.
func normalizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToValidUTF8(s, "")
	return norm.NFC.String(s)
}
