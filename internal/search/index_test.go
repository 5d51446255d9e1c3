package search

import (
	"testing"

	"manifesto-reader/internal/domain"
)

func TestBuild_FillsGapsAndDropsInvalidPages(t *testing.T) {
	idx := Build([]domain.PageText{
		{PageNumber: 3, Text: "third"},
		{PageNumber: 1, Text: "first"},
		{PageNumber: 0, Text: "zero"},
		{PageNumber: -2, Text: "negative"},
		{PageNumber: 1, Text: "duplicate"},
	})

	if idx.PageCount() != 3 {
		t.Fatalf("expected 3 pages, got %d", idx.PageCount())
	}
	if text, _ := idx.Get(1); text != "first" {
		t.Fatalf("expected first occurrence to win, got %q", text)
	}
	if text, ok := idx.Get(2); !ok || text != "" {
		t.Fatalf("expected missing page 2 to be present and empty, got %q ok=%v", text, ok)
	}
	if _, ok := idx.Get(4); ok {
		t.Fatalf("page 4 should be absent")
	}
	if _, ok := idx.Get(0); ok {
		t.Fatalf("page 0 should be absent")
	}
}

func TestBuild_EntriesAreOrdered(t *testing.T) {
	idx := Build([]domain.PageText{
		{PageNumber: 2, Text: "b"},
		{PageNumber: 1, Text: "a"},
	})

	entries := idx.Entries()
	if len(entries) != 2 || entries[0].PageNumber != 1 || entries[1].PageNumber != 2 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if entries[0].Text != "a" || entries[1].Text != "b" {
		t.Fatalf("unexpected entry text: %+v", entries)
	}
	if idx.Size() != 2 {
		t.Fatalf("expected size 2, got %d", idx.Size())
	}
}

func TestBuild_EntriesDoNotExposeInternals(t *testing.T) {
	idx := Build([]domain.PageText{{PageNumber: 1, Text: "original"}})
	entries := idx.Entries()
	entries[0].Text = "mutated"

	if text, _ := idx.Get(1); text != "original" {
		t.Fatalf("index mutated through Entries: %q", text)
	}
}

func TestBuild_NormalizesText(t *testing.T) {
	decomposed := "Cafe\u0301"
	idx := Build([]domain.PageText{{PageNumber: 1, Text: decomposed + "\xff"}})

	text, _ := idx.Get(1)
	if text != "Caf\u00e9" {
		t.Fatalf("expected NFC text without invalid bytes, got %q", text)
	}
}

func TestEmptyIndex(t *testing.T) {
	var nilIdx *TextIndex
	if nilIdx.PageCount() != 0 || Empty().PageCount() != 0 {
		t.Fatalf("expected empty indexes to have no pages")
	}
	if _, ok := nilIdx.Get(1); ok {
		t.Fatalf("nil index has no pages")
	}
	if Build(nil).PageCount() != 0 {
		t.Fatalf("expected no pages from nil input")
	}
}
