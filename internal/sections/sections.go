// Package sections holds the document's table of contents.
package sections

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"manifesto-reader/internal/domain"
)

// Catalog is an immutable, validated list of sections ordered by start page.
type Catalog struct {
	sections []domain.Section
}

// NewCatalog validates that start pages are positive, strictly increasing
// and, when totalPages > 0, within the document.
func NewCatalog(list []domain.Section, totalPages int) (*Catalog, error) {
	out := make([]domain.Section, len(list))
	copy(out, list)

	for i, s := range out {
		out[i].EndPage = 0
		if s.StartPage < 1 {
			return nil, fmt.Errorf("section %q starts at page %d: %w", s.ID, s.StartPage, domain.ErrInvalidArgument)
		}
		if totalPages > 0 && s.StartPage > totalPages {
			return nil, fmt.Errorf("section %q starts at page %d beyond page count %d: %w", s.ID, s.StartPage, totalPages, domain.ErrInvalidArgument)
		}
		if i > 0 && s.StartPage <= out[i-1].StartPage {
			return nil, fmt.Errorf("section %q start page %d not after %q (%d): %w",
				s.ID, s.StartPage, out[i-1].ID, out[i-1].StartPage, domain.ErrInvalidArgument)
		}
	}
	return &Catalog{sections: out}, nil
}

// LoadFile reads a JSON array of sections.
func LoadFile(path string, totalPages int) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sections file: %w", err)
	}
	var list []domain.Section
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse sections file %s: %w", path, err)
	}
	return NewCatalog(list, totalPages)
}

// All returns a copy of the sections.
func (c *Catalog) All() []domain.Section {
	out := make([]domain.Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Len returns the number of sections.
func (c *Catalog) Len() int { return len(c.sections) }

// Active returns the section whose page range contains page. Pages before
// the first section belong to none.
func (c *Catalog) Active(page int) (domain.Section, bool) {
	i := sort.Search(len(c.sections), func(i int) bool {
		return c.sections[i].StartPage > page
	})
	if i == 0 {
		return domain.Section{}, false
	}
	return c.sections[i-1], true
}

// Ranges returns a copy of the sections with EndPage filled in.
func (c *Catalog) Ranges(totalPages int) []domain.Section {
	out := c.All()
	for i := range out {
		out[i].EndPage = c.EndPage(i, totalPages)
	}
	return out
}

// EndPage returns the last page of section i, given the document length.
func (c *Catalog) EndPage(i, totalPages int) int {
	if i < 0 || i >= len(c.sections) {
		return 0
	}
	if i+1 < len(c.sections) {
		return c.sections[i+1].StartPage - 1
	}
	return totalPages
}
