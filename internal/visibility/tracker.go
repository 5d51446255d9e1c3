// Package visibility derives the active page from viewport intersection
// reports.
package visibility

import (
	"fmt"
	"math"
	"sort"

	"manifesto-reader/internal/domain"
)

// DefaultThreshold is the ratio a page must reach to become active.
const DefaultThreshold = 0.5

// Config configures a Tracker.
type Config struct {
	// TotalPages bounds accepted page numbers; 0 disables the upper bound.
	TotalPages int
	// Threshold must be in (0,1]; 0 selects DefaultThreshold.
	Threshold float64
}

// Tracker keeps the visible page set and the active page. It only
// accumulates events and holds one entry per visible page.
type Tracker struct {
	totalPages int
	threshold  float64
	visible    map[int]float64
	active     int
}

// New validates cfg and returns a tracker with page 1 active.
func New(cfg Config) (*Tracker, error) {
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if math.IsNaN(cfg.Threshold) || cfg.Threshold <= 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("visibility threshold %v not in (0,1]: %w", cfg.Threshold, domain.ErrInvalidArgument)
	}
	if cfg.TotalPages < 0 {
		return nil, fmt.Errorf("total pages %d is negative: %w", cfg.TotalPages, domain.ErrInvalidArgument)
	}
	return &Tracker{
		totalPages: cfg.TotalPages,
		threshold:  cfg.Threshold,
		visible:    make(map[int]float64),
		active:     1,
	}, nil
}

// Report records one visibility change and reports whether the active page
// changed. A page enters the visible set while intersecting with a positive
// ratio and leaves it otherwise.
func (t *Tracker) Report(page int, ratio float64, intersecting bool) (bool, error) {
	if page < 1 || (t.totalPages > 0 && page > t.totalPages) {
		return false, fmt.Errorf("page %d out of range: %w", page, domain.ErrInvalidArgument)
	}
	ratio = clampRatio(ratio)

	if intersecting && ratio > 0 {
		t.visible[page] = ratio
	} else {
		delete(t.visible, page)
	}

	prev := t.active
	best, bestRatio, ok := t.best()
	switch {
	case !ok:
		// Nothing visible: keep the last reading position.
	case bestRatio >= t.threshold:
		t.active = best
	case page == prev && !t.isVisible(prev):
		// The active page scrolled out; hand over to what is still on screen.
		t.active = best
	}
	return t.active != prev, nil
}

func (t *Tracker) isVisible(page int) bool {
	_, ok := t.visible[page]
	return ok
}

// ActivePage returns the page considered the current reading position.
func (t *Tracker) ActivePage() int { return t.active }

// VisiblePages returns the visible pages in ascending order.
func (t *Tracker) VisiblePages() []int {
	pages := make([]int, 0, len(t.visible))
	for p := range t.visible {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// Ratio returns the last reported ratio of a visible page.
func (t *Tracker) Ratio(page int) (float64, bool) {
	r, ok := t.visible[page]
	return r, ok
}

// Threshold returns the configured activation threshold.
func (t *Tracker) Threshold() float64 { return t.threshold }

// SetTotalPages changes the accepted page range after a reload and resets.
func (t *Tracker) SetTotalPages(n int) {
	if n < 0 {
		n = 0
	}
	t.totalPages = n
	t.Reset()
}

// Reset clears all pages and makes page 1 active.
func (t *Tracker) Reset() {
	t.visible = make(map[int]float64)
	t.active = 1
}

// best returns the highest-ratio visible page; ties go to the lower page.
func (t *Tracker) best() (int, float64, bool) {
	bestPage, bestRatio := 0, -1.0
	for p, r := range t.visible {
		if r > bestRatio || (r == bestRatio && p < bestPage) {
			bestPage, bestRatio = p, r
		}
	}
	return bestPage, bestRatio, bestPage != 0
}

func clampRatio(r float64) float64 {
	switch {
	case math.IsNaN(r), r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
