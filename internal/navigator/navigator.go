// Package navigator tracks a search session: the query, its ordered
// matches and which match is active.
package navigator

import (
	"fmt"
	"strings"

	"manifesto-reader/internal/domain"
	"manifesto-reader/internal/search"
)

// State is the navigator's position in its lifecycle.
type State string

const (
	StateClosed     State = "closed"
	StateOpenEmpty  State = "open-empty"
	StateHasResults State = "has-results"
	StateNoResults  State = "no-results"
)

// Navigator is a single-writer state holder; callers serialise access.
type Navigator struct {
	index   *search.TextIndex
	state   State
	query   string
	matches []domain.SearchMatch
	current int
}

// New returns a closed navigator searching idx.
func New(idx *search.TextIndex) *Navigator {
	if idx == nil {
		idx = search.Empty()
	}
	return &Navigator{index: idx, state: StateClosed, current: -1}
}

// SetIndex swaps the searched index after a document reload and closes the
// session, since previous matches point into the old text.
func (n *Navigator) SetIndex(idx *search.TextIndex) {
	if idx == nil {
		idx = search.Empty()
	}
	n.index = idx
	n.Close()
}

// Index returns the index matches are computed against.
func (n *Navigator) Index() *search.TextIndex { return n.index }

// Open starts a search session. It is a no-op when already open.
func (n *Navigator) Open() {
	if n.state == StateClosed {
		n.state = StateOpenEmpty
	}
}

// SetQuery records the pending query. Results of a different query are
// discarded; re-entering the current query keeps them.
func (n *Navigator) SetQuery(q string) {
	if n.state != StateClosed && q == n.query && strings.TrimSpace(q) != "" {
		return
	}
	n.query = q
	n.reset()
	n.state = StateOpenEmpty
}

// Search runs the pending query. It returns the active match when the
// search found anything.
func (n *Navigator) Search() (domain.SearchMatch, bool) {
	if strings.TrimSpace(n.query) == "" {
		n.reset()
		n.state = StateOpenEmpty
		return domain.SearchMatch{}, false
	}

	n.matches = search.Search(n.query, n.index)
	if len(n.matches) == 0 {
		n.current = -1
		n.state = StateNoResults
		return domain.SearchMatch{}, false
	}
	n.state = StateHasResults
	n.activate(0)
	return n.matches[0], true
}

// Next moves to the following match, wrapping from last to first.
func (n *Navigator) Next() (domain.SearchMatch, bool) {
	if n.state != StateHasResults {
		return domain.SearchMatch{}, false
	}
	n.activate((n.current + 1) % len(n.matches))
	return n.matches[n.current], true
}

// Previous moves to the preceding match, wrapping from first to last.
func (n *Navigator) Previous() (domain.SearchMatch, bool) {
	if n.state != StateHasResults {
		return domain.SearchMatch{}, false
	}
	total := len(n.matches)
	n.activate((n.current - 1 + total) % total)
	return n.matches[n.current], true
}

// GotoIndex activates match i. Out-of-range indexes, or a call without
// results, are rejected and leave the state unchanged.
func (n *Navigator) GotoIndex(i int) (domain.SearchMatch, error) {
	if n.state != StateHasResults {
		return domain.SearchMatch{}, fmt.Errorf("goto %d in state %s: %w", i, n.state, domain.ErrInvalidArgument)
	}
	if i < 0 || i >= len(n.matches) {
		return domain.SearchMatch{}, fmt.Errorf("match index %d out of range [0,%d): %w", i, len(n.matches), domain.ErrInvalidArgument)
	}
	n.activate(i)
	return n.matches[i], nil
}

// Clear discards the query and results and closes the session.
func (n *Navigator) Clear() {
	n.Close()
}

// Close returns to the closed state from any state.
func (n *Navigator) Close() {
	n.query = ""
	n.reset()
	n.state = StateClosed
}

// State returns the current lifecycle state.
func (n *Navigator) State() State { return n.state }

// Query returns the pending or executed query.
func (n *Navigator) Query() string { return n.query }

// Total returns the number of matches.
func (n *Navigator) Total() int { return len(n.matches) }

// CurrentIndex returns the active match index, or -1.
func (n *Navigator) CurrentIndex() int { return n.current }

// Matches returns a copy of the ordered match list.
func (n *Navigator) Matches() []domain.SearchMatch {
	out := make([]domain.SearchMatch, len(n.matches))
	copy(out, n.matches)
	return out
}

// ActiveMatch returns the active match, if any.
func (n *Navigator) ActiveMatch() (domain.SearchMatch, bool) {
	if n.current < 0 {
		return domain.SearchMatch{}, false
	}
	return n.matches[n.current], true
}

// ActivePage is the page the UI should scroll to, or 0.
func (n *Navigator) ActivePage() int {
	if m, ok := n.ActiveMatch(); ok {
		return m.PageNumber
	}
	return 0
}

// Snapshot returns the session as a transferable value.
func (n *Navigator) Snapshot() domain.SearchState {
	return domain.SearchState{
		State:        string(n.state),
		Query:        n.query,
		Matches:      n.Matches(),
		Total:        len(n.matches),
		CurrentIndex: n.current,
		ActivePage:   n.ActivePage(),
	}
}

func (n *Navigator) activate(i int) {
	if n.current >= 0 && n.current < len(n.matches) {
		n.matches[n.current].IsActive = false
	}
	n.current = i
	n.matches[i].IsActive = true
}

func (n *Navigator) reset() {
	n.matches = nil
	n.current = -1
}
