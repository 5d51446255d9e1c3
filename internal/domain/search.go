package domain

// SearchMatch is one occurrence of a query inside one page's text.
// Offsets are byte offsets into the indexed page text; End is exclusive.
type SearchMatch struct {
	ID               string `json:"id"`
	PageNumber       int    `json:"page_number"`
	MatchIndexOnPage int    `json:"match_index_on_page"`
	GlobalIndex      int    `json:"global_index"`
	Start            int    `json:"start"`
	End              int    `json:"end"`
	MatchedText      string `json:"matched_text"`
	IsActive         bool   `json:"is_active"`
}

// SearchState is a snapshot of a viewer session's search.
type SearchState struct {
	State        string        `json:"state"`
	Query        string        `json:"query"`
	Matches      []SearchMatch `json:"matches"`
	Total        int           `json:"total"`
	CurrentIndex int           `json:"current_index"`
	// ActivePage is the page of the active match, 0 when there is none.
	ActivePage int `json:"active_page,omitempty"`
}

// VisibilityEvent is one (page, ratio, intersecting) report from the viewport observer.
type VisibilityEvent struct {
	PageNumber        int     `json:"page_number"`
	IntersectionRatio float64 `json:"intersection_ratio"`
	IsIntersecting    bool    `json:"is_intersecting"`
}

// VisibilityState is a snapshot of a viewer session's viewport tracking.
type VisibilityState struct {
	ActivePage    int      `json:"active_page"`
	VisiblePages  []int    `json:"visible_pages"`
	ActiveSection *Section `json:"active_section,omitempty"`
}

// PageView is one page's text with the session's search matches highlighted.
type PageView struct {
	PageNumber int    `json:"page_number"`
	HTML       string `json:"html"`
	MatchCount int    `json:"match_count"`
}
