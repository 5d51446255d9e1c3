package domain

import "time"

// PageText is the extracted plain text of one page (1-indexed).
type PageText struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// DocumentMetadata contains information about the served PDF.
type DocumentMetadata struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	PageCount int    `json:"page_count"`
	FileSize  int64  `json:"file_size,omitempty"`
	// DegradedPages lists pages whose extraction failed and were indexed as empty text.
	DegradedPages []int `json:"degraded_pages,omitempty"`
}

// ExtractedDocument is the output of the PDF-decoding step.
type ExtractedDocument struct {
	Pages    []PageText       `json:"pages"`
	Metadata DocumentMetadata `json:"metadata"`
}

// DocumentInfo is the payload returned by the document endpoint.
type DocumentInfo struct {
	ID               string           `json:"id"`
	Metadata         DocumentMetadata `json:"metadata"`
	SectionCount     int              `json:"section_count"`
	SearchDebounceMS int              `json:"search_debounce_ms"`
	LoadedAt         time.Time        `json:"loaded_at"`
}

// Section is a named navigational anchor that starts at a given page.
type Section struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ShortLabel string `json:"short_label"`
	StartPage  int    `json:"start_page"`
	// EndPage is derived from the next section's start and the page count.
	EndPage int `json:"end_page,omitempty"`
}

// ReadingPosition is the last active page a reader reached in the document.
type ReadingPosition struct {
	ReaderID   string    `json:"reader_id"`
	DocumentID string    `json:"document_id"`
	PageNumber int       `json:"page_number"`
	Progress   float32   `json:"progress"`
	UpdatedAt  time.Time `json:"updated_at"`
}
