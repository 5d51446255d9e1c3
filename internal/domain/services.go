package domain

import (
	"context"
	"time"
)

// SessionInfo describes a newly created viewer session.
type SessionInfo struct {
	ID                  string    `json:"id"`
	ReaderID            string    `json:"reader_id,omitempty"`
	ResumePage          int       `json:"resume_page"`
	TotalPages          int       `json:"total_pages"`
	VisibilityThreshold float64   `json:"visibility_threshold"`
	CreatedAt           time.Time `json:"created_at"`
}

// DocumentService exposes the loaded document.
type DocumentService interface {
	Info() (*DocumentInfo, error)
	PageText(page int) (*PageText, error)
	PDF() ([]byte, error)
	Sections() []Section
	Reload(ctx context.Context) error
}

// SessionService exposes per-viewer search and navigation state.
type SessionService interface {
	Create(ctx context.Context, readerID string) (*SessionInfo, error)
	Close(sessionID string) error

	Search(sessionID, query string) (*SearchState, error)
	SearchState(sessionID string) (*SearchState, error)
	Next(sessionID string) (*SearchState, error)
	Previous(sessionID string) (*SearchState, error)
	Goto(sessionID string, index int) (*SearchState, error)
	ClearSearch(sessionID string) (*SearchState, error)

	ReportVisibility(ctx context.Context, sessionID string, events []VisibilityEvent) (*VisibilityState, error)
	VisibilityState(sessionID string) (*VisibilityState, error)

	PageView(sessionID string, page int) (*PageView, error)
}
