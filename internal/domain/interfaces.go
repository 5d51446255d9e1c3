package domain

import (
	"context"
	"time"

	"github.com/supabase-community/supabase-go"
)

// TextExtractor turns PDF bytes into per-page text. Per-page failures are
// reported as empty pages, not errors.
type TextExtractor interface {
	Extract(ctx context.Context, pdfBytes []byte) (*ExtractedDocument, error)
}

// PDFSource fetches the bytes of the served PDF.
type PDFSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	Location() string
}

// ReadingPositionRepository defines persistence operations for reading positions.
type ReadingPositionRepository interface {
	Get(ctx context.Context, readerID, documentID string) (*ReadingPosition, error)
	Save(ctx context.Context, position *ReadingPosition) error
}

// SupabaseClient wraps the Supabase connection used by repositories.
type SupabaseClient interface {
	Initialize() error
	DB() *supabase.Client
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetPDFPath() string
	GetPDFStorageObject() string
	GetDocumentID() string
	GetTotalPages() int
	GetVisibilityThreshold() float64
	GetSearchDebounceMS() int
	GetSectionsFile() string
	GetSessionTTL() time.Duration
	GetPageExtractTimeout() time.Duration
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetAllowedOrigins() []string
	GetAdminToken() string
}
