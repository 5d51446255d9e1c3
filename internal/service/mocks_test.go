package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"manifesto-reader/internal/domain"
)

type mockConfig struct {
	pdfPath    string
	documentID string
	totalPages int
	threshold  float64
	ttl        time.Duration
}

func newMockConfig() *mockConfig {
	return &mockConfig{
		pdfPath:    "/tmp/manifesto.pdf",
		documentID: "manifesto",
		totalPages: 3,
		threshold:  0.5,
		ttl:        30 * time.Minute,
	}
}

func (c *mockConfig) GetServerPort() string                { return "8080" }
func (c *mockConfig) GetLogLevel() string                  { return "debug" }
func (c *mockConfig) GetPDFPath() string                   { return c.pdfPath }
func (c *mockConfig) GetPDFStorageObject() string          { return "" }
func (c *mockConfig) GetDocumentID() string                { return c.documentID }
func (c *mockConfig) GetTotalPages() int                   { return c.totalPages }
func (c *mockConfig) GetVisibilityThreshold() float64      { return c.threshold }
func (c *mockConfig) GetSearchDebounceMS() int             { return 300 }
func (c *mockConfig) GetSectionsFile() string              { return "" }
func (c *mockConfig) GetSessionTTL() time.Duration         { return c.ttl }
func (c *mockConfig) GetPageExtractTimeout() time.Duration { return time.Second }
func (c *mockConfig) GetSupabaseURL() string               { return "" }
func (c *mockConfig) GetSupabaseKey() string               { return "" }
func (c *mockConfig) GetAllowedOrigins() []string          { return nil }
func (c *mockConfig) GetAdminToken() string                { return "" }

type mockLogger struct {
	mu     sync.Mutex
	warns  []string
	errors []string
}

func (l *mockLogger) Info(msg string, fields ...interface{})  {}
func (l *mockLogger) Debug(msg string, fields ...interface{}) {}
func (l *mockLogger) Warn(msg string, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}
func (l *mockLogger) Error(msg string, err error, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

type mockExtractor struct {
	doc   *domain.ExtractedDocument
	err   error
	calls int
}

func (e *mockExtractor) Extract(ctx context.Context, pdfBytes []byte) (*domain.ExtractedDocument, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.doc, nil
}

type mockPositionRepository struct {
	mu        sync.Mutex
	positions map[string]domain.ReadingPosition
	getErr    error
	saveErr   error
	saves     int
}

func newMockPositionRepository() *mockPositionRepository {
	return &mockPositionRepository{positions: make(map[string]domain.ReadingPosition)}
}

func (r *mockPositionRepository) Get(ctx context.Context, readerID, documentID string) (*domain.ReadingPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	pos, ok := r.positions[readerID+"/"+documentID]
	if !ok {
		return nil, domain.ErrPositionNotFound
	}
	return &pos, nil
}

func (r *mockPositionRepository) Save(ctx context.Context, position *domain.ReadingPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.positions[position.ReaderID+"/"+position.DocumentID] = *position
	return nil
}

var errBoom = errors.New("boom")
