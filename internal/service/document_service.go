package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"manifesto-reader/internal/domain"
	"manifesto-reader/internal/search"
	"manifesto-reader/internal/sections"
	apperrors "manifesto-reader/pkg/errors"
)

// DocumentService loads the configured PDF once and publishes its text index.
type DocumentService struct {
	config    domain.Config
	source    domain.PDFSource
	extractor domain.TextExtractor
	catalog   *sections.Catalog
	logger    domain.Logger
	now       func() time.Time

	mu        sync.RWMutex
	index     *search.TextIndex
	pdf       []byte
	metadata  domain.DocumentMetadata
	loadedAt  time.Time
	listeners []func(*search.TextIndex)
}

// NewDocumentService creates a document service. Load must be called before
// the document is served.
func NewDocumentService(
	config domain.Config,
	source domain.PDFSource,
	extractor domain.TextExtractor,
	catalog *sections.Catalog,
	logger domain.Logger,
) *DocumentService {
	return &DocumentService{
		config:    config,
		source:    source,
		extractor: extractor,
		catalog:   catalog,
		logger:    logger,
		now:       time.Now,
	}
}

// OnReload registers fn to be called with the new index after every load.
func (s *DocumentService) OnReload(fn func(*search.TextIndex)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load reads and extracts the PDF and replaces the index wholesale.
func (s *DocumentService) Load(ctx context.Context) error {
	location := s.source.Location()
	start := s.now()

	pdfBytes, err := s.source.Fetch(ctx)
	if err != nil {
		return apperrors.NewProcessingError("failed to read PDF", err)
	}

	extracted, err := s.extractor.Extract(ctx, pdfBytes)
	if err != nil {
		return apperrors.NewProcessingError("failed to extract PDF text", err)
	}

	idx := search.Build(extracted.Pages)
	metadata := extracted.Metadata
	metadata.PageCount = idx.PageCount()
	if expected := s.config.GetTotalPages(); expected > 0 && expected != idx.PageCount() {
		s.logger.Warn("PDF page count differs from configuration; using actual count",
			"expected", expected, "actual", idx.PageCount())
	}

	s.mu.Lock()
	s.index = idx
	s.pdf = pdfBytes
	s.metadata = metadata
	s.loadedAt = s.now()
	listeners := append([]func(*search.TextIndex){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(idx)
	}

	s.logger.Info("Document loaded",
		"source", location,
		"pages", idx.PageCount(),
		"text_bytes", idx.Size(),
		"degraded_pages", len(metadata.DegradedPages),
		"duration_ms", s.now().Sub(start).Milliseconds())
	return nil
}

// Reload re-reads the PDF. Sessions are reset through the reload listeners.
func (s *DocumentService) Reload(ctx context.Context) error {
	s.logger.Info("Reloading document", "source", s.source.Location())
	return s.Load(ctx)
}

// Index returns the current text index.
func (s *DocumentService) Index() (*search.TextIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, apperrors.FromDomain(domain.ErrDocumentNotLoaded)
	}
	return s.index, nil
}

// Catalog returns the section catalog.
func (s *DocumentService) Catalog() *sections.Catalog {
	return s.catalog
}

// Info returns document metadata.
func (s *DocumentService) Info() (*domain.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, apperrors.FromDomain(domain.ErrDocumentNotLoaded)
	}
	return &domain.DocumentInfo{
		ID:               s.config.GetDocumentID(),
		Metadata:         s.metadata,
		SectionCount:     s.catalog.Len(),
		SearchDebounceMS: s.config.GetSearchDebounceMS(),
		LoadedAt:         s.loadedAt,
	}, nil
}

// PageText returns the extracted text of one page.
func (s *DocumentService) PageText(page int) (*domain.PageText, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, apperrors.FromDomain(fmt.Errorf("page %d: %w", page, domain.ErrInvalidArgument))
	}
	text, ok := idx.Get(page)
	if !ok {
		return nil, apperrors.FromDomain(fmt.Errorf("page %d of %d: %w", page, idx.PageCount(), domain.ErrPageNotFound))
	}
	return &domain.PageText{PageNumber: page, Text: text}, nil
}

// PDF returns the raw document bytes for the browser renderer.
func (s *DocumentService) PDF() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pdf == nil {
		return nil, apperrors.FromDomain(domain.ErrDocumentNotLoaded)
	}
	return s.pdf, nil
}

// Sections returns the table of contents with each section's page range.
func (s *DocumentService) Sections() []domain.Section {
	total := s.config.GetTotalPages()
	s.mu.RLock()
	if s.index != nil {
		total = s.index.PageCount()
	}
	s.mu.RUnlock()
	return s.catalog.Ranges(total)
}
