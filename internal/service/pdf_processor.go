package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"manifesto-reader/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// pdfDocument is the subset of *fitz.Document used for extraction.
type pdfDocument interface {
	NumPage() int
	Text(pageNumber int) (string, error)
	Metadata() map[string]string
	Close() error
}

// lockedDocument serialises Text and Close. fitz.Document locks around
// Text but not around Close, and a timed-out page may still be running.
type lockedDocument struct {
	mu  sync.Mutex
	doc pdfDocument
}

func (d *lockedDocument) NumPage() int { return d.doc.NumPage() }

func (d *lockedDocument) Text(pageNumber int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Text(pageNumber)
}

func (d *lockedDocument) Metadata() map[string]string { return d.doc.Metadata() }

func (d *lockedDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Close()
}

func openFitz(pdfBytes []byte) (pdfDocument, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// PDFProcessor handles PDF text extraction
type PDFProcessor struct {
	logger      domain.Logger
	pageTimeout time.Duration
	open        func(pdfBytes []byte) (pdfDocument, error)
}

// NewPDFProcessor creates a new PDF processor
func NewPDFProcessor(logger domain.Logger, pageTimeout time.Duration) *PDFProcessor {
	if pageTimeout <= 0 {
		pageTimeout = 90 * time.Second
	}
	return &PDFProcessor{
		logger:      logger,
		pageTimeout: pageTimeout,
		open:        openFitz,
	}
}

// Extract returns one PageText per page. A page that fails or times out is
// returned as empty text and listed in Metadata.DegradedPages.
func (p *PDFProcessor) Extract(ctx context.Context, pdfBytes []byte) (*domain.ExtractedDocument, error) {
	raw, err := p.open(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	doc := &lockedDocument{doc: raw}

	// abandoned is set when a page goroutine is left running; Close then
	// happens in the background once that page returns.
	abandoned := false
	defer func() {
		if abandoned {
			go doc.Close()
			return
		}
		doc.Close()
	}()

	numPages := doc.NumPage()
	metadata := domain.DocumentMetadata{
		PageCount: numPages,
		FileSize:  int64(len(pdfBytes)),
	}
	docMetadata := doc.Metadata()
	if title, ok := docMetadata["title"]; ok && title != "" {
		metadata.Title = title
	}
	if author, ok := docMetadata["author"]; ok && author != "" {
		metadata.Author = author
	}

	type pageResult struct {
		text string
		err  error
	}

	pages := make([]domain.PageText, 0, numPages)
	for pageNum := 0; pageNum < numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)

		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			t, e := doc.Text(idx)
			resultCh <- pageResult{text: t, err: e}
		}(pageNum)

		var text string
		timer := time.NewTimer(p.pageTimeout)
		select {
		case res := <-resultCh:
			text, err = res.text, res.err
		case <-timer.C:
			abandoned = true
			err = fmt.Errorf("timeout after %v", p.pageTimeout)
		case <-ctx.Done():
			timer.Stop()
			abandoned = true
			return nil, ctx.Err()
		}
		timer.Stop()

		if err != nil {
			p.logger.Warn("Failed to extract text from page; using empty page", "page_num", pageNum+1, "total", numPages, "error", err)
			metadata.DegradedPages = append(metadata.DegradedPages, pageNum+1)
			text = ""
		}

		pages = append(pages, domain.PageText{
			PageNumber: pageNum + 1, // 1-indexed for the viewer
			Text:       cleanPageText(text),
		})
	}

	return &domain.ExtractedDocument{Pages: pages, Metadata: metadata}, nil
}

// cleanPageText joins wrapped lines into paragraphs separated by blank
// lines and strips control characters.
func cleanPageText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	paragraphs := splitIntoParagraphs(text)
	for i, para := range paragraphs {
		paragraphs[i] = sanitizeText(para)
	}
	return strings.Join(paragraphs, "\n\n")
}

// splitIntoParagraphs splits text into paragraphs based on double newlines
func splitIntoParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var result []string
	for _, para := range strings.Split(text, "\n\n") {
		// Single newlines inside a paragraph are line wraps.
		para = strings.Join(strings.Fields(strings.ReplaceAll(para, "\n", " ")), " ")
		if para != "" {
			result = append(result, para)
		}
	}
	return result
}

// sanitizeText removes control characters, surrogates and NUL bytes.
func sanitizeText(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == '\t' || r == '\n':
			result.WriteRune(r)
		case r >= 0x20 && r < 0x7F:
			result.WriteRune(r)
		case r >= 0xA0 && r <= 0x10FFFF && (r < 0xD800 || r > 0xDFFF) && r != 0xFFFD:
			result.WriteRune(r)
		}
	}
	return result.String()
}
