// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"
	"strconv"

	"manifesto-reader/internal/domain"
)

// DocumentHandler serves the manifesto itself.
type DocumentHandler struct {
	documentService domain.DocumentService
	logger          domain.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService domain.DocumentService, logger domain.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// GetDocument returns document metadata.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	info, err := h.documentService.Info()
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// GetPDF streams the raw PDF for the browser renderer.
func (h *DocumentHandler) GetPDF(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.documentService.PDF()
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// GetPage returns the extracted text of one page.
func (h *DocumentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := pageVar(r)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	text, err := h.documentService.PageText(page)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, text)
}

// GetSections returns the table of contents.
func (h *DocumentHandler) GetSections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sections": h.documentService.Sections(),
	})
}

// Reload re-extracts the PDF. Open sessions are reset.
func (h *DocumentHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.documentService.Reload(r.Context()); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	info, err := h.documentService.Info()
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
