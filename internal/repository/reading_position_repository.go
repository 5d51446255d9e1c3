package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"manifesto-reader/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

const readingPositionsTable = "reading_positions"

// ReadingPositionRepository implements domain.ReadingPositionRepository using Supabase.
type ReadingPositionRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewReadingPositionRepository creates a new Supabase reading position repository
func NewReadingPositionRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *ReadingPositionRepository {
	return &ReadingPositionRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Get returns the latest reading position of a reader for a document.
func (r *ReadingPositionRepository) Get(ctx context.Context, readerID, documentID string) (*domain.ReadingPosition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(readingPositionsTable).
		Select("*", "", false).
		Eq("reader_id", readerID).
		Eq("document_id", documentID).
		Order("updated_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get reading position: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrPositionNotFound
	}
	return mapToReadingPosition(rows[0]), nil
}

// Save upserts the reading position on (reader_id, document_id).
func (r *ReadingPositionRepository) Save(ctx context.Context, position *domain.ReadingPosition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	data := map[string]interface{}{
		"reader_id":   position.ReaderID,
		"document_id": position.DocumentID,
		"page_number": position.PageNumber,
		"progress":    position.Progress,
		"updated_at":  position.UpdatedAt.UTC().Format(time.RFC3339),
	}

	_, _, err := client.From(readingPositionsTable).
		Upsert(data, "reader_id,document_id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to save reading position: %w", err)
	}

	r.logger.Debug("Reading position saved",
		"reader_id", position.ReaderID,
		"document_id", position.DocumentID,
		"page_number", position.PageNumber)
	return nil
}

func mapToReadingPosition(data map[string]interface{}) *domain.ReadingPosition {
	pos := &domain.ReadingPosition{
		ReaderID:   getString(data, "reader_id"),
		DocumentID: getString(data, "document_id"),
		PageNumber: getInt(data, "page_number"),
		Progress:   float32(getFloat64(data, "progress")),
	}
	if updatedAt := getString(data, "updated_at"); updatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			pos.UpdatedAt = t
		}
	}
	return pos
}

func getString(data map[string]interface{}, key string) string {
	if val, ok := data[key]; ok && val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getInt(data map[string]interface{}, key string) int {
	if val, ok := data[key]; ok && val != nil {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

func getFloat64(data map[string]interface{}, key string) float64 {
	if val, ok := data[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
	}
	return 0.0
}
