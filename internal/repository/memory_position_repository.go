package repository

import (
	"context"
	"sync"

	"manifesto-reader/internal/domain"
)

// MemoryPositionRepository keeps reading positions in process memory. It is
// used when Supabase is not configured.
type MemoryPositionRepository struct {
	mu        sync.RWMutex
	positions map[string]domain.ReadingPosition
}

// NewMemoryPositionRepository creates an empty repository.
func NewMemoryPositionRepository() *MemoryPositionRepository {
	return &MemoryPositionRepository{positions: make(map[string]domain.ReadingPosition)}
}

func positionKey(readerID, documentID string) string {
	return readerID + "\x00" + documentID
}

// Get returns a copy of the stored position.
func (r *MemoryPositionRepository) Get(ctx context.Context, readerID, documentID string) (*domain.ReadingPosition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.positions[positionKey(readerID, documentID)]
	if !ok {
		return nil, domain.ErrPositionNotFound
	}
	return &pos, nil
}

// Save stores a copy of position, replacing any previous one.
func (r *MemoryPositionRepository) Save(ctx context.Context, position *domain.ReadingPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.positions[positionKey(position.ReaderID, position.DocumentID)] = *position
	return nil
}
