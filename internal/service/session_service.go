package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"manifesto-reader/internal/domain"
	"manifesto-reader/internal/navigator"
	"manifesto-reader/internal/search"
	"manifesto-reader/internal/sections"
	"manifesto-reader/internal/visibility"
	apperrors "manifesto-reader/pkg/errors"

	"github.com/google/uuid"
)

// indexSource provides the document a session searches.
type indexSource interface {
	Index() (*search.TextIndex, error)
	Catalog() *sections.Catalog
}

// viewerSession owns one navigator and one tracker. Its mutex serialises
// every operation so each stays single-writer.
type viewerSession struct {
	mu        sync.Mutex
	id        string
	readerID  string
	nav       *navigator.Navigator
	tracker   *visibility.Tracker
	createdAt time.Time
	lastSeen  time.Time
}

// SessionService manages viewer sessions.
type SessionService struct {
	docs       indexSource
	positions  domain.ReadingPositionRepository
	documentID string
	threshold  float64
	ttl        time.Duration
	logger     domain.Logger
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*viewerSession
}

// NewSessionService creates a session service.
func NewSessionService(
	docs indexSource,
	positions domain.ReadingPositionRepository,
	config domain.Config,
	logger domain.Logger,
) *SessionService {
	return &SessionService{
		docs:       docs,
		positions:  positions,
		documentID: config.GetDocumentID(),
		threshold:  config.GetVisibilityThreshold(),
		ttl:        config.GetSessionTTL(),
		logger:     logger,
		now:        time.Now,
		sessions:   make(map[string]*viewerSession),
	}
}

// Create opens a session. When readerID is set, the reader's stored
// position is returned as the resume page.
func (s *SessionService) Create(ctx context.Context, readerID string) (*domain.SessionInfo, error) {
	var stored *domain.ReadingPosition
	if readerID != "" {
		pos, err := s.positions.Get(ctx, readerID, s.documentID)
		switch {
		case err == nil:
			stored = pos
		case !errors.Is(err, domain.ErrPositionNotFound):
			s.logger.Warn("Failed to load reading position", "reader_id", readerID, "error", err)
		}
	}

	// The index is read under s.mu so a concurrent reload either happens
	// before it or resets the session after insertion.
	s.mu.Lock()
	idx, err := s.docs.Index()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	tracker, err := visibility.New(visibility.Config{TotalPages: idx.PageCount(), Threshold: s.threshold})
	if err != nil {
		s.mu.Unlock()
		return nil, apperrors.FromDomain(err)
	}
	now := s.now()
	sess := &viewerSession{
		id:        uuid.New().String(),
		readerID:  readerID,
		nav:       navigator.New(idx),
		tracker:   tracker,
		createdAt: now,
		lastSeen:  now,
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	resume := 1
	if stored != nil && stored.PageNumber >= 1 && stored.PageNumber <= idx.PageCount() {
		resume = stored.PageNumber
	}

	s.logger.Info("Session created", "session_id", sess.id, "reader_id", readerID, "resume_page", resume)
	return &domain.SessionInfo{
		ID:                  sess.id,
		ReaderID:            readerID,
		ResumePage:          resume,
		TotalPages:          idx.PageCount(),
		VisibilityThreshold: tracker.Threshold(),
		CreatedAt:           now,
	}, nil
}

// Close removes a session.
func (s *SessionService) Close(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return apperrors.FromDomain(fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionNotFound))
	}
	delete(s.sessions, sessionID)
	s.logger.Info("Session closed", "session_id", sessionID)
	return nil
}

// Len returns the number of open sessions.
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// withSession runs fn under the session's lock and marks it as used.
func (s *SessionService) withSession(sessionID string, fn func(sess *viewerSession) error) error {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return apperrors.FromDomain(fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionNotFound))
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	if err := fn(sess); err != nil {
		return apperrors.FromDomain(err)
	}
	return nil
}

// Search sets the query and runs it.
func (s *SessionService) Search(sessionID, query string) (*domain.SearchState, error) {
	var state domain.SearchState
	err := s.withSession(sessionID, func(sess *viewerSession) error {
		sess.nav.Open()
		sess.nav.SetQuery(query)
		sess.nav.Search()
		state = sess.nav.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Search executed", "session_id", sessionID, "query", query, "matches", state.Total)
	return &state, nil
}

// SearchState returns the session's search without changing it.
func (s *SessionService) SearchState(sessionID string) (*domain.SearchState, error) {
	return s.searchOp(sessionID, func(nav *navigator.Navigator) error { return nil })
}

// Next activates the following match.
func (s *SessionService) Next(sessionID string) (*domain.SearchState, error) {
	return s.searchOp(sessionID, func(nav *navigator.Navigator) error {
		nav.Next()
		return nil
	})
}

// Previous activates the preceding match.
func (s *SessionService) Previous(sessionID string) (*domain.SearchState, error) {
	return s.searchOp(sessionID, func(nav *navigator.Navigator) error {
		nav.Previous()
		return nil
	})
}

// Goto activates match index. Out-of-range indexes are a validation error.
func (s *SessionService) Goto(sessionID string, index int) (*domain.SearchState, error) {
	return s.searchOp(sessionID, func(nav *navigator.Navigator) error {
		_, err := nav.GotoIndex(index)
		return err
	})
}

// ClearSearch closes the session's search.
func (s *SessionService) ClearSearch(sessionID string) (*domain.SearchState, error) {
	return s.searchOp(sessionID, func(nav *navigator.Navigator) error {
		nav.Clear()
		return nil
	})
}

func (s *SessionService) searchOp(sessionID string, op func(nav *navigator.Navigator) error) (*domain.SearchState, error) {
	var state domain.SearchState
	err := s.withSession(sessionID, func(sess *viewerSession) error {
		if err := op(sess.nav); err != nil {
			return err
		}
		state = sess.nav.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// ReportVisibility applies events in order. An invalid event stops
// processing; events before it stay applied. When the active page changes
// for a session with a reader, the new position is saved.
func (s *SessionService) ReportVisibility(ctx context.Context, sessionID string, events []domain.VisibilityEvent) (*domain.VisibilityState, error) {
	var (
		state      domain.VisibilityState
		readerID   string
		changed    bool
		totalPages int
	)
	err := s.withSession(sessionID, func(sess *viewerSession) error {
		var reportErr error
		for _, ev := range events {
			c, err := sess.tracker.Report(ev.PageNumber, ev.IntersectionRatio, ev.IsIntersecting)
			if err != nil {
				reportErr = err
				break
			}
			changed = changed || c
		}
		state = s.visibilitySnapshot(sess)
		readerID = sess.readerID
		totalPages = sess.nav.Index().PageCount()
		return reportErr
	})
	if err != nil {
		return nil, err
	}

	if changed && readerID != "" {
		s.savePosition(ctx, readerID, state.ActivePage, totalPages)
	}
	return &state, nil
}

// VisibilityState returns the session's active and visible pages.
func (s *SessionService) VisibilityState(sessionID string) (*domain.VisibilityState, error) {
	var state domain.VisibilityState
	err := s.withSession(sessionID, func(sess *viewerSession) error {
		state = s.visibilitySnapshot(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// PageView renders one page with the session's matches highlighted. The
// text comes from the same index the matches were computed against.
func (s *SessionService) PageView(sessionID string, page int) (*domain.PageView, error) {
	if page < 1 {
		return nil, apperrors.FromDomain(fmt.Errorf("page %d: %w", page, domain.ErrInvalidArgument))
	}

	var view domain.PageView
	err := s.withSession(sessionID, func(sess *viewerSession) error {
		idx := sess.nav.Index()
		text, ok := idx.Get(page)
		if !ok {
			return fmt.Errorf("page %d of %d: %w", page, idx.PageCount(), domain.ErrPageNotFound)
		}
		matches := search.MatchesOnPage(sess.nav.Matches(), page)
		activeID := ""
		if m, ok := sess.nav.ActiveMatch(); ok {
			activeID = m.ID
		}
		annotated, err := search.Highlight(text, matches, activeID)
		if err != nil {
			return err
		}
		view = domain.PageView{PageNumber: page, HTML: annotated.HTML(), MatchCount: len(matches)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ResetAll points every session at a freshly loaded index.
func (s *SessionService) ResetAll(idx *search.TextIndex) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		sess.mu.Lock()
		sess.nav.SetIndex(idx)
		sess.tracker.SetTotalPages(idx.PageCount())
		sess.mu.Unlock()
	}
	s.logger.Info("Sessions reset after reload", "sessions", len(s.sessions))
}

// EvictIdle removes sessions unused for longer than the TTL.
func (s *SessionService) EvictIdle() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("Evicted idle sessions", "evicted", evicted, "remaining", len(s.sessions))
	}
	return evicted
}

// RunJanitor evicts idle sessions until ctx is done.
func (s *SessionService) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.EvictIdle()
		}
	}
}

func (s *SessionService) visibilitySnapshot(sess *viewerSession) domain.VisibilityState {
	state := domain.VisibilityState{
		ActivePage:   sess.tracker.ActivePage(),
		VisiblePages: sess.tracker.VisiblePages(),
	}
	if sec, ok := s.docs.Catalog().Active(state.ActivePage); ok {
		state.ActiveSection = &sec
	}
	return state
}

func (s *SessionService) savePosition(ctx context.Context, readerID string, page, totalPages int) {
	progress := float32(0)
	if totalPages > 0 {
		progress = float32(page) / float32(totalPages)
	}
	pos := &domain.ReadingPosition{
		ReaderID:   readerID,
		DocumentID: s.documentID,
		PageNumber: page,
		Progress:   progress,
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.positions.Save(ctx, pos); err != nil {
		s.logger.Error("Failed to save reading position", err, "reader_id", readerID, "page_number", page)
	}
}
