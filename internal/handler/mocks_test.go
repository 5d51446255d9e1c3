package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"manifesto-reader/internal/domain"
)

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(msg string, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}
func (l *recordingLogger) Error(msg string, err error, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}
func (l *recordingLogger) Debug(msg string, fields ...interface{}) {}
func (l *recordingLogger) Warn(msg string, fields ...interface{})  {}

type mockDocumentService struct {
	info      *domain.DocumentInfo
	pages     map[int]string
	pdf       []byte
	sections  []domain.Section
	reloadErr error
	reloads   int
}

func newMockDocumentService() *mockDocumentService {
	return &mockDocumentService{
		info:  &domain.DocumentInfo{ID: "manifesto", Metadata: domain.DocumentMetadata{PageCount: 2}, SectionCount: 1, SearchDebounceMS: 300},
		pages: map[int]string{1: "First page", 2: "Second page"},
		pdf:   []byte("%PDF-1.7"),
		sections: []domain.Section{
			{ID: "foreword", Title: "Foreword", ShortLabel: "Intro", StartPage: 1},
		},
	}
}

func (m *mockDocumentService) Info() (*domain.DocumentInfo, error) {
	if m.info == nil {
		return nil, domain.ErrDocumentNotLoaded
	}
	return m.info, nil
}

func (m *mockDocumentService) PageText(page int) (*domain.PageText, error) {
	text, ok := m.pages[page]
	if !ok {
		return nil, fmt.Errorf("page %d: %w", page, domain.ErrPageNotFound)
	}
	return &domain.PageText{PageNumber: page, Text: text}, nil
}

func (m *mockDocumentService) PDF() ([]byte, error) {
	if m.pdf == nil {
		return nil, domain.ErrDocumentNotLoaded
	}
	return m.pdf, nil
}

func (m *mockDocumentService) Sections() []domain.Section { return m.sections }

func (m *mockDocumentService) Reload(ctx context.Context) error {
	m.reloads++
	return m.reloadErr
}

type mockSessionService struct {
	sessions   map[string]bool
	lastReader string
	lastQuery  string
	lastGoto   int
	lastEvents []domain.VisibilityEvent
	state      domain.SearchState
	visibility domain.VisibilityState
	panicOn    string
}

func newMockSessionService() *mockSessionService {
	return &mockSessionService{
		sessions:   map[string]bool{"s1": true},
		state:      domain.SearchState{State: "closed", CurrentIndex: -1},
		visibility: domain.VisibilityState{ActivePage: 1, VisiblePages: []int{}},
	}
}

func (m *mockSessionService) check(id string) error {
	if m.panicOn == id {
		panic("boom")
	}
	if !m.sessions[id] {
		return fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return nil
}

func (m *mockSessionService) Create(ctx context.Context, readerID string) (*domain.SessionInfo, error) {
	m.lastReader = readerID
	m.sessions["s2"] = true
	return &domain.SessionInfo{ID: "s2", ReaderID: readerID, ResumePage: 1, TotalPages: 2, VisibilityThreshold: 0.5}, nil
}

func (m *mockSessionService) Close(id string) error {
	if err := m.check(id); err != nil {
		return err
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionService) Search(id, query string) (*domain.SearchState, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	m.lastQuery = query
	m.state = domain.SearchState{State: "has-results", Query: query, Total: 2, CurrentIndex: 0, ActivePage: 1}
	return &m.state, nil
}

func (m *mockSessionService) SearchState(id string) (*domain.SearchState, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	return &m.state, nil
}

func (m *mockSessionService) Next(id string) (*domain.SearchState, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	m.state.CurrentIndex = (m.state.CurrentIndex + 1) % 2
	return &m.state, nil
}

func (m *mockSessionService) Previous(id string) (*domain.SearchState, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	m.state.CurrentIndex = (m.state.CurrentIndex + 1) % 2
	return &m.state, nil
}

func (m *mockSessionService) Goto(id string, index int) (*domain.SearchState, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	if index < 0 || index >= 2 {
		return nil, fmt.Errorf("match index %d: %w", index, domain.ErrInvalidArgument)
	}
	m.lastGoto = index
	m.state.CurrentIndex = index
	return &m.state, nil
}

func (m *mockSessionService) ClearSearch(id string) (*domain.SearchState, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	m.state = domain.SearchState{State: "closed", CurrentIndex: -1}
	return &m.state, nil
}

func (m *mockSessionService) ReportVisibility(ctx context.Context, id string, events []domain.VisibilityEvent) (*domain.VisibilityState, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	m.lastEvents = events
	if len(events) > 0 {
		m.visibility.ActivePage = events[len(events)-1].PageNumber
	}
	return &m.visibility, nil
}

func (m *mockSessionService) VisibilityState(id string) (*domain.VisibilityState, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	return &m.visibility, nil
}

func (m *mockSessionService) PageView(id string, page int) (*domain.PageView, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}
	if page > 2 {
		return nil, fmt.Errorf("page %d: %w", page, domain.ErrPageNotFound)
	}
	return &domain.PageView{PageNumber: page, HTML: `<mark class="search-hit active" data-match-id="p1-o0">First</mark> page`, MatchCount: 1}, nil
}

const testAdminToken = "admin-secret"

type testServer struct {
	handler  http.Handler
	docs     *mockDocumentService
	sessions *mockSessionService
	logger   *recordingLogger
}

func newTestServer() *testServer {
	ts := &testServer{
		docs:     newMockDocumentService(),
		sessions: newMockSessionService(),
		logger:   &recordingLogger{},
	}
	ts.handler = NewRouter(
		NewDocumentHandler(ts.docs, ts.logger),
		NewSessionHandler(ts.sessions, ts.logger),
		ts.logger,
		[]string{"http://localhost:5173"},
		testAdminToken,
	)
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	return ts.doWithHeader(method, path, body, "", "")
}

func (ts *testServer) doWithHeader(method, path, body, header, value string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if header != "" {
		req.Header.Set(header, value)
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}
