package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scout-cli/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// Session is the composition-layer state behind a UI or API.
// It admits one query at a time and replaces the result set wholesale.
type Session struct {
	search driving.EventSearchService
	now    func() time.Time

	mu        sync.RWMutex
	loading   bool
	query     string
	events    []domain.EventRecord
	citations []domain.Citation
	failed    bool
	updatedAt time.Time
}

// NewSession creates an idle session with an empty result set.
func NewSession(search driving.EventSearchService) *Session {
	return &Session{
		search:    search,
		now:       time.Now,
		events:    []domain.EventRecord{},
		citations: []domain.Citation{},
	}
}

// Submit runs query unless another query is in flight.
// On completion the previous events and citations are discarded.
// A terminal error leaves an empty result set marked as failed.
func (s *Session) Submit(ctx context.Context, query string) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		logger.Debug("Rejected %q: a query is already in flight", query)
		return nil, domain.ErrQueryInFlight
	}
	s.loading = true
	s.query = query
	s.mu.Unlock()

	// Clears loading even when Search panics.
	settled := false
	defer func() {
		if !settled {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
		}
	}()

	result, err := s.search.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	settled = true
	s.loading = false
	s.updatedAt = s.now()
	if err != nil {
		s.events = []domain.EventRecord{}
		s.citations = []domain.Citation{}
		s.failed = true
		return nil, err
	}
	s.events = result.Events
	s.citations = result.Citations
	s.failed = false
	return result, nil
}

// State returns a snapshot safe to hand to a renderer.
func (s *Session) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]domain.EventRecord, len(s.events))
	copy(events, s.events)
	citations := make([]domain.Citation, len(s.citations))
	copy(citations, s.citations)

	return domain.SessionState{
		Loading:   s.loading,
		Query:     s.query,
		Events:    events,
		Citations: citations,
		Failed:    s.failed,
		UpdatedAt: s.updatedAt,
	}
}
