package mcp

import (
	"context"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.EventSearchService.
type mockSearchService struct {
	result  *domain.SearchResult
	err     error
	sources []domain.SourceHandle
	queries []string
}

func (m *mockSearchService) Search(_ context.Context, query string) (*domain.SearchResult, error) {
	m.queries = append(m.queries, query)
	return m.result, m.err
}

func (m *mockSearchService) Sources() []domain.SourceHandle {
	return m.sources
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	result  *domain.SearchResult
	err     error
	state   domain.SessionState
	queries []string
}

func (m *mockSessionService) Submit(_ context.Context, query string) (*domain.SearchResult, error) {
	m.queries = append(m.queries, query)
	return m.result, m.err
}

func (m *mockSessionService) State() domain.SessionState {
	return m.state
}
