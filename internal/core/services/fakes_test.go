package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockGenerator implements driven.GroundedGenerator for testing.
type mockGenerator struct {
	mu       sync.Mutex
	response domain.RawResponse
	err      error
	requests []domain.RetrievalRequest
	// release, when set, blocks Retrieve until closed.
	release chan struct{}
	started chan struct{}
	// panics, when set, is raised by Retrieve instead of returning.
	panics any
}

func (m *mockGenerator) Retrieve(ctx context.Context, req domain.RetrievalRequest) (domain.RawResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return domain.RawResponse{}, ctx.Err()
		}
	}
	if m.panics != nil {
		panic(m.panics)
	}
	return m.response, m.err
}

func (m *mockGenerator) Provider() domain.GeneratorProvider { return domain.ProviderGemini }
func (m *mockGenerator) ModelName() string                  { return "mock-model" }
func (m *mockGenerator) Ping(_ context.Context) error       { return nil }
func (m *mockGenerator) Close() error                       { return nil }

func (m *mockGenerator) lastRequest() domain.RetrievalRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

// mockRegistry implements driven.SourceRegistry for testing.
type mockRegistry struct {
	sources []domain.SourceHandle
}

func (m *mockRegistry) Sources() []domain.SourceHandle { return m.sources }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	text  string
	err   error
	loads int
}

func (m *mockPromptStore) Load(_ string) (string, error) {
	m.loads++
	return m.text, m.err
}

func (m *mockPromptStore) Reload() {}

// mockMetrics implements driven.PipelineMetrics for testing.
type mockMetrics struct {
	outcomes   []string
	retrievals int
	retrieved  []error
	records    int
	dropped    int
}

func (m *mockMetrics) ObserveRetrieval(_ string, _ time.Duration, err error) {
	m.retrievals++
	m.retrieved = append(m.retrieved, err)
}

func (m *mockMetrics) ObserveSearch(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

func (m *mockMetrics) ObserveRecords(records []domain.EventRecord, dropped int) {
	m.records += len(records)
	m.dropped += dropped
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.values[key].(bool)
	return b
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	s, _ := m.values[key].([]string)
	return s
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string { return "/tmp/config.toml" }

// mockValidator implements driven.GeneratorValidator for testing.
type mockValidator struct {
	err  error
	seen *domain.GeneratorSettings
}

func (m *mockValidator) ValidateGenerator(settings *domain.GeneratorSettings) error {
	m.seen = settings
	return m.err
}

var (
	_ driven.GroundedGenerator  = (*mockGenerator)(nil)
	_ driven.SourceRegistry     = (*mockRegistry)(nil)
	_ driven.PromptStore        = (*mockPromptStore)(nil)
	_ driven.PipelineMetrics    = (*mockMetrics)(nil)
	_ driven.ConfigStore        = (*mockConfigStore)(nil)
	_ driven.GeneratorValidator = (*mockValidator)(nil)
)

var testSources = []domain.SourceHandle{
	"https://www.instagram.com/ubcpmc/",
	"https://www.instagram.com/ubcwics/",
	"https://www.instagram.com/ubcaiclub/",
}

// anchor is a fixed reference date: Mon Oct 19 2026.
var anchor = time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC)
