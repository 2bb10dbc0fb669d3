package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scout-cli/internal/logger"
)

// Ensure EventSearchService implements the interfaces.
var (
	_ driving.EventSearchService = (*EventSearchService)(nil)
	_ driven.PromptStoreAware    = (*EventSearchService)(nil)
)

// EventSearchService runs build -> retrieve -> normalise -> classify.
// Each call owns its intermediate values; nothing is shared between runs
// except the prompt builder, which is swapped atomically under mu.
type EventSearchService struct {
	generator driven.GroundedGenerator
	registry  driven.SourceRegistry
	metrics   driven.PipelineMetrics
	now       func() time.Time

	mu          sync.Mutex
	promptStore driven.PromptStore
	promptText  string
	builder     *PromptBuilder
}

// NewEventSearchService creates the pipeline service.
// The metrics parameter is optional (can be nil).
func NewEventSearchService(
	generator driven.GroundedGenerator,
	registry driven.SourceRegistry,
	metrics driven.PipelineMetrics,
) *EventSearchService {
	return &EventSearchService{
		generator: generator,
		registry:  registry,
		metrics:   metrics,
		now:       time.Now,
		builder:   DefaultPromptBuilder(),
	}
}

// SetPromptStore sets the store used to load the retrieval template.
func (s *EventSearchService) SetPromptStore(store driven.PromptStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promptStore = store
}

// SetClock replaces the reference date source. Used in tests.
func (s *EventSearchService) SetClock(now func() time.Time) {
	s.now = now
}

// Sources returns the candidate sources used for every query.
func (s *EventSearchService) Sources() []domain.SourceHandle {
	if s.registry == nil {
		return nil
	}
	return s.registry.Sources()
}

// Search runs the pipeline for one query.
func (s *EventSearchService) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	runID := uuid.NewString()
	logger.Section("Event Search")
	logger.Debug("Run: %s, Query: %q", runID, query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if s.generator == nil {
		return nil, domain.ErrGeneratorUnavailable
	}

	sources := s.Sources()
	ref := s.now()
	req := s.promptBuilder().Build(query, ref, sources)
	logger.Debug("Anchor date: %s, candidate sources: %d, instruction: %d bytes",
		ref.Format(AnchorDateLayout), len(sources), len(req.Instruction))

	provider := s.generator.Provider().String()
	start := time.Now()
	raw, err := s.generator.Retrieve(ctx, req)
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveRetrieval(provider, elapsed, err)
	}
	if err != nil {
		logger.Warn("Run %s: retrieval failed after %s: %v", runID, elapsed.Round(time.Millisecond), err)
		s.observeSearch(driven.OutcomeFailed)
		return nil, fmt.Errorf("search: %w", domain.NewRetrievalError(provider, err))
	}
	logger.Debug("Retrieved %d bytes and %d citations in %s",
		len(raw.Text), len(raw.Citations), elapsed.Round(time.Millisecond))

	result := &domain.SearchResult{
		RunID:         runID,
		Query:         query,
		ReferenceDate: ref,
		Citations:     raw.Citations,
	}
	if result.Citations == nil {
		result.Citations = []domain.Citation{}
	}

	records, warnings, err := NewNormalizer(sources).Normalize(raw)
	if err != nil {
		if !errors.Is(err, domain.ErrMalformedResponse) {
			return nil, fmt.Errorf("search: %w", err)
		}
		logger.Warn("Run %s: %v", runID, err)
		result.Events = records
		result.Malformed = true
		s.observeSearch(driven.OutcomeMalformed)
		return result, nil
	}

	dropped := 0
	for _, w := range warnings {
		logger.Debug("Run %s: %s", runID, w.Error())
		if w.Dropped {
			dropped++
		}
	}

	Enrich(records)
	result.Events = records
	result.Warnings = warnings

	if s.metrics != nil {
		s.metrics.ObserveRecords(records, dropped)
	}
	if len(records) == 0 {
		s.observeSearch(driven.OutcomeEmpty)
	} else {
		s.observeSearch(driven.OutcomeOK)
	}
	logger.Info("Run %s: %d events, %d dropped, %d citations", runID, len(records), dropped, len(result.Citations))

	return result, nil
}

func (s *EventSearchService) observeSearch(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveSearch(outcome)
	}
}

// promptBuilder returns the builder for the current template.
// A custom template is re-parsed only when its text changes; one that fails
// to parse leaves the built-in template in place.
func (s *EventSearchService) promptBuilder() *PromptBuilder {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.promptStore == nil {
		return s.builder
	}
	text, err := s.promptStore.Load(driven.PromptEventSearch)
	if err != nil || text == s.promptText {
		if err != nil {
			logger.Warn("Load prompt %s: %v", driven.PromptEventSearch, err)
		}
		return s.builder
	}

	s.promptText = text
	b, err := NewPromptBuilder(text)
	if err != nil {
		logger.Warn("Custom prompt rejected, using built-in: %v", err)
		s.builder = DefaultPromptBuilder()
		return s.builder
	}
	s.builder = b
	return s.builder
}
