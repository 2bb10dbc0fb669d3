package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
)

func newTestSearchService(gen *mockGenerator, metrics *mockMetrics) *EventSearchService {
	var m driven.PipelineMetrics
	if metrics != nil {
		m = metrics
	}
	svc := NewEventSearchService(gen, &mockRegistry{sources: testSources}, m)
	svc.SetClock(func() time.Time { return anchor })
	return svc
}

func TestEventSearchService_Search_Success(t *testing.T) {
	gen := &mockGenerator{response: domain.RawResponse{
		Text: "```json\n" + wellFormed + "\n```",
		Citations: []domain.Citation{
			{URI: "https://www.instagram.com/ubcwics/p/abc", Title: "WiCS Hack Night"},
			{URI: "https://news.ubc.ca/x"},
		},
	}}
	metrics := &mockMetrics{}
	svc := newTestSearchService(gen, metrics)

	result, err := svc.Search(context.Background(), "  hackathons ")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "hackathons", result.Query)
	assert.Equal(t, anchor, result.ReferenceDate)
	assert.False(t, result.Malformed)
	require.Len(t, result.Events, 3)
	assert.Len(t, result.Citations, 2)

	// Classification ran on every record.
	assert.Equal(t, domain.DateBadge{Day: "24", Month: "OCT", IsDateValid: true}, result.Events[0].Badge)
	assert.Equal(t, domain.CardVariantDeadline, result.Events[1].Style.Variant)
	assert.Equal(t, domain.DateBadge{Day: "3", Month: "NOV", IsDateValid: true}, result.Events[1].Badge)
	assert.False(t, result.Events[2].Badge.IsDateValid)

	req := gen.lastRequest()
	assert.Equal(t, testSources, req.CandidateSources)
	assert.True(t, req.SearchGrounding)
	assert.Contains(t, req.Instruction, "Mon Oct 19 2026")

	assert.Equal(t, []string{driven.OutcomeOK}, metrics.outcomes)
	assert.Equal(t, 1, metrics.retrievals)
	assert.Equal(t, 3, metrics.records)
}

func TestEventSearchService_Search_EmptyQuery(t *testing.T) {
	gen := &mockGenerator{}
	svc := newTestSearchService(gen, nil)

	result, err := svc.Search(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	assert.Nil(t, result)
	assert.Empty(t, gen.requests)
}

func TestEventSearchService_Search_NoGenerator(t *testing.T) {
	svc := NewEventSearchService(nil, &mockRegistry{}, nil)

	_, err := svc.Search(context.Background(), "tech")

	assert.ErrorIs(t, err, domain.ErrGeneratorUnavailable)
}

func TestEventSearchService_Search_RetrievalErrorIsTerminal(t *testing.T) {
	gen := &mockGenerator{err: domain.ErrAuthInvalid}
	metrics := &mockMetrics{}
	svc := newTestSearchService(gen, metrics)

	result, err := svc.Search(context.Background(), "tech")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrRetrieval))
	assert.True(t, errors.Is(err, domain.ErrAuthInvalid))
	var re *domain.RetrievalError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "gemini", re.Provider)

	// Not retried.
	assert.Len(t, gen.requests, 1)
	assert.Equal(t, []string{driven.OutcomeFailed}, metrics.outcomes)
}

func TestEventSearchService_Search_MalformedDegradesToEmpty(t *testing.T) {
	gen := &mockGenerator{response: domain.RawResponse{
		Text:      "I found several events but here they are in prose.",
		Citations: []domain.Citation{{URI: "https://x.example"}},
	}}
	metrics := &mockMetrics{}
	svc := newTestSearchService(gen, metrics)

	result, err := svc.Search(context.Background(), "tech")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Malformed)
	assert.NotNil(t, result.Events)
	assert.Empty(t, result.Events)
	assert.Len(t, result.Citations, 1)
	assert.Equal(t, []string{driven.OutcomeMalformed}, metrics.outcomes)
}

func TestEventSearchService_Search_EmptyArray(t *testing.T) {
	gen := &mockGenerator{response: domain.RawResponse{Text: "[]"}}
	metrics := &mockMetrics{}
	svc := newTestSearchService(gen, metrics)

	result, err := svc.Search(context.Background(), "tech")

	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.NotNil(t, result.Citations)
	assert.Equal(t, []string{driven.OutcomeEmpty}, metrics.outcomes)
}

func TestEventSearchService_Search_DroppedRecordsCounted(t *testing.T) {
	gen := &mockGenerator{response: domain.RawResponse{
		Text: `[{"title":"A","clubName":"C","category":"Event"},{"clubName":"C"}]`,
	}}
	metrics := &mockMetrics{}
	svc := newTestSearchService(gen, metrics)

	result, err := svc.Search(context.Background(), "tech")

	require.NoError(t, err)
	assert.Len(t, result.Events, 1)
	require.Len(t, result.Warnings, 1)
	assert.True(t, result.Warnings[0].Dropped)
	assert.Equal(t, 1, metrics.dropped)
}

func TestEventSearchService_Search_CustomPrompt(t *testing.T) {
	gen := &mockGenerator{response: domain.RawResponse{Text: "[]"}}
	store := &mockPromptStore{text: "find {{.Query}} on {{.Date}}"}
	svc := newTestSearchService(gen, nil)
	svc.SetPromptStore(store)

	_, err := svc.Search(context.Background(), "robots")
	require.NoError(t, err)
	assert.Equal(t, "find robots on Mon Oct 19 2026", gen.lastRequest().Instruction)

	_, err = svc.Search(context.Background(), "robots")
	require.NoError(t, err)
	assert.Equal(t, 2, store.loads)
}

func TestEventSearchService_Search_BadCustomPromptFallsBack(t *testing.T) {
	gen := &mockGenerator{response: domain.RawResponse{Text: "[]"}}
	svc := newTestSearchService(gen, nil)
	svc.SetPromptStore(&mockPromptStore{text: "{{.Missing}}"})

	_, err := svc.Search(context.Background(), "robots")

	require.NoError(t, err)
	assert.Contains(t, gen.lastRequest().Instruction, "Current Date: Mon Oct 19 2026")
}

func TestEventSearchService_Search_PromptStoreErrorFallsBack(t *testing.T) {
	gen := &mockGenerator{response: domain.RawResponse{Text: "[]"}}
	svc := newTestSearchService(gen, nil)
	svc.SetPromptStore(&mockPromptStore{err: errors.New("disk gone")})

	_, err := svc.Search(context.Background(), "robots")

	require.NoError(t, err)
	assert.Contains(t, gen.lastRequest().Instruction, `User Interest: "robots"`)
}

func TestEventSearchService_Sources(t *testing.T) {
	svc := newTestSearchService(&mockGenerator{}, nil)
	assert.Equal(t, testSources, svc.Sources())

	assert.Nil(t, NewEventSearchService(&mockGenerator{}, nil, nil).Sources())
}
