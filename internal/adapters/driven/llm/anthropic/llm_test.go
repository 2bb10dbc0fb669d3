package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout-cli/internal/adapters/driven/llm"
	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewGenerator(Config{APIKey: "sk-ant", BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)
	return g
}

const messagesBody = `{
  "stop_reason": "end_turn",
  "content": [
    {"type": "server_tool_use", "id": "t1", "name": "web_search"},
    {"type": "web_search_tool_result", "tool_use_id": "t1", "content": [
      {"type": "web_search_result", "url": "https://a.example/", "title": "A"},
      {"type": "web_search_result", "url": "https://b.example/", "title": "B"}
    ]},
    {"type": "web_search_tool_result", "tool_use_id": "t2", "content": {"type": "web_search_tool_result_error", "error_code": "max_uses_exceeded"}},
    {"type": "text", "text": "[{\"title\":", "citations": [
      {"type": "web_search_result_location", "url": "https://b.example/", "title": "B again"},
      {"type": "web_search_result_location", "url": "https://c.example/", "title": "C"}
    ]},
    {"type": "text", "text": "\"Ski Trip\"}]"}
  ]
}`

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	_, err := NewGenerator(Config{})

	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)
}

func TestGenerator_Retrieve(t *testing.T) {
	var gotBody messagesRequest
	var gotHeaders http.Header
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		assert.Equal(t, "/v1/messages", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(messagesBody))
	})

	raw, err := g.Retrieve(context.Background(), domain.RetrievalRequest{Instruction: "ski", SearchGrounding: true})

	require.NoError(t, err)
	assert.Equal(t, "sk-ant", gotHeaders.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, gotHeaders.Get("anthropic-version"))
	assert.Equal(t, DefaultModel, gotBody.Model)
	assert.Equal(t, DefaultMaxTokens, gotBody.MaxTokens)
	require.Len(t, gotBody.Tools, 1)
	assert.Equal(t, webSearchTool, gotBody.Tools[0].Type)
	assert.Equal(t, "web_search", gotBody.Tools[0].Name)

	assert.Equal(t, `[{"title":"Ski Trip"}]`, raw.Text)
	assert.Equal(t, []domain.Citation{
		{URI: "https://a.example/", Title: "A"},
		{URI: "https://b.example/", Title: "B"},
		{URI: "https://c.example/", Title: "C"},
	}, raw.Citations)
}

func TestGenerator_Retrieve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "auth", status: http.StatusUnauthorized, body: `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, wantErr: domain.ErrAuthInvalid},
		{name: "overloaded", status: 529, body: `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, wantErr: domain.ErrServiceFailure},
		{name: "rate limit", status: http.StatusTooManyRequests, body: `{}`, wantErr: domain.ErrRateLimited},
		{name: "no text", status: http.StatusOK, body: `{"content":[],"stop_reason":"max_tokens"}`, wantErr: domain.ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := g.Retrieve(context.Background(), domain.RetrievalRequest{Instruction: "x"})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerator_Ping(t *testing.T) {
	var gotPath string
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id":"claude"}`))
	})

	require.NoError(t, g.Ping(context.Background()))
	assert.Equal(t, "/v1/models/"+DefaultModel, gotPath)
	assert.Equal(t, domain.ProviderAnthropic, g.Provider())
	assert.Equal(t, DefaultModel, g.ModelName())
}

func TestGenerator_Retrieve_OversizedBody(t *testing.T) {
	orig := llm.MaxResponseBytes
	llm.MaxResponseBytes = 64
	t.Cleanup(func() { llm.MaxResponseBytes = orig })

	g := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(strings.Repeat(" ", 128) + "{}"))
	})

	_, err := g.Retrieve(context.Background(), domain.RetrievalRequest{Instruction: "x"})

	assert.ErrorIs(t, err, domain.ErrServiceFailure)
	assert.ErrorContains(t, err, "response exceeds 64 bytes")
}
