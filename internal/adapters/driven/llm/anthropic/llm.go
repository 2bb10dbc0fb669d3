// Package anthropic provides a grounded generator adapter using the Anthropic
// Messages API with the server-side web search tool.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/scout-cli/internal/adapters/driven/llm"
	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.GroundedGenerator = (*Generator)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-7-sonnet-latest"
	DefaultTimeout   = 90 * time.Second
	DefaultMaxTokens = 4096

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"

	webSearchTool = "web_search_20250305"
	maxSearches   = 5
)

// Config holds configuration for the Anthropic generator.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-3-7-sonnet-latest).
	Model string

	// Timeout is the request timeout (default: 90s).
	Timeout time.Duration

	// HTTPClient replaces the default client.
	HTTPClient *http.Client
}

// Generator runs grounded generation against the Anthropic Messages API.
type Generator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model     string            `json:"model"`
	Messages  []messagesMessage `json:"messages"`
	MaxTokens int               `json:"max_tokens"`
	Tools     []searchTool      `json:"tools,omitempty"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type searchTool struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	MaxUses int    `json:"max_uses,omitempty"`
}

// contentBlock covers the block types the web search tool produces.
// Content is raw because a failed search returns an error object there.
type contentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Content   json.RawMessage `json:"content"`
	Citations []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"citations"`
}

type searchResult struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGenerator creates an Anthropic generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic: API key is required", domain.ErrProviderNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Generator{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Retrieve sends the instruction with the web search tool enabled.
func (g *Generator) Retrieve(ctx context.Context, req domain.RetrievalRequest) (domain.RawResponse, error) {
	body := messagesRequest{
		Model:     g.model,
		Messages:  []messagesMessage{{Role: "user", Content: req.Instruction}},
		MaxTokens: DefaultMaxTokens,
	}
	if req.SearchGrounding {
		body.Tools = []searchTool{{Type: webSearchTool, Name: "web_search", MaxUses: maxSearches}}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	g.setHeaders(httpReq)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if err := llm.CheckResponse(resp); err != nil {
		return domain.RawResponse{}, fmt.Errorf("anthropic: %w", err)
	}

	raw, err := llm.ReadBody(resp)
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("anthropic: %w", err)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(raw, &msgResp); err != nil {
		return domain.RawResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if msgResp.Error != nil {
		return domain.RawResponse{}, fmt.Errorf("anthropic error: %s: %w", msgResp.Error.Message, domain.ErrServiceFailure)
	}

	result := toRawResponse(msgResp)
	if result.Text == "" {
		return domain.RawResponse{}, fmt.Errorf("anthropic: no text content (stop reason %q): %w",
			msgResp.StopReason, domain.ErrEmptyResponse)
	}
	return result, nil
}

// toRawResponse concatenates text blocks. Citations come from search result
// blocks and inline text citations, in response order, first URL wins.
func toRawResponse(resp messagesResponse) domain.RawResponse {
	var text strings.Builder
	var citations []domain.Citation
	seen := make(map[string]bool)
	add := func(uri, title string) {
		if uri == "" || seen[uri] {
			return
		}
		seen[uri] = true
		citations = append(citations, domain.Citation{URI: uri, Title: title})
	}

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
			for _, c := range block.Citations {
				add(c.URL, c.Title)
			}
		case "web_search_tool_result":
			var results []searchResult
			if err := json.Unmarshal(block.Content, &results); err != nil {
				continue
			}
			for _, r := range results {
				add(r.URL, r.Title)
			}
		}
	}
	return domain.RawResponse{Text: text.String(), Citations: citations}
}

// Provider returns the provider identifier.
func (g *Generator) Provider() domain.GeneratorProvider {
	return domain.ProviderAnthropic
}

// ModelName returns the name of the model being used.
func (g *Generator) ModelName() string {
	return g.model
}

// Ping validates the API key by fetching the configured model.
func (g *Generator) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/models/"+url.PathEscape(g.model), http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: failed to create ping request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if err := llm.CheckResponse(resp); err != nil {
		return fmt.Errorf("anthropic: %w", err)
	}
	return nil
}

// Close releases resources.
func (g *Generator) Close() error {
	return nil
}

func (g *Generator) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", g.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
}
