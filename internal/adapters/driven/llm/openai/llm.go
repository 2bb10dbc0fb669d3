// Package openai provides a grounded generator adapter using the OpenAI
// Responses API with the web search tool.
package openai

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
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4.1-mini"
	DefaultTimeout = 90 * time.Second
)

// Config holds configuration for the OpenAI generator.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-4.1-mini).
	Model string

	// Timeout is the request timeout (default: 90s).
	Timeout time.Duration

	// HTTPClient replaces the default client.
	HTTPClient *http.Client
}

// Generator runs grounded generation against the OpenAI Responses API.
type Generator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// responsesRequest is the OpenAI /responses request format.
type responsesRequest struct {
	Model string         `json:"model"`
	Input string         `json:"input"`
	Tools []responseTool `json:"tools,omitempty"`
}

type responseTool struct {
	Type string `json:"type"`
}

// responsesResponse is the OpenAI /responses response format.
// Only message output items carry text; tool call items are skipped.
type responsesResponse struct {
	Status string `json:"status"`
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type        string `json:"type"`
			Text        string `json:"text"`
			Annotations []struct {
				Type  string `json:"type"`
				URL   string `json:"url"`
				Title string `json:"title"`
			} `json:"annotations"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewGenerator creates an OpenAI generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai: API key is required", domain.ErrProviderNotConfigured)
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
	body := responsesRequest{
		Model: g.model,
		Input: req.Instruction,
	}
	if req.SearchGrounding {
		body.Tools = []responseTool{{Type: "web_search"}}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/responses", bytes.NewReader(jsonBody))
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if err := llm.CheckResponse(resp); err != nil {
		return domain.RawResponse{}, fmt.Errorf("openai: %w", err)
	}

	raw, err := llm.ReadBody(resp)
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("openai: %w", err)
	}

	var out responsesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.RawResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil && out.Error.Message != "" {
		return domain.RawResponse{}, fmt.Errorf("openai error: %s: %w", out.Error.Message, domain.ErrServiceFailure)
	}

	result := toRawResponse(out)
	if result.Text == "" {
		return domain.RawResponse{}, fmt.Errorf("openai: no output text (status %q): %w", out.Status, domain.ErrEmptyResponse)
	}
	return result, nil
}

// toRawResponse concatenates output_text parts and collects url_citation
// annotations, first occurrence wins.
func toRawResponse(out responsesResponse) domain.RawResponse {
	var text strings.Builder
	var citations []domain.Citation
	seen := make(map[string]bool)

	for _, item := range out.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type != "output_text" {
				continue
			}
			text.WriteString(c.Text)
			for _, a := range c.Annotations {
				if a.Type != "url_citation" || a.URL == "" || seen[a.URL] {
					continue
				}
				seen[a.URL] = true
				citations = append(citations, domain.Citation{URI: a.URL, Title: a.Title})
			}
		}
	}
	return domain.RawResponse{Text: text.String(), Citations: citations}
}

// Provider returns the provider identifier.
func (g *Generator) Provider() domain.GeneratorProvider {
	return domain.ProviderOpenAI
}

// ModelName returns the name of the model being used.
func (g *Generator) ModelName() string {
	return g.model
}

// Ping validates the API key by fetching the configured model.
// This is a lightweight check that does not run inference.
func (g *Generator) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/models/"+url.PathEscape(g.model), http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if err := llm.CheckResponse(resp); err != nil {
		return fmt.Errorf("openai: %w", err)
	}
	return nil
}

// Close releases resources.
func (g *Generator) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
