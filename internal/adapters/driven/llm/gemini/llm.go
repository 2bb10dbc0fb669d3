// Package gemini provides a grounded generator adapter using the Gemini API
// with the Google Search tool.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/custodia-labs/scout-cli/internal/adapters/driven/llm"
	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.GroundedGenerator = (*Generator)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 90 * time.Second

	apiVersion = "v1beta"
)

// adcScopes are requested when no API key is configured.
var adcScopes = []string{
	"https://www.googleapis.com/auth/generative-language",
	"https://www.googleapis.com/auth/cloud-platform",
}

// Config holds configuration for the Gemini generator.
type Config struct {
	// APIKey is the Gemini API key. When empty, Application Default
	// Credentials are used instead.
	APIKey string

	// BaseURL is the API base URL (default: https://generativelanguage.googleapis.com).
	BaseURL string

	// Model is the model to use (default: gemini-2.5-flash).
	Model string

	// Timeout is the request timeout (default: 90s).
	Timeout time.Duration

	// HTTPClient replaces the default client. Tests use it to reach httptest servers.
	HTTPClient *http.Client
}

// Generator runs grounded generation against the Gemini API.
type Generator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// generateRequest is the Gemini :generateContent request format.
type generateRequest struct {
	Contents []content `json:"contents"`
	Tools    []tool    `json:"tools,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

// generateResponse is the Gemini :generateContent response format.
type generateResponse struct {
	Candidates []struct {
		Content           content `json:"content"`
		FinishReason      string  `json:"finishReason"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// NewGenerator creates a Gemini generator.
// Without an API key it resolves Application Default Credentials, which
// fails with domain.ErrProviderNotConfigured when none are available.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
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
	switch {
	case client != nil:
	case cfg.APIKey != "":
		client = &http.Client{Timeout: cfg.Timeout}
	default:
		adc, err := google.DefaultClient(ctx, adcScopes...)
		if err != nil {
			return nil, fmt.Errorf("%w: gemini: no API key and no application default credentials: %v",
				domain.ErrProviderNotConfigured, err)
		}
		adc.Timeout = cfg.Timeout
		client = adc
	}

	return &Generator{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Retrieve sends the instruction with Google Search grounding enabled.
func (g *Generator) Retrieve(ctx context.Context, req domain.RetrievalRequest) (domain.RawResponse, error) {
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Instruction}}}},
	}
	if req.SearchGrounding {
		body.Tools = []tool{{GoogleSearch: &struct{}{}}}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.modelURL()+":generateContent", bytes.NewReader(jsonBody))
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	g.authorise(httpReq)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if err := llm.CheckResponse(resp); err != nil {
		return domain.RawResponse{}, fmt.Errorf("gemini: %w", err)
	}

	raw, err := llm.ReadBody(resp)
	if err != nil {
		return domain.RawResponse{}, fmt.Errorf("gemini: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(raw, &genResp); err != nil {
		return domain.RawResponse{}, fmt.Errorf("decode response: %w", err)
	}

	if len(genResp.Candidates) == 0 {
		if genResp.PromptFeedback != nil && genResp.PromptFeedback.BlockReason != "" {
			return domain.RawResponse{}, fmt.Errorf("gemini: prompt blocked (%s): %w",
				genResp.PromptFeedback.BlockReason, domain.ErrEmptyResponse)
		}
		return domain.RawResponse{}, fmt.Errorf("gemini: no candidates returned: %w", domain.ErrEmptyResponse)
	}

	return toRawResponse(genResp), nil
}

// toRawResponse joins the first candidate's text parts and collects its web
// grounding chunks in order.
func toRawResponse(resp generateResponse) domain.RawResponse {
	first := resp.Candidates[0]

	var text strings.Builder
	for _, p := range first.Content.Parts {
		text.WriteString(p.Text)
	}

	var citations []domain.Citation
	if first.GroundingMetadata != nil {
		for _, chunk := range first.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			citations = append(citations, domain.Citation{URI: chunk.Web.URI, Title: chunk.Web.Title})
		}
	}

	return domain.RawResponse{Text: text.String(), Citations: citations}
}

// Provider returns the provider identifier.
func (g *Generator) Provider() domain.GeneratorProvider {
	return domain.ProviderGemini
}

// ModelName returns the name of the model being used.
func (g *Generator) ModelName() string {
	return g.model
}

// Ping fetches the model's metadata, which checks the credentials without
// running inference.
func (g *Generator) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.modelURL(), http.NoBody)
	if err != nil {
		return fmt.Errorf("gemini: failed to create ping request: %w", err)
	}
	g.authorise(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if err := llm.CheckResponse(resp); err != nil {
		return fmt.Errorf("gemini: %w", err)
	}
	return nil
}

// Close releases resources.
func (g *Generator) Close() error {
	return nil
}

func (g *Generator) modelURL() string {
	return fmt.Sprintf("%s/%s/models/%s", g.baseURL, apiVersion, url.PathEscape(g.model))
}

// authorise adds the API key header. ADC clients authorise in their transport.
func (g *Generator) authorise(req *http.Request) {
	if g.apiKey != "" {
		req.Header.Set("x-goog-api-key", g.apiKey)
	}
}
