package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/logger"
)

// FindEventsInput is the input schema for the find_events tool.
type FindEventsInput struct {
	Query string `json:"query" jsonschema:"the interest to find events for, e.g. hackathons or consulting recruitment"`
}

// FindEventsOutput is the output schema for the find_events tool.
type FindEventsOutput struct {
	Events    []EventOutput     `json:"events"`
	Citations []domain.Citation `json:"citations"`
	Count     int               `json:"count"`
	Message   string            `json:"message,omitempty"`
}

// EventOutput is one event as shown to an assistant.
type EventOutput struct {
	Title        string   `json:"title"`
	ClubName     string   `json:"club_name"`
	Category     string   `json:"category"`
	Date         string   `json:"date"`
	Time         string   `json:"time,omitempty"`
	Location     string   `json:"location"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	SourceLink   string   `json:"source_link,omitempty"`
	ExternalLink string   `json:"external_link,omitempty"`
	Confirmed    bool     `json:"confirmed"`
	Badge        string   `json:"badge,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_events",
		Description: "Find upcoming UBC club events, recruitment deadlines and club spotlights for an interest",
	}, s.handleFindEvents)
}

// handleFindEvents handles the find_events tool invocation.
func (s *Server) handleFindEvents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindEventsInput,
) (*mcp.CallToolResult, FindEventsOutput, error) {
	result, err := s.search(ctx, input.Query)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) || errors.Is(err, domain.ErrQueryInFlight) {
			return nil, FindEventsOutput{}, err
		}
		logger.Warn("find_events %q: %v", input.Query, err)
		return nil, FindEventsOutput{}, errors.New(domain.FailureMessage)
	}

	output := FindEventsOutput{
		Events:    make([]EventOutput, len(result.Events)),
		Citations: result.Citations,
		Count:     len(result.Events),
	}
	if output.Citations == nil {
		output.Citations = []domain.Citation{}
	}
	if result.IsEmpty() {
		output.Message = domain.EmptyStateMessage
	}

	for i := range result.Events {
		output.Events[i] = toEventOutput(result.Events[i])
	}
	return nil, output, nil
}

func (s *Server) search(ctx context.Context, query string) (*domain.SearchResult, error) {
	if s.ports.Session != nil {
		return s.ports.Session.Submit(ctx, query)
	}
	return s.ports.Search.Search(ctx, query)
}

func toEventOutput(rec domain.EventRecord) EventOutput {
	out := EventOutput{
		Title:        rec.Title,
		ClubName:     rec.ClubName,
		Category:     rec.Category.String(),
		Date:         rec.Date,
		Location:     rec.Location,
		Description:  rec.Description,
		Tags:         rec.Tags,
		SourceLink:   rec.SourceLink,
		ExternalLink: rec.ExternalLink,
		Confirmed:    rec.IsConfirmed,
		Badge:        rec.Style.Badge,
	}
	if rec.Style.ShowTime {
		out.Time = rec.Time
	}
	return out
}
