package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/logger"
)

// AnchorDateLayout renders the reference date embedded in every instruction,
// e.g. "Mon Oct 19 2026".
const AnchorDateLayout = "Mon Jan 02 2006"

// DefaultEventSearchPrompt is the built-in retrieval instruction.
// Fields: .Date .Query .Sources .Month .Year .PrevYear
const DefaultEventSearchPrompt = `You are a campus event scout for the University of British Columbia (UBC).

Current Date: {{.Date}}
User Interest: "{{.Query}}"

Candidate club channels (the only sources you may link):
{{.Sources}}

TASK:
1. FILTER: choose the 3-5 clubs from the candidate list most relevant to the user interest.
2. SEARCH: for each chosen club, look for both upcoming events and open applications. Use queries such as:
   - "site:instagram.com {{.Query}} UBC"
   - "{Club Name} UBC events {{.Month}} {{.Year}}"
   - "{Club Name} UBC recruitment application deadline {{.Year}}"
3. REALITY CHECK: keep only items dated after {{.Date}}. Discard anything from {{.PrevYear}} or earlier.
   Never invent an event. If a club is relevant but nothing dated was found, return it as a Spotlight.
4. CLASSIFY each item as exactly one of:
   - "Deadline": an application, recruitment or hiring action (not a social event).
   - "Event": a workshop, social, meeting or competition with a specific date.
   - "Spotlight": a relevant club with no verified upcoming date.
5. OUTPUT: respond with a single JSON array and nothing else. No prose, no markdown.

Each element:
{
  "title": "string",
  "clubName": "string",
  "category": "Event" | "Deadline" | "Spotlight",
  "date": "Mon DD (e.g. Oct 24), or \"Check Instagram\" when unknown",
  "time": "h:mm AM/PM, \"11:59 PM\" for deadlines without a time, or \"TBD\"",
  "location": "string (default \"UBC\")",
  "description": "one or two sentences",
  "tags": ["string"],
  "instagramLink": "one of the candidate URLs above",
  "link": "optional external URL such as a sign-up form",
  "isRealEvent": true only when a specific future date was found
}
`

// promptData is the template input.
type promptData struct {
	Date     string
	Query    string
	Sources  string
	Month    string
	Year     int
	PrevYear int
}

// PromptBuilder renders retrieval instructions.
// Build is deterministic for a given query, anchor date and source list.
type PromptBuilder struct {
	tmpl *template.Template
}

var defaultPromptTemplate = template.Must(template.New(
	"event_search").Option("missingkey=error").Parse(DefaultEventSearchPrompt))

// NewPromptBuilder parses text as the instruction template.
// The template is executed once against sample data so field errors surface here
// rather than during a search.
func NewPromptBuilder(text string) (*PromptBuilder, error) {
	tmpl, err := template.New("event_search").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	sample := newPromptData("sample", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), nil)
	if err := tmpl.Execute(&bytes.Buffer{}, sample); err != nil {
		return nil, fmt.Errorf("execute prompt template: %w", err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

// DefaultPromptBuilder returns a builder using the built-in template.
func DefaultPromptBuilder() *PromptBuilder {
	return &PromptBuilder{tmpl: defaultPromptTemplate}
}

// Build produces the retrieval request for query anchored at referenceDate.
// The query must already be non-empty; Build does not validate it.
func (b *PromptBuilder) Build(query string, referenceDate time.Time, sources []domain.SourceHandle) domain.RetrievalRequest {
	candidates := make([]domain.SourceHandle, len(sources))
	copy(candidates, sources)

	data := newPromptData(query, referenceDate, candidates)

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		logger.Warn("Prompt template failed, using built-in: %v", err)
		buf.Reset()
		// The built-in template only references promptData fields.
		_ = defaultPromptTemplate.Execute(&buf, data)
	}

	return domain.RetrievalRequest{
		Query:            query,
		ReferenceDate:    referenceDate,
		CandidateSources: candidates,
		Instruction:      buf.String(),
		SearchGrounding:  true,
	}
}

func newPromptData(query string, ref time.Time, sources []domain.SourceHandle) promptData {
	return promptData{
		Date:     ref.Format(AnchorDateLayout),
		Query:    strings.TrimSpace(query),
		Sources:  encodeSources(sources),
		Month:    ref.Month().String(),
		Year:     ref.Year(),
		PrevYear: ref.Year() - 1,
	}
}

// encodeSources renders the handles as a JSON array without HTML escaping,
// so URLs appear in the instruction exactly as registered.
func encodeSources(sources []domain.SourceHandle) string {
	urls := make([]string, len(sources))
	for i, s := range sources {
		urls[i] = s.String()
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a []string cannot fail.
	_ = enc.Encode(urls)
	return strings.TrimSuffix(buf.String(), "\n")
}
