package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/validate"
)

const fence = "```"

// wireRecord is the trimmed view of one decoded element used for validation.
// Source links are checked against the candidate list instead.
type wireRecord struct {
	Title        string `json:"title" validate:"required"`
	ClubName     string `json:"clubName" validate:"required"`
	ExternalLink string `json:"externalLink" validate:"omitempty,url"`
}

// Field aliases accepted from the generator, domain name first.
var (
	keysSourceLink   = []string{"sourceLink", "instagramLink"}
	keysExternalLink = []string{"externalLink", "link"}
	keysConfirmed    = []string{"isConfirmed", "isRealEvent"}
)

// Normalizer turns untrusted generator text into event records.
// It is pure: no I/O and no shared mutable state.
type Normalizer struct {
	allowed map[string]domain.SourceHandle
}

// NewNormalizer returns a normaliser that only keeps source links
// matching one of sources.
func NewNormalizer(sources []domain.SourceHandle) *Normalizer {
	allowed := make(map[string]domain.SourceHandle, len(sources))
	for _, s := range sources {
		allowed[s.Key()] = s
	}
	return &Normalizer{allowed: allowed}
}

// Normalize unwraps, decodes and repairs raw.Text.
//
// A decoding failure returns an empty, non-nil slice and a
// *domain.MalformedResponseError. Element-level problems never fail the call:
// they are repaired or the element is dropped, and each is reported as a warning.
// Output order follows the decoded array. Citations are not consulted.
func (n *Normalizer) Normalize(raw domain.RawResponse) ([]domain.EventRecord, []domain.RecordShapeWarning, error) {
	elems, err := decodeArray(StripFences(raw.Text))
	if err != nil {
		return []domain.EventRecord{}, nil, err
	}

	records := make([]domain.EventRecord, 0, len(elems))
	var warnings []domain.RecordShapeWarning
	for i, elem := range elems {
		rec, ws, ok := n.repair(i, elem)
		warnings = append(warnings, ws...)
		if ok {
			records = append(records, rec)
		}
	}
	return records, warnings, nil
}

// StripFences removes one leading code fence (with an optional "json" tag)
// and one trailing code fence. Surrounding whitespace is trimmed; nothing else changes.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, fence) {
		s = s[len(fence):]
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
	}
	if strings.HasSuffix(s, fence) {
		s = strings.TrimRightFunc(s[:len(s)-len(fence)], unicode.IsSpace)
	}
	return s
}

func decodeArray(text string) ([]json.RawMessage, error) {
	if text == "" {
		return nil, &domain.MalformedResponseError{Reason: "empty text"}
	}
	if text[0] != '[' {
		return nil, &domain.MalformedResponseError{Reason: "not a JSON array"}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(text), &elems); err != nil {
		return nil, &domain.MalformedResponseError{Reason: "decode", Err: err}
	}
	return elems, nil
}

// repair builds one record from a decoded element.
// The boolean is false when the element must be dropped.
func (n *Normalizer) repair(idx int, elem json.RawMessage) (domain.EventRecord, []domain.RecordShapeWarning, bool) {
	var warnings []domain.RecordShapeWarning
	warn := func(field, reason string, dropped bool) {
		warnings = append(warnings, domain.RecordShapeWarning{
			Index: idx, Field: field, Reason: reason, Dropped: dropped,
		})
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
		warn("", "element is not an object", true)
		return domain.EventRecord{}, warnings, false
	}

	rec := domain.EventRecord{
		Title:        stringField(fields, "title"),
		ClubName:     stringField(fields, "clubName"),
		Date:         strings.TrimSpace(stringField(fields, "date")),
		Time:         strings.TrimSpace(stringField(fields, "time")),
		Location:     strings.TrimSpace(stringField(fields, "location")),
		Description:  strings.TrimSpace(stringField(fields, "description")),
		Tags:         tagsField(fields),
		SourceLink:   strings.TrimSpace(stringField(fields, keysSourceLink...)),
		ExternalLink: strings.TrimSpace(stringField(fields, keysExternalLink...)),
	}
	rec.IsConfirmed, _ = boolField(fields, keysConfirmed...)

	check := wireRecord{
		Title:        strings.TrimSpace(rec.Title),
		ClubName:     strings.TrimSpace(rec.ClubName),
		ExternalLink: rec.ExternalLink,
	}
	fes, err := validate.Struct(check)
	if err != nil {
		warn("", err.Error(), true)
		return domain.EventRecord{}, warnings, false
	}
	drop := false
	for _, fe := range fes {
		switch fe.Field() {
		case "title", "clubName":
			warn(fe.Field(), "missing", true)
			drop = true
		case "externalLink":
			warn(fe.Field(), fmt.Sprintf("%q is not a URL, cleared", rec.ExternalLink), false)
			rec.ExternalLink = ""
		}
	}
	if drop {
		return domain.EventRecord{}, warnings, false
	}

	rawCategory := stringField(fields, "category")
	if c, ok := domain.ParseCategory(rawCategory); ok {
		rec.Category = c
	} else {
		rec.Category = domain.CategorySpotlight
		rec.IsConfirmed = false
		if rawCategory == "" {
			warn("category", "missing, coerced to Spotlight", false)
		} else {
			warn("category", fmt.Sprintf("%q coerced to Spotlight", rawCategory), false)
		}
	}

	applyDefaults(&rec)

	if rec.IsConfirmed && rec.IsSpotlight() {
		warn("isConfirmed", "spotlight records are never confirmed", false)
		rec.IsConfirmed = false
	}
	if rec.IsConfirmed && domain.IsSentinelDate(rec.Date) {
		warn("isConfirmed", fmt.Sprintf("date %q is not specific", rec.Date), false)
		rec.IsConfirmed = false
	}

	if rec.SourceLink != "" {
		if canonical, ok := n.allowed[domain.SourceKey(rec.SourceLink)]; ok {
			rec.SourceLink = canonical.String()
		} else {
			warn("sourceLink", fmt.Sprintf("%q is not a candidate source, cleared", rec.SourceLink), false)
			rec.SourceLink = ""
		}
	}

	return rec, warnings, true
}

// applyDefaults fills optional fields left empty by the generator.
func applyDefaults(rec *domain.EventRecord) {
	if rec.Date == "" {
		rec.Date = domain.DateTBD
	}
	if rec.Time == "" {
		if rec.IsDeadline() {
			rec.Time = domain.TimeDeadlineDefault
		} else {
			rec.Time = domain.TimeTBD
		}
	}
	if rec.Location == "" {
		rec.Location = domain.LocationDefault
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
}

// stringField returns the first present, non-null key as text.
// Numbers and booleans are kept in their JSON spelling; objects and arrays are ignored.
func stringField(fields map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		switch raw[0] {
		case '{', '[':
			continue
		default:
			return string(raw)
		}
	}
	return ""
}

// boolField reads a JSON bool, or the strings "true"/"false".
func boolField(fields map[string]json.RawMessage, keys ...string) (bool, bool) {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return b, true
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true", "yes":
				return true, true
			case "false", "no":
				return false, true
			}
		}
	}
	return false, false
}

// tagsField accepts an array of scalars or a comma-separated string.
// Tags are trimmed and de-duplicated keeping the first occurrence.
func tagsField(fields map[string]json.RawMessage) []string {
	raw, ok := fields["tags"]
	if !ok {
		return nil
	}

	var candidates []string
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			candidates = append(candidates, stringField(map[string]json.RawMessage{"t": item}, "t"))
		}
	} else {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			candidates = strings.Split(s, ",")
		}
	}

	tags := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		tags = append(tags, c)
	}
	return tags
}
