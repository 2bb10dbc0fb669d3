package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

// monthAbbrevs is the fixed set accepted by the fuzzy date stage.
var monthAbbrevs = map[string]struct{}{
	"JAN": {}, "FEB": {}, "MAR": {}, "APR": {}, "MAY": {}, "JUN": {},
	"JUL": {}, "AUG": {}, "SEP": {}, "OCT": {}, "NOV": {}, "DEC": {},
}

// DeriveDateBadge interprets a record's date for the calendar badge.
//
// Sentinel dates are unknown. Otherwise a strict calendar parse is tried,
// then a token-based fuzzy parse. The function is total and deterministic.
func DeriveDateBadge(rec domain.EventRecord) domain.DateBadge {
	date := strings.TrimSpace(rec.Date)
	if date == "" || domain.IsSentinelDate(date) {
		return domain.UnknownDateBadge()
	}
	if badge, ok := strictDateBadge(date); ok {
		return badge
	}
	if badge, ok := fuzzyDateBadge(date); ok {
		return badge
	}
	return domain.UnknownDateBadge()
}

// calendarLayouts are tried before dateparse. A missing year parses as year
// zero, which is fine for a badge that only shows day and month.
var calendarLayouts = []string{
	"Jan 2006",
	"January 2006",
	"Jan 2",
	"January 2",
	"2 Jan",
	"2 January",
	"2 Jan 2006",
	"2 January 2006",
}

var weekdayNames = map[string]struct{}{
	"mon": {}, "tue": {}, "tues": {}, "wed": {}, "thu": {}, "thur": {}, "thurs": {},
	"fri": {}, "sat": {}, "sun": {},
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
}

// strictDateBadge parses a calendar date with or without a year.
// Month-year dates resolve to the first of the month.
func strictDateBadge(date string) (badge domain.DateBadge, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			badge, ok = domain.DateBadge{}, false
		}
	}()

	date = stripWeekday(date)
	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return badgeFromTime(t), true
		}
	}

	t, err := dateparse.ParseIn(date, time.UTC)
	if err != nil || t.Year() < 0 {
		return domain.DateBadge{}, false
	}
	return badgeFromTime(t), true
}

// stripWeekday drops a leading weekday token such as "Fri," when more
// tokens follow it.
func stripWeekday(date string) string {
	tokens := strings.Fields(date)
	if len(tokens) < 2 {
		return date
	}
	head := strings.ToLower(strings.TrimRight(tokens[0], ",."))
	if _, ok := weekdayNames[head]; !ok {
		return date
	}
	return strings.Join(tokens[1:], " ")
}

func badgeFromTime(t time.Time) domain.DateBadge {
	return domain.DateBadge{
		Day:         strconv.Itoa(t.Day()),
		Month:       strings.ToUpper(t.Month().String()[:3]),
		IsDateValid: true,
	}
}

// fuzzyDateBadge takes the first three letters of the first token as the month
// and the second token, minus a trailing comma, as the day.
// A month with no second token keeps the placeholder day.
func fuzzyDateBadge(date string) (domain.DateBadge, bool) {
	tokens := strings.Fields(date)
	if len(tokens) == 0 {
		return domain.DateBadge{}, false
	}
	first := tokens[0]
	if len(first) > 3 {
		first = first[:3]
	}
	month := strings.ToUpper(first)
	if _, ok := monthAbbrevs[month]; !ok {
		return domain.DateBadge{}, false
	}

	day := domain.PlaceholderGlyph
	if len(tokens) > 1 {
		day = strings.TrimSuffix(tokens[1], ",")
	}
	return domain.DateBadge{Day: day, Month: month, IsDateValid: true}, true
}

// ClassifyCard derives the card styling for a record from its category,
// confirmation flag and links.
func ClassifyCard(rec domain.EventRecord, badge domain.DateBadge) domain.CardStyle {
	style := domain.CardStyle{
		DateLabel: badge.Month,
		ShowTime:  !rec.IsSpotlight(),
		Muted:     !rec.IsConfirmed,
	}

	switch rec.Category {
	case domain.CategoryDeadline:
		style.Variant = domain.CardVariantDeadline
		style.DateLabel = domain.DateLabelDue
		style.Badge = domain.BadgeDeadline
	case domain.CategoryEvent:
		style.Variant = domain.CardVariantEvent
	default:
		style.Variant = domain.CardVariantSpotlight
	}
	if !rec.IsDeadline() && rec.IsConfirmed {
		style.Badge = domain.BadgeConfirmed
	}

	switch {
	case rec.IsDeadline():
		style.LinkLabel = domain.LinkLabelApply
	case rec.IsConfirmed:
		style.LinkLabel = domain.LinkLabelPost
	default:
		style.LinkLabel = domain.LinkLabelCheck
	}
	if rec.ExternalLink != "" {
		style.ExternalLabel = domain.LinkLabelExternal
	}
	return style
}

// Enrich writes the date badge and card style onto each record in place.
func Enrich(records []domain.EventRecord) {
	for i := range records {
		records[i].Badge = DeriveDateBadge(records[i])
		records[i].Style = ClassifyCard(records[i], records[i].Badge)
	}
}
