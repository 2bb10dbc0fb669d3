package domain

import "strings"

// Category is the closed three-way classification of an event record.
type Category string

// Available categories.
const (
	// CategoryEvent is a social, workshop or gathering with a date.
	CategoryEvent Category = "Event"

	// CategoryDeadline is an application or recruitment action.
	CategoryDeadline Category = "Deadline"

	// CategorySpotlight is a club highlight without a substantiated date.
	CategorySpotlight Category = "Spotlight"
)

// IsValid returns true if the category is one of the three known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryEvent, CategoryDeadline, CategorySpotlight:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory matches text case-insensitively against the known categories.
// The boolean is false when the text names none of them.
func ParseCategory(text string) (Category, bool) {
	t := strings.TrimSpace(text)
	for _, c := range AllCategories() {
		if strings.EqualFold(t, string(c)) {
			return c, true
		}
	}
	return "", false
}

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{CategoryEvent, CategoryDeadline, CategorySpotlight}
}

// Sentinel and default field values.
const (
	// DateCheckInstagram means the date must be looked up on the club's channel.
	DateCheckInstagram = "Check Instagram"

	// DateTBD means no date has been announced.
	DateTBD = "TBD"

	// TimeTBD is the default time for records without one.
	TimeTBD = "TBD"

	// TimeDeadlineDefault is used for deadlines without an explicit time.
	TimeDeadlineDefault = "11:59 PM"

	// LocationDefault is used for records without a location.
	LocationDefault = "UBC"
)

// IsSentinelDate returns true for the reserved "no specific date" strings,
// compared case-insensitively.
func IsSentinelDate(date string) bool {
	d := strings.TrimSpace(date)
	return strings.EqualFold(d, DateCheckInstagram) || strings.EqualFold(d, DateTBD)
}

// EventRecord is one validated entry produced from a grounded response.
type EventRecord struct {
	Title        string   `json:"title"`
	ClubName     string   `json:"clubName"`
	Category     Category `json:"category"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	SourceLink   string   `json:"sourceLink,omitempty"`
	ExternalLink string   `json:"externalLink,omitempty"`
	IsConfirmed  bool     `json:"isConfirmed"`

	// Badge and Style are derived by the classifier.
	Badge DateBadge `json:"badge"`
	Style CardStyle `json:"style"`
}

// IsDeadline reports whether the record is an application or recruitment action.
func (r EventRecord) IsDeadline() bool {
	return r.Category == CategoryDeadline
}

// IsSpotlight reports whether the record is a general club highlight.
func (r EventRecord) IsSpotlight() bool {
	return r.Category == CategorySpotlight
}
