package domain

// PlaceholderGlyph renders an unknown day or month.
const PlaceholderGlyph = "—"

// DateBadge holds the calendar badge fields derived from a record's date.
type DateBadge struct {
	Day         string `json:"day"`
	Month       string `json:"month"`
	IsDateValid bool   `json:"isDateValid"`
}

// UnknownDateBadge returns the badge for dates that could not be interpreted.
func UnknownDateBadge() DateBadge {
	return DateBadge{Day: PlaceholderGlyph, Month: PlaceholderGlyph}
}

// CardVariant selects the styling family of a rendered record.
type CardVariant string

// Available card variants.
const (
	CardVariantDeadline  CardVariant = "deadline"
	CardVariantEvent     CardVariant = "event"
	CardVariantSpotlight CardVariant = "spotlight"
)

// Badge labels and link labels shown on a card.
const (
	BadgeDeadline  = "DEADLINE"
	BadgeConfirmed = "CONFIRMED"

	DateLabelDue = "DUE"

	LinkLabelApply    = "Apply on Insta"
	LinkLabelPost     = "See Post"
	LinkLabelCheck    = "Check Instagram"
	LinkLabelExternal = "Visit Site"
)

// CardStyle holds the display facts a renderer needs for one record.
type CardStyle struct {
	Variant       CardVariant `json:"variant"`
	DateLabel     string      `json:"dateLabel"`
	Badge         string      `json:"badge,omitempty"`
	ShowTime      bool        `json:"showTime"`
	Muted         bool        `json:"muted"`
	LinkLabel     string      `json:"linkLabel"`
	ExternalLabel string      `json:"externalLabel,omitempty"`
}
