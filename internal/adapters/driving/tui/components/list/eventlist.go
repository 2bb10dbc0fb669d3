// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scout-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

// cardHeight is the typical number of terminal lines one card occupies.
const cardHeight = 7

// EventList displays event cards in a navigable list.
type EventList struct {
	events   []domain.EventRecord
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewEventList creates a new event list component.
func NewEventList(s *styles.Styles) *EventList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &EventList{
		styles: s,
		width:  80,
		height: 20,
	}
}

// Init initialises the event list.
func (l *EventList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *EventList) Update(msg tea.Msg) (*EventList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible cards.
func (l *EventList) View() string {
	if len(l.events) == 0 {
		return ""
	}

	visibleCount := l.height / cardHeight
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.events) {
		end = len(l.events)
	}

	cards := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		cards = append(cards, l.renderCard(i, &l.events[i]))
	}
	if end < len(l.events) {
		cards = append(cards, l.styles.Muted.Render(fmt.Sprintf("  ↓ %d more", len(l.events)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// renderCard draws one record: a date box on the left, details on the right.
func (l *EventList) renderCard(index int, rec *domain.EventRecord) string {
	s := l.styles

	dateBox := s.DateBox.Render(rec.Style.DateLabel + "\n" + rec.Badge.Day)

	titleStyle := s.Normal.Bold(true)
	if rec.Style.Muted {
		titleStyle = s.Muted
	}
	title := titleStyle.Render(rec.Title)
	if rec.Style.Badge != "" {
		title = s.Badge(rec.Style.Badge).Render(rec.Style.Badge) + " " + title
	}

	details := []string{rec.ClubName}
	if rec.Style.ShowTime {
		details = append(details, rec.Time)
	}
	details = append(details, rec.Location)

	lines := []string{title, s.Muted.Render(strings.Join(details, " · "))}
	if !rec.Badge.IsDateValid {
		lines = append(lines, s.Muted.Render("Date: "+rec.Date))
	}

	bodyWidth := l.width - lipgloss.Width(dateBox) - 6
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	if rec.Description != "" {
		lines = append(lines, s.Normal.Width(bodyWidth).Render(rec.Description))
	}
	if len(rec.Tags) > 0 {
		tags := make([]string, len(rec.Tags))
		for i, tag := range rec.Tags {
			tags[i] = s.Tag.Render("#" + tag)
		}
		lines = append(lines, strings.Join(tags, " "))
	}
	if rec.SourceLink != "" {
		lines = append(lines, rec.Style.LinkLabel+": "+s.Link.Render(rec.SourceLink))
	}
	if rec.ExternalLink != "" {
		lines = append(lines, rec.Style.ExternalLabel+": "+s.Link.Render(rec.ExternalLink))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	content := lipgloss.JoinHorizontal(lipgloss.Top, dateBox, " ", body)

	card := s.Card(rec.Style.Variant)
	if index == l.selected {
		card = card.BorderForeground(s.Theme().Primary)
	}
	return card.Width(l.width - 2).Render(content)
}

// SetEvents replaces the list contents and resets the selection.
func (l *EventList) SetEvents(events []domain.EventRecord) {
	l.events = events
	l.selected = 0
}

// Events returns the current events.
func (l *EventList) Events() []domain.EventRecord {
	return l.events
}

// Selected returns the index of the selected event.
func (l *EventList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *EventList) SetSelected(index int) {
	if index >= 0 && index < len(l.events) {
		l.selected = index
	}
}

// SelectedEvent returns the currently selected event, or nil if none.
func (l *EventList) SelectedEvent() *domain.EventRecord {
	if len(l.events) == 0 || l.selected < 0 || l.selected >= len(l.events) {
		return nil
	}
	return &l.events[l.selected]
}

// MoveUp moves selection up.
func (l *EventList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *EventList) MoveDown() {
	if l.selected < len(l.events)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *EventList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Width returns the current width.
func (l *EventList) Width() int {
	return l.width
}

// Height returns the current height.
func (l *EventList) Height() int {
	return l.height
}

// Count returns the number of events.
func (l *EventList) Count() int {
	return len(l.events)
}

// IsEmpty returns whether the list is empty.
func (l *EventList) IsEmpty() bool {
	return len(l.events) == 0
}
