// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scout-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/scout-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/scout-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scout-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scout-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scout-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scout-cli/internal/logger"
)

// inFlightMessage is shown when the session rejects a second query.
const inFlightMessage = "A search is already running"

// View represents the search view with input, event cards, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.EventList
	statusbar *status.Bar

	session driving.SessionService
	ctx     context.Context

	// seq numbers submissions; only the completion for seq is applied.
	seq     int
	loading bool

	query     string
	citations []domain.Citation
	searched  bool
	failed    bool

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = input mode (typing), false = results mode (navigating)
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.SessionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	in := input.NewSearchInput(s)
	in.SetSuggestions(domain.SuggestedQueries())

	return &View{
		styles:     s,
		keymap:     km,
		input:      in,
		list:       list.NewEventList(s),
		statusbar:  status.NewBar(s, km),
		session:    session,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true, // Start in input mode
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchRequested:
		return v, v.Submit(msg.Query)

	case messages.SearchCompleted:
		return v, v.handleSearchCompleted(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward to input component
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc always signals to go back to menu
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	// Nothing but navigation while a query is in flight.
	if v.loading {
		if !v.focusInput {
			v.list, _ = v.list.Update(msg)
		}
		return v, nil
	}

	if v.focusInput {
		switch msg.Type {
		case tea.KeyEnter:
			return v, v.Submit(v.input.Value())
		case tea.KeyTab:
			v.input.NextSuggestion()
			return v, nil
		default:
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
	}

	// Results mode
	switch msg.String() {
	case "n", "/":
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case "enter":
		v.focusInput = true
		return v, v.input.Focus()
	}
	v.list, _ = v.list.Update(msg)
	return v, nil
}

// Submit starts a query unless one is already in flight.
// The input is locked until the matching completion arrives.
func (v *View) Submit(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if v.loading {
		v.statusbar.SetMessage(inFlightMessage)
		return nil
	}

	v.seq++
	v.loading = true
	v.query = query
	v.err = nil
	v.input.SetValue(query)
	v.input.SetDisabled(true)
	v.statusbar.SetState(status.StateSearching)
	v.statusbar.SetMessage("")

	return v.performSearch(v.seq, query)
}

// performSearch runs the query through the session.
func (v *View) performSearch(seq int, query string) tea.Cmd {
	session, ctx := v.session, v.ctx
	return func() tea.Msg {
		if session == nil {
			return messages.SearchCompleted{Seq: seq, Query: query, Err: ErrNoSessionService}
		}
		result, err := session.Submit(ctx, query)
		return messages.SearchCompleted{Seq: seq, Query: query, Result: result, Err: err}
	}
}

// handleSearchCompleted applies a completion unless it is stale.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) tea.Cmd {
	if msg.Seq != v.seq {
		logger.Debug("Discarding stale result for %q (seq %d, current %d)", msg.Query, msg.Seq, v.seq)
		return nil
	}

	v.loading = false
	focusCmd := v.input.SetDisabled(false)
	v.searched = true

	if errors.Is(msg.Err, domain.ErrQueryInFlight) {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(inFlightMessage)
		return focusCmd
	}

	if msg.Err != nil {
		logger.Warn("Search %q failed: %v", msg.Query, msg.Err)
		v.err = msg.Err
		v.failed = true
		v.list.SetEvents(nil)
		v.citations = nil
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(domain.FailureMessage)
		v.focusInput = true
		return focusCmd
	}

	if msg.Result == nil {
		msg.Result = &domain.SearchResult{}
	}
	v.err = nil
	v.failed = false
	v.list.SetEvents(msg.Result.Events)
	v.citations = msg.Result.Citations
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Result.Events))

	if msg.Result.IsEmpty() {
		v.focusInput = true
		return focusCmd
	}

	// Switch to results mode after a search with events
	v.focusInput = false
	v.input.Blur()
	return nil
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)

	header := v.styles.Title.Render("Scout") + v.styles.Muted.Render("  UBC club events and deadlines")
	sections = append(sections, header, "", v.input.View(), "")

	switch {
	case v.loading:
		sections = append(sections, v.styles.Muted.Render(fmt.Sprintf("Searching for %q...", v.query)))
	case v.failed:
		sections = append(sections, v.styles.Error.Render(domain.FailureMessage))
	case !v.searched:
		sections = append(sections, v.renderSuggestions())
	case v.list.IsEmpty():
		sections = append(sections, v.styles.Muted.Render(domain.EmptyStateMessage))
	default:
		sections = append(sections, v.list.View())
	}

	if !v.loading && len(v.citations) > 0 {
		sections = append(sections, "", v.renderCitations())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderSuggestions() string {
	lines := []string{v.styles.Subtitle.Render("Try one of these")}
	for _, q := range v.input.Suggestions() {
		lines = append(lines, "  "+v.styles.Normal.Render(q))
	}
	lines = append(lines, v.styles.Help.Render("  [tab] fill in a suggestion"))
	return strings.Join(lines, "\n")
}

func (v *View) renderCitations() string {
	lines := []string{v.styles.Subtitle.Render("Verified sources")}
	for _, c := range v.citations {
		label := c.Label()
		if label == c.URI {
			lines = append(lines, "  "+v.styles.Link.Render(c.URI))
			continue
		}
		lines = append(lines, "  "+v.styles.Normal.Render(label)+" "+v.styles.Muted.Render(c.URI))
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Allocate space to components
	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-12) // Reserve space for header, input, sources, status
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Loading returns whether a query is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Seq returns the number of the latest submission.
func (v *View) Seq() int {
	return v.seq
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Events returns the events currently shown.
func (v *View) Events() []domain.EventRecord {
	return v.list.Events()
}

// Citations returns the verified sources currently shown.
func (v *View) Citations() []domain.Citation {
	return v.citations
}

// SelectedIndex returns the index of the selected card.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// FocusInput switches to input mode without clearing results.
func (v *View) FocusInput() tea.Cmd {
	v.focusInput = true
	if v.loading {
		return nil
	}
	return v.input.Focus()
}
