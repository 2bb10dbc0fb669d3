// Package sources provides the candidate club list view for the TUI.
package sources

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scout-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scout-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driving"
)

// View lists the club accounts the search is grounded on.
// Selecting one runs a search for that club.
type View struct {
	styles  *styles.Styles
	service driving.EventSearchService

	sources  []domain.SourceHandle
	selected int
	offset   int
	width    int
	height   int
	ready    bool
}

// NewView creates a new sources view.
func NewView(s *styles.Styles, service driving.EventSearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		service: service,
		width:   80,
		height:  24,
	}
}

// Init loads the source list.
func (v *View) Init() tea.Cmd {
	return v.loadSources()
}

// loadSources reads the registry through the search service.
func (v *View) loadSources() tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SourcesLoaded{}
		}
		return messages.SourcesLoaded{Sources: service.Sources()}
	}
}

// Update handles messages for the sources view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourcesLoaded:
		v.sources = msg.Sources
		v.selected = 0
		v.offset = 0
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.sources)-1 {
			v.selected++
		}
	case "home", "g":
		v.selected = 0
	case "end", "G":
		if len(v.sources) > 0 {
			v.selected = len(v.sources) - 1
		}
	case "enter":
		if v.selected < len(v.sources) {
			source := v.sources[v.selected]
			return v, func() tea.Msg {
				return messages.SourceSelected{Source: source}
			}
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	v.scroll()
	return v, nil
}

// scroll keeps the selection inside the visible window.
func (v *View) scroll() {
	rows := v.visibleRows()
	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.selected >= v.offset+rows {
		v.offset = v.selected - rows + 1
	}
}

func (v *View) visibleRows() int {
	// Title, count, blank lines and help footer.
	rows := v.height - 6
	if rows < 1 {
		rows = 1
	}
	return rows
}

// View renders the sources view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Sources"))
	b.WriteString("\n")

	if len(v.sources) == 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("No sources configured."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d club accounts", len(v.sources))))
	b.WriteString("\n\n")

	end := v.offset + v.visibleRows()
	if end > len(v.sources) {
		end = len(v.sources)
	}
	for i := v.offset; i < end; i++ {
		b.WriteString(v.renderSource(i, v.sources[i]))
		b.WriteString("\n")
	}
	if end < len(v.sources) {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  ↓ %d more", len(v.sources)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderSource renders a single source line: > name  url
func (v *View) renderSource(index int, source domain.SourceHandle) string {
	name := fmt.Sprintf("%-24s", source.Name())
	if index == v.selected {
		return v.styles.Selected.Render("> "+name) + " " + v.styles.Link.Render(source.String())
	}
	return v.styles.Normal.Render("  "+name) + " " + v.styles.Muted.Render(source.String())
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[j/k] navigate  [enter] search this club  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.scroll()
}

// Sources returns the listed sources.
func (v *View) Sources() []domain.SourceHandle {
	return v.sources
}

// SelectedIndex returns the currently selected source index.
func (v *View) SelectedIndex() int {
	return v.selected
}
