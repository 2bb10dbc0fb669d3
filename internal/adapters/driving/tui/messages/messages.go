// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

// SearchRequested is a command to run a query.
type SearchRequested struct {
	Query string
}

// SearchCompleted carries a query outcome back to the model.
// Seq identifies the submission; a completion whose Seq is not the latest
// is stale and must be ignored.
type SearchCompleted struct {
	Seq    int
	Query  string
	Result *domain.SearchResult
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and event cards view.
	ViewSearch ViewType = iota
	// ViewMenu is the main navigation menu.
	ViewMenu
	// ViewSources lists the candidate club accounts.
	ViewSources
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewMenu:
		return "menu"
	case ViewSources:
		return "sources"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SourcesLoaded carries the candidate source list.
type SourcesLoaded struct {
	Sources []domain.SourceHandle
}

// SourceSelected asks the search view to look up one club.
type SourceSelected struct {
	Source domain.SourceHandle
}
