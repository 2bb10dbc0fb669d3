package driven

// PromptStore provides access to generator prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return the built-in
	// default or an error, depending on whether the prompt is known.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptEventSearch is the retrieval instruction for a club event search.
	// The template uses Go text/template syntax with the fields
	// .Date .Query .Sources .Month and .Year.
	PromptEventSearch = "event_search"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses the built-in template.
	SetPromptStore(store PromptStore)
}
