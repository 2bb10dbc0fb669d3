// Package registry provides the allow-listed club channels as a driven.SourceRegistry.
//
// The built-in list is embedded from sources.yaml. A replacement file in the
// same format can be supplied through the sources.file setting; it is read once
// at startup and never refreshed.
package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scout-cli/internal/validate"
)

// Ensure Registry implements the interface.
var _ driven.SourceRegistry = (*Registry)(nil)

//go:embed sources.yaml
var builtinSources []byte

// ErrDuplicateSource indicates the same channel is listed twice.
var ErrDuplicateSource = errors.New("duplicate source")

// document is the on-disk format.
type document struct {
	Sources []string `yaml:"sources" json:"sources" validate:"required,min=1,dive,required,url"`
}

// Registry is an immutable, ordered list of source handles.
type Registry struct {
	sources []domain.SourceHandle
}

// Default returns the built-in registry.
func Default() (*Registry, error) {
	return Parse(builtinSources)
}

// Load reads the registry from path, or returns the built-in one when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a YAML document of the form "sources: [url, ...]".
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse sources: %w", err)
	}
	for i := range doc.Sources {
		doc.Sources[i] = strings.TrimSpace(doc.Sources[i])
	}

	fes, err := validate.Struct(doc)
	if err != nil {
		return nil, err
	}
	if len(fes) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(validate.Messages(fes), "; "))
	}

	seen := make(map[string]struct{}, len(doc.Sources))
	sources := make([]domain.SourceHandle, 0, len(doc.Sources))
	for _, s := range doc.Sources {
		h := domain.SourceHandle(s)
		if _, dup := seen[h.Key()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSource, s)
		}
		seen[h.Key()] = struct{}{}
		sources = append(sources, h)
	}
	return &Registry{sources: sources}, nil
}

// Sources returns the handles in registry order.
func (r *Registry) Sources() []domain.SourceHandle {
	return r.sources
}

// Len returns the number of handles.
func (r *Registry) Len() int {
	return len(r.sources)
}
