package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

func TestDefault(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	sources := r.Sources()
	assert.Equal(t, 50, r.Len())
	assert.Equal(t, domain.SourceHandle("https://www.instagram.com/ubcpmc/"), sources[0])
	assert.Equal(t, domain.SourceHandle("https://www.instagram.com/ubcwics/"), sources[1])
	assert.Equal(t, domain.SourceHandle("https://www.instagram.com/ubcdanceclub/"), sources[49])
	for _, s := range sources {
		assert.Contains(t, s.String(), "https://www.instagram.com/")
	}
}

func TestLoad_EmptyPathUsesBuiltin(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 50, r.Len())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := "sources:\n  - https://www.instagram.com/ubcsailing/\n  - ' https://www.instagram.com/ubcvoc/ '\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, []domain.SourceHandle{
		"https://www.instagram.com/ubcsailing/",
		"https://www.instagram.com/ubcvoc/",
	}, r.Sources())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read sources file")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad yaml", data: "sources: [unterminated"},
		{name: "empty list", data: "sources: []"},
		{name: "no key", data: "other: 1"},
		{name: "not a url", data: "sources:\n  - ubcpmc\n"},
		{name: "blank entry", data: "sources:\n  - '  '\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(tt.data))
			assert.Error(t, err)
			assert.Nil(t, r)
		})
	}
}

func TestParse_Duplicate(t *testing.T) {
	data := "sources:\n  - https://www.instagram.com/ubcpmc/\n  - http://instagram.com/UBCPMC\n"

	_, err := Parse([]byte(data))

	assert.ErrorIs(t, err, ErrDuplicateSource)
}
