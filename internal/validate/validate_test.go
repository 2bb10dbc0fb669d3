package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string `json:"title" validate:"required"`
	Link  string `json:"link,omitempty" validate:"omitempty,url"`
	Count int    `validate:"gte=0"`
}

func TestStruct_Valid(t *testing.T) {
	fes, err := Struct(sample{Title: "Hack Night", Link: "https://example.com"})
	require.NoError(t, err)
	assert.Nil(t, fes)
}

func TestStruct_FieldErrorsUseJSONNames(t *testing.T) {
	fes, err := Struct(sample{Link: "not a url", Count: -1})
	require.NoError(t, err)
	require.Len(t, fes, 3)

	fields := []string{fes[0].Field(), fes[1].Field(), fes[2].Field()}
	assert.Equal(t, []string{"title", "link", "Count"}, fields)
	assert.Equal(t, "required", fes[0].Tag())
	assert.Equal(t, "url", fes[1].Tag())
}

func TestStruct_NotAStruct(t *testing.T) {
	fes, err := Struct("nope")
	assert.Error(t, err)
	assert.Nil(t, fes)
}

func TestMessages(t *testing.T) {
	fes, err := Struct(sample{})
	require.NoError(t, err)

	msgs := Messages(fes)
	require.Len(t, msgs, 1)
	assert.Equal(t, "title is a required field", msgs[0])
}
