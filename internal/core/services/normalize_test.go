package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

const wellFormed = `[
  {"title":"Hack Night","clubName":"UBC WiCS","category":"Event","date":"Oct 24","time":"6:00 PM",
   "location":"ICICS X150","description":"Build things.","tags":["tech","coding"],
   "instagramLink":"https://www.instagram.com/ubcwics/","link":"https://forms.example.com/hack","isRealEvent":true},
  {"title":"Exec Hiring","clubName":"UBC PMC","category":"Deadline","date":"2026-11-03","time":"11:59 PM",
   "location":"Online","description":"Apply now.","tags":["hiring"],
   "instagramLink":"https://www.instagram.com/ubcpmc/","isRealEvent":true},
  {"title":"Meet the AI Club","clubName":"UBC AI Club","category":"Spotlight","date":"Check Instagram","time":"TBD",
   "location":"UBC","description":"Weekly reading group.","tags":[],"isRealEvent":false}
]`

func newTestNormalizer() *Normalizer {
	return NewNormalizer(testSources)
}

func TestNormalize_WellFormedPreservesOrderAndFields(t *testing.T) {
	records, warnings, err := newTestNormalizer().Normalize(domain.RawResponse{Text: wellFormed})

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, records, 3)

	assert.Equal(t, "Hack Night", records[0].Title)
	assert.Equal(t, "UBC WiCS", records[0].ClubName)
	assert.Equal(t, domain.CategoryEvent, records[0].Category)
	assert.Equal(t, "Oct 24", records[0].Date)
	assert.Equal(t, "6:00 PM", records[0].Time)
	assert.Equal(t, "ICICS X150", records[0].Location)
	assert.Equal(t, []string{"tech", "coding"}, records[0].Tags)
	assert.Equal(t, "https://www.instagram.com/ubcwics/", records[0].SourceLink)
	assert.Equal(t, "https://forms.example.com/hack", records[0].ExternalLink)
	assert.True(t, records[0].IsConfirmed)

	assert.Equal(t, "Exec Hiring", records[1].Title)
	assert.Equal(t, domain.CategoryDeadline, records[1].Category)
	assert.True(t, records[1].IsConfirmed)

	assert.Equal(t, "Meet the AI Club", records[2].Title)
	assert.Equal(t, domain.CategorySpotlight, records[2].Category)
	assert.False(t, records[2].IsConfirmed)
	assert.Empty(t, records[2].SourceLink)
}

func TestNormalize_FencedEqualsUnfenced(t *testing.T) {
	n := newTestNormalizer()
	plain, _, err := n.Normalize(domain.RawResponse{Text: wellFormed})
	require.NoError(t, err)

	for _, text := range []string{
		"```json\n" + wellFormed + "\n```",
		"```\n" + wellFormed + "\n```",
		"```JSON" + wellFormed + "```",
		"  ```json\n" + wellFormed,
		wellFormed + "\n```  ",
	} {
		fenced, _, err := n.Normalize(domain.RawResponse{Text: text})
		require.NoError(t, err)
		assert.Equal(t, plain, fenced)
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "[]", StripFences("```json\n[]\n```"))
	assert.Equal(t, "[]", StripFences("[]"))
	assert.Equal(t, "[1]", StripFences(StripFences("```[1]```")))
	assert.Equal(t, "", StripFences("```json```"))
	assert.Equal(t, "prose", StripFences("  prose  "))
}

func TestNormalize_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty text", text: ""},
		{name: "whitespace", text: "   \n"},
		{name: "only fences", text: "```json\n```"},
		{name: "prose", text: "Sorry, I could not find any events for that interest."},
		{name: "object instead of array", text: `{"title":"x","clubName":"y"}`},
		{name: "null", text: "null"},
		{name: "truncated", text: `[{"title":"x","clubName":"y"`},
		{name: "trailing garbage", text: `[] and more`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, warnings, err := newTestNormalizer().Normalize(domain.RawResponse{Text: tt.text})

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
			var mre *domain.MalformedResponseError
			assert.True(t, errors.As(err, &mre))
			assert.NotNil(t, records)
			assert.Empty(t, records)
			assert.Empty(t, warnings)
		})
	}
}

func TestNormalize_EmptyArray(t *testing.T) {
	records, warnings, err := newTestNormalizer().Normalize(domain.RawResponse{Text: "[]"})

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Empty(t, warnings)
}

func TestNormalize_InvalidCategoryCoercedToSpotlight(t *testing.T) {
	text := `[
	  {"title":"A","clubName":"C","category":"Party","date":"Oct 24","isRealEvent":true},
	  {"title":"B","clubName":"C","date":"Oct 25","isConfirmed":true},
	  {"title":"D","clubName":"C","category":42,"isRealEvent":true}
	]`

	records, warnings, err := newTestNormalizer().Normalize(domain.RawResponse{Text: text})

	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, domain.CategorySpotlight, r.Category, r.Title)
		assert.False(t, r.IsConfirmed, r.Title)
	}
	require.Len(t, warnings, 3)
	assert.Equal(t, "category", warnings[0].Field)
	assert.Contains(t, warnings[0].Reason, `"Party"`)
	assert.Equal(t, "missing, coerced to Spotlight", warnings[1].Reason)
	assert.False(t, warnings[0].Dropped)
}

func TestNormalize_CategoryCaseInsensitive(t *testing.T) {
	text := `[{"title":"A","clubName":"C","category":" deadline ","date":"Nov 1"}]`

	records, warnings, err := newTestNormalizer().Normalize(domain.RawResponse{Text: text})

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, records, 1)
	assert.Equal(t, domain.CategoryDeadline, records[0].Category)
}

func TestNormalize_MissingTitleOrClubDropsOnlyThatElement(t *testing.T) {
	text := `[
	  {"title":"Keep 1","clubName":"C","category":"Event"},
	  {"clubName":"C","category":"Event"},
	  {"title":"   ","clubName":"C","category":"Event"},
	  {"title":"No club","category":"Event"},
	  "not an object",
	  {"title":"Keep 2","clubName":"C","category":"Event"}
	]`

	records, warnings, err := newTestNormalizer().Normalize(domain.RawResponse{Text: text})

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Keep 1", records[0].Title)
	assert.Equal(t, "Keep 2", records[1].Title)

	require.Len(t, warnings, 4)
	for _, w := range warnings {
		assert.True(t, w.Dropped)
	}
	assert.Equal(t, 1, warnings[0].Index)
	assert.Equal(t, "title", warnings[0].Field)
	assert.Equal(t, "title", warnings[1].Field)
	assert.Equal(t, "clubName", warnings[2].Field)
	assert.Equal(t, 4, warnings[3].Index)
}

func TestNormalize_Defaults(t *testing.T) {
	text := `[
	  {"title":"A","clubName":"C","category":"Event"},
	  {"title":"B","clubName":"C","category":"Deadline","date":"Nov 1"}
	]`

	records, _, err := newTestNormalizer().Normalize(domain.RawResponse{Text: text})

	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.DateTBD, records[0].Date)
	assert.Equal(t, domain.TimeTBD, records[0].Time)
	assert.Equal(t, domain.LocationDefault, records[0].Location)
	assert.Equal(t, []string{}, records[0].Tags)
	assert.False(t, records[0].IsConfirmed)
	assert.Empty(t, records[0].Description)

	assert.Equal(t, domain.TimeDeadlineDefault, records[1].Time)
}

func TestNormalize_ConfirmationInvariants(t *testing.T) {
	text := `[
	  {"title":"Spot","clubName":"C","category":"Spotlight","date":"Oct 24","isRealEvent":true},
	  {"title":"Vague","clubName":"C","category":"Event","date":"check instagram","isRealEvent":true},
	  {"title":"Due","clubName":"C","category":"Deadline","date":"Nov 1","isRealEvent":"true"}
	]`

	records, warnings, err := newTestNormalizer().Normalize(domain.RawResponse{Text: text})

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.False(t, records[0].IsConfirmed)
	assert.False(t, records[1].IsConfirmed)
	// A date without a time is enough to stay confirmed.
	assert.True(t, records[2].IsConfirmed)
	assert.Equal(t, domain.TimeDeadlineDefault, records[2].Time)

	require.Len(t, warnings, 2)
	assert.Equal(t, "isConfirmed", warnings[0].Field)
	assert.Equal(t, "isConfirmed", warnings[1].Field)
}

func TestNormalize_SourceLinkMustBeCandidate(t *testing.T) {
	text := `[
	  {"title":"A","clubName":"C","category":"Event","sourceLink":"http://instagram.com/UBCWICS"},
	  {"title":"B","clubName":"C","category":"Event","instagramLink":"https://www.instagram.com/madeup/"}
	]`

	records, warnings, err := newTestNormalizer().Normalize(domain.RawResponse{Text: text})

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "https://www.instagram.com/ubcwics/", records[0].SourceLink)
	assert.Empty(t, records[1].SourceLink)
	require.Len(t, warnings, 1)
	assert.Equal(t, "sourceLink", warnings[0].Field)
	assert.Equal(t, 1, warnings[0].Index)
}

func TestNormalize_InvalidExternalLinkCleared(t *testing.T) {
	text := `[{"title":"A","clubName":"C","category":"Event","link":"sign up in bio"}]`

	records, warnings, err := newTestNormalizer().Normalize(domain.RawResponse{Text: text})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].ExternalLink)
	require.Len(t, warnings, 1)
	assert.Equal(t, "externalLink", warnings[0].Field)
	assert.False(t, warnings[0].Dropped)
}

func TestNormalize_LenientFieldTypes(t *testing.T) {
	text := `[{"title":2026,"clubName":"C","category":"Event","date":"Oct 24","time":null,
	  "tags":"tech, coding,tech, ","location":{"room":"x"}}]`

	records, _, err := newTestNormalizer().Normalize(domain.RawResponse{Text: text})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2026", records[0].Title)
	assert.Equal(t, domain.TimeTBD, records[0].Time)
	assert.Equal(t, []string{"tech", "coding"}, records[0].Tags)
	assert.Equal(t, domain.LocationDefault, records[0].Location)
}

func TestNormalize_TagsDeduplicatedInOrder(t *testing.T) {
	text := `[{"title":"A","clubName":"C","category":"Event","tags":["b","a","b",""," a ",1]}]`

	records, _, err := newTestNormalizer().Normalize(domain.RawResponse{Text: text})

	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "1"}, records[0].Tags)
}

func TestNormalize_DuplicatesPassThrough(t *testing.T) {
	text := `[{"title":"A","clubName":"C","category":"Event","date":"Oct 24"},
	          {"title":"A","clubName":"C","category":"Event","date":"Oct 24"}]`

	records, _, err := newTestNormalizer().Normalize(domain.RawResponse{Text: text})

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestNormalize_IgnoresCitations(t *testing.T) {
	raw := domain.RawResponse{
		Text:      `[{"title":"A","clubName":"C","category":"Event"}]`,
		Citations: []domain.Citation{{URI: "https://www.instagram.com/ubcpmc/"}},
	}

	records, _, err := newTestNormalizer().Normalize(raw)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].SourceLink)
}
