package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Category
	}{
		{"exact value", "movies", CategoryMovies},
		{"upper case", "BOOKS", CategoryBooks},
		{"surrounding whitespace", "  music ", CategoryMusic},
		{"display label", "Video Games", CategoryVideoGames},
		{"tv label", "TV Shows", CategoryTV},
		{"hyphenated", "video-games", CategoryVideoGames},
		{"custom", "custom", CategoryCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseCategory_Unknown(t *testing.T) {
	for _, input := range []string{"", "podcasts", "movie s"} {
		_, err := ParseCategory(input)
		assert.True(t, errors.Is(err, ErrUnknownCategory), "input %q", input)
	}
}

func TestCategory_MetaIsTotal(t *testing.T) {
	for _, c := range Categories() {
		meta := c.Meta()
		assert.NotEmpty(t, meta.Label, c)
		assert.NotEmpty(t, meta.Icon, c)
		assert.NotEmpty(t, meta.Color, c)
		assert.True(t, c.Valid())
	}

	assert.Equal(t, CategoryCustom.Meta(), Category("bogus").Meta())
}

func TestCategory_UnmarshalJSON_NormalizesUnknown(t *testing.T) {
	var list struct {
		Category Category `json:"category"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"category":"Movies"}`), &list))
	assert.Equal(t, CategoryMovies, list.Category)

	require.NoError(t, json.Unmarshal([]byte(`{"category":"podcasts"}`), &list))
	assert.Equal(t, CategoryCustom, list.Category)

	assert.Error(t, json.Unmarshal([]byte(`{"category":42}`), &list))
}
