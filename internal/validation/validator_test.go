package validation_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/toptenapp/topten-server/internal/errors"
	"github.com/toptenapp/topten-server/internal/validation"
)

type testItem struct {
	Rank  int    `json:"rank" validate:"rank"`
	Title string `json:"title" validate:"required"`
}

type testRequest struct {
	Category    string     `json:"category" validate:"required,category"`
	Title       string     `json:"title" validate:"required,max=80"`
	Description string     `json:"description,omitempty" validate:"max=120"`
	Items       []testItem `json:"items" validate:"max=10,dive"`
}

func validRequest() testRequest {
	return testRequest{
		Category: "movies",
		Title:    "My Movies",
		Items:    []testItem{{Rank: 1, Title: "Alien"}},
	}
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(validRequest()))

	req := validRequest()
	req.Category = "TV Shows"
	assert.NoError(t, v.Validate(req), "category aliases accepted")
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		mutate    func(*testRequest)
		wantField string
	}{
		{"missing title", func(r *testRequest) { r.Title = "" }, "title"},
		{"unknown category", func(r *testRequest) { r.Category = "podcasts" }, "category"},
		{"description too long", func(r *testRequest) { r.Description = strings.Repeat("x", 121) }, "description"},
		{"rank out of range", func(r *testRequest) { r.Items[0].Rank = 11 }, "items[0].rank"},
		{"rank zero", func(r *testRequest) { r.Items[0].Rank = 0 }, "items[0].rank"},
		{"blank item title", func(r *testRequest) { r.Items[0].Title = "" }, "items[0].title"},
		{"too many items", func(r *testRequest) {
			for i := range 10 {
				r.Items = append(r.Items, testItem{Rank: i%10 + 1, Title: "x"})
			}
		}, "items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := v.Validate(req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
			assert.Contains(t, domainErr.Message, tt.wantField)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	req := validRequest()
	req.Title = ""

	err := v.Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
	assert.NotContains(t, err.Error(), "Title")
}

func TestValidator_MessageOrderIsStable(t *testing.T) {
	v := validation.New()

	req := validRequest()
	req.Title = ""
	req.Category = ""

	err := v.Validate(req)
	require.Error(t, err)
	assert.Equal(t, "validation failed: category is required; title is required", err.Error())
}
