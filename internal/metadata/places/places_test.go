package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/metadata"
)

func TestClient_Search(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`[
			{"name":"Eiffel Tower","display_name":"Eiffel Tower, Paris, France"},
			{"name":"","display_name":"Tour Eiffel, Las Vegas, USA"},
			{"name":"","display_name":""}
		]`))
	}))
	defer server.Close()

	client := New(metadata.NewTestHTTP(server.Client(), logger.Discard())).WithBaseURL(server.URL)

	got, err := client.Search(context.Background(), KindAny, " eiffel ")
	require.NoError(t, err)
	assert.Equal(t, "eiffel", gotQuery)
	assert.Equal(t, []domain.Suggestion{{Title: "Eiffel Tower"}, {Title: "Tour Eiffel"}}, got)

	_, err = client.Search(context.Background(), KindRestaurant, "noma")
	require.NoError(t, err)
	assert.Equal(t, "noma restaurant", gotQuery)
}
