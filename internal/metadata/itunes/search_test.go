package itunes

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

const searchFixture = `{
  "resultCount": 3,
  "results": [
    {"wrapperType":"track","trackName":"Bohemian Rhapsody","collectionName":"A Night at the Opera","artistName":"Queen",
     "artworkUrl100":"https://is1.mzstatic.com/image/thumb/a/100x100bb.jpg","releaseDate":"1975-10-31T12:00:00Z"},
    {"wrapperType":"track","trackName":"","artistName":"Nobody"},
    {"wrapperType":"track","trackName":"Radio Ga Ga","artworkUrl60":"https://is1.mzstatic.com/image/thumb/b/60x60bb.jpg"}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(metadata.NewTestHTTP(server.Client(), logger.Discard())).WithBaseURL(server.URL)
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "queen", r.URL.Query().Get("term"))
		assert.Equal(t, "song", r.URL.Query().Get("entity"))
		assert.Equal(t, "music", r.URL.Query().Get("media"))
		_, _ = w.Write([]byte(searchFixture))
	})

	got, err := client.Search(context.Background(), EntitySong, "queen")
	require.NoError(t, err)

	assert.Equal(t, []domain.Suggestion{
		{Title: "Bohemian Rhapsody", ImageURL: "https://is1.mzstatic.com/image/thumb/a/600x600bb.jpg", Year: "1975"},
		{Title: "Radio Ga Ga", ImageURL: "https://is1.mzstatic.com/image/thumb/b/600x600bb.jpg"},
	}, got)
}

func TestClient_Search_EntityTitleField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "album", r.URL.Query().Get("entity"))
		_, _ = w.Write([]byte(searchFixture))
	})

	got, err := client.Search(context.Background(), EntityAlbum, "queen")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A Night at the Opera", got[0].Title)
}

func TestClient_Search_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), EntitySong, "queen")
	assert.ErrorIs(t, err, metadata.ErrServer)
}

func TestArtworkURL(t *testing.T) {
	assert.Empty(t, ArtworkURL(""))
	assert.Equal(t, "https://x/600x600bb.jpg", ArtworkURL("https://x/100x100bb.jpg"))
	assert.Equal(t, "https://x/other.png", ArtworkURL("https://x/other.png"))
}
