package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()
	client := NewClient(Config{APIKey: "test-key", RPS: 100}, &logger)
	client.apiBaseURL = srv.URL
	client.captionsURL = srv.URL + "/timedtext"

	return client, srv
}

func TestFetchMetadata(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/videos", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("id"))

		fmt.Fprint(w, `{"items":[{"id":"dQw4w9WgXcQ","snippet":{"title":"Test Video","channelTitle":"Test Channel","publishedAt":"2024-03-01T12:00:00Z"},"contentDetails":{"duration":"PT4M13S"}}]}`)
	}))

	video, err := client.FetchMetadata(context.Background(), "dQw4w9WgXcQ")

	require.NoError(t, err)
	assert.Equal(t, "Test Video", video.Title)
	assert.Equal(t, "Test Channel", video.ChannelTitle)
	assert.Equal(t, 4*time.Minute+13*time.Second, video.Duration)
	assert.Equal(t, 2024, video.PublishedAt.Year())
}

func TestFetchMetadataNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	}))

	_, err := client.FetchMetadata(context.Background(), "missing00000")

	require.ErrorIs(t, err, ErrVideoNotFound)
}

func TestFetchMetadataQuotaExhausted(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded"}]}}`)
	}))

	_, err := client.FetchMetadata(context.Background(), "dQw4w9WgXcQ")

	require.ErrorIs(t, err, ErrAPIQuotaExhausted)
}

func TestListPlaylistItemsPaginated(t *testing.T) {
	pages := map[string]string{
		"":   `{"nextPageToken":"p2","items":[{"contentDetails":{"videoId":"aaaaaaaaaaa"}},{"contentDetails":{"videoId":"bbbbbbbbbbb"}}]}`,
		"p2": `{"items":[{"contentDetails":{"videoId":"ccccccccccc"}}]}`,
	}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/playlistItems", r.URL.Path)
		fmt.Fprint(w, pages[r.URL.Query().Get("pageToken")])
	}))

	refs, err := client.ListPlaylistItems(context.Background(), "PLtest")

	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "https://www.youtube.com/watch?v=aaaaaaaaaaa", refs[0])
	assert.Equal(t, "https://www.youtube.com/watch?v=ccccccccccc", refs[2])
}

func TestListPlaylistItemsEmpty(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	}))

	_, err := client.ListPlaylistItems(context.Background(), "PLempty")

	require.ErrorIs(t, err, ErrPlaylistNotFound)
}
