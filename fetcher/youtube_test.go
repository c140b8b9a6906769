package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ewintr.nl/headlines/fetcher"
	"ewintr.nl/headlines/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

func TestYoutubeFetchMetadata(t *testing.T) {
	var gotPart, gotIDs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPart = r.URL.Query().Get("part")
		gotIDs = r.URL.Query().Get("id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"dQw4w9WgXcQ","snippet":{"title":"t","description":"all about it"}}]}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := youtube.NewService(ctx, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	mds, err := fetcher.NewYoutube(svc).FetchMetadata(ctx, []model.YoutubeVideoID{"dQw4w9WgXcQ", "aaaaaaaaaaa"})
	require.NoError(t, err)
	assert.Equal(t, "snippet", gotPart)
	assert.Equal(t, "dQw4w9WgXcQ,aaaaaaaaaaa", gotIDs)
	assert.Equal(t, map[model.YoutubeVideoID]fetcher.Metadata{
		"dQw4w9WgXcQ": {Description: "all about it"},
	}, mds)
}
