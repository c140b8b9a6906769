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
)

func TestOEmbedCheck(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		switch r.URL.Query().Get("url") {
		case "https://www.youtube.com/watch?v=dQw4w9WgXcQ":
			w.Write([]byte(`{"title":"ok"}`))
		case "https://www.youtube.com/watch?v=privateXXXX":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	oe := fetcher.NewOEmbed(srv.Client(), srv.URL)
	for _, tc := range []struct {
		id  model.YoutubeVideoID
		exp fetcher.Liveness
	}{
		{id: "dQw4w9WgXcQ", exp: fetcher.Liveness{Status: fetcher.LivenessAlive}},
		{id: "privateXXXX", exp: fetcher.Liveness{Status: fetcher.LivenessDead, Code: http.StatusUnauthorized}},
		{id: "goneXXXXXXX", exp: fetcher.Liveness{Status: fetcher.LivenessDead, Code: http.StatusNotFound}},
	} {
		act, err := oe.Check(context.Background(), tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.exp, act, string(tc.id))
	}
	assert.Equal(t, "https://www.youtube.com/watch?v=goneXXXXXXX", gotURL)
}

func TestOEmbedUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := fetcher.NewOEmbed(nil, srv.URL).Check(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, model.ErrUpstreamUnavailable)
}
