package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ewintr.nl/headlines/model"
)

const DefaultOEmbedEndpoint = "https://www.youtube.com/oembed"

type LivenessStatus string

const (
	LivenessAlive LivenessStatus = "alive"
	LivenessDead  LivenessStatus = "dead"
)

type Liveness struct {
	Status LivenessStatus `json:"status"`
	Code   int            `json:"code,omitempty"`
}

// OEmbed checks whether a video still exists by asking the public oEmbed endpoint about it.
// Removed and private videos answer with a non-200 status.
type OEmbed struct {
	client   *http.Client
	endpoint string
}

func NewOEmbed(client *http.Client, endpoint string) *OEmbed {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if endpoint == "" {
		endpoint = DefaultOEmbedEndpoint
	}
	return &OEmbed{
		client:   client,
		endpoint: endpoint,
	}
}

func (o *OEmbed) Check(ctx context.Context, id model.YoutubeVideoID) (Liveness, error) {
	q := url.Values{}
	q.Set("url", model.WatchURL(id))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Liveness{}, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return Liveness{}, fmt.Errorf("%w: oembed: %v", model.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusOK {
		return Liveness{Status: LivenessAlive}, nil
	}

	return Liveness{Status: LivenessDead, Code: resp.StatusCode}, nil
}
