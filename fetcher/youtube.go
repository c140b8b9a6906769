package fetcher

import (
	"context"
	"strings"

	"ewintr.nl/headlines/model"
	"google.golang.org/api/youtube/v3"
)

type Youtube struct {
	Client *youtube.Service
}

func NewYoutube(client *youtube.Service) *Youtube {
	return &Youtube{Client: client}
}

// FetchMetadata looks up a batch of at most 50 ids. Ids YouTube does not know are absent
// from the result.
func (y *Youtube) FetchMetadata(ctx context.Context, ytIDs []model.YoutubeVideoID) (map[model.YoutubeVideoID]Metadata, error) {
	strIDs := make([]string, len(ytIDs))
	for i, id := range ytIDs {
		strIDs[i] = string(id)
	}
	call := y.Client.Videos.
		List([]string{"snippet"}).
		Id(strings.Join(strIDs, ",")).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return map[model.YoutubeVideoID]Metadata{}, err
	}

	mds := make(map[model.YoutubeVideoID]Metadata, len(response.Items))
	for _, item := range response.Items {
		if item.Snippet == nil {
			continue
		}
		mds[model.YoutubeVideoID(item.Id)] = Metadata{
			Description: item.Snippet.Description,
		}
	}

	return mds, nil
}
