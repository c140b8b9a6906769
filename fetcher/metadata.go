package fetcher

import (
	"context"

	"ewintr.nl/headlines/model"
)

type Metadata struct {
	Description string
}

type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, ytIDs []model.YoutubeVideoID) (map[model.YoutubeVideoID]Metadata, error)
}
