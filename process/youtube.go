package process

import (
	"context"
	"errors"
	"fmt"

	"ewintr.nl/headlines/fetcher"
	"ewintr.nl/headlines/model"
)

type YoutubeDescriber struct {
	metadata fetcher.MetadataFetcher
}

func NewYoutubeDescriber(metadata fetcher.MetadataFetcher) *YoutubeDescriber {
	return &YoutubeDescriber{metadata: metadata}
}

func (yd *YoutubeDescriber) Name() string {
	return "youtube describer"
}

func (yd *YoutubeDescriber) Applies(video *model.Video) bool {
	return video.Description == ""
}

func (yd *YoutubeDescriber) Do(ctx context.Context, video *model.Video) error {
	ytID, err := video.YoutubeID()
	if err != nil {
		return err
	}
	mds, err := yd.metadata.FetchMetadata(ctx, []model.YoutubeVideoID{ytID})
	if err != nil {
		return err
	}
	md, ok := mds[ytID]
	if !ok {
		return fmt.Errorf("no metadata for %s", ytID)
	}
	if md.Description == "" {
		return errors.New("video has no description")
	}
	video.Description = md.Description

	return nil
}
