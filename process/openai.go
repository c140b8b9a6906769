package process

import (
	"context"

	"ewintr.nl/headlines/model"
)

type Summarizer interface {
	Summarize(ctx context.Context, headline, description string) (string, error)
}

// Condenser shortens descriptions longer than threshold characters into a teaser.
type Condenser struct {
	summarizer Summarizer
	threshold  int
}

func NewCondenser(summarizer Summarizer, threshold int) *Condenser {
	return &Condenser{
		summarizer: summarizer,
		threshold:  threshold,
	}
}

func (c *Condenser) Name() string {
	return "openai condenser"
}

func (c *Condenser) Applies(video *model.Video) bool {
	return len([]rune(video.Description)) > c.threshold
}

func (c *Condenser) Do(ctx context.Context, video *model.Video) error {
	teaser, err := c.summarizer.Summarize(ctx, video.CustomHeadline, video.Description)
	if err != nil {
		return err
	}
	video.Description = teaser

	return nil
}
