package process

import (
	"context"
	"fmt"

	"ewintr.nl/headlines/model"
	"golang.org/x/exp/slog"
)

type VideoProcessor interface {
	Name() string
	Applies(video *model.Video) bool
	Do(ctx context.Context, video *model.Video) error
}

// Pipeline fills in the description of a video by running each applicable processor once,
// in order.
type Pipeline struct {
	procs  []VideoProcessor
	logger *slog.Logger
}

func NewPipeline(logger *slog.Logger, procs ...VideoProcessor) *Pipeline {
	return &Pipeline{
		procs:  procs,
		logger: logger,
	}
}

func (p *Pipeline) Describe(ctx context.Context, video *model.Video) error {
	for _, proc := range p.procs {
		if !proc.Applies(video) {
			continue
		}

		p.logger.Info("processing video", slog.String("video", video.ID), slog.String("processor", proc.Name()))
		if err := proc.Do(ctx, video); err != nil {
			p.logger.Error("failed to process video", slog.String("video", video.ID), slog.String("processor", proc.Name()), slog.String("error", err.Error()))
			return fmt.Errorf("%w: %s: %v", model.ErrUpstreamUnavailable, proc.Name(), err)
		}
	}

	return nil
}
