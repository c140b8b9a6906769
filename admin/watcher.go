package admin

import (
	"context"
	"sync"
	"time"

	"ewintr.nl/headlines/model"
	"ewintr.nl/headlines/storage"
	"golang.org/x/exp/slog"
)

const DefaultInterval = time.Minute

// Watcher notices scheduled videos whose publication time has passed. Visibility itself is
// decided at read time; the watcher only reports the moment so cached listings can be
// dropped and the event logged.
type Watcher struct {
	videoRepo storage.VideoRepository
	interval  time.Duration
	now       func() time.Time
	onPublish func(ctx context.Context, video model.Video)
	logger    *slog.Logger

	mu   sync.Mutex
	last time.Time
}

func NewWatcher(videoRepo storage.VideoRepository, interval time.Duration, now func() time.Time, onPublish func(ctx context.Context, video model.Video), logger *slog.Logger) *Watcher {
	if now == nil {
		now = time.Now
	}
	if onPublish == nil {
		onPublish = func(context.Context, model.Video) {}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		videoRepo: videoRepo,
		interval:  interval,
		now:       now,
		onPublish: onPublish,
		logger:    logger,
		last:      now(),
	}
}

func (w *Watcher) Run(ctx context.Context) {
	w.logger.Info("started schedule watcher", slog.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopped schedule watcher")
			return
		case <-ticker.C:
			w.Tick(ctx, w.now())
		}
	}
}

// Tick reports every video scheduled after the previous successful tick and at or before
// now. A failed listing does not move the window forward, so nothing is skipped.
func (w *Watcher) Tick(ctx context.Context, now time.Time) []model.Video {
	w.mu.Lock()
	defer w.mu.Unlock()

	videos, err := w.videoRepo.List(ctx)
	if err != nil {
		w.logger.Error("failed to list videos for schedule", slog.String("error", err.Error()))
		return nil
	}

	due := []model.Video{}
	for _, v := range videos {
		if v.ScheduledAt == nil {
			continue
		}
		if v.ScheduledAt.After(w.last) && !v.ScheduledAt.After(now) {
			due = append(due, v)
		}
	}
	w.last = now

	for _, v := range due {
		w.logger.Info("scheduled video went live", slog.String("id", v.ID), slog.Time("scheduledAt", *v.ScheduledAt))
		w.onPublish(ctx, v)
	}

	return due
}
