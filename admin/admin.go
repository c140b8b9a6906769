package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ewintr.nl/headlines/homepage"
	"ewintr.nl/headlines/model"
	"ewintr.nl/headlines/storage"
	"golang.org/x/exp/slog"
)

type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Describer interface {
	Describe(ctx context.Context, video *model.Video) error
}

type CreateInput struct {
	YoutubeURL     string     `json:"youtubeURL"`
	CustomHeadline string     `json:"customHeadline"`
	PositionType   string     `json:"positionType"`
	Category       string     `json:"category"`
	ThumbnailURL   string     `json:"thumbnailURL"`
	ScheduledAt    *time.Time `json:"scheduledAt"`
	Description    string     `json:"description"`
	ReplaceCurrent bool       `json:"replaceCurrent"`
}

// UpdateInput only changes the fields that are set. CreatedAt cannot be changed.
type UpdateInput struct {
	YoutubeURL     *string    `json:"youtubeURL"`
	CustomHeadline *string    `json:"customHeadline"`
	PositionType   *string    `json:"positionType"`
	Category       *string    `json:"category"`
	ThumbnailURL   *string    `json:"thumbnailURL"`
	ScheduledAt    *time.Time `json:"scheduledAt"`
	ClearSchedule  bool       `json:"clearSchedule"`
	Description    *string    `json:"description"`
	ReplaceCurrent bool       `json:"replaceCurrent"`
}

type Listing struct {
	model.Video
	Status model.VideoStatus `json:"status"`
}

const DefaultTimeout = 10 * time.Second

type Admin struct {
	videoRepo storage.VideoRepository
	cache     Invalidator
	describer Describer
	timeout   time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// New creates the mutation layer. Every call to the store or the describer gets at most
// timeout to finish.
func New(videoRepo storage.VideoRepository, cache Invalidator, describer Describer, timeout time.Duration, now func() time.Time, logger *slog.Logger) *Admin {
	if now == nil {
		now = time.Now
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Admin{
		videoRepo: videoRepo,
		cache:     cache,
		describer: describer,
		timeout:   timeout,
		now:       now,
		logger:    logger,
	}
}

func (a *Admin) Create(ctx context.Context, in CreateInput) (model.Video, error) {
	headline := strings.TrimSpace(in.CustomHeadline)
	if headline == "" {
		return model.Video{}, fmt.Errorf("%w: headline is required", model.ErrValidation)
	}
	position, err := parsePosition(in.PositionType)
	if err != nil {
		return model.Video{}, err
	}
	if strings.TrimSpace(in.YoutubeURL) == "" {
		return model.Video{}, fmt.Errorf("%w: youtube url is required", model.ErrValidation)
	}
	ytID, err := model.ExtractYoutubeID(in.YoutubeURL)
	if err != nil {
		return model.Video{}, err
	}

	video := model.Video{
		YoutubeURL:     strings.TrimSpace(in.YoutubeURL),
		CustomHeadline: headline,
		PositionType:   position,
		Category:       strings.TrimSpace(in.Category),
		ThumbnailURL:   strings.TrimSpace(in.ThumbnailURL),
		CreatedAt:      a.now().UTC(),
		ScheduledAt:    in.ScheduledAt,
		Description:    strings.TrimSpace(in.Description),
	}
	if video.Category == "" {
		video.Category = model.DefaultCategory(position)
	}
	if video.ThumbnailURL == "" {
		video.ThumbnailURL = model.ThumbnailFor(ytID)
	}

	insertCtx, cancel := context.WithTimeout(ctx, a.timeout)
	created, err := a.videoRepo.Insert(insertCtx, video)
	cancel()
	if err != nil {
		return model.Video{}, upstream("insert video", err)
	}
	a.logger.Info("video created", slog.String("id", created.ID), slog.String("position", string(position)))

	var demoteErr error
	if position == model.PositionFeatured && in.ReplaceCurrent {
		demoteErr = a.demoteFeatured(ctx, created.ID)
	}
	a.cache.Invalidate(ctx)

	return created, demoteErr
}

func (a *Admin) Update(ctx context.Context, id string, in UpdateInput) (model.Video, error) {
	existing, err := a.Get(ctx, id)
	if err != nil {
		return model.Video{}, err
	}

	updated := existing
	if in.CustomHeadline != nil {
		updated.CustomHeadline = strings.TrimSpace(*in.CustomHeadline)
		if updated.CustomHeadline == "" {
			return model.Video{}, fmt.Errorf("%w: headline is required", model.ErrValidation)
		}
	}
	if in.PositionType != nil {
		position, err := parsePosition(*in.PositionType)
		if err != nil {
			return model.Video{}, err
		}
		if position != existing.PositionType && existing.Category == model.DefaultCategory(existing.PositionType) {
			updated.Category = model.DefaultCategory(position)
		}
		updated.PositionType = position
	}
	if in.YoutubeURL != nil && strings.TrimSpace(*in.YoutubeURL) != existing.YoutubeURL {
		newID, err := model.ExtractYoutubeID(*in.YoutubeURL)
		if err != nil {
			return model.Video{}, err
		}
		updated.YoutubeURL = strings.TrimSpace(*in.YoutubeURL)
		oldID, oldErr := existing.YoutubeID()
		if oldErr != nil || oldID != newID {
			if existing.ThumbnailURL == "" || (oldErr == nil && existing.ThumbnailURL == model.ThumbnailFor(oldID)) {
				updated.ThumbnailURL = model.ThumbnailFor(newID)
			}
			updated.Description = ""
		}
	}
	if in.Category != nil {
		updated.Category = strings.TrimSpace(*in.Category)
		if updated.Category == "" {
			updated.Category = model.DefaultCategory(updated.PositionType)
		}
	}
	if in.ThumbnailURL != nil {
		updated.ThumbnailURL = strings.TrimSpace(*in.ThumbnailURL)
		if updated.ThumbnailURL == "" {
			updated.ThumbnailURL = updated.Thumbnail()
		}
	}
	switch {
	case in.ClearSchedule:
		updated.ScheduledAt = nil
	case in.ScheduledAt != nil:
		updated.ScheduledAt = in.ScheduledAt
	}
	if in.Description != nil {
		updated.Description = strings.TrimSpace(*in.Description)
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updateCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	if err := a.videoRepo.Update(updateCtx, updated); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Video{}, err
		}
		return model.Video{}, upstream("update video", err)
	}
	a.logger.Info("video updated", slog.String("id", id))

	var demoteErr error
	if updated.PositionType == model.PositionFeatured && in.ReplaceCurrent {
		demoteErr = a.demoteFeatured(ctx, updated.ID)
	}
	a.cache.Invalidate(ctx)

	return updated, demoteErr
}

// Delete is idempotent: removing a video that is already gone succeeds.
func (a *Admin) Delete(ctx context.Context, id string) error {
	deleteCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	err := a.videoRepo.Delete(deleteCtx, id)
	switch {
	case errors.Is(err, model.ErrNotFound):
		a.logger.Info("video already deleted", slog.String("id", id))
	case err != nil:
		return upstream("delete video", err)
	default:
		a.logger.Info("video deleted", slog.String("id", id))
	}
	a.cache.Invalidate(ctx)

	return nil
}

func (a *Admin) Get(ctx context.Context, id string) (model.Video, error) {
	getCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	video, err := a.videoRepo.Get(getCtx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Video{}, err
		}
		return model.Video{}, upstream("get video", err)
	}

	return video, nil
}

// List returns every video newest first, optionally only those with the given status.
func (a *Admin) List(ctx context.Context, status model.VideoStatus) ([]Listing, error) {
	listCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	videos, err := a.videoRepo.List(listCtx)
	if err != nil {
		return nil, upstream("list videos", err)
	}
	homepage.SortNewestFirst(videos)

	now := a.now()
	listings := []Listing{}
	for _, v := range videos {
		s := v.Status(now)
		if status != "" && s != status {
			continue
		}
		listings = append(listings, Listing{Video: v, Status: s})
	}

	return listings, nil
}

// Description returns the stored description, fetching and storing it on first use. When
// fetching fails a description is made up from the headline and not stored, so a later
// call can try again.
func (a *Admin) Description(ctx context.Context, id string) (string, error) {
	video, err := a.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if video.Description != "" {
		return video.Description, nil
	}
	if a.describer == nil {
		return synthesizeDescription(video), nil
	}

	described := video
	describeCtx, cancel := context.WithTimeout(ctx, a.timeout)
	err = a.describer.Describe(describeCtx, &described)
	cancel()
	if err != nil || described.Description == "" {
		a.logger.Warn("could not describe video, using headline", slog.String("id", id), slog.Any("error", err))
		return synthesizeDescription(video), nil
	}

	video.Description = described.Description
	updateCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	if err := a.videoRepo.Update(updateCtx, video); err != nil {
		a.logger.Warn("could not store description", slog.String("id", id), slog.String("error", err.Error()))
	} else {
		a.cache.Invalidate(ctx)
	}

	return video.Description, nil
}

// demoteFeatured moves every featured video except keepID to the center column. This is a
// sequence of independent writes, not a transaction. Readers pick the newest featured
// video, so a half finished demotion still renders correctly.
func (a *Admin) demoteFeatured(ctx context.Context, keepID string) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	videos, err := a.videoRepo.List(ctx)
	if err != nil {
		a.logger.Error("could not list videos for demotion", slog.String("error", err.Error()))
		return upstream("list videos for demotion", err)
	}

	var firstErr error
	for _, v := range videos {
		if v.ID == keepID || v.PositionType != model.PositionFeatured {
			continue
		}
		v.PositionType = model.PositionCenter
		v.Category = model.DefaultCategory(model.PositionCenter)
		if err := a.videoRepo.Update(ctx, v); err != nil {
			a.logger.Error("could not demote featured video", slog.String("id", v.ID), slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = upstream("demote video "+v.ID, err)
			}
			continue
		}
		a.logger.Info("featured video demoted", slog.String("id", v.ID))
	}

	return firstErr
}

func parsePosition(s string) (model.Position, error) {
	p := model.Position(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown position %q", model.ErrValidation, s)
	}
	return p, nil
}

func synthesizeDescription(video model.Video) string {
	return fmt.Sprintf("%s. Watch the full video on YouTube.", strings.TrimRight(video.CustomHeadline, ".!? "))
}

func upstream(action string, err error) error {
	return fmt.Errorf("%w: %s: %v", model.ErrUpstreamUnavailable, action, err)
}
