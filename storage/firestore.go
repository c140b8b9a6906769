package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"ewintr.nl/headlines/model"
	"golang.org/x/exp/slog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	videoCollection    = "videos"
	waitlistCollection = "waitlist"
)

// Firestore stores videos and waitlist entries as flat documents. The documents were
// written by several generations of clients, so every timestamp goes through
// model.ParseFlexibleTimestamp on the way in.
type Firestore struct {
	client *firestore.Client
	logger *slog.Logger
}

func NewFirestore(ctx context.Context, projectID string, logger *slog.Logger) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return &Firestore{}, err
	}

	return &Firestore{
		client: client,
		logger: logger,
	}, nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

func (f *Firestore) List(ctx context.Context) ([]model.Video, error) {
	docs, err := f.client.Collection(videoCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	videos := make([]model.Video, 0, len(docs))
	for _, doc := range docs {
		videos = append(videos, f.decodeVideo(doc.Ref.ID, doc.Data()))
	}

	return videos, nil
}

func (f *Firestore) Get(ctx context.Context, id string) (model.Video, error) {
	doc, err := f.client.Collection(videoCollection).Doc(id).Get(ctx)
	if err != nil {
		return model.Video{}, notFound(err, id)
	}

	return f.decodeVideo(doc.Ref.ID, doc.Data()), nil
}

func (f *Firestore) Insert(ctx context.Context, video model.Video) (model.Video, error) {
	ref, _, err := f.client.Collection(videoCollection).Add(ctx, encodeVideo(video))
	if err != nil {
		return model.Video{}, err
	}
	video.ID = ref.ID

	return video, nil
}

func (f *Firestore) Update(ctx context.Context, video model.Video) error {
	updates := []firestore.Update{
		{Path: "youtubeURL", Value: video.YoutubeURL},
		{Path: "customHeadline", Value: video.CustomHeadline},
		{Path: "positionType", Value: string(video.PositionType)},
		{Path: "category", Value: video.Category},
		{Path: "thumbnailURL", Value: video.ThumbnailURL},
		{Path: "description", Value: video.Description},
	}
	if video.ScheduledAt != nil {
		updates = append(updates, firestore.Update{Path: "scheduledAt", Value: *video.ScheduledAt})
	} else {
		updates = append(updates, firestore.Update{Path: "scheduledAt", Value: firestore.Delete})
	}

	_, err := f.client.Collection(videoCollection).Doc(video.ID).Update(ctx, updates)
	return notFound(err, video.ID)
}

func (f *Firestore) Delete(ctx context.Context, id string) error {
	_, err := f.client.Collection(videoCollection).Doc(id).Delete(ctx, firestore.Exists)
	return notFound(err, id)
}

func (f *Firestore) Add(ctx context.Context, entry model.WaitlistEntry) (model.WaitlistEntry, error) {
	ref, _, err := f.client.Collection(waitlistCollection).Add(ctx, map[string]any{
		"name":       entry.Name,
		"email":      entry.Email,
		"channelUrl": entry.ChannelURL,
		"createdAt":  entry.CreatedAt,
	})
	if err != nil {
		return model.WaitlistEntry{}, err
	}
	entry.ID = ref.ID

	return entry, nil
}

func (f *Firestore) decodeVideo(id string, data map[string]any) model.Video {
	video := model.Video{
		ID:             id,
		YoutubeURL:     stringField(data, "youtubeURL"),
		CustomHeadline: stringField(data, "customHeadline"),
		PositionType:   model.ParsePosition(stringField(data, "positionType")),
		Category:       strings.TrimSpace(stringField(data, "category")),
		ThumbnailURL:   stringField(data, "thumbnailURL"),
		Description:    stringField(data, "description"),
	}

	createdAt, err := model.ParseFlexibleTimestamp(data["createdAt"])
	if err != nil {
		f.logger.Warn("unreadable createdAt, sorting video last", slog.String("id", id), slog.String("error", err.Error()))
	}
	video.CreatedAt = createdAt

	scheduledAt, err := model.ParseFlexibleTimestamp(data["scheduledAt"])
	switch {
	case err == nil:
		video.ScheduledAt = &scheduledAt
	case errors.Is(err, model.ErrMalformedTimestamp):
		f.logger.Warn("unreadable scheduledAt, treating video as published", slog.String("id", id), slog.String("error", err.Error()))
	}

	return video
}

func encodeVideo(video model.Video) map[string]any {
	data := map[string]any{
		"youtubeURL":     video.YoutubeURL,
		"customHeadline": video.CustomHeadline,
		"positionType":   string(video.PositionType),
		"category":       video.Category,
		"thumbnailURL":   video.ThumbnailURL,
		"description":    video.Description,
		"createdAt":      video.CreatedAt,
	}
	if video.ScheduledAt != nil {
		data["scheduledAt"] = *video.ScheduledAt
	}

	return data
}

func stringField(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func notFound(err error, id string) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("video %s: %w", id, model.ErrNotFound)
	}

	return err
}
