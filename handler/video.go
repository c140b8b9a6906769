package handler

import (
	"context"
	"fmt"
	"net/http"

	"ewintr.nl/headlines/admin"
	"ewintr.nl/headlines/model"
	"golang.org/x/exp/slog"
)

type VideoService interface {
	Create(ctx context.Context, in admin.CreateInput) (model.Video, error)
	Update(ctx context.Context, id string, in admin.UpdateInput) (model.Video, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (model.Video, error)
	List(ctx context.Context, status model.VideoStatus) ([]admin.Listing, error)
	Description(ctx context.Context, id string) (string, error)
}

type VideoAPI struct {
	videos VideoService
	logger *slog.Logger
}

func NewVideoAPI(videos VideoService, logger *slog.Logger) *VideoAPI {
	return &VideoAPI{
		videos: videos,
		logger: logger,
	}
}

func (v *VideoAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	videoID, tail := ShiftPath(r.URL.Path)
	sub, _ := ShiftPath(tail)

	switch {
	case r.Method == http.MethodGet && videoID == "":
		v.List(w, r)
	case r.Method == http.MethodPost && videoID == "":
		v.Create(w, r)
	case r.Method == http.MethodGet && videoID != "" && sub == "":
		v.Get(w, r, videoID)
	case r.Method == http.MethodGet && videoID != "" && sub == "description":
		v.Description(w, r, videoID)
	case r.Method == http.MethodPut && videoID != "" && sub == "":
		v.Update(w, r, videoID)
	case r.Method == http.MethodDelete && videoID != "" && sub == "":
		v.Delete(w, r, videoID)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the video api", r.Method, r.URL.Path))
	}
}

func (v *VideoAPI) List(w http.ResponseWriter, r *http.Request) {
	status := model.VideoStatus(r.URL.Query().Get("status"))
	switch status {
	case "", model.StatusScheduled, model.StatusPublished:
	default:
		Error(w, http.StatusBadRequest, "invalid status filter", fmt.Errorf("%w: unknown status %q", model.ErrValidation, status))
		return
	}

	listings, err := v.videos.List(r.Context(), status)
	if err != nil {
		v.returnErr(r.Context(), w, "could not list videos", err)
		return
	}

	JSON(w, http.StatusOK, listings)
}

func (v *VideoAPI) Create(w http.ResponseWriter, r *http.Request) {
	var in admin.CreateInput
	if status, err := decodeBody(w, r, &in); err != nil {
		Error(w, status, "could not parse request body", err)
		return
	}

	video, err := v.videos.Create(r.Context(), in)
	if err != nil && video.ID == "" {
		v.returnErr(r.Context(), w, "could not create video", err)
		return
	}
	if err != nil {
		v.logger.Warn("video created, but replacing the featured video failed", slog.String("id", video.ID), slog.String("error", err.Error()))
	}

	JSON(w, http.StatusCreated, video)
}

func (v *VideoAPI) Get(w http.ResponseWriter, r *http.Request, id string) {
	video, err := v.videos.Get(r.Context(), id)
	if err != nil {
		v.returnErr(r.Context(), w, "could not get video", err)
		return
	}

	JSON(w, http.StatusOK, video)
}

func (v *VideoAPI) Update(w http.ResponseWriter, r *http.Request, id string) {
	var in admin.UpdateInput
	if status, err := decodeBody(w, r, &in); err != nil {
		Error(w, status, "could not parse request body", err)
		return
	}

	video, err := v.videos.Update(r.Context(), id, in)
	if err != nil && video.ID == "" {
		v.returnErr(r.Context(), w, "could not update video", err)
		return
	}
	if err != nil {
		v.logger.Warn("video updated, but replacing the featured video failed", slog.String("id", video.ID), slog.String("error", err.Error()))
	}

	JSON(w, http.StatusOK, video)
}

func (v *VideoAPI) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := v.videos.Delete(r.Context(), id); err != nil {
		v.returnErr(r.Context(), w, "could not delete video", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (v *VideoAPI) Description(w http.ResponseWriter, r *http.Request, id string) {
	description, err := v.videos.Description(r.Context(), id)
	if err != nil {
		v.returnErr(r.Context(), w, "could not get description", err)
		return
	}

	JSON(w, http.StatusOK, struct {
		Description string `json:"description"`
	}{description})
}

func (v *VideoAPI) returnErr(_ context.Context, w http.ResponseWriter, message string, err error, details ...any) {
	status := ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		v.logger.Error(message, slog.String("err", err.Error()), slog.String("details", fmt.Sprintf("%+v", details)))
	} else {
		v.logger.Info(message, slog.String("err", err.Error()))
	}
	Error(w, status, message, PublicError(err), details...)
}
