package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ewintr.nl/headlines/fetcher"
	"ewintr.nl/headlines/model"
	"golang.org/x/exp/slog"
)

type LivenessProber interface {
	Check(ctx context.Context, id model.YoutubeVideoID) (fetcher.Liveness, error)
}

type LivenessAPI struct {
	prober  LivenessProber
	timeout time.Duration
	logger  *slog.Logger
}

func NewLivenessAPI(prober LivenessProber, timeout time.Duration, logger *slog.Logger) *LivenessAPI {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LivenessAPI{
		prober:  prober,
		timeout: timeout,
		logger:  logger,
	}
}

func (l *LivenessAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		Error(w, http.StatusMethodNotAllowed, "method not allowed", fmt.Errorf("method %s is not supported by liveness", r.Method))
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("videoId"))
	if raw == "" {
		Error(w, http.StatusBadRequest, "videoId is required", fmt.Errorf("%w: missing videoId", model.ErrValidation))
		return
	}
	id, err := model.ExtractYoutubeID(raw)
	if err != nil {
		id = model.YoutubeVideoID(raw)
	}

	ctx, cancel := context.WithTimeout(r.Context(), l.timeout)
	defer cancel()
	liveness, err := l.prober.Check(ctx, id)
	if err != nil {
		l.logger.Warn("liveness probe failed", slog.String("videoId", string(id)), slog.String("error", err.Error()))
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrUpstreamUnavailable) {
			status = http.StatusBadGateway
		}
		Error(w, status, "could not check video", PublicError(err))
		return
	}

	JSON(w, http.StatusOK, liveness)
}
