package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"ewintr.nl/headlines/model"
	"ewintr.nl/headlines/storage"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
)

type WaitlistAPI struct {
	repo    storage.WaitlistRepository
	limiter *rate.Limiter
	now     func() time.Time
	logger  *slog.Logger
}

func NewWaitlistAPI(repo storage.WaitlistRepository, limiter *rate.Limiter, now func() time.Time, logger *slog.Logger) *WaitlistAPI {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if now == nil {
		now = time.Now
	}
	return &WaitlistAPI{
		repo:    repo,
		limiter: limiter,
		now:     now,
		logger:  logger,
	}
}

func (wl *WaitlistAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		wl.Join(w, r)
	default:
		Error(w, http.StatusMethodNotAllowed, "method not allowed", fmt.Errorf("method %s is not supported by the waitlist", r.Method))
	}
}

func (wl *WaitlistAPI) Join(w http.ResponseWriter, r *http.Request) {
	if !wl.limiter.Allow() {
		Error(w, http.StatusTooManyRequests, "too many requests, please try again later", fmt.Errorf("waitlist rate limit exceeded"))
		return
	}

	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		ChannelURL string `json:"channelUrl"`
	}
	if status, err := decodeBody(w, r, &req); err != nil {
		Error(w, status, "could not parse request body", err)
		return
	}

	entry := model.WaitlistEntry{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		ChannelURL: strings.TrimSpace(req.ChannelURL),
		CreatedAt:  wl.now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		Error(w, http.StatusBadRequest, "missing required fields", err)
		return
	}

	saved, err := wl.repo.Add(r.Context(), entry)
	if err != nil {
		wl.logger.Error("could not save waitlist entry", slog.String("error", err.Error()))
		Error(w, http.StatusInternalServerError, "could not join the waitlist", PublicError(err))
		return
	}
	wl.logger.Info("waitlist entry added", slog.String("id", saved.ID))

	JSON(w, http.StatusOK, struct {
		ID string `json:"id"`
	}{saved.ID})
}
