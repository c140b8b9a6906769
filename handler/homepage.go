package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ewintr.nl/headlines/homepage"
	"ewintr.nl/headlines/model"
	"golang.org/x/exp/slog"
)

type HomepageService interface {
	Homepage(ctx context.Context, req homepage.PageRequest) (*homepage.View, error)
	Featured(ctx context.Context) (*model.Video, error)
}

type HomepageAPI struct {
	home   HomepageService
	logger *slog.Logger
}

func NewHomepageAPI(home HomepageService, logger *slog.Logger) *HomepageAPI {
	return &HomepageAPI{
		home:   home,
		logger: logger,
	}
}

func (h *HomepageAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sub, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodGet && sub == "":
		h.View(w, r)
	case r.Method == http.MethodGet && sub == "featured":
		h.Featured(w, r)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the homepage api", r.Method, sub))
	}
}

func (h *HomepageAPI) View(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := h.home.Homepage(r.Context(), homepage.PageRequest{
		Left:   pageParam(q, "left"),
		Center: pageParam(q, "center"),
		Right:  pageParam(q, "right"),
	})
	if err != nil {
		h.logger.Error("could not load homepage", slog.String("error", err.Error()))
		Error(w, ErrorStatus(err), "could not load homepage, please try again", PublicError(err))
		return
	}

	JSON(w, http.StatusOK, view)
}

func (h *HomepageAPI) Featured(w http.ResponseWriter, r *http.Request) {
	featured, err := h.home.Featured(r.Context())
	if err != nil {
		h.logger.Error("could not load featured video", slog.String("error", err.Error()))
		Error(w, ErrorStatus(err), "could not load featured video, please try again", PublicError(err))
		return
	}

	JSON(w, http.StatusOK, struct {
		Featured *model.Video `json:"featured"`
	}{featured})
}

// pageParam reads a page number. Missing or non numeric values mean the first page; numbers
// outside the available range are passed on and produce an empty page.
func pageParam(q url.Values, name string) int {
	page, err := strconv.Atoi(q.Get(name))
	if err != nil {
		return 1
	}
	return page
}
