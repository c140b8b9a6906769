package handler

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"time"

	"ewintr.nl/headlines/storage"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
)

type Options struct {
	AdminToken      string
	WaitlistRate    rate.Limit
	WaitlistBurst   int
	LivenessTimeout time.Duration
}

type Server struct {
	apis   map[string]http.Handler
	logger *slog.Logger
}

func NewServer(home HomepageService, videos VideoService, waitlistRepo storage.WaitlistRepository, prober LivenessProber, opts Options, logger *slog.Logger) *Server {
	var videoAPI http.Handler = NewVideoAPI(videos, logger)
	if opts.AdminToken != "" {
		videoAPI = requireToken(opts.AdminToken, videoAPI)
	}
	if opts.WaitlistRate <= 0 {
		opts.WaitlistRate = rate.Inf
	}
	if opts.WaitlistBurst <= 0 {
		opts.WaitlistBurst = 1
	}

	return &Server{
		apis: map[string]http.Handler{
			"homepage": NewHomepageAPI(home, logger),
			"videos":   videoAPI,
			"waitlist": NewWaitlistAPI(waitlistRepo, rate.NewLimiter(opts.WaitlistRate, opts.WaitlistBurst), nil, logger),
			"liveness": NewLivenessAPI(prober, opts.LivenessTimeout, logger),
			"healthz": http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				Message(w, http.StatusOK, "ok")
			}),
		},
		logger: logger,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	originalPath := r.URL.Path
	rec := httptest.NewRecorder() // records the response to be able to mix writing headers and content

	w.Header().Set("Content-Type", "application/json")

	// route to api
	head, tail := ShiftPath(r.URL.Path)
	if len(head) == 0 {
		Index(rec)
		returnResponse(w, rec)
		return
	}
	api, ok := s.apis[head]
	if !ok {
		Error(rec, http.StatusNotFound, "Not found", fmt.Errorf("%s is not a valid path", r.URL.Path))
	} else {
		r.URL.Path = tail
		api.ServeHTTP(rec, r)
	}

	returnResponse(w, rec)
	s.logger.Info("request served", slog.String("method", r.Method), slog.String("path", originalPath), slog.Int("status", rec.Code))
}

func returnResponse(w http.ResponseWriter, rec *httptest.ResponseRecorder) {
	for k, v := range rec.Header() {
		w.Header()[k] = v
	}
	w.WriteHeader(rec.Code)
	w.Write(rec.Body.Bytes())
}

func requireToken(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		given := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			Error(w, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing or invalid bearer token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ShiftPath splits off the first component of p, which will be cleaned of
// relative components before processing. head will never contain a slash and
// tail will always be a rooted path without trailing slash.
// See https://blog.merovius.de/posts/2017-06-18-how-not-to-use-an-http-router/
func ShiftPath(p string) (string, string) {
	p = path.Clean("/" + p)

	// restore iri prefixes that might be mangled by path.Clean
	for k, v := range map[string]string{
		"http:/":  "http://",
		"https:/": "https://",
	} {
		p = strings.Replace(p, k, v, -1)
	}

	i := strings.Index(p[1:], "/") + 1
	if i <= 0 {
		return p[1:], "/"
	}
	return p[1:i], p[i:]
}
