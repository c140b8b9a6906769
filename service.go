package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ewintr.nl/headlines/admin"
	"ewintr.nl/headlines/fetcher"
	"ewintr.nl/headlines/handler"
	"ewintr.nl/headlines/homepage"
	"ewintr.nl/headlines/model"
	"ewintr.nl/headlines/process"
	"ewintr.nl/headlines/storage"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

func main() {
	for _, file := range []string{".env.local", ".env"} {
		_ = godotenv.Load(file)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(getParam("LOG_FORMAT", "text"), os.Stderr)

	videoRepo, waitlistRepo, closeStore, err := openStore(ctx, getParam("STORE_BACKEND", "postgres"), logger)
	if err != nil {
		logger.Error("unable to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	cacheTTL := getDuration(logger, "CACHE_TTL", "60s")
	cache, closeCache, err := openCache(getParam("REDIS_URL", ""), cacheTTL, logger)
	if err != nil {
		logger.Error("unable to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeCache()
	fetchTimeout := getDuration(logger, "FETCH_TIMEOUT", "10s")
	aggregator := homepage.NewAggregator(videoRepo, cache, fetchTimeout, time.Now, logger)

	ytClient, err := youtube.NewService(ctx, option.WithAPIKey(getParam("YOUTUBE_API_KEY", "")))
	if err != nil {
		logger.Error("unable to create youtube service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	procs := []process.VideoProcessor{process.NewYoutubeDescriber(fetcher.NewYoutube(ytClient))}
	if key := getParam("OPENAI_API_KEY", ""); key != "" {
		threshold, err := strconv.Atoi(getParam("SUMMARY_THRESHOLD", "600"))
		if err != nil {
			logger.Error("invalid summary threshold", slog.String("error", err.Error()))
			os.Exit(1)
		}
		procs = append(procs, process.NewCondenser(fetcher.NewOpenAI(key), threshold))
	}
	describer := process.NewPipeline(logger, procs...)

	adm := admin.New(videoRepo, aggregator, describer, fetchTimeout, time.Now, logger)

	scheduleInterval := getDuration(logger, "SCHEDULE_INTERVAL", "1m")
	if scheduleInterval <= 0 {
		logger.Error("schedule interval must be positive", slog.Duration("interval", scheduleInterval))
		os.Exit(1)
	}
	watcher := admin.NewWatcher(videoRepo, scheduleInterval, time.Now, func(ctx context.Context, _ model.Video) {
		aggregator.Invalidate(ctx)
	}, logger)
	go watcher.Run(ctx)
	logger.Info("schedule watcher started")

	waitlistRate, err := strconv.ParseFloat(getParam("WAITLIST_RATE", "5"), 64)
	if err != nil {
		logger.Error("invalid waitlist rate", slog.String("error", err.Error()))
		os.Exit(1)
	}
	port, err := strconv.Atoi(getParam("API_PORT", "8080"))
	if err != nil {
		logger.Error("invalid port", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", port),
		Handler: handler.NewServer(aggregator, adm, waitlistRepo, fetcher.NewOEmbed(nil, ""), handler.Options{
			AdminToken:    getParam("ADMIN_TOKEN", ""),
			WaitlistRate:  rate.Limit(waitlistRate),
			WaitlistBurst: int(waitlistRate) + 1,
		}, logger),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      3*fetchTimeout + 5*time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
			stop()
		}
	}()
	logger.Info("http server started", slog.Int("port", port))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("service stopped")
}

func newLogger(format string, w io.Writer) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w))
	}
	return slog.New(slog.NewTextHandler(w))
}

func openStore(ctx context.Context, backend string, logger *slog.Logger) (storage.VideoRepository, storage.WaitlistRepository, func(), error) {
	switch backend {
	case "postgres":
		postgres, err := storage.NewPostgres(storage.PostgresInfo{
			Host:     getParam("POSTGRES_HOST", "localhost"),
			Port:     getParam("POSTGRES_PORT", "5432"),
			User:     getParam("POSTGRES_USER", "headlines"),
			Password: getParam("POSTGRES_PASSWORD", "headlines"),
			Database: getParam("POSTGRES_DB", "headlines"),
		})
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using postgres store")
		return storage.NewPostgresVideoRepository(postgres), storage.NewPostgresWaitlistRepository(postgres), func() { postgres.Close() }, nil
	case "firestore":
		fs, err := storage.NewFirestore(ctx, getParam("FIRESTORE_PROJECT", ""), logger)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using firestore store")
		return fs, fs, func() { fs.Close() }, nil
	case "memory":
		logger.Warn("using in-memory store, data is lost on restart")
		mem := storage.NewMemory()
		return mem, mem, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func openCache(redisURL string, ttl time.Duration, logger *slog.Logger) (homepage.Cache, func(), error) {
	switch {
	case ttl <= 0:
		return homepage.NoCache{}, func() {}, nil
	case redisURL != "":
		rc, err := homepage.NewRedisCache(redisURL, "headlines:", ttl, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis cache")
		return rc, func() { rc.Close() }, nil
	default:
		return homepage.NewMemoryCache(ttl, time.Now), func() {}, nil
	}
}

func getDuration(logger *slog.Logger, param, def string) time.Duration {
	d, err := time.ParseDuration(getParam(param, def))
	if err != nil {
		logger.Error("unable to parse duration", slog.String("param", param), slog.String("error", err.Error()))
		os.Exit(1)
	}
	return d
}

func getParam(param, def string) string {
	if val, ok := os.LookupEnv(param); ok {
		return val
	}
	return def
}
