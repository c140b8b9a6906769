package homepage

import (
	"context"
	"fmt"
	"time"

	"ewintr.nl/headlines/model"
	"ewintr.nl/headlines/storage"
	"golang.org/x/exp/slog"
)

const DefaultFetchTimeout = 10 * time.Second

type PageRequest struct {
	Left   int
	Center int
	Right  int
}

func (pr PageRequest) page(p model.Position) int {
	switch p {
	case model.PositionCenter:
		return pr.Center
	case model.PositionRight:
		return pr.Right
	default:
		return pr.Left
	}
}

type PageInfo struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

type Columns struct {
	Left   []CategoryGroup `json:"left"`
	Center []CategoryGroup `json:"center"`
	Right  []CategoryGroup `json:"right"`
}

type PaginationInfo struct {
	Left   PageInfo `json:"left"`
	Center PageInfo `json:"center"`
	Right  PageInfo `json:"right"`
}

type View struct {
	Featured   *model.Video   `json:"featured"`
	Columns    Columns        `json:"columns"`
	Pagination PaginationInfo `json:"pagination"`
}

type Aggregator struct {
	videoRepo    storage.VideoRepository
	cache        Cache
	now          func() time.Time
	fetchTimeout time.Duration
	logger       *slog.Logger
}

func NewAggregator(videoRepo storage.VideoRepository, cache Cache, fetchTimeout time.Duration, now func() time.Time, logger *slog.Logger) *Aggregator {
	if cache == nil {
		cache = NoCache{}
	}
	if now == nil {
		now = time.Now
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Aggregator{
		videoRepo:    videoRepo,
		cache:        cache,
		now:          now,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Homepage builds the public view for the requested column pages. Visibility is evaluated
// on every call, also when the listing comes from the cache.
func (a *Aggregator) Homepage(ctx context.Context, req PageRequest) (*View, error) {
	all, err := a.allVideos(ctx)
	if err != nil {
		return nil, err
	}

	buckets := Partition(FilterVisible(all, a.now()))
	view := &View{
		Featured: latest(buckets.Featured),
	}
	for _, pos := range model.Columns {
		column := buckets.Column(pos)
		SortNewestFirst(column)
		page := Paginate(column, req.page(pos), PageSize)
		groups := GroupByCategory(page.Items)
		info := PageInfo{CurrentPage: page.CurrentPage, TotalPages: page.TotalPages}

		switch pos {
		case model.PositionLeft:
			view.Columns.Left, view.Pagination.Left = groups, info
		case model.PositionCenter:
			view.Columns.Center, view.Pagination.Center = groups, info
		case model.PositionRight:
			view.Columns.Right, view.Pagination.Right = groups, info
		}
	}

	return view, nil
}

// Featured is the featured slot on its own, for callers that do not need the columns.
func (a *Aggregator) Featured(ctx context.Context) (*model.Video, error) {
	all, err := a.allVideos(ctx)
	if err != nil {
		return nil, err
	}

	return latest(Partition(FilterVisible(all, a.now())).Featured), nil
}

func (a *Aggregator) Invalidate(ctx context.Context) {
	a.cache.Invalidate(ctx)
}

func (a *Aggregator) allVideos(ctx context.Context) ([]model.Video, error) {
	if videos, ok := a.cache.Get(ctx, allVideosKey); ok {
		return videos, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()
	videos, err := a.videoRepo.List(fetchCtx)
	if err != nil {
		a.logger.Error("could not list videos", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: list videos: %v", model.ErrUpstreamUnavailable, err)
	}
	a.cache.Set(ctx, allVideosKey, videos)
	a.logger.Debug("video listing refreshed", slog.Int("count", len(videos)))

	return videos, nil
}

// latest picks the most recently created video. Older featured records are superseded,
// not removed.
func latest(videos []model.Video) *model.Video {
	if len(videos) == 0 {
		return nil
	}
	best := videos[0]
	for _, v := range videos[1:] {
		if v.CreatedAt.After(best.CreatedAt) {
			best = v
		}
	}

	return &best
}
