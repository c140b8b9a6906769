package admin_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"ewintr.nl/headlines/admin"
	"ewintr.nl/headlines/model"
	"ewintr.nl/headlines/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

var logger = slog.New(slog.NewTextHandler(io.Discard))

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type invalidatorStub struct {
	calls int
}

func (i *invalidatorStub) Invalidate(context.Context) { i.calls++ }

type describerStub struct {
	description string
	err         error
	calls       int
}

func (d *describerStub) Describe(_ context.Context, video *model.Video) error {
	d.calls++
	if d.err != nil {
		return d.err
	}
	video.Description = d.description
	return nil
}

type failingRepo struct {
	*storage.Memory
	failUpdate string
	failList   bool
}

func (f *failingRepo) Update(ctx context.Context, video model.Video) error {
	if video.ID == f.failUpdate {
		return errors.New("connection reset")
	}
	return f.Memory.Update(ctx, video)
}

func (f *failingRepo) List(ctx context.Context) ([]model.Video, error) {
	if f.failList {
		return nil, errors.New("connection reset")
	}
	return f.Memory.List(ctx)
}

func newAdmin(describer admin.Describer) (*admin.Admin, *storage.Memory, *invalidatorStub, *clock) {
	mem := storage.NewMemory()
	inv := &invalidatorStub{}
	clk := &clock{t: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	return admin.New(mem, inv, describer, 0, clk.now, logger), mem, inv, clk
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		a, _, inv, clk := newAdmin(nil)
		v, err := a.Create(ctx, admin.CreateInput{
			YoutubeURL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			CustomHeadline: "  Big news  ",
			PositionType:   "Right",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, v.ID)
		assert.Equal(t, "Big news", v.CustomHeadline)
		assert.Equal(t, model.PositionRight, v.PositionType)
		assert.Equal(t, "Entertainment", v.Category)
		assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", v.ThumbnailURL)
		assert.Equal(t, clk.t, v.CreatedAt)
		assert.Equal(t, 1, inv.calls)
	})

	t.Run("validation", func(t *testing.T) {
		for _, tc := range []struct {
			name string
			in   admin.CreateInput
			exp  error
		}{
			{
				name: "missing headline",
				in:   admin.CreateInput{YoutubeURL: "https://youtu.be/dQw4w9WgXcQ", PositionType: "left", CustomHeadline: "   "},
				exp:  model.ErrValidation,
			},
			{
				name: "unknown position",
				in:   admin.CreateInput{YoutubeURL: "https://youtu.be/dQw4w9WgXcQ", PositionType: "bottom", CustomHeadline: "h"},
				exp:  model.ErrValidation,
			},
			{
				name: "missing url",
				in:   admin.CreateInput{PositionType: "left", CustomHeadline: "h"},
				exp:  model.ErrValidation,
			},
			{
				name: "not youtube",
				in:   admin.CreateInput{YoutubeURL: "https://vimeo.com/12345", PositionType: "left", CustomHeadline: "h"},
				exp:  model.ErrInvalidURL,
			},
		} {
			t.Run(tc.name, func(t *testing.T) {
				a, mem, inv, _ := newAdmin(nil)
				_, err := a.Create(ctx, tc.in)
				assert.ErrorIs(t, err, tc.exp)
				all, _ := mem.List(ctx)
				assert.Empty(t, all)
				assert.Equal(t, 0, inv.calls)
			})
		}
	})
}

func TestCreateReplacesFeatured(t *testing.T) {
	ctx := context.Background()
	a, mem, _, clk := newAdmin(nil)

	first, err := a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/aaaaaaaaaaa", CustomHeadline: "first", PositionType: "featured"})
	require.NoError(t, err)
	clk.advance(time.Minute)
	second, err := a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/bbbbbbbbbbb", CustomHeadline: "second", PositionType: "featured", ReplaceCurrent: true})
	require.NoError(t, err)

	demoted, err := mem.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PositionCenter, demoted.PositionType)
	assert.Equal(t, "Trending Now", demoted.Category)
	assert.Equal(t, first.CreatedAt, demoted.CreatedAt)

	kept, err := mem.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PositionFeatured, kept.PositionType)
}

func TestCreateWithoutReplaceKeepsFeatured(t *testing.T) {
	ctx := context.Background()
	a, mem, _, clk := newAdmin(nil)

	first, err := a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/aaaaaaaaaaa", CustomHeadline: "first", PositionType: "featured"})
	require.NoError(t, err)
	clk.advance(time.Minute)
	_, err = a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/bbbbbbbbbbb", CustomHeadline: "second", PositionType: "featured"})
	require.NoError(t, err)

	still, err := mem.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PositionFeatured, still.PositionType)
}

func TestDemotionFailureIsReported(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	old, err := mem.Insert(ctx, model.Video{YoutubeURL: "https://youtu.be/aaaaaaaaaaa", CustomHeadline: "old", PositionType: model.PositionFeatured})
	require.NoError(t, err)

	repo := &failingRepo{Memory: mem, failUpdate: old.ID}
	inv := &invalidatorStub{}
	a := admin.New(repo, inv, nil, 0, nil, logger)

	created, err := a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/bbbbbbbbbbb", CustomHeadline: "new", PositionType: "featured", ReplaceCurrent: true})
	assert.ErrorIs(t, err, model.ErrUpstreamUnavailable)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, inv.calls)

	_, err = mem.Get(ctx, created.ID)
	assert.NoError(t, err)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	a, mem, inv, clk := newAdmin(nil)

	v, err := a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/aaaaaaaaaaa", CustomHeadline: "first", PositionType: "left"})
	require.NoError(t, err)
	created := v.CreatedAt
	clk.advance(time.Hour)

	t.Run("headline", func(t *testing.T) {
		headline := "changed"
		got, err := a.Update(ctx, v.ID, admin.UpdateInput{CustomHeadline: &headline})
		require.NoError(t, err)
		assert.Equal(t, "changed", got.CustomHeadline)
		assert.Equal(t, created, got.CreatedAt)

		stored, err := mem.Get(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, created, stored.CreatedAt)
	})

	t.Run("empty headline", func(t *testing.T) {
		headline := " "
		_, err := a.Update(ctx, v.ID, admin.UpdateInput{CustomHeadline: &headline})
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("position moves default category", func(t *testing.T) {
		pos := "center"
		got, err := a.Update(ctx, v.ID, admin.UpdateInput{PositionType: &pos})
		require.NoError(t, err)
		assert.Equal(t, model.PositionCenter, got.PositionType)
		assert.Equal(t, "Trending Now", got.Category)
	})

	t.Run("cleared category uses default", func(t *testing.T) {
		custom := "Sports"
		got, err := a.Update(ctx, v.ID, admin.UpdateInput{Category: &custom})
		require.NoError(t, err)
		assert.Equal(t, "Sports", got.Category)

		empty := ""
		got, err = a.Update(ctx, v.ID, admin.UpdateInput{Category: &empty})
		require.NoError(t, err)
		assert.Equal(t, "Trending Now", got.Category)
	})

	t.Run("new url regenerates derived thumbnail", func(t *testing.T) {
		url := "https://www.youtube.com/shorts/bbbbbbbbbbb"
		got, err := a.Update(ctx, v.ID, admin.UpdateInput{YoutubeURL: &url})
		require.NoError(t, err)
		assert.Equal(t, model.ThumbnailFor("bbbbbbbbbbb"), got.ThumbnailURL)
	})

	t.Run("invalid url", func(t *testing.T) {
		url := "https://example.com/video"
		_, err := a.Update(ctx, v.ID, admin.UpdateInput{YoutubeURL: &url})
		assert.ErrorIs(t, err, model.ErrInvalidURL)
	})

	t.Run("schedule and clear", func(t *testing.T) {
		when := clk.t.Add(24 * time.Hour)
		got, err := a.Update(ctx, v.ID, admin.UpdateInput{ScheduledAt: &when})
		require.NoError(t, err)
		require.NotNil(t, got.ScheduledAt)
		assert.Equal(t, when, *got.ScheduledAt)

		got, err = a.Update(ctx, v.ID, admin.UpdateInput{ClearSchedule: true})
		require.NoError(t, err)
		assert.Nil(t, got.ScheduledAt)
	})

	t.Run("missing", func(t *testing.T) {
		headline := "x"
		_, err := a.Update(ctx, "nope", admin.UpdateInput{CustomHeadline: &headline})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	assert.Greater(t, inv.calls, 1)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	a, mem, inv, _ := newAdmin(nil)

	v, err := a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/aaaaaaaaaaa", CustomHeadline: "first", PositionType: "left"})
	require.NoError(t, err)

	require.NoError(t, a.Delete(ctx, v.ID))
	_, err = mem.Get(ctx, v.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.NoError(t, a.Delete(ctx, v.ID))
	assert.Equal(t, 3, inv.calls)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	a, _, _, clk := newAdmin(nil)

	published, err := a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/aaaaaaaaaaa", CustomHeadline: "published", PositionType: "left"})
	require.NoError(t, err)
	clk.advance(time.Minute)
	future := clk.t.Add(time.Hour)
	scheduled, err := a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/bbbbbbbbbbb", CustomHeadline: "scheduled", PositionType: "left", ScheduledAt: &future})
	require.NoError(t, err)

	all, err := a.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, scheduled.ID, all[0].ID)
	assert.Equal(t, model.StatusScheduled, all[0].Status)
	assert.Equal(t, published.ID, all[1].ID)
	assert.Equal(t, model.StatusPublished, all[1].Status)

	only, err := a.List(ctx, model.StatusPublished)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, published.ID, only[0].ID)

	clk.advance(2 * time.Hour)
	only, err = a.List(ctx, model.StatusScheduled)
	require.NoError(t, err)
	assert.Empty(t, only)
}

func TestDescription(t *testing.T) {
	ctx := context.Background()

	t.Run("stored", func(t *testing.T) {
		desc := &describerStub{description: "fetched"}
		a, _, _, _ := newAdmin(desc)
		v, err := a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/aaaaaaaaaaa", CustomHeadline: "h", PositionType: "left", Description: "given"})
		require.NoError(t, err)

		got, err := a.Description(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, "given", got)
		assert.Equal(t, 0, desc.calls)
	})

	t.Run("fetched once", func(t *testing.T) {
		desc := &describerStub{description: "fetched"}
		a, mem, _, _ := newAdmin(desc)
		v, err := a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/aaaaaaaaaaa", CustomHeadline: "h", PositionType: "left"})
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			got, err := a.Description(ctx, v.ID)
			require.NoError(t, err)
			assert.Equal(t, "fetched", got)
		}
		assert.Equal(t, 1, desc.calls)

		stored, err := mem.Get(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, "fetched", stored.Description)
		assert.Equal(t, v.CreatedAt, stored.CreatedAt)
	})

	t.Run("fallback is not stored", func(t *testing.T) {
		desc := &describerStub{err: model.ErrUpstreamUnavailable}
		a, mem, _, _ := newAdmin(desc)
		v, err := a.Create(ctx, admin.CreateInput{YoutubeURL: "https://youtu.be/aaaaaaaaaaa", CustomHeadline: "Markets rally!", PositionType: "left"})
		require.NoError(t, err)

		got, err := a.Description(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, "Markets rally. Watch the full video on YouTube.", got)

		stored, err := mem.Get(ctx, v.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Description)
	})

	t.Run("missing", func(t *testing.T) {
		a, _, _, _ := newAdmin(nil)
		_, err := a.Description(ctx, "nope")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestListFailure(t *testing.T) {
	repo := &failingRepo{Memory: storage.NewMemory(), failList: true}
	a := admin.New(repo, &invalidatorStub{}, nil, 0, nil, logger)

	_, err := a.List(context.Background(), "")
	assert.ErrorIs(t, err, model.ErrUpstreamUnavailable)
}

type blockingDescriber struct{}

func (blockingDescriber) Describe(ctx context.Context, _ *model.Video) error {
	<-ctx.Done()
	return ctx.Err()
}

type blockingRepo struct {
	*storage.Memory
}

func (blockingRepo) List(ctx context.Context) ([]model.Video, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestTimeouts(t *testing.T) {
	ctx := context.Background()

	t.Run("describer", func(t *testing.T) {
		mem := storage.NewMemory()
		v, err := mem.Insert(ctx, model.Video{YoutubeURL: "https://youtu.be/aaaaaaaaaaa", CustomHeadline: "Slow", PositionType: model.PositionLeft})
		require.NoError(t, err)
		a := admin.New(mem, &invalidatorStub{}, blockingDescriber{}, 50*time.Millisecond, nil, logger)

		start := time.Now()
		got, err := a.Description(ctx, v.ID)
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)
		assert.Equal(t, "Slow. Watch the full video on YouTube.", got)
	})

	t.Run("store", func(t *testing.T) {
		a := admin.New(blockingRepo{Memory: storage.NewMemory()}, &invalidatorStub{}, nil, 50*time.Millisecond, nil, logger)

		start := time.Now()
		_, err := a.List(ctx, "")
		assert.ErrorIs(t, err, model.ErrUpstreamUnavailable)
		assert.Less(t, time.Since(start), 2*time.Second)
	})
}
