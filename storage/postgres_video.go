package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ewintr.nl/headlines/model"
	"github.com/google/uuid"
)

type PostgresVideoRepository struct {
	*Postgres
}

func NewPostgresVideoRepository(postgres *Postgres) *PostgresVideoRepository {
	return &PostgresVideoRepository{postgres}
}

const videoColumns = `id, youtube_url, custom_headline, position_type, category, thumbnail_url, description, created_at, scheduled_at`

func (p *PostgresVideoRepository) List(ctx context.Context) ([]model.Video, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+videoColumns+` FROM video`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	return videos, rows.Err()
}

func (p *PostgresVideoRepository) Get(ctx context.Context, id string) (model.Video, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Video{}, fmt.Errorf("video %s: %w", id, model.ErrNotFound)
	}
	row := p.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM video WHERE id = $1`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Video{}, fmt.Errorf("video %s: %w", id, model.ErrNotFound)
	}

	return video, err
}

func (p *PostgresVideoRepository) Insert(ctx context.Context, video model.Video) (model.Video, error) {
	video.ID = uuid.New().String()
	query := `INSERT INTO video (` + videoColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := p.db.ExecContext(ctx, query,
		video.ID,
		video.YoutubeURL,
		video.CustomHeadline,
		string(video.PositionType),
		video.Category,
		video.ThumbnailURL,
		video.Description,
		video.CreatedAt,
		nullTime(video.ScheduledAt),
	); err != nil {
		return model.Video{}, err
	}

	return video, nil
}

// Update leaves created_at alone, whatever the caller put in video.CreatedAt.
func (p *PostgresVideoRepository) Update(ctx context.Context, video model.Video) error {
	if _, err := uuid.Parse(video.ID); err != nil {
		return fmt.Errorf("video %s: %w", video.ID, model.ErrNotFound)
	}
	query := `UPDATE video
SET youtube_url = $2, custom_headline = $3, position_type = $4, category = $5,
thumbnail_url = $6, description = $7, scheduled_at = $8
WHERE id = $1`
	res, err := p.db.ExecContext(ctx, query,
		video.ID,
		video.YoutubeURL,
		video.CustomHeadline,
		string(video.PositionType),
		video.Category,
		video.ThumbnailURL,
		video.Description,
		nullTime(video.ScheduledAt),
	)
	if err != nil {
		return err
	}

	return affected(res, video.ID)
}

func (p *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("video %s: %w", id, model.ErrNotFound)
	}
	res, err := p.db.ExecContext(ctx, `DELETE FROM video WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return affected(res, id)
}

type PostgresWaitlistRepository struct {
	*Postgres
}

func NewPostgresWaitlistRepository(postgres *Postgres) *PostgresWaitlistRepository {
	return &PostgresWaitlistRepository{postgres}
}

func (p *PostgresWaitlistRepository) Add(ctx context.Context, entry model.WaitlistEntry) (model.WaitlistEntry, error) {
	entry.ID = uuid.New().String()
	query := `INSERT INTO waitlist (id, name, email, channel_url, created_at)
VALUES ($1, $2, $3, $4, $5)`
	if _, err := p.db.ExecContext(ctx, query, entry.ID, entry.Name, entry.Email, entry.ChannelURL, entry.CreatedAt); err != nil {
		return model.WaitlistEntry{}, err
	}

	return entry, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner) (model.Video, error) {
	var (
		video       model.Video
		position    string
		scheduledAt sql.NullTime
	)
	if err := row.Scan(
		&video.ID,
		&video.YoutubeURL,
		&video.CustomHeadline,
		&position,
		&video.Category,
		&video.ThumbnailURL,
		&video.Description,
		&video.CreatedAt,
		&scheduledAt,
	); err != nil {
		return model.Video{}, err
	}
	video.PositionType = model.ParsePosition(position)
	video.CreatedAt = video.CreatedAt.UTC()
	if scheduledAt.Valid {
		at := scheduledAt.Time.UTC()
		video.ScheduledAt = &at
	}

	return video, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func affected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("video %s: %w", id, model.ErrNotFound)
	}

	return nil
}
