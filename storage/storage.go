package storage

import (
	"context"

	"ewintr.nl/headlines/model"
)

// VideoRepository is the document store boundary. Implementations return
// model.ErrNotFound for ids they do not know.
type VideoRepository interface {
	List(ctx context.Context) ([]model.Video, error)
	Get(ctx context.Context, id string) (model.Video, error)
	Insert(ctx context.Context, video model.Video) (model.Video, error)
	Update(ctx context.Context, video model.Video) error
	Delete(ctx context.Context, id string) error
}

type WaitlistRepository interface {
	Add(ctx context.Context, entry model.WaitlistEntry) (model.WaitlistEntry, error)
}
