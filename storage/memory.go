package storage

import (
	"context"
	"fmt"
	"sync"

	"ewintr.nl/headlines/model"
	"github.com/google/uuid"
)

type Memory struct {
	mu       sync.RWMutex
	order    []string
	videos   map[string]model.Video
	waitlist []model.WaitlistEntry
}

func NewMemory() *Memory {
	return &Memory{
		videos: map[string]model.Video{},
	}
}

func (m *Memory) List(_ context.Context) ([]model.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	videos := make([]model.Video, 0, len(m.order))
	for _, id := range m.order {
		videos = append(videos, copyVideo(m.videos[id]))
	}

	return videos, nil
}

func (m *Memory) Get(_ context.Context, id string) (model.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	video, ok := m.videos[id]
	if !ok {
		return model.Video{}, fmt.Errorf("video %s: %w", id, model.ErrNotFound)
	}

	return copyVideo(video), nil
}

func (m *Memory) Insert(_ context.Context, video model.Video) (model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	video.ID = uuid.New().String()
	m.videos[video.ID] = copyVideo(video)
	m.order = append(m.order, video.ID)

	return video, nil
}

func (m *Memory) Update(_ context.Context, video model.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.videos[video.ID]; !ok {
		return fmt.Errorf("video %s: %w", video.ID, model.ErrNotFound)
	}
	m.videos[video.ID] = copyVideo(video)

	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.videos[id]; !ok {
		return fmt.Errorf("video %s: %w", id, model.ErrNotFound)
	}
	delete(m.videos, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return nil
}

func (m *Memory) Add(_ context.Context, entry model.WaitlistEntry) (model.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = uuid.New().String()
	m.waitlist = append(m.waitlist, entry)

	return entry, nil
}

func (m *Memory) Waitlist() []model.WaitlistEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]model.WaitlistEntry{}, m.waitlist...)
}

func copyVideo(v model.Video) model.Video {
	if v.ScheduledAt != nil {
		at := *v.ScheduledAt
		v.ScheduledAt = &at
	}
	return v
}
