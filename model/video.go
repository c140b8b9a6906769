package model

import "time"

type VideoStatus string

const (
	StatusScheduled VideoStatus = "scheduled"
	StatusPublished VideoStatus = "published"
)

type YoutubeVideoID string

type Video struct {
	ID             string     `json:"id"`
	YoutubeURL     string     `json:"youtubeURL"`
	CustomHeadline string     `json:"customHeadline"`
	PositionType   Position   `json:"positionType"`
	Category       string     `json:"category,omitempty"`
	ThumbnailURL   string     `json:"thumbnailURL,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	ScheduledAt    *time.Time `json:"scheduledAt,omitempty"`
	Description    string     `json:"description,omitempty"`
}

func (v Video) YoutubeID() (YoutubeVideoID, error) {
	return ExtractYoutubeID(v.YoutubeURL)
}

// DisplayCategory is the explicit category, or the default for the video's position.
func (v Video) DisplayCategory() string {
	if v.Category != "" {
		return v.Category
	}
	return DefaultCategory(v.PositionType)
}

// Thumbnail is the explicit thumbnail, or the one YouTube hosts for the video id.
func (v Video) Thumbnail() string {
	if v.ThumbnailURL != "" {
		return v.ThumbnailURL
	}
	id, err := v.YoutubeID()
	if err != nil {
		return ""
	}
	return ThumbnailFor(id)
}

// Status is computed at read time, nothing flips a stored flag when a schedule passes.
func (v Video) Status(now time.Time) VideoStatus {
	if v.ScheduledAt != nil && v.ScheduledAt.After(now) {
		return StatusScheduled
	}
	return StatusPublished
}
