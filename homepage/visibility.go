package homepage

import (
	"time"

	"ewintr.nl/headlines/model"
)

// IsVisible reports whether a video may be shown publicly at now. A schedule that is due
// exactly now counts as published.
func IsVisible(video model.Video, now time.Time) bool {
	if video.ScheduledAt == nil {
		return true
	}
	return !video.ScheduledAt.After(now)
}

func FilterVisible(videos []model.Video, now time.Time) []model.Video {
	visible := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if IsVisible(v, now) {
			visible = append(visible, v)
		}
	}

	return visible
}
