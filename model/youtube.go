package model

import (
	"fmt"
	"regexp"
	"strings"
)

var youtubeIDRE = regexp.MustCompile(`(?:youtube(?:-nocookie)?\.com/(?:watch\?(?:.*&)?v=|embed/|shorts/|live/|v/)|youtu\.be/)([A-Za-z0-9_-]{11})`)

func ExtractYoutubeID(url string) (YoutubeVideoID, error) {
	m := youtubeIDRE.FindStringSubmatch(strings.TrimSpace(url))
	if len(m) < 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, url)
	}
	return YoutubeVideoID(m[1]), nil
}

func ThumbnailFor(id YoutubeVideoID) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", id)
}

func WatchURL(id YoutubeVideoID) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
}
