package homepage

import (
	"sort"

	"ewintr.nl/headlines/model"
)

const PageSize = 10

type Page struct {
	Items       []model.Video
	CurrentPage int
	TotalPages  int
}

// TotalPages never returns less than one, an empty column still has a first page.
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// SortNewestFirst sorts in place on CreatedAt descending. Equal timestamps keep the order
// the store returned them in.
func SortNewestFirst(videos []model.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})
}

// Paginate slices a sorted column. Pages are 1-based and not clamped: a page outside the
// range gives an empty slice, not an error.
func Paginate(videos []model.Video, page, size int) Page {
	p := Page{
		Items:       []model.Video{},
		CurrentPage: page,
		TotalPages:  TotalPages(len(videos), size),
	}
	if page < 1 || size <= 0 || page > (len(videos)+size-1)/size {
		return p
	}
	start := (page - 1) * size
	end := start + size
	if end > len(videos) {
		end = len(videos)
	}
	p.Items = videos[start:end]

	return p
}
