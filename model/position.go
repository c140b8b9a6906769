package model

import "strings"

type Position string

const (
	PositionFeatured Position = "featured"
	PositionLeft     Position = "left"
	PositionCenter   Position = "center"
	PositionRight    Position = "right"
)

// Columns are the paginated homepage columns, in display order.
var Columns = []Position{PositionLeft, PositionCenter, PositionRight}

// defaultCategories is shared by the homepage read path and the admin write path.
var defaultCategories = map[Position]string{
	PositionFeatured: "Featured",
	PositionLeft:     "Breaking News",
	PositionCenter:   "Trending Now",
	PositionRight:    "Entertainment",
}

func (p Position) Valid() bool {
	_, ok := defaultCategories[p]
	return ok
}

// ParsePosition never fails: anything it does not recognize is treated as left.
func ParsePosition(s string) Position {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return PositionLeft
	}
	return p
}

func DefaultCategory(p Position) string {
	if c, ok := defaultCategories[p]; ok {
		return c
	}
	return defaultCategories[PositionLeft]
}
