package homepage

import "ewintr.nl/headlines/model"

type Buckets struct {
	Featured []model.Video
	Left     []model.Video
	Center   []model.Video
	Right    []model.Video
}

// Partition puts every video in exactly one bucket. Unknown positions go to Left, the same
// fallback the default category table uses.
func Partition(videos []model.Video) Buckets {
	var b Buckets
	for _, v := range videos {
		switch model.ParsePosition(string(v.PositionType)) {
		case model.PositionFeatured:
			b.Featured = append(b.Featured, v)
		case model.PositionCenter:
			b.Center = append(b.Center, v)
		case model.PositionRight:
			b.Right = append(b.Right, v)
		default:
			b.Left = append(b.Left, v)
		}
	}

	return b
}

func (b Buckets) Column(p model.Position) []model.Video {
	switch p {
	case model.PositionFeatured:
		return b.Featured
	case model.PositionCenter:
		return b.Center
	case model.PositionRight:
		return b.Right
	default:
		return b.Left
	}
}
