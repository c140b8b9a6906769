package homepage

import "ewintr.nl/headlines/model"

type CategoryGroup struct {
	Name   string        `json:"name"`
	Videos []model.Video `json:"videos"`
}

// GroupByCategory keeps categories in the order their first video appears and keeps the
// input order inside each category.
func GroupByCategory(videos []model.Video) []CategoryGroup {
	groups := []CategoryGroup{}
	index := map[string]int{}
	for _, v := range videos {
		name := v.DisplayCategory()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CategoryGroup{Name: name})
		}
		groups[i].Videos = append(groups[i].Videos, v)
	}

	return groups
}
