package models

type Genre struct {
	ID   int    `json:"genreId"`
	Name string `json:"name"`
}

type Platform struct {
	ID   int    `json:"platformId"`
	Name string `json:"name"`
}

// GenreName resolves id against genres, "Unknown" when absent.
func GenreName(genres []Genre, id int) string {
	for _, g := range genres {
		if g.ID == id {
			return g.Name
		}
	}
	return "Unknown"
}

// PlatformNames resolves ids in order, skipping ids that are not listed.
func PlatformNames(platforms []Platform, ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, p := range platforms {
			if p.ID == id {
				names = append(names, p.Name)
				break
			}
		}
	}
	return names
}
