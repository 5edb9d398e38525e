package listing

// Pagination is what the page controls render.
type Pagination struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

// TotalPages is ceil(count / pageSize).
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage keeps page inside [1, totalPages]. With no pages it returns 0,
// the disabled-navigation state.
func ClampPage(page, totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	return min(max(page, 1), totalPages)
}

func Paginate(page, count, pageSize int) Pagination {
	total := TotalPages(count, pageSize)
	current := ClampPage(page, total)
	return Pagination{
		Page:       current,
		TotalPages: total,
		HasPrev:    current > 1,
		HasNext:    current > 0 && current < total,
	}
}
