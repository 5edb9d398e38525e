// Package listing holds the catalog's filter/sort/page state and the
// coordinator that turns it into one outstanding catalog query.
package listing

import (
	"fmt"
	"slices"
	"strings"

	"gamehub/models"
)

type SortKey string

const (
	SortNone             SortKey = ""
	SortAlphabeticalAsc  SortKey = "ALPHABETICAL_ASC"
	SortAlphabeticalDesc SortKey = "ALPHABETICAL_DESC"
	SortPriceAsc         SortKey = "PRICE_ASC"
	SortPriceDesc        SortKey = "PRICE_DESC"
	SortRatingAsc        SortKey = "RATING_ASC"
	SortRatingDesc       SortKey = "RATING_DESC"
	SortCreatedAsc       SortKey = "CREATED_ASC"
	SortCreatedDesc      SortKey = "CREATED_DESC"
)

var sortKeys = []SortKey{
	SortAlphabeticalAsc, SortAlphabeticalDesc,
	SortPriceAsc, SortPriceDesc,
	SortRatingAsc, SortRatingDesc,
	SortCreatedAsc, SortCreatedDesc,
}

// ParseSortKey accepts any casing; "" selects no sort.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToUpper(strings.TrimSpace(s)))
	if key == SortNone || slices.Contains(sortKeys, key) {
		return key, nil
	}
	return SortNone, fmt.Errorf("unknown sort key %q", s)
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// FilterState is the user's current query intent for the catalog.
// Page is 1-based.
type FilterState struct {
	Search      string  `json:"search"`
	GenreIDs    []int   `json:"genreIds"`
	PlatformIDs []int   `json:"platformIds"`
	MaxPrice    int     `json:"maxPrice"`
	Sort        SortKey `json:"sort"`
	Page        int     `json:"page"`
	PageSize    int     `json:"pageSize"`
}

// Default is the state after "clear filters".
func Default(pageSize int) FilterState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return FilterState{
		GenreIDs:    []int{},
		PlatformIDs: []int{},
		MaxPrice:    models.MaxPrice,
		Sort:        SortCreatedAsc,
		Page:        1,
		PageSize:    pageSize,
	}
}

func (s *FilterState) SetSearch(text string) {
	s.Search = text
	s.Page = 1
}

func (s *FilterState) SetGenres(ids []int) {
	s.GenreIDs = normalizeIDs(ids)
	s.Page = 1
}

func (s *FilterState) SetPlatforms(ids []int) {
	s.PlatformIDs = normalizeIDs(ids)
	s.Page = 1
}

// SetMaxPrice clamps the ceiling into [0, models.MaxPrice].
func (s *FilterState) SetMaxPrice(price int) {
	s.MaxPrice = min(max(price, 0), models.MaxPrice)
	s.Page = 1
}

func (s *FilterState) SetSort(key SortKey) {
	s.Sort = key
	s.Page = 1
}

// SetPage does not touch any other field; values below 1 become 1.
func (s *FilterState) SetPage(page int) {
	s.Page = max(page, 1)
}

// SetPageSize resets the page since the page boundaries move.
func (s *FilterState) SetPageSize(size int) {
	s.PageSize = min(max(size, 1), MaxPageSize)
	s.Page = 1
}

// Clear keeps the page size and resets everything else.
func (s *FilterState) Clear() {
	*s = Default(s.PageSize)
}

// Offset is the zero-based index of the first result of the current page.
func (s FilterState) Offset() int {
	return (max(s.Page, 1) - 1) * s.PageSize
}

// Query derives the catalog request for the current state.
func (s FilterState) Query() models.GameQuery {
	price := s.MaxPrice
	return models.GameQuery{
		Q:           strings.TrimSpace(s.Search),
		GenreIDs:    slices.Clone(s.GenreIDs),
		PlatformIDs: slices.Clone(s.PlatformIDs),
		Price:       &price,
		SortBy:      string(s.Sort),
		StartIndex:  s.Offset(),
		Count:       s.PageSize,
	}
}

// normalizeIDs treats the selection as a set: sorted, no duplicates.
func normalizeIDs(ids []int) []int {
	out := slices.Clone(ids)
	if out == nil {
		return []int{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
