package listview

import (
	"net/url"
	"strconv"
	"strings"
)

// Params are the paging and ordering parts of a list request.
type Params struct {
	Page       int
	PageSize   int
	SortKey    string
	Dir        Direction
	Cumulative bool
}

// ParseParams reads page, pageSize, sort, dir and more from a query string.
// Malformed numbers fall back to defaults and pageSize is capped at maxSize.
func ParseParams(values url.Values, defaultSize, maxSize int) Params {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if maxSize < defaultSize {
		maxSize = defaultSize
	}

	p := Params{
		Page:     atoiOr(values.Get("page"), 1),
		PageSize: atoiOr(values.Get("pageSize"), defaultSize),
		SortKey:  strings.ToLower(strings.TrimSpace(values.Get("sort"))),
		Dir:      Asc,
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	if strings.EqualFold(values.Get("dir"), string(Desc)) {
		p.Dir = Desc
	}
	p.Cumulative, _ = strconv.ParseBool(values.Get("more"))
	return p
}

// Build assembles a Query from the params and the given filters.
func Build[T any](p Params, filters ...Filter[T]) Query[T] {
	return Query[T]{
		Filters:    filters,
		SortKey:    p.SortKey,
		Dir:        p.Dir,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Cumulative: p.Cumulative,
	}
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
