// Package listview narrows, orders and pages in-memory collections.
//
// Every list endpoint loads a small collection and runs it through Apply with the
// criteria taken from the query string. Empty criteria never constrain the result.
package listview

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Filter reports whether a record passes. A nil Filter passes everything.
type Filter[T any] func(T) bool

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sorter maps a sort key to a comparator returning <0, 0 or >0.
type Sorter[T any] map[string]func(a, b T) int

// Query describes one view over a collection.
type Query[T any] struct {
	Filters  []Filter[T]
	SortKey  string
	Dir      Direction
	Page     int
	PageSize int
	// Cumulative returns every record up to the end of Page ("load more").
	Cumulative bool
}

// Page is the slice of records to render plus the numbers a pager needs.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalItems int  `json:"totalItems"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// DefaultPageSize is used when a query carries no usable page size.
const DefaultPageSize = 10

// Apply filters, sorts and pages items. The input slice is not modified.
func Apply[T any](items []T, q Query[T], sorter Sorter[T]) Page[T] {
	filtered := make([]T, 0, len(items))
	for _, it := range items {
		if matchAll(it, q.Filters) {
			filtered = append(filtered, it)
		}
	}

	if cmp, ok := sorter[q.SortKey]; ok && cmp != nil {
		if q.Dir == Desc {
			slices.SortStableFunc(filtered, func(a, b T) int { return -cmp(a, b) })
		} else {
			slices.SortStableFunc(filtered, cmp)
		}
	}

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(filtered)
	pages := int(math.Ceil(float64(total) / float64(size)))
	page := clamp(q.Page, 1, max(1, pages))

	start := (page - 1) * size
	end := min(start+size, total)
	if q.Cumulative {
		start = 0
	}
	if start > end {
		start = end
	}

	return Page[T]{
		Items:      filtered[start:end],
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
		HasMore:    page < pages,
	}
}

func matchAll[T any](it T, filters []Filter[T]) bool {
	for _, f := range filters {
		if f != nil && !f(it) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Contains matches records whose field contains needle, ignoring case.
func Contains[T any](field func(T) string, needle string) Filter[T] {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return nil
	}
	return func(it T) bool {
		return strings.Contains(strings.ToLower(field(it)), needle)
	}
}

// Equals matches records whose field equals want, ignoring case.
func Equals[T any](field func(T) string, want string) Filter[T] {
	want = strings.TrimSpace(want)
	if want == "" {
		return nil
	}
	return func(it T) bool {
		return strings.EqualFold(strings.TrimSpace(field(it)), want)
	}
}

// NumberEquals matches records whose field equals raw at cent precision.
// Malformed input imposes no constraint.
func NumberEquals[T any](field func(T) float64, raw string) Filter[T] {
	want, ok := ParseNumber(raw)
	if !ok {
		return nil
	}
	target := cents(want)
	return func(it T) bool {
		return cents(field(it)) == target
	}
}

// SameDay matches records whose timestamp falls on the calendar date of raw (UTC).
// raw may be a plain date or a full RFC 3339 timestamp. Malformed input imposes no constraint.
func SameDay[T any](field func(T) time.Time, raw string) Filter[T] {
	day, ok := ParseDay(raw)
	if !ok {
		return nil
	}
	return func(it T) bool {
		return field(it).UTC().Format(time.DateOnly) == day
	}
}

// ParseNumber reads a float, accepting a decimal comma.
func ParseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseDay returns the YYYY-MM-DD part of a date or timestamp.
func ParseDay(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC().Format(time.DateOnly), true
	}
	if len(raw) >= len(time.DateOnly) {
		if d, err := time.Parse(time.DateOnly, raw[:len(time.DateOnly)]); err == nil {
			return d.Format(time.DateOnly), true
		}
	}
	return "", false
}

func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}
