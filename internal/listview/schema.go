package listview

import (
	"strings"
)

// Sentinel filter values the screens use for "no constraint".
const (
	AllValue   = "all"
	AllValueVI = "Tất cả"
)

// DefaultPageSize is used when a schema does not set its own.
const DefaultPageSize = 10

// IsUnconstrained reports whether a raw filter value means "match anything".
func IsUnconstrained(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, AllValue) || v == AllValueVI
}

// Dimension is a categorical attribute used for equality filters and
// grouped counts. Values lists the known values so that stats report
// zero counts for them.
type Dimension[T any] struct {
	Name   string
	Value  func(T) string
	Values []string
}

// Bucket is a predefined numeric interval. Min is inclusive, Max is
// exclusive; a nil bound is open.
type Bucket struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

func (b Bucket) Contains(v float64) bool {
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v >= *b.Max {
		return false
	}
	return true
}

// Between builds a bucket for [min, max).
func Between(key, label string, min, max float64) Bucket {
	return Bucket{Key: key, Label: label, Min: &min, Max: &max}
}

// Below builds a bucket for (-inf, max).
func Below(key, label string, max float64) Bucket {
	return Bucket{Key: key, Label: label, Max: &max}
}

// AtLeast builds a bucket for [min, +inf).
func AtLeast(key, label string, min float64) Bucket {
	return Bucket{Key: key, Label: label, Min: &min}
}

// RangeField is a numeric (or date, as unix seconds) attribute filtered by
// fixed buckets or explicit bounds.
type RangeField[T any] struct {
	Name    string
	Value   func(T) float64
	Buckets []Bucket
}

func (r RangeField[T]) bucket(key string) (Bucket, bool) {
	for _, b := range r.Buckets {
		if b.Key == key {
			return b, true
		}
	}
	return Bucket{}, false
}

// SortKey orders items ascending; descending order is requested with a
// "-" prefix on the criteria's sort value.
type SortKey[T any] struct {
	Name string
	Less func(a, b T) bool
}

// Measure is summed over the filtered subset.
type Measure[T any] struct {
	Name  string
	Value func(T) float64
}

// Schema describes how one kind of item is searched, filtered, sorted and
// summarized.
type Schema[T any] struct {
	Search     []func(T) string
	Dimensions []Dimension[T]
	Ranges     []RangeField[T]
	Sorts      []SortKey[T]
	Measures   []Measure[T]
	PageSize   int
}

func (s *Schema[T]) pageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return DefaultPageSize
}

func (s *Schema[T]) dimension(name string) (Dimension[T], bool) {
	for _, d := range s.Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return Dimension[T]{}, false
}

func (s *Schema[T]) rangeField(name string) (RangeField[T], bool) {
	for _, r := range s.Ranges {
		if r.Name == name {
			return r, true
		}
	}
	return RangeField[T]{}, false
}

func (s *Schema[T]) sortKey(name string) (SortKey[T], bool) {
	for _, k := range s.Sorts {
		if k.Name == name {
			return k, true
		}
	}
	return SortKey[T]{}, false
}
