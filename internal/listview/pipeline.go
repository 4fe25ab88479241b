package listview

import (
	"slices"
	"strings"
)

// Stats aggregates the filtered subset, never the full collection.
type Stats struct {
	Total  int                       `json:"total"`
	Counts map[string]map[string]int `json:"counts"`
	Sums   map[string]float64        `json:"sums,omitempty"`
}

// Filter returns the items matching every active constraint, in source
// order, followed by the optional stable sort.
func Filter[T any](s *Schema[T], items []T, c Criteria) []T {
	query := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]T, 0, len(items))
	for _, it := range items {
		if !matchText(s, it, query) {
			continue
		}
		if !matchEquals(s, it, c.Equals) {
			continue
		}
		if !matchRanges(s, it, c.Ranges) {
			continue
		}
		out = append(out, it)
	}

	sortItems(s, out, c.Sort)
	return out
}

func matchText[T any](s *Schema[T], it T, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range s.Search {
		if strings.Contains(strings.ToLower(field(it)), query) {
			return true
		}
	}
	return false
}

func matchEquals[T any](s *Schema[T], it T, equals map[string]string) bool {
	for name, want := range equals {
		if IsUnconstrained(want) {
			continue
		}
		d, ok := s.dimension(name)
		if !ok {
			continue
		}
		if d.Value(it) != want {
			return false
		}
	}
	return true
}

func matchRanges[T any](s *Schema[T], it T, ranges map[string]RangeBounds) bool {
	for name, bounds := range ranges {
		rf, ok := s.rangeField(name)
		if !ok {
			continue
		}
		v := rf.Value(it)
		if bounds.Bucket != "" {
			if b, known := rf.bucket(bounds.Bucket); known && !b.Contains(v) {
				return false
			}
		}
		if bounds.Min != nil && v < *bounds.Min {
			return false
		}
		if bounds.Max != nil && v > *bounds.Max {
			return false
		}
	}
	return true
}

func sortItems[T any](s *Schema[T], items []T, sortBy string) {
	if sortBy == "" {
		return
	}
	desc := strings.HasPrefix(sortBy, "-")
	key, ok := s.sortKey(strings.TrimPrefix(sortBy, "-"))
	if !ok {
		return
	}

	slices.SortStableFunc(items, func(a, b T) int {
		x, y := a, b
		if desc {
			x, y = b, a
		}
		switch {
		case key.Less(x, y):
			return -1
		case key.Less(y, x):
			return 1
		default:
			return 0
		}
	})
}

// Summarize counts the filtered items per dimension value and sums every
// measure.
func Summarize[T any](s *Schema[T], filtered []T) Stats {
	st := Stats{
		Total:  len(filtered),
		Counts: make(map[string]map[string]int, len(s.Dimensions)),
	}

	for _, d := range s.Dimensions {
		counts := make(map[string]int, len(d.Values))
		for _, v := range d.Values {
			counts[v] = 0
		}
		for _, it := range filtered {
			counts[d.Value(it)]++
		}
		st.Counts[d.Name] = counts
	}

	if len(s.Measures) > 0 {
		st.Sums = make(map[string]float64, len(s.Measures))
		for _, m := range s.Measures {
			var sum float64
			for _, it := range filtered {
				sum += m.Value(it)
			}
			st.Sums[m.Name] = sum
		}
	}

	return st
}

// Slice returns the 1-based page of items.
func Slice[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 || page < 1 {
		return []T{}
	}
	start := pageSize * (page - 1)
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}
