package listview

import (
	"strconv"
	"strings"
)

// Query parameter names understood by SetField besides dimension and range
// names.
const (
	FieldQuery  = "q"
	FieldSearch = "search"
	FieldSort   = "sort"

	minSuffix = "_min"
	maxSuffix = "_max"
)

// RangeBounds constrains one range field, either by a predefined bucket or
// by explicit inclusive bounds.
type RangeBounds struct {
	Bucket string   `json:"bucket,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

func (b RangeBounds) empty() bool {
	return b.Bucket == "" && b.Min == nil && b.Max == nil
}

// Criteria is pure predicate configuration. The zero value matches
// everything.
type Criteria struct {
	Query  string                 `json:"q,omitempty"`
	Equals map[string]string      `json:"equals,omitempty"`
	Ranges map[string]RangeBounds `json:"ranges,omitempty"`
	Sort   string                 `json:"sort,omitempty"`
}

// IsZero reports whether no constraint is set.
func (c Criteria) IsZero() bool {
	return c.Query == "" && len(c.Equals) == 0 && len(c.Ranges) == 0 && c.Sort == ""
}

// Clone returns a deep copy so callers cannot mutate a view's state.
func (c Criteria) Clone() Criteria {
	out := Criteria{Query: c.Query, Sort: c.Sort}
	if len(c.Equals) > 0 {
		out.Equals = make(map[string]string, len(c.Equals))
		for k, v := range c.Equals {
			out.Equals[k] = v
		}
	}
	if len(c.Ranges) > 0 {
		out.Ranges = make(map[string]RangeBounds, len(c.Ranges))
		for k, v := range c.Ranges {
			out.Ranges[k] = v
		}
	}
	return out
}

// apply sets one field of c, coercing the raw value. Values that cannot be
// interpreted leave the field unconstrained; unknown keys are ignored.
func apply[T any](s *Schema[T], c *Criteria, key, value string) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case FieldQuery, FieldSearch:
		c.Query = value
		return
	case FieldSort:
		c.Sort = ""
		if _, ok := s.sortKey(strings.TrimPrefix(value, "-")); ok {
			c.Sort = value
		}
		return
	}

	if _, ok := s.dimension(key); ok {
		if IsUnconstrained(value) {
			delete(c.Equals, key)
			return
		}
		if c.Equals == nil {
			c.Equals = make(map[string]string)
		}
		c.Equals[key] = value
		return
	}

	if rf, ok := s.rangeField(key); ok {
		b := c.Ranges[key]
		b.Bucket = ""
		if _, known := rf.bucket(value); known && !IsUnconstrained(value) {
			b.Bucket = value
		}
		setRange(c, key, b)
		return
	}

	for _, suffix := range []string{minSuffix, maxSuffix} {
		name, found := strings.CutSuffix(key, suffix)
		if !found {
			continue
		}
		if _, ok := s.rangeField(name); !ok {
			return
		}
		b := c.Ranges[name]
		n := parseNumber(value)
		if suffix == minSuffix {
			b.Min = n
		} else {
			b.Max = n
		}
		setRange(c, name, b)
		return
	}
}

func setRange(c *Criteria, name string, b RangeBounds) {
	if b.empty() {
		delete(c.Ranges, name)
		return
	}
	if c.Ranges == nil {
		c.Ranges = make(map[string]RangeBounds)
	}
	c.Ranges[name] = b
}

func parseNumber(v string) *float64 {
	if IsUnconstrained(v) {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &n
}
