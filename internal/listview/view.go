package listview

// Derived is the result rendered by a list screen. It is recomputed from
// the source collection, the criteria and the current page and never
// stored.
type Derived[T any] struct {
	Filtered   []T        `json:"-"`
	Items      []T        `json:"items"`
	Stats      Stats      `json:"stats"`
	Pagination Pagination `json:"pagination"`
	Criteria   Criteria   `json:"filters"`
}

// View owns the filter state and pagination of one list over a source
// collection. It is not safe for concurrent use; each request or screen
// builds its own.
type View[T any] struct {
	schema   *Schema[T]
	source   []T
	criteria Criteria
	pager    *Paginator

	filtered []T
	stats    Stats
}

func NewView[T any](schema *Schema[T], source []T) *View[T] {
	v := &View[T]{
		schema: schema,
		source: source,
		pager:  NewPaginator(schema.pageSize()),
	}
	v.recompute()
	return v
}

// WithPageSize overrides the schema's page size and returns to page 1.
func (v *View[T]) WithPageSize(n int) *View[T] {
	if n > 0 {
		v.pager = NewPaginator(n)
		v.pager.SetTotal(len(v.filtered))
	}
	return v
}

// SetSource replaces the source collection, e.g. after a mutation. The
// current page is kept unless it no longer exists.
func (v *View[T]) SetSource(items []T) {
	v.source = items
	v.recompute()
}

// SetField replaces one filter field and returns to page 1.
func (v *View[T]) SetField(key, value string) {
	apply(v.schema, &v.criteria, key, value)
	v.pager.Reset()
	v.recompute()
}

// SetFields applies several fields as one change.
func (v *View[T]) SetFields(fields map[string]string) {
	for k, val := range fields {
		apply(v.schema, &v.criteria, k, val)
	}
	v.pager.Reset()
	v.recompute()
}

// Reset restores every filter field to its default.
func (v *View[T]) Reset() {
	v.criteria = Criteria{}
	v.pager.Reset()
	v.recompute()
}

func (v *View[T]) GoToPage(n int) int { return v.pager.GoToPage(n) }
func (v *View[T]) Next() int          { return v.pager.Next() }
func (v *View[T]) Previous() int      { return v.pager.Previous() }

func (v *View[T]) Criteria() Criteria { return v.criteria.Clone() }

func (v *View[T]) Derived() Derived[T] {
	return Derived[T]{
		Filtered:   v.filtered,
		Items:      Slice(v.filtered, v.pager.Page(), v.pager.PageSize()),
		Stats:      v.stats,
		Pagination: v.pager.State(),
		Criteria:   v.criteria.Clone(),
	}
}

func (v *View[T]) recompute() {
	v.filtered = Filter(v.schema, v.source, v.criteria)
	v.stats = Summarize(v.schema, v.filtered)
	v.pager.SetTotal(len(v.filtered))
}
