package crud

import (
	"context"

	"marketplace-be/internal/listview"
	"marketplace-be/internal/metrics"

	"go.uber.org/zap"
)

// Query is one list request: raw filter fields as they arrive from the
// client plus the requested page.
type Query struct {
	Fields   map[string]string
	Page     int
	PageSize int
}

// With returns a copy of q whose field key is forced to value, overriding
// whatever the client sent.
func (q Query) With(key, value string) Query {
	fields := make(map[string]string, len(q.Fields)+1)
	for k, v := range q.Fields {
		fields[k] = v
	}
	fields[key] = value
	q.Fields = fields
	return q
}

// Query loads the source collection and derives the requested page of it.
func (h *Handler[T]) Query(ctx context.Context, schema *listview.Schema[T], q Query) (listview.Derived[T], error) {
	timer := metrics.StartTimer()

	items, err := h.List(ctx)
	if err != nil {
		return listview.Derived[T]{}, err
	}

	view := listview.NewView(schema, items).WithPageSize(q.PageSize)
	view.SetFields(q.Fields)
	if q.Page > 1 {
		view.GoToPage(q.Page)
	}
	d := view.Derived()

	h.metrics.ObserveList(h.kind, len(d.Filtered), timer.Duration())
	h.log(ctx, "Query").Debug("list derived",
		zap.Int("source", len(items)),
		zap.Int("filtered", len(d.Filtered)),
		zap.Bool("constrained", !view.Criteria().IsZero()),
		zap.Int("page", d.Pagination.Page),
	)
	return d, nil
}
