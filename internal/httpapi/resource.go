package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/export"
	"marketplace-be/internal/listview"
	"marketplace-be/internal/metrics"
	"marketplace-be/internal/middleware"
	"marketplace-be/internal/utils"

	"github.com/gorilla/mux"
)

// Service is what every management screen is built on.
type Service[T any] interface {
	List(ctx context.Context, q crud.Query) (listview.Derived[T], error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, patch crud.Patch) (T, error)
	Delete(ctx context.Context, id string) error
}

// access lists the roles allowed per operation. A nil list lets anyone
// through, anonymous callers included.
type access struct {
	read   []string
	create []string
	write  []string
}

// resource serves the list, CRUD and export endpoints of one collection.
type resource[T any] struct {
	name     string
	kind     string
	service  Service[T]
	columns  []export.Column[T]
	pageSize int
	access   access

	// scope narrows a list to what the caller may see.
	scope func(c caller, q crud.Query) crud.Query
	// visible hides single items from callers; hidden items are reported
	// as not found.
	visible func(c caller, item T) bool
	// owns gates update and delete beyond the role check.
	owns func(c caller, item T) bool
	// prepare adjusts a new item for the caller.
	prepare func(c caller, item T) T
	// preparePatch drops fields the caller may not change.
	preparePatch func(c caller, p crud.Patch) crud.Patch
	redact       func(T) T

	sink    export.Sink
	metrics *metrics.Collector
}

type listResponse[T any] struct {
	Items      []T               `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	TotalItems int               `json:"totalItems"`
	Stats      listview.Stats    `json:"stats"`
	Filters    listview.Criteria `json:"filters"`
}

func guarded(roles []string, h http.HandlerFunc) http.Handler {
	if roles == nil {
		return h
	}
	return middleware.RequireRole(roles...)(h)
}

func (res *resource[T]) register(r *mux.Router) {
	base := "/api/" + res.name

	r.Handle(base, guarded(res.access.read, res.list)).Methods(http.MethodGet)
	r.Handle(base, guarded(res.access.create, res.create)).Methods(http.MethodPost)
	r.Handle(base+"/export.csv", guarded(res.access.read, res.exportCSV)).Methods(http.MethodGet)
	r.Handle(base+"/exports", guarded(res.access.read, res.archive)).Methods(http.MethodPost)
	r.Handle(base+"/{id}", guarded(res.access.read, res.get)).Methods(http.MethodGet)
	r.Handle(base+"/{id}", guarded(res.access.write, res.update)).Methods(http.MethodPatch)
	r.Handle(base+"/{id}", guarded(res.access.write, res.delete)).Methods(http.MethodDelete)
}

func (res *resource[T]) query(r *http.Request) crud.Query {
	q := queryFrom(r, res.pageSize)
	if res.scope != nil {
		q = res.scope(callerFrom(r.Context()), q)
	}
	return q
}

func (res *resource[T]) out(item T) T {
	if res.redact != nil {
		return res.redact(item)
	}
	return item
}

func (res *resource[T]) outAll(items []T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = res.out(it)
	}
	return out
}

// load fetches an item the caller may see.
func (res *resource[T]) load(r *http.Request, id string) (T, error) {
	item, err := res.service.Get(r.Context(), id)
	if err != nil {
		return item, err
	}
	if res.visible != nil && !res.visible(callerFrom(r.Context()), item) {
		var zero T
		return zero, crud.ErrNotFound
	}
	return item, nil
}

func (res *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	d, err := res.service.List(r.Context(), res.query(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse[T]{
		Items:      res.outAll(d.Items),
		Page:       d.Pagination.Page,
		PageSize:   d.Pagination.PageSize,
		TotalPages: d.Pagination.TotalPages,
		TotalItems: d.Pagination.TotalItems,
		Stats:      d.Stats,
		Filters:    d.Criteria,
	})
}

func (res *resource[T]) get(w http.ResponseWriter, r *http.Request) {
	item, err := res.load(r, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res.out(item))
}

func (res *resource[T]) create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, r, err)
		return
	}
	if res.prepare != nil {
		item = res.prepare(callerFrom(r.Context()), item)
	}

	ctx := r.Context()
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		ctx = crud.WithIdempotencyKey(ctx, key)
	}

	created, err := res.service.Create(ctx, item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, res.out(created))
}

func (res *resource[T]) writable(r *http.Request, id string) error {
	item, err := res.load(r, id)
	if err != nil {
		return err
	}
	if res.owns != nil && !res.owns(callerFrom(r.Context()), item) {
		return crud.ErrNotFound
	}
	return nil
}

func (res *resource[T]) update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch crud.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	if err := res.writable(r, id); err != nil {
		writeError(w, r, err)
		return
	}
	if res.preparePatch != nil {
		patch = res.preparePatch(callerFrom(r.Context()), patch)
	}

	updated, err := res.service.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res.out(updated))
}

func (res *resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := res.writable(r, id); err != nil {
		writeError(w, r, err)
		return
	}
	if err := res.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// render produces the CSV of the whole filtered set, ignoring pagination.
func (res *resource[T]) render(r *http.Request) ([]byte, int, error) {
	d, err := res.service.List(r.Context(), res.query(r))
	if err != nil {
		return nil, 0, err
	}
	data, err := export.CSV(res.columns, res.outAll(d.Filtered))
	if err != nil {
		return nil, 0, err
	}
	return data, len(d.Filtered), nil
}

func (res *resource[T]) exportCSV(w http.ResponseWriter, r *http.Request) {
	data, _, err := res.render(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res.metrics.ObserveExport(res.kind, "download")

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, res.name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (res *resource[T]) archive(w http.ResponseWriter, r *http.Request) {
	if res.sink == nil {
		writeError(w, r, errExportsDisabled)
		return
	}

	data, rows, err := res.render(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	location, err := res.sink.Put(r.Context(), res.name, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res.metrics.ObserveExport(res.kind, "s3")

	utils.WriteJSON(w, http.StatusCreated, map[string]any{"location": location, "rows": rows})
}
