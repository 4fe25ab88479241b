package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

// Postgres keeps every kind of item in one JSONB table:
//
//	items(position BIGSERIAL, kind TEXT, id TEXT, data JSONB, ...)
//
// Rows are listed in insertion order, which is the source order of the
// collection.
type Postgres[T any] struct {
	db       *sql.DB
	kind     string
	identity crud.Identity[T]
}

func NewPostgres[T any](db *sql.DB, kind string, identity crud.Identity[T]) *Postgres[T] {
	return &Postgres[T]{db: db, kind: kind, identity: identity}
}

func (p *Postgres[T]) log(ctx context.Context) *zap.Logger {
	return logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("kind", p.kind),
	)
}

func (p *Postgres[T]) decode(raw []byte) (T, error) {
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("decode %s: %w", p.kind, err)
	}
	return item, nil
}

func (p *Postgres[T]) List(ctx context.Context) ([]T, error) {
	query := `SELECT data FROM items WHERE kind = $1 ORDER BY position ASC`

	rows, err := p.db.QueryContext(ctx, query, p.kind)
	if err != nil {
		p.log(ctx).Error("DB query failed List", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			p.log(ctx).Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		item, err := p.decode(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		p.log(ctx).Error("Rows iteration failed", zap.Error(err))
		return nil, err
	}
	return items, nil
}

func (p *Postgres[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	query := `SELECT data FROM items WHERE kind = $1 AND id = $2`

	var raw []byte
	err := p.db.QueryRowContext(ctx, query, p.kind, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, crud.ErrNotFound
	}
	if err != nil {
		p.log(ctx).Error("DB query failed Get", zap.String("id", id), zap.Error(err))
		return zero, err
	}
	return p.decode(raw)
}

func (p *Postgres[T]) Insert(ctx context.Context, item T) (T, error) {
	var zero T
	id := p.identity.ID(item)

	data, err := json.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", p.kind, err)
	}

	query := `
		INSERT INTO items (kind, id, data)
		VALUES ($1, $2, $3)
	`
	if _, err := p.db.ExecContext(ctx, query, p.kind, id, data); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return zero, crud.ErrDuplicate
		}
		p.log(ctx).Error("DB insert failed", zap.String("id", id), zap.Error(err))
		return zero, err
	}
	return item, nil
}

func (p *Postgres[T]) Replace(ctx context.Context, id string, item T) (T, error) {
	var zero T

	data, err := json.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", p.kind, err)
	}

	query := `UPDATE items SET data = $3, updated_at = NOW() WHERE kind = $1 AND id = $2`
	res, err := p.db.ExecContext(ctx, query, p.kind, id, data)
	if err != nil {
		p.log(ctx).Error("DB update failed", zap.String("id", id), zap.Error(err))
		return zero, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return zero, err
	} else if n == 0 {
		return zero, crud.ErrNotFound
	}
	return item, nil
}

func (p *Postgres[T]) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM items WHERE kind = $1 AND id = $2`
	res, err := p.db.ExecContext(ctx, query, p.kind, id)
	if err != nil {
		p.log(ctx).Error("DB delete failed", zap.String("id", id), zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return crud.ErrNotFound
	}
	return nil
}
