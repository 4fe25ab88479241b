// Package seed holds the mock datasets the memory store starts with.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/order"
	"marketplace-be/internal/product"
	"marketplace-be/internal/report"
	"marketplace-be/internal/seller"
	"marketplace-be/internal/user"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

// Load decodes data/<name>.yaml into a slice of T. Records go through
// their JSON form so the yaml keys match the API field names.
func Load[T any](name string) ([]T, error) {
	raw, err := files.ReadFile("data/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", name, err)
	}

	var docs []map[string]any
	if err := yaml.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", name, err)
	}

	b, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode seed %s: %w", name, err)
	}

	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("convert seed %s: %w", name, err)
	}
	return out, nil
}

type Dataset struct {
	Products []product.Product
	Orders   []order.Order
	Sellers  []seller.Seller
	Reports  []report.Report
	Users    []user.User
}

// LoadAll reads every dataset. User passwords are hashed on the way in.
func LoadAll() (Dataset, error) {
	var (
		d   Dataset
		err error
	)
	if d.Products, err = Load[product.Product]("products"); err != nil {
		return d, err
	}
	if d.Orders, err = Load[order.Order]("orders"); err != nil {
		return d, err
	}
	if d.Sellers, err = Load[seller.Seller]("sellers"); err != nil {
		return d, err
	}
	if d.Reports, err = Load[report.Report]("reports"); err != nil {
		return d, err
	}
	if d.Users, err = Load[user.User]("users"); err != nil {
		return d, err
	}

	for i, u := range d.Users {
		if u.Password == "" {
			continue
		}
		hash, err := user.HashPassword(u.Password)
		if err != nil {
			return d, fmt.Errorf("hash seed password for %s: %w", u.Email, err)
		}
		d.Users[i].PasswordHash = hash
		d.Users[i].Password = ""
	}
	return d, nil
}

// Into inserts items into an empty repository. A repository that already
// holds data is left alone.
func Into[T any](ctx context.Context, kind string, repo crud.Repository[T], items []T) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", kind, err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, it := range items {
		if _, err := repo.Insert(ctx, it); err != nil {
			return 0, fmt.Errorf("seed %s: %w", kind, err)
		}
	}

	logger.FromCtx(ctx).Info("seeded collection", zap.String("kind", kind), zap.Int("items", len(items)))
	return len(items), nil
}
