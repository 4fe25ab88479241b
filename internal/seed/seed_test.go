package seed

import (
	"context"
	"testing"

	"marketplace-be/internal/product"
	"marketplace-be/internal/store"
	"marketplace-be/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAll(t *testing.T) {
	d, err := LoadAll()
	require.NoError(t, err)

	require.NotEmpty(t, d.Products)
	assert.Equal(t, "1", d.Products[0].ID)
	assert.InDelta(t, 7_490_000, d.Products[0].Price, 0.001)
	assert.False(t, d.Products[0].CreatedAt.IsZero())

	require.NotEmpty(t, d.Orders)
	assert.NotEmpty(t, d.Orders[0].Lines)

	require.NotEmpty(t, d.Reports)
	assert.NotNil(t, d.Reports[1].ClosedAt)

	for _, u := range d.Users {
		assert.Empty(t, u.Password)
		assert.NotEmpty(t, u.PasswordHash)
	}
	assert.True(t, user.CheckPasswordHash("admin123", d.Users[0].PasswordHash))
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load[product.Product]("nope")
	assert.Error(t, err)
}

func TestInto(t *testing.T) {
	ctx := context.Background()
	items, err := Load[product.Product]("products")
	require.NoError(t, err)

	repo := store.NewMemory[product.Product](product.Identity, nil)
	n, err := Into(ctx, product.Kind, repo, items)
	require.NoError(t, err)
	assert.Equal(t, len(items), n)

	n, err = Into(ctx, product.Kind, repo, items)
	require.NoError(t, err)
	assert.Zero(t, n)
}
