package seller

import (
	"context"
	"testing"
	"time"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed() []Seller {
	joined := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []Seller{
		{ID: "1", ShopName: "Tech Store", OwnerName: "Trần B", Email: "tech@example.com", Type: TypeBusiness, Status: StatusActive, Rating: 4.7, Revenue: 150_000_000, ProductCount: 42, JoinedAt: joined},
		{ID: "2", ShopName: "Fashion Hub", OwnerName: "Lê C", Email: "fashion@example.com", Type: TypeIndividual, Status: StatusPending, Rating: 0, Revenue: 0, JoinedAt: joined.AddDate(0, 1, 0)},
		{ID: "3", ShopName: "Book Corner", OwnerName: "Phạm D", Email: "books@example.com", Type: TypeIndividual, Status: StatusSuspended, Rating: 3.2, Revenue: 20_000_000, ProductCount: 8, JoinedAt: joined.AddDate(0, 2, 0)},
	}
}

func newTestService() *Service {
	return NewService(crud.Config[Seller]{Repo: store.NewMemory(Identity, seed())})
}

func TestService_List(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	d, err := svc.List(ctx, crud.Query{Fields: map[string]string{"type": "individual", "sort": "-rating"}})
	require.NoError(t, err)
	require.Len(t, d.Items, 2)
	assert.Equal(t, "3", d.Items[0].ID)
	assert.Equal(t, "2", d.Items[1].ID)
	assert.Equal(t, map[string]int{"pending": 1, "active": 0, "suspended": 1}, d.Stats.Counts["status"])

	d, err = svc.List(ctx, crud.Query{Fields: map[string]string{"rating_min": "3", "revenue": "over-100m"}})
	require.NoError(t, err)
	require.Len(t, d.Items, 1)
	assert.Equal(t, "1", d.Items[0].ID)
	assert.Equal(t, 150_000_000.0, d.Stats.Sums["revenue"])
}

func TestService_Create(t *testing.T) {
	svc := newTestService()

	sl, err := svc.Create(context.Background(), Seller{
		ShopName:  "Green Home",
		OwnerName: "Võ E",
		Email:     "green@example.com",
		Status:    StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, "4", sl.ID)
	assert.Equal(t, StatusPending, sl.Status)
	assert.Equal(t, TypeIndividual, sl.Type)
}

func TestService_ApproveSuspend(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sl, err := svc.Approve(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sl.Status)

	_, err = svc.Approve(ctx, "2")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Suspend(ctx, "2", "")
	assert.ErrorIs(t, err, crud.ErrValidation)

	sl, err = svc.Suspend(ctx, "2", "hàng giả")
	require.NoError(t, err)
	assert.Equal(t, StatusSuspended, sl.Status)
	assert.Equal(t, "hàng giả", sl.SuspendReason)

	_, err = svc.Suspend(ctx, "2", "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	sl, err = svc.Approve(ctx, "3")
	require.NoError(t, err)
	assert.Empty(t, sl.SuspendReason)

	_, err = svc.Approve(ctx, "42")
	assert.ErrorIs(t, err, crud.ErrNotFound)
}
