package report

import (
	"context"
	"testing"
	"time"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func newTestService(seed []Report) *Service {
	svc := NewService(crud.Config[Report]{Repo: store.NewMemory(Identity, seed)})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestService_CreateAndClose(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)

	r, err := svc.Create(ctx, Report{
		Type:         TypeProduct,
		TargetID:     "3",
		TargetName:   "Nồi chiên",
		ReporterName: "Khách hàng",
		Reason:       "Hàng giả",
		Status:       StatusResolved,
	})
	require.NoError(t, err)
	assert.Len(t, r.ID, 36)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, PriorityMedium, r.Priority)

	r, err = svc.Review(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReviewing, r.Status)

	r, err = svc.Resolve(ctx, r.ID, "removed listing")
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, r.Status)
	require.NotNil(t, r.ClosedAt)
	assert.Equal(t, fixedNow, *r.ClosedAt)

	_, err = svc.Dismiss(ctx, r.ID, "")
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	_, err = svc.Review(ctx, r.ID)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
}

func TestService_CreateValidation(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Create(context.Background(), Report{Type: "spam"})
	var verr *crud.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "type")
	assert.Contains(t, verr.Fields, "reason")
	assert.Contains(t, verr.Fields, "targetId")
}

func TestService_ListByPriority(t *testing.T) {
	seed := []Report{
		{ID: "a", Type: TypeProduct, Status: StatusPending, Priority: PriorityLow, Reason: "spam", CreatedAt: fixedNow},
		{ID: "b", Type: TypeSeller, Status: StatusPending, Priority: PriorityHigh, Reason: "lừa đảo", CreatedAt: fixedNow.Add(time.Minute)},
		{ID: "c", Type: TypeProduct, Status: StatusResolved, Priority: PriorityHigh, Reason: "hàng giả", CreatedAt: fixedNow.Add(2 * time.Minute)},
		{ID: "d", Type: TypeUser, Status: StatusPending, Priority: PriorityMedium, Reason: "quấy rối", CreatedAt: fixedNow.Add(3 * time.Minute)},
	}
	svc := newTestService(seed)

	d, err := svc.List(context.Background(), crud.Query{Fields: map[string]string{"status": "pending", "sort": "-priority"}})
	require.NoError(t, err)

	ids := []string{}
	for _, r := range d.Items {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"b", "d", "a"}, ids)
	assert.Equal(t, map[string]int{"product": 1, "seller": 1, "user": 1, "order": 0}, d.Stats.Counts["type"])

	sum := 0
	for _, n := range d.Stats.Counts["priority"] {
		sum += n
	}
	assert.Equal(t, d.Stats.Total, sum)
}
