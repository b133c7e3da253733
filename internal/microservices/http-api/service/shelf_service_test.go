package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookhub/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shelfNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func newShelfFixture(books int) (*fakeShelfRepository, ShelfService) {
	ids := make([]int64, 0, books)
	for i := 1; i <= books; i++ {
		ids = append(ids, int64(i))
	}
	fake := newFakeShelfRepository(ids...)
	return fake, NewShelfService(fake, fake, nil, discardLogger())
}

func TestShelfService_AddUpToStandardLimit(t *testing.T) {
	_, svc := newShelfFixture(20)
	ctx := context.Background()
	viewer := UserViewer("u-1")

	for id := int64(1); id <= 10; id++ {
		created, err := svc.Add(ctx, viewer, id, shelfNow)
		require.NoError(t, err, "add book %d", id)
		assert.True(t, created)
	}

	created, err := svc.Add(ctx, viewer, 11, shelfNow)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.False(t, created)
}

func TestShelfService_PremiumUserHasNoLimit(t *testing.T) {
	fake, svc := newShelfFixture(20)
	ctx := context.Background()
	viewer := UserViewer("u-1")
	_, _ = fake.SetMembership(ctx, "u-1", true, dateOf(shelfNow.AddDate(0, 1, 0)))

	for id := int64(1); id <= 11; id++ {
		_, err := svc.Add(ctx, viewer, id, shelfNow)
		require.NoError(t, err)
	}
	count, _ := fake.Count(ctx, "u-1")
	assert.Equal(t, int64(11), count)
}

func TestShelfService_UpgradeLiftsLimit(t *testing.T) {
	fake, svc := newShelfFixture(11)
	ctx := context.Background()
	viewer := UserViewer("u-1")

	for id := int64(1); id <= 10; id++ {
		_, err := svc.Add(ctx, viewer, id, shelfNow)
		require.NoError(t, err)
	}
	_, err := svc.Add(ctx, viewer, 11, shelfNow)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	_, _ = fake.SetMembership(ctx, "u-1", true, dateOf(shelfNow.AddDate(0, 0, 1)))

	created, err := svc.Add(ctx, viewer, 11, shelfNow)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestShelfService_ExpiredPremiumIsStandard(t *testing.T) {
	fake, svc := newShelfFixture(11)
	ctx := context.Background()
	viewer := UserViewer("u-1")
	// expires today: access is already gone
	_, _ = fake.SetMembership(ctx, "u-1", true, dateOf(shelfNow))

	for id := int64(1); id <= 10; id++ {
		_, err := svc.Add(ctx, viewer, id, shelfNow)
		require.NoError(t, err)
	}
	_, err := svc.Add(ctx, viewer, 11, shelfNow)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestShelfService_AddIsIdempotent(t *testing.T) {
	fake, svc := newShelfFixture(3)
	ctx := context.Background()
	viewer := UserViewer("u-1")

	created, err := svc.Add(ctx, viewer, 2, shelfNow)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Add(ctx, viewer, 2, shelfNow)
	require.NoError(t, err)
	assert.False(t, created)

	count, _ := fake.Count(ctx, "u-1")
	assert.Equal(t, int64(1), count)
}

func TestShelfService_ReAddOfPresentBookOnFullShelf(t *testing.T) {
	_, svc := newShelfFixture(10)
	ctx := context.Background()
	viewer := UserViewer("u-1")

	for id := int64(1); id <= 10; id++ {
		_, err := svc.Add(ctx, viewer, id, shelfNow)
		require.NoError(t, err)
	}

	created, err := svc.Add(ctx, viewer, 5, shelfNow)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestShelfService_AddUnknownBook(t *testing.T) {
	_, svc := newShelfFixture(1)

	_, err := svc.Add(context.Background(), UserViewer("u-1"), 99, shelfNow)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShelfService_Anonymous(t *testing.T) {
	_, svc := newShelfFixture(1)
	ctx := context.Background()

	_, err := svc.Add(ctx, Anonymous(), 1, shelfNow)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Remove(ctx, Anonymous(), 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.List(ctx, Anonymous(), shelfNow)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestShelfService_RemoveReportsAbsence(t *testing.T) {
	_, svc := newShelfFixture(2)
	ctx := context.Background()
	viewer := UserViewer("u-1")
	_, err := svc.Add(ctx, viewer, 1, shelfNow)
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, viewer, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Remove(ctx, viewer, 1)
	require.NoError(t, err)
	assert.False(t, removed)

	// re-adding after removal creates a fresh entry
	created, err := svc.Add(ctx, viewer, 1, shelfNow)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestShelfService_ListReflectsLiveMembership(t *testing.T) {
	fake, svc := newShelfFixture(2)
	ctx := context.Background()
	viewer := UserViewer("u-1")
	_, _ = fake.SetMembership(ctx, "u-1", true, dateOf(shelfNow.AddDate(0, 0, 1)))
	_, err := svc.Add(ctx, viewer, 1, shelfNow)
	require.NoError(t, err)

	view, err := svc.List(ctx, viewer, shelfNow)
	require.NoError(t, err)
	assert.Len(t, view.Entries, 1)
	assert.True(t, view.Capacity.IsUnlimited())

	// a day later the membership has lapsed
	view, err = svc.List(ctx, viewer, shelfNow.AddDate(0, 0, 1))
	require.NoError(t, err)
	limit, bounded := view.Capacity.Limit()
	assert.True(t, bounded)
	assert.Equal(t, 10, limit)
}

func TestShelfService_ConcurrentAddsRespectLimit(t *testing.T) {
	fake, svc := newShelfFixture(30)
	ctx := context.Background()
	viewer := UserViewer("u-1")

	var wg sync.WaitGroup
	var mu sync.Mutex
	var denied int
	for id := int64(1); id <= 30; id++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if _, err := svc.Add(ctx, viewer, id, shelfNow); errors.Is(err, ErrCapacityExceeded) {
				mu.Lock()
				denied++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	count, _ := fake.Count(ctx, "u-1")
	assert.Equal(t, int64(10), count)
	assert.Equal(t, 20, denied)
}

func TestShelfService_RecordsOutcomeMetrics(t *testing.T) {
	fake := newFakeShelfRepository(1)
	m := metrics.New()
	svc := NewShelfService(fake, fake, m, discardLogger())
	ctx := context.Background()

	_, _ = svc.Add(ctx, UserViewer("u-1"), 1, shelfNow)
	_, _ = svc.Add(ctx, UserViewer("u-1"), 1, shelfNow)
	_, _ = svc.Add(ctx, UserViewer("u-1"), 2, shelfNow)

	count, err := testutil.GatherAndCount(m.Registry(), "bookhub_shelf_adds_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestShelfService_PremiumOnlyBookHiddenFromStandardUser(t *testing.T) {
	fake, svc := newShelfFixture(3)
	fake.books[3].IsPremiumOnly = true
	ctx := context.Background()

	created, err := svc.Add(ctx, UserViewer("u-1"), 3, shelfNow)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, created)
	count, _ := fake.Count(ctx, "u-1")
	assert.Zero(t, count)

	_, _ = fake.SetMembership(ctx, "u-2", true, dateOf(shelfNow.AddDate(0, 0, 7)))
	created, err = svc.Add(ctx, UserViewer("u-2"), 3, shelfNow)
	require.NoError(t, err)
	assert.True(t, created)

	// Once the membership lapses the book is hidden again, even though it is on the shelf.
	_, err = svc.Add(ctx, UserViewer("u-2"), 3, shelfNow.AddDate(0, 0, 30))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShelfService_DeletedUserIsUnauthorized(t *testing.T) {
	fake, svc := newShelfFixture(1)
	fake.deleted["u-1"] = true

	_, err := svc.Add(context.Background(), UserViewer("u-1"), 1, shelfNow)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrNotFound)
}
