package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"joingate/internal/models"
	"joingate/internal/repositories"
)

func newPostgresSessionRepository(t *testing.T) (repositories.SessionRepository, *fakeClock, models.OwnerID) {
	t.Helper()

	db := openTestDB(t)
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	return repositories.NewSessionRepository(db, clock.Now), clock, uniqueOwner()
}

func newStoredSession(clock *fakeClock, code int, pending ...int) *models.Session {
	if pending == nil {
		pending = []int{}
	}
	return &models.Session{
		Challenge: models.Challenge{ID: uuid.Must(uuid.NewV4()), Code: code, IssuedAt: clock.Now()},
		Pending:   pending,
		ExpiresAt: clock.Now().Add(30 * time.Minute),
	}
}

func TestSessionRepository_InsertAndGet(t *testing.T) {
	t.Parallel()

	repo, clock, owner := newPostgresSessionRepository(t)
	ctx := context.Background()

	got, err := repo.Get(ctx, owner)
	require.NoError(t, err)
	require.Nil(t, got)

	s := newStoredSession(clock, 5, 0, 3)
	ok, err := repo.CompareAndSwap(ctx, owner, 0, s)
	require.NoError(t, err)
	require.True(t, ok)
	require.Positive(t, s.Version)
	require.Equal(t, owner, s.Owner)

	got, err = repo.Get(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, owner, got.Owner)
	require.Equal(t, s.Challenge.ID, got.Challenge.ID)
	require.Equal(t, 5, got.Challenge.Code)
	require.Equal(t, []int{0, 3}, got.Pending)
	require.Equal(t, s.Version, got.Version)
	require.WithinDuration(t, s.Challenge.IssuedAt, got.Challenge.IssuedAt, time.Microsecond)
	require.WithinDuration(t, s.ExpiresAt, got.ExpiresAt, time.Microsecond)

	// вторая вставка поверх живой записи проигрывает
	ok, err = repo.CompareAndSwap(ctx, owner, 0, newStoredSession(clock, 9))
	require.NoError(t, err)
	require.False(t, ok)

	got, err = repo.Get(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, 5, got.Challenge.Code)
}

func TestSessionRepository_StaleVersionLoses(t *testing.T) {
	t.Parallel()

	repo, clock, owner := newPostgresSessionRepository(t)
	ctx := context.Background()

	s := newStoredSession(clock, 5)
	ok, err := repo.CompareAndSwap(ctx, owner, 0, s)
	require.NoError(t, err)
	require.True(t, ok)
	v1 := s.Version

	next := s.Clone()
	next.Pending = []int{1}
	ok, err = repo.CompareAndSwap(ctx, owner, v1, next)
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, next.Version, v1)

	stale := s.Clone()
	stale.Pending = []int{2}
	ok, err = repo.CompareAndSwap(ctx, owner, v1, stale)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := repo.Get(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, []int{1}, got.Pending)
	require.Equal(t, next.Version, got.Version)
}

func TestSessionRepository_Delete(t *testing.T) {
	t.Parallel()

	repo, clock, owner := newPostgresSessionRepository(t)
	ctx := context.Background()

	// удаление отсутствующей записи с expected 0 успешно
	ok, err := repo.CompareAndSwap(ctx, owner, 0, nil)
	require.NoError(t, err)
	require.True(t, ok)

	s := newStoredSession(clock, 5)
	ok, err = repo.CompareAndSwap(ctx, owner, 0, s)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.CompareAndSwap(ctx, owner, 0, nil)
	require.NoError(t, err)
	require.False(t, ok, "expected 0 must not delete a live session")

	ok, err = repo.CompareAndSwap(ctx, owner, s.Version+1000, nil)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repo.CompareAndSwap(ctx, owner, s.Version, nil)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.Get(ctx, owner)
	require.NoError(t, err)
	require.Nil(t, got)

	ok, err = repo.CompareAndSwap(ctx, owner, s.Version, nil)
	require.NoError(t, err)
	require.False(t, ok, "second delete of the same version")
}

func TestSessionRepository_ExpiredRowIsReplaced(t *testing.T) {
	t.Parallel()

	repo, clock, owner := newPostgresSessionRepository(t)
	ctx := context.Background()

	old := newStoredSession(clock, 5)
	ok, err := repo.CompareAndSwap(ctx, owner, 0, old)
	require.NoError(t, err)
	require.True(t, ok)

	clock.Advance(31 * time.Minute)

	got, err := repo.Get(ctx, owner)
	require.NoError(t, err)
	require.Nil(t, got, "expired session reads as absent")

	stale := old.Clone()
	stale.Pending = []int{1}
	ok, err = repo.CompareAndSwap(ctx, owner, old.Version, stale)
	require.NoError(t, err)
	require.False(t, ok, "expired version can not be updated")

	ok, err = repo.CompareAndSwap(ctx, owner, old.Version, nil)
	require.NoError(t, err)
	require.False(t, ok, "expired version can not be deleted")

	fresh := newStoredSession(clock, 17)
	ok, err = repo.CompareAndSwap(ctx, owner, 0, fresh)
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, fresh.Version, old.Version)

	got, err = repo.Get(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, fresh.Challenge.ID, got.Challenge.ID)
	require.Equal(t, 17, got.Challenge.Code)
}

// Без t.Parallel: чистка с часами +1ч задела бы записи соседних тестов.
func TestSessionRepository_PurgeExpired(t *testing.T) {
	repo, clock, owner := newPostgresSessionRepository(t)
	ctx := context.Background()

	ok, err := repo.CompareAndSwap(ctx, owner, 0, newStoredSession(clock, 5))
	require.NoError(t, err)
	require.True(t, ok)

	clock.Advance(time.Hour)
	n, err := repo.PurgeExpired(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, int64(1))

	// после чистки вставка с expected 0 идёт обычным INSERT
	clock.Advance(-time.Hour)
	ok, err = repo.CompareAndSwap(ctx, owner, 0, newStoredSession(clock, 9))
	require.NoError(t, err)
	require.True(t, ok)
}
