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

// ClaimDue арендует задачи всей таблицы, поэтому тесты очереди идут без
// t.Parallel и смотрят только на свои задачи.

func claimOwn(t *testing.T, repo repositories.TimeoutRepository, now time.Time, lease time.Duration, id uuid.UUID) (models.TimeoutJob, bool) {
	t.Helper()

	jobs, err := repo.ClaimDue(context.Background(), now, lease, 1000)
	require.NoError(t, err)
	for _, j := range jobs {
		if j.ID == id {
			return j, true
		}
	}
	return models.TimeoutJob{}, false
}

func TestTimeoutRepository_EnqueueAndClaim(t *testing.T) {
	repo := repositories.NewTimeoutRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Now().Truncate(time.Microsecond)

	payload := models.TimeoutPayload{Owner: uniqueOwner(), ChallengeID: uuid.Must(uuid.NewV4())}
	job, err := repo.Enqueue(ctx, payload, now.Add(-time.Second))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, job.ID)

	got, ok := claimOwn(t, repo, now, time.Minute, job.ID)
	require.True(t, ok)
	require.Equal(t, payload, got.Payload)
	require.Equal(t, 1, got.Attempts)
	require.WithinDuration(t, job.DueAt, got.DueAt, time.Microsecond)

	require.NoError(t, repo.Complete(ctx, job.ID))
	_, ok = claimOwn(t, repo, now.Add(time.Hour), time.Minute, job.ID)
	require.False(t, ok, "completed job is gone")
}

func TestTimeoutRepository_LeaseHidesJob(t *testing.T) {
	repo := repositories.NewTimeoutRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Now().Truncate(time.Microsecond)

	payload := models.TimeoutPayload{Owner: uniqueOwner(), ChallengeID: uuid.Must(uuid.NewV4())}
	job, err := repo.Enqueue(ctx, payload, now.Add(-time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Complete(context.Background(), job.ID) })

	_, ok := claimOwn(t, repo, now, time.Minute, job.ID)
	require.True(t, ok)

	_, ok = claimOwn(t, repo, now.Add(30*time.Second), time.Minute, job.ID)
	require.False(t, ok, "re-claim within the lease returns nothing")

	// аренда истекла: задачу выдают снова
	got, ok := claimOwn(t, repo, now.Add(2*time.Minute), time.Minute, job.ID)
	require.True(t, ok)
	require.Equal(t, 2, got.Attempts)
}

func TestTimeoutRepository_NotDueYet(t *testing.T) {
	repo := repositories.NewTimeoutRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Now().Truncate(time.Microsecond)

	payload := models.TimeoutPayload{Owner: uniqueOwner(), ChallengeID: uuid.Must(uuid.NewV4())}
	job, err := repo.Enqueue(ctx, payload, now.Add(15*time.Minute))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Complete(context.Background(), job.ID) })

	_, ok := claimOwn(t, repo, now, time.Minute, job.ID)
	require.False(t, ok)

	_, ok = claimOwn(t, repo, now.Add(15*time.Minute), time.Minute, job.ID)
	require.True(t, ok)
}
