package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"

	"joingate/internal/models"
)

//go:generate mockgen -source=timeout_repository.go -destination=../mocks/mock_timeout_repository.go -package=mocks

// TimeoutRepository: очередь отложенных проверок таймаута.
type TimeoutRepository interface {
	Enqueue(ctx context.Context, payload models.TimeoutPayload, dueAt time.Time) (*models.TimeoutJob, error)
	// ClaimDue leases up to limit due jobs; a leased job is not handed out
	// again until lease elapses, so an unfinished job is redelivered.
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]models.TimeoutJob, error)
	Complete(ctx context.Context, id uuid.UUID) error
}

type timeoutRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewTimeoutRepository(db *sql.DB) TimeoutRepository {
	return &timeoutRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(db),
	}
}

const timeoutColumns = "id, community, user_id, challenge_id, due_at, attempts, created_at"

func (r *timeoutRepository) Enqueue(ctx context.Context, payload models.TimeoutPayload, dueAt time.Time) (*models.TimeoutJob, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("timeout job id: %w", err)
	}
	job := &models.TimeoutJob{
		ID:        id,
		Payload:   payload,
		DueAt:     dueAt,
		CreatedAt: time.Now(),
	}
	_, err = r.sb.Insert("captcha_timeouts").
		Columns("id", "community", "user_id", "challenge_id", "due_at", "attempts", "created_at").
		Values(job.ID, payload.Owner.Community, payload.Owner.UserID, payload.ChallengeID, job.DueAt, 0, job.CreatedAt).
		ExecContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("enqueue timeout: %w", err)
	}
	return job, nil
}

func (r *timeoutRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]models.TimeoutJob, error) {
	rows, err := r.sb.Update("captcha_timeouts").
		Set("locked_until", now.Add(lease)).
		Set("attempts", sq.Expr("attempts + 1")).
		Where(sq.Expr(`id IN (
			SELECT id FROM captcha_timeouts
			WHERE due_at <= ? AND (locked_until IS NULL OR locked_until <= ?)
			ORDER BY due_at
			LIMIT ?
			FOR UPDATE SKIP LOCKED)`, now, now, limit)).
		Suffix("RETURNING " + timeoutColumns).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("claim timeouts: %w", err)
	}
	defer rows.Close()

	var jobs []models.TimeoutJob
	for rows.Next() {
		var j models.TimeoutJob
		if err := rows.Scan(
			&j.ID, &j.Payload.Owner.Community, &j.Payload.Owner.UserID, &j.Payload.ChallengeID,
			&j.DueAt, &j.Attempts, &j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan timeout: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("claim timeouts: %w", err)
	}
	return jobs, nil
}

func (r *timeoutRepository) Complete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.sb.Delete("captcha_timeouts").Where(sq.Eq{"id": id}).ExecContext(ctx); err != nil {
		return fmt.Errorf("complete timeout: %w", err)
	}
	return nil
}
