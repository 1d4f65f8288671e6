package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"joingate/internal/models"
)

// SessionRepository хранит Challenge+PendingInput с TTL и compare-and-swap.
//
// Истёкшая запись неотличима от удалённой: Get возвращает nil, а
// CompareAndSwap считает её версию равной 0.
type SessionRepository interface {
	// Get returns the live session for owner or nil.
	Get(ctx context.Context, owner models.OwnerID) (*models.Session, error)
	// CompareAndSwap replaces the session only if its current version equals
	// expected (0 = absent). A nil next deletes. On success next.Version is
	// updated to the stored version.
	CompareAndSwap(ctx context.Context, owner models.OwnerID, expected int64, next *models.Session) (bool, error)
	// PurgeExpired drops sessions whose time budget has elapsed.
	PurgeExpired(ctx context.Context) (int64, error)
}

type postgresSessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository stores sessions in captcha_sessions. Expiry is judged
// against now, not the database clock; a nil now means time.Now.
func NewSessionRepository(db *sql.DB, now func() time.Time) SessionRepository {
	if now == nil {
		now = time.Now
	}
	return &postgresSessionRepository{db: db, now: now}
}

const sessionColumns = `community, user_id, challenge_id, code, issued_at, pending, version, expires_at`

func (r *postgresSessionRepository) Get(ctx context.Context, owner models.OwnerID) (*models.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM captcha_sessions
		WHERE community = $1 AND user_id = $2 AND expires_at > $3
	`, owner.Community, owner.UserID, r.now())

	var (
		s       models.Session
		pending []int64
	)
	err := row.Scan(
		&s.Owner.Community, &s.Owner.UserID, &s.Challenge.ID, &s.Challenge.Code,
		&s.Challenge.IssuedAt, pq.Array(&pending), &s.Version, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get captcha session: %w", err)
	}
	s.Pending = make([]int, len(pending))
	for i, v := range pending {
		s.Pending[i] = int(v)
	}
	return &s, nil
}

func (r *postgresSessionRepository) CompareAndSwap(ctx context.Context, owner models.OwnerID, expected int64, next *models.Session) (bool, error) {
	if next == nil {
		return r.deleteVersion(ctx, owner, expected)
	}

	pending := make([]int64, 0, len(next.Pending))
	for _, v := range next.Pending {
		pending = append(pending, int64(v))
	}
	now := r.now()

	var row *sql.Row
	if expected == 0 {
		// вставка либо перезапись только истёкшей строки
		row = r.db.QueryRowContext(ctx, `
			INSERT INTO captcha_sessions (`+sessionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, nextval('captcha_session_version_seq'), $7)
			ON CONFLICT (community, user_id) DO UPDATE SET
				challenge_id = EXCLUDED.challenge_id,
				code         = EXCLUDED.code,
				issued_at    = EXCLUDED.issued_at,
				pending      = EXCLUDED.pending,
				version      = EXCLUDED.version,
				expires_at   = EXCLUDED.expires_at
			WHERE captcha_sessions.expires_at <= $8
			RETURNING version
		`, owner.Community, owner.UserID, next.Challenge.ID, next.Challenge.Code,
			next.Challenge.IssuedAt, pq.Array(pending), next.ExpiresAt, now)
	} else {
		row = r.db.QueryRowContext(ctx, `
			UPDATE captcha_sessions SET
				challenge_id = $3,
				code         = $4,
				issued_at    = $5,
				pending      = $6,
				version      = nextval('captcha_session_version_seq'),
				expires_at   = $7
			WHERE community = $1 AND user_id = $2 AND version = $8 AND expires_at > $9
			RETURNING version
		`, owner.Community, owner.UserID, next.Challenge.ID, next.Challenge.Code,
			next.Challenge.IssuedAt, pq.Array(pending), next.ExpiresAt, expected, now)
	}

	var version int64
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("swap captcha session: %w", err)
	}
	next.Owner = owner
	next.Version = version
	return true, nil
}

func (r *postgresSessionRepository) deleteVersion(ctx context.Context, owner models.OwnerID, expected int64) (bool, error) {
	if expected == 0 {
		// удалять нечего, но живая запись значит, что мы проиграли гонку
		s, err := r.Get(ctx, owner)
		if err != nil {
			return false, err
		}
		return s == nil, nil
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM captcha_sessions
		WHERE community = $1 AND user_id = $2 AND version = $3 AND expires_at > $4
	`, owner.Community, owner.UserID, expected, r.now())
	if err != nil {
		return false, fmt.Errorf("delete captcha session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete captcha session: %w", err)
	}
	return n == 1, nil
}

func (r *postgresSessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM captcha_sessions WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, fmt.Errorf("purge captcha sessions: %w", err)
	}
	return res.RowsAffected()
}
