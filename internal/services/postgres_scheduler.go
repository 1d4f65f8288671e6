package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"joingate/internal/logger"
	"joingate/internal/models"
	"joingate/internal/repositories"
)

// PostgresScheduler хранит таймауты в таблице captcha_timeouts и опрашивает её.
// Задача удаляется только после успешной обработки; если обработчик упал или
// процесс умер, аренда истекает и задачу заберёт следующий опрос.
type PostgresScheduler struct {
	PollInterval  time.Duration
	Lease         time.Duration
	BatchSize     int
	MaxDeliveries int
	Now           func() time.Time

	jobs repositories.TimeoutRepository
	log  *slog.Logger
}

func NewPostgresScheduler(jobs repositories.TimeoutRepository, log *slog.Logger) *PostgresScheduler {
	return &PostgresScheduler{
		PollInterval:  5 * time.Second,
		Lease:         time.Minute,
		BatchSize:     50,
		MaxDeliveries: defaultMaxDeliveries,
		Now:           time.Now,
		jobs:          jobs,
		log:           log,
	}
}

func (s *PostgresScheduler) Enqueue(ctx context.Context, payload models.TimeoutPayload, delay time.Duration) error {
	if _, err := s.jobs.Enqueue(ctx, payload, s.Now().Add(delay)); err != nil {
		return fmt.Errorf("schedule timeout: %w", err)
	}
	return nil
}

func (s *PostgresScheduler) Run(ctx context.Context, handle TimeoutHandlerFunc) error {
	ticker := time.NewTicker(s.PollInterval)
	defer ticker.Stop()

	for {
		if err := s.Poll(ctx, handle); err != nil {
			s.log.ErrorContext(ctx, "poll timeouts", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll claims one batch of due jobs and delivers them.
func (s *PostgresScheduler) Poll(ctx context.Context, handle TimeoutHandlerFunc) error {
	jobs, err := s.jobs.ClaimDue(ctx, s.Now(), s.Lease, s.BatchSize)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if ctx.Err() != nil {
			return nil
		}
		jctx := logger.WithOwner(ctx, job.Payload.Owner)
		herr := handle(jctx, job.Payload)
		if herr != nil {
			if job.Attempts < s.MaxDeliveries {
				s.log.WarnContext(jctx, "timeout handler failed, lease will expire", "job_id", job.ID, "attempt", job.Attempts, "error", herr)
				continue
			}
			s.log.ErrorContext(jctx, "timeout dropped after retries", "job_id", job.ID, "attempt", job.Attempts, "error", herr)
		}
		if err := s.jobs.Complete(ctx, job.ID); err != nil {
			// задача придёт ещё раз, обработчик идемпотентен
			s.log.ErrorContext(jctx, "complete timeout job", "job_id", job.ID, "error", err)
		}
	}
	return nil
}
