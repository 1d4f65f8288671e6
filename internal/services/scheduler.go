package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"joingate/internal/logger"
	"joingate/internal/models"
)

// TimeoutHandlerFunc обрабатывает сработавший таймаут. Ошибка означает
// "доставить ещё раз"; обработчик обязан быть идемпотентным.
type TimeoutHandlerFunc func(ctx context.Context, payload models.TimeoutPayload) error

// TimeoutScheduler delivers a payload after roughly delay, at least once, with
// no ordering guarantee and no way to cancel.
type TimeoutScheduler interface {
	Enqueue(ctx context.Context, payload models.TimeoutPayload, delay time.Duration) error
	// Run delivers due payloads to handle until ctx is cancelled.
	Run(ctx context.Context, handle TimeoutHandlerFunc) error
}

const (
	defaultRedeliveryDelay = 30 * time.Second
	defaultMaxDeliveries   = 5
)

// LocalScheduler keeps timers in process memory. Pending timeouts are lost on
// restart; the session ttl cleans those up.
type LocalScheduler struct {
	RedeliveryDelay time.Duration
	MaxDeliveries   int

	log *slog.Logger

	mu      sync.Mutex
	handle  TimeoutHandlerFunc
	ctx     context.Context
	timers  map[*time.Timer]struct{}
	stopped bool
	wg      sync.WaitGroup
}

func NewLocalScheduler(log *slog.Logger) *LocalScheduler {
	return &LocalScheduler{
		RedeliveryDelay: defaultRedeliveryDelay,
		MaxDeliveries:   defaultMaxDeliveries,
		log:             log,
		timers:          make(map[*time.Timer]struct{}),
	}
}

func (s *LocalScheduler) Enqueue(_ context.Context, payload models.TimeoutPayload, delay time.Duration) error {
	s.schedule(payload, delay, 1)
	return nil
}

func (s *LocalScheduler) schedule(payload models.TimeoutPayload, delay time.Duration, attempt int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, t)
		handle, ctx, stopped := s.handle, s.ctx, s.stopped
		if !stopped {
			s.wg.Add(1)
		}
		s.mu.Unlock()
		if stopped {
			return
		}
		defer s.wg.Done()
		s.deliver(ctx, handle, payload, attempt)
	})
	s.timers[t] = struct{}{}
}

func (s *LocalScheduler) deliver(ctx context.Context, handle TimeoutHandlerFunc, payload models.TimeoutPayload, attempt int) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithOwner(ctx, payload.Owner)
	if handle == nil {
		// Run ещё не вызван, попробуем позже
		s.schedule(payload, s.RedeliveryDelay, attempt)
		return
	}
	err := handle(ctx, payload)
	if err == nil {
		return
	}
	if attempt >= s.MaxDeliveries {
		s.log.ErrorContext(ctx, "timeout dropped after retries", "attempt", attempt, "error", err)
		return
	}
	s.log.WarnContext(ctx, "timeout handler failed, redelivering", "attempt", attempt, "error", err)
	s.schedule(payload, s.RedeliveryDelay, attempt+1)
}

func (s *LocalScheduler) Run(ctx context.Context, handle TimeoutHandlerFunc) error {
	s.mu.Lock()
	s.handle = handle
	s.ctx = ctx
	s.mu.Unlock()

	<-ctx.Done()

	s.mu.Lock()
	s.stopped = true
	for t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Pending reports how many deliveries are armed.
func (s *LocalScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
