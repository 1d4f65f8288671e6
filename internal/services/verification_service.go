package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"

	"joingate/internal/captcha"
	"joingate/internal/logger"
	"joingate/internal/models"
	"joingate/internal/repositories"
)

var (
	ErrConcurrentUpdate = errors.New("session changed concurrently too many times")
	ErrInvalidSymbol    = errors.New("symbol is not in the alphabet")
	ErrInvalidCode      = errors.New("randomizer returned a value outside 1..64")
)

// State описывает состояние верификации владельца после обработки события.
type State string

const (
	StateNoChallenge   State = "no_challenge"
	StateAwaitingInput State = "awaiting_input"
	StateVerified      State = "verified"
	StateExpired       State = "expired"
	// StateBlocked: проверка членства не пропустила, сессия не тронута.
	StateBlocked State = "blocked"
)

const (
	answerLength            = len(captcha.Answer{})
	defaultChallengeTimeout = 15 * time.Minute
	defaultMaxSwaps         = 8
)

// Result describes the outcome of one event.
type Result struct {
	State State
	// Pending holds the symbols entered so far while awaiting input.
	Pending []int
	// Mismatch is set when a complete but wrong answer reset the input.
	Mismatch bool
	// Status is the membership category that blocked the requester.
	Status models.MemberStatus
	// Code is the rolled dice value. It is also set on StateNoChallenge
	// when a retry rolled a dice for a challenge that closed meanwhile.
	Code int
}

type VerificationService struct {
	// Timeout is the delay before an unanswered challenge is declined.
	// The session ttl is twice that.
	Timeout time.Duration
	// MaxSwaps bounds reread-and-retry rounds after a lost compare-and-swap.
	MaxSwaps int
	Now      func() time.Time

	sessions  repositories.SessionRepository
	scheduler TimeoutScheduler
	guard     *MembershipGuard
	dice      Randomizer
	joins     JoinRequests
	log       *slog.Logger
}

func NewVerificationService(
	sessions repositories.SessionRepository,
	scheduler TimeoutScheduler,
	guard *MembershipGuard,
	dice Randomizer,
	joins JoinRequests,
	log *slog.Logger,
) *VerificationService {
	return &VerificationService{
		Timeout:   defaultChallengeTimeout,
		MaxSwaps:  defaultMaxSwaps,
		Now:       time.Now,
		sessions:  sessions,
		scheduler: scheduler,
		guard:     guard,
		dice:      dice,
		joins:     joins,
		log:       log,
	}
}

// step решает, что записать поверх текущей сессии. write=false означает no-op.
type step func(cur *models.Session) (next *models.Session, res Result, write bool)

// swap reads the session, applies fn and writes the result with
// compare-and-swap, rereading after every lost race.
func (s *VerificationService) swap(ctx context.Context, owner models.OwnerID, fn step) (Result, error) {
	for attempt := 1; attempt <= s.MaxSwaps; attempt++ {
		cur, err := s.sessions.Get(ctx, owner)
		if err != nil {
			return Result{}, fmt.Errorf("load session: %w", err)
		}
		var expected int64
		if cur != nil {
			expected = cur.Version
		}

		next, res, write := fn(cur)
		if !write {
			return res, nil
		}
		ok, err := s.sessions.CompareAndSwap(ctx, owner, expected, next)
		if err != nil {
			return Result{}, fmt.Errorf("store session: %w", err)
		}
		if ok {
			return res, nil
		}
		s.log.DebugContext(ctx, "session swap lost, rereading", "attempt", attempt)
	}
	return Result{}, ErrConcurrentUpdate
}

// IssueChallenge rolls a fresh slot machine for a join request and arms the
// timeout. An open challenge for the same owner is replaced.
func (s *VerificationService) IssueChallenge(ctx context.Context, owner models.OwnerID) (Result, error) {
	ctx = logger.WithOwner(ctx, owner)

	access, err := s.guard.CheckAccess(ctx, owner)
	if err != nil {
		return Result{}, err
	}
	if !access.Proceed {
		return Result{State: StateBlocked, Status: access.Status}, nil
	}
	return s.issue(ctx, owner, false)
}

// RetryChallenge discards the open challenge and any partial input and issues
// a new one. Without an open challenge it is a no-op.
func (s *VerificationService) RetryChallenge(ctx context.Context, owner models.OwnerID) (Result, error) {
	ctx = logger.WithOwner(ctx, owner)

	cur, err := s.sessions.Get(ctx, owner)
	if err != nil {
		return Result{}, fmt.Errorf("load session: %w", err)
	}
	if cur == nil {
		s.log.DebugContext(ctx, "retry without open challenge")
		return Result{State: StateNoChallenge}, nil
	}
	return s.issue(ctx, owner, true)
}

func (s *VerificationService) issue(ctx context.Context, owner models.OwnerID, requireOpen bool) (Result, error) {
	code, err := s.dice.Roll(ctx, owner.UserID)
	if err != nil {
		return Result{}, fmt.Errorf("roll dice: %w", err)
	}
	if !captcha.ValidCode(code) {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidCode, code)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return Result{}, fmt.Errorf("challenge id: %w", err)
	}
	now := s.Now()
	challenge := models.Challenge{ID: id, Code: code, IssuedAt: now}

	res, err := s.swap(ctx, owner, func(cur *models.Session) (*models.Session, Result, bool) {
		if requireOpen && cur == nil {
			// пока кидали кубик, сессию закрыли (успех или таймаут).
			// Code говорит вызывающему, что кубик уже в чате.
			return nil, Result{State: StateNoChallenge, Code: code}, false
		}
		next := &models.Session{
			Owner:     owner,
			Challenge: challenge,
			Pending:   []int{},
			ExpiresAt: now.Add(2 * s.Timeout),
		}
		return next, Result{State: StateAwaitingInput, Pending: []int{}, Code: code}, true
	})
	if err != nil {
		return res, err
	}
	if res.State != StateAwaitingInput {
		s.log.InfoContext(ctx, "challenge closed while rolling", "code", code)
		return res, nil
	}

	payload := models.TimeoutPayload{Owner: owner, ChallengeID: id}
	if err := s.scheduler.Enqueue(ctx, payload, s.Timeout); err != nil {
		// challenge уже сохранён; без таймаута его уберёт ttl
		s.log.ErrorContext(ctx, "arm challenge timeout", "challenge_id", id, "error", err)
	}
	s.log.InfoContext(ctx, "challenge issued", "challenge_id", id, "retry", requireOpen)
	return res, nil
}

// Input appends one symbol; the third symbol triggers evaluation.
func (s *VerificationService) Input(ctx context.Context, owner models.OwnerID, symbol int) (Result, error) {
	ctx = logger.WithOwner(ctx, owner)
	if symbol < 0 || symbol >= len(captcha.Alphabet) {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidSymbol, symbol)
	}

	res, err := s.swap(ctx, owner, func(cur *models.Session) (*models.Session, Result, bool) {
		if cur == nil {
			return nil, Result{State: StateNoChallenge}, false
		}
		pending := append(append([]int(nil), cur.Pending...), symbol)
		next := cur.Clone()

		if len(pending) < answerLength {
			next.Pending = pending
			return next, Result{State: StateAwaitingInput, Pending: pending, Code: cur.Challenge.Code}, true
		}
		if captcha.DeriveAnswer(cur.Challenge.Code).Matches(pending) {
			return nil, Result{State: StateVerified, Pending: pending, Code: cur.Challenge.Code}, true
		}
		next.Pending = []int{}
		return next, Result{State: StateAwaitingInput, Pending: []int{}, Mismatch: true, Code: cur.Challenge.Code}, true
	})
	if err != nil {
		return Result{}, err
	}

	switch {
	case res.State == StateNoChallenge:
		s.log.DebugContext(ctx, "input without open challenge")
	case res.State == StateVerified:
		s.log.InfoContext(ctx, "challenge solved")
		if err := s.joins.ApproveJoinRequest(ctx, owner); err != nil {
			s.log.ErrorContext(ctx, "approve join request", "error", err)
		}
	case res.Mismatch:
		s.log.InfoContext(ctx, "wrong answer", "code", res.Code)
	}
	return res, nil
}

// Backspace drops the most recently entered symbol.
func (s *VerificationService) Backspace(ctx context.Context, owner models.OwnerID) (Result, error) {
	ctx = logger.WithOwner(ctx, owner)

	return s.swap(ctx, owner, func(cur *models.Session) (*models.Session, Result, bool) {
		if cur == nil {
			return nil, Result{State: StateNoChallenge}, false
		}
		if len(cur.Pending) == 0 {
			return nil, Result{State: StateAwaitingInput, Pending: []int{}, Code: cur.Challenge.Code}, false
		}
		next := cur.Clone()
		next.Pending = next.Pending[:len(next.Pending)-1]
		return next, Result{State: StateAwaitingInput, Pending: next.Pending, Code: cur.Challenge.Code}, true
	})
}

// HandleTimeout declines the join request if the challenge it was armed for is
// still open and the requester is still outside the community.
func (s *VerificationService) HandleTimeout(ctx context.Context, payload models.TimeoutPayload) (Result, error) {
	owner := payload.Owner
	ctx = logger.WithOwner(ctx, owner)

	open := func(cur *models.Session) bool {
		return cur != nil && cur.Challenge.ID == payload.ChallengeID
	}

	cur, err := s.sessions.Get(ctx, owner)
	if err != nil {
		return Result{}, fmt.Errorf("load session: %w", err)
	}
	if !open(cur) {
		s.log.DebugContext(ctx, "timeout for resolved challenge", "challenge_id", payload.ChallengeID)
		return Result{State: StateNoChallenge}, nil
	}

	access, err := s.guard.CheckAccess(ctx, owner)
	if err != nil {
		return Result{}, err
	}
	if !access.Proceed {
		s.log.InfoContext(ctx, "timeout for requester resolved elsewhere", "status", access.Status)
		return Result{State: StateBlocked, Status: access.Status}, nil
	}

	res, err := s.swap(ctx, owner, func(cur *models.Session) (*models.Session, Result, bool) {
		if !open(cur) {
			return nil, Result{State: StateNoChallenge}, false
		}
		return nil, Result{State: StateExpired, Code: cur.Challenge.Code}, true
	})
	if err != nil || res.State != StateExpired {
		return res, err
	}

	s.log.InfoContext(ctx, "challenge expired", "challenge_id", payload.ChallengeID)
	if err := s.joins.DeclineJoinRequest(ctx, owner); err != nil {
		s.log.ErrorContext(ctx, "decline join request", "error", err)
	}
	return res, nil
}

// State reports the current state without changing it.
func (s *VerificationService) State(ctx context.Context, owner models.OwnerID) (Result, error) {
	cur, err := s.sessions.Get(ctx, owner)
	if err != nil {
		return Result{}, fmt.Errorf("load session: %w", err)
	}
	if cur == nil {
		return Result{State: StateNoChallenge}, nil
	}
	return Result{State: StateAwaitingInput, Pending: cur.Pending, Code: cur.Challenge.Code}, nil
}
