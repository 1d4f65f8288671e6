package models

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
)

// OwnerID is the verification session key, community plus user.
type OwnerID struct {
	Community string `json:"community"`
	UserID    int64  `json:"user_id"`
}

func (o OwnerID) String() string {
	return fmt.Sprintf("%s/%d", o.Community, o.UserID)
}

// Challenge: выпавшее значение слот-машины (1..64) и время выдачи.
type Challenge struct {
	ID       uuid.UUID `json:"id"`
	Code     int       `json:"code"`
	IssuedAt time.Time `json:"issued_at"`
}

// Session: Challenge и PendingInput одного владельца, хранятся одной записью.
// Version нужна для compare-and-swap; 0 означает "записи нет".
type Session struct {
	Owner     OwnerID   `json:"owner"`
	Challenge Challenge `json:"challenge"`
	Pending   []int     `json:"pending"`
	Version   int64     `json:"version"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Clone returns a deep copy so callers can mutate Pending without touching stored state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Pending = append([]int(nil), s.Pending...)
	return &c
}

// Expired reports whether the session's time budget has elapsed at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
