package models

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// TimeoutPayload is what the scheduler hands to the timeout handler.
type TimeoutPayload struct {
	Owner       OwnerID   `json:"owner"`
	ChallengeID uuid.UUID `json:"challenge_id"`
}

// TimeoutJob: строка очереди таймаутов в Postgres.
type TimeoutJob struct {
	ID        uuid.UUID
	Payload   TimeoutPayload
	DueAt     time.Time
	Attempts  int
	CreatedAt time.Time
}
