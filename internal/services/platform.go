package services

import (
	"context"

	"joingate/internal/models"
)

//go:generate mockgen -source=platform.go -destination=../mocks/mock_platform.go -package=mocks

// Randomizer sends the animated slot machine to chatID and returns its value (1..64).
type Randomizer interface {
	Roll(ctx context.Context, chatID int64) (int, error)
}

type JoinRequests interface {
	ApproveJoinRequest(ctx context.Context, owner models.OwnerID) error
	DeclineJoinRequest(ctx context.Context, owner models.OwnerID) error
}

type MemberDirectory interface {
	MemberStatus(ctx context.Context, owner models.OwnerID) (models.MemberStatus, error)
}

type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, kb Keyboard) error
	LeaveChat(ctx context.Context, chatID int64) error
}
