package services

import (
	"context"
	"fmt"

	"joingate/internal/models"
)

// Access описывает результат проверки: продолжать ли с капчей и почему нет.
type Access struct {
	Proceed bool
	Status  models.MemberStatus
}

// MembershipGuard lets only requesters who are not yet in the community
// reach the challenge. It never touches session state.
type MembershipGuard struct {
	members MemberDirectory
}

func NewMembershipGuard(members MemberDirectory) *MembershipGuard {
	return &MembershipGuard{members: members}
}

func (g *MembershipGuard) CheckAccess(ctx context.Context, owner models.OwnerID) (Access, error) {
	status, err := g.members.MemberStatus(ctx, owner)
	if err != nil {
		return Access{}, fmt.Errorf("member status: %w", err)
	}
	return Access{
		Proceed: status == models.MemberStatusNotMember,
		Status:  status,
	}, nil
}
