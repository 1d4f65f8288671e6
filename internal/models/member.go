package models

// MemberStatus: категория участника в целевом сообществе.
type MemberStatus string

const (
	MemberStatusAdmin     MemberStatus = "admin"
	MemberStatusBanned    MemberStatus = "banned"
	MemberStatusMember    MemberStatus = "member"
	MemberStatusNotMember MemberStatus = "not_member"
)

// MemberStatusFromTelegram maps a raw chat member status to a category.
// "restricted" counts as a member, "left" and unknown values as not a member.
func MemberStatusFromTelegram(status string) MemberStatus {
	switch status {
	case "creator", "administrator":
		return MemberStatusAdmin
	case "kicked":
		return MemberStatusBanned
	case "member", "restricted":
		return MemberStatusMember
	default:
		return MemberStatusNotMember
	}
}
