package models

import "time"

const (
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

// Hub is a topical community users join and post in.
type Hub struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatorID   string    `json:"creator_id"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type HubMember struct {
	HubID    string    `json:"hub_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"` // admin or member
	JoinedAt time.Time `json:"joined_at"`
}

func (m *HubMember) IsAdmin() bool {
	return m != nil && m.Role == MemberRoleAdmin
}
