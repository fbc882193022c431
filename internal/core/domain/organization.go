package domain

import "time"

// Organization is a tenant; every account, vendor and category belongs to exactly one.
type Organization struct {
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	AuditFields
}

// MemberRole defines the possible roles a user can have within an organization.
type MemberRole string

const (
	RoleAdmin    MemberRole = "ADMIN"
	RoleMember   MemberRole = "MEMBER"
	RoleReadOnly MemberRole = "READONLY"
)

// rank orders roles so a higher role satisfies a lower requirement.
func (r MemberRole) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleMember:
		return 2
	case RoleReadOnly:
		return 1
	}
	return 0
}

// Satisfies reports whether r grants at least the required role.
func (r MemberRole) Satisfies(required MemberRole) bool {
	return r.rank() > 0 && r.rank() >= required.rank()
}

// OrganizationMember represents the membership of a User in an Organization.
type OrganizationMember struct {
	OrganizationID string     `json:"organizationID"`
	UserID         string     `json:"userID"`
	Role           MemberRole `json:"role"`
	JoinedAt       time.Time  `json:"joinedAt"`
}
