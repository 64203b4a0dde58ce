package auth

import "strings"

// 角色取值。
const (
	RoleApplicant = "applicant"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// Identity 是已认证调用方的身份，由令牌解析得到。
type Identity struct {
	ID       uint
	Username string
	Role     string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// HasRole reports whether the identity holds any of roles.
func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleApplicant, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// NormalizeRole lowercases and trims; empty input yields RoleApplicant.
func NormalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return RoleApplicant
	}
	return role
}
