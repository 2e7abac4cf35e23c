package models

import "strings"

// Role is the account role the booking service assigns at login.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole accepts only the two roles the booking service issues.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.TrimSpace(s)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleCustomer:
		return RoleCustomer, true
	default:
		return "", false
	}
}

// Session is either complete (token and role) or absent.
type Session struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}
