package models

import "strings"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleStaff   UserRole = "STAFF"
	RoleStudent UserRole = "STUDENT"
)

// ParseRole normalises upstream role strings such as "ROLE_admin".
func ParseRole(raw string) UserRole {
	role := strings.ToUpper(strings.TrimSpace(raw))
	return UserRole(strings.TrimPrefix(role, "ROLE_"))
}

// User is a principal known to the local development login.
type User struct {
	ID           string     `json:"userId"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Roles        []UserRole `json:"roles"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
