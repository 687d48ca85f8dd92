package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for the development login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and the principal it represents.
type LoginResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"tokenType"`
	ExpiresIn int64      `json:"expiresIn"`
	UserID    string     `json:"userId"`
	Email     string     `json:"email"`
	Roles     []UserRole `json:"roles"`
}

// JWTClaims represents the bearer token payload. Upstream issuers disagree on
// the user id claim name, so both spellings are accepted.
type JWTClaims struct {
	UserID       string   `json:"userId,omitempty"`
	LegacyUserID string   `json:"user_id,omitempty"`
	Email        string   `json:"email,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	Role         string   `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// RoleSet returns the normalised roles carried by the token.
func (c *JWTClaims) RoleSet() []UserRole {
	if c == nil {
		return nil
	}
	roles := make([]UserRole, 0, len(c.Roles)+1)
	for _, r := range c.Roles {
		if role := ParseRole(r); role != "" {
			roles = append(roles, role)
		}
	}
	if role := ParseRole(c.Role); role != "" {
		roles = append(roles, role)
	}
	return roles
}

// HasAnyRole reports whether the token carries one of the given roles.
func (c *JWTClaims) HasAnyRole(allowed ...UserRole) bool {
	for _, have := range c.RoleSet() {
		for _, want := range allowed {
			if have == want {
				return true
			}
		}
	}
	return false
}

// PrincipalID returns the best available user identifier.
func (c *JWTClaims) PrincipalID() string {
	if c == nil {
		return ""
	}
	switch {
	case c.Subject != "":
		return c.Subject
	case c.UserID != "":
		return c.UserID
	default:
		return c.LegacyUserID
	}
}
