package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role distinguishes marketplace members from platform administrators.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// IsValid reports whether the role is known.
func (r Role) IsValid() bool {
	return r == RoleMember || r == RoleAdmin
}

// AccessTokenClaims is the JWT claim set carried by API bearer tokens.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"uid"`
	Role   Role      `json:"role"`
	jwt.RegisteredClaims
}

// AccessTokenPayload carries the inputs for minting a token.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   Role
	JTI    string
}
