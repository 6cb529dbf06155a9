package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID             int       `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Lastname       string    `json:"lastname"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Active         bool      `json:"active"`
	RoleID         int       `json:"role_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UpdateUserRequest struct {
	ID       int     `json:"id"`
	Name     *string `json:"name"`
	Lastname *string `json:"lastname"`
}

type Claims struct {
	UserID         int
	UserName       string
	UserEmail      string
	UserRoleID     int
	OrganizationID string
	jwt.RegisteredClaims
}
