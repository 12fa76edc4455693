package model

import "time"

const (
	RoleUser     = "user"
	RoleProvider = "provider"
)

// Account represents a registered identity in the marketplace
type Account struct {
	ID           int64     `json:"id"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // Never exposed
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the known account roles
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleProvider
}

// SignupRequest is bound from the signup form or JSON body
type SignupRequest struct {
	Phone    string `form:"phone" json:"phone" binding:"required,phone"`
	Password string `form:"password" json:"password" binding:"required,max=72"`
	Name     string `form:"name" json:"name" binding:"required"`
	Role     string `form:"role" json:"role" binding:"required,oneof=user provider"`
}

// LoginRequest is bound from the login form or JSON body
type LoginRequest struct {
	Phone    string `form:"phone" json:"phone" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}
