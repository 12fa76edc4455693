// Package session describes who is making a request.
package session

import (
	"time"

	"kaamsetu/internal/model"
)

// Session is the authenticated identity attached to a single request. The
// zero value is an anonymous visitor.
type Session struct {
	AccountID int64     `json:"account_id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Anonymous reports whether nobody is logged in
func (s Session) Anonymous() bool {
	return s.AccountID == 0
}

// IsUser reports whether the session belongs to a requesting user
func (s Session) IsUser() bool {
	return !s.Anonymous() && s.Role == model.RoleUser
}

// IsProvider reports whether the session belongs to a service provider
func (s Session) IsProvider() bool {
	return !s.Anonymous() && s.Role == model.RoleProvider
}
