package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	LoginPath = "/login"
	RootPath  = "/"
)

// Redirect sends the client to location, using 303 after non-GET requests so
// browsers follow up with a GET
func Redirect(c *gin.Context, location string) {
	code := http.StatusFound
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		code = http.StatusSeeOther
	}
	c.Redirect(code, location)
	c.Abort()
}

// RequireAuth sends anonymous visitors to the login page
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c).Anonymous() {
			Redirect(c, LoginPath)
			return
		}
		c.Next()
	}
}

// RequireRole admits only sessions with one of the allowed roles. Anonymous
// visitors go to the login page, other roles go back to their own home.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess.Anonymous() {
			Redirect(c, LoginPath)
			return
		}

		for _, role := range allowedRoles {
			if sess.Role == role {
				c.Next()
				return
			}
		}
		Redirect(c, RootPath)
	}
}

// RequireAnonymous sends logged-in visitors away from the login and signup pages
func RequireAnonymous() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).Anonymous() {
			Redirect(c, RootPath)
			return
		}
		c.Next()
	}
}
