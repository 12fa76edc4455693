package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kaamsetu/internal/service"
	"kaamsetu/internal/session"
	"kaamsetu/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	SessionKey = "session"

	unavailableMessage = "Something went wrong, please try again"
)

// SessionMiddleware resolves the caller's identity from the session cookie or
// a Bearer token. Requests without a valid token continue as anonymous; when
// the token cannot be checked at all the request fails with 503.
func SessionMiddleware(auth service.AuthService, cookieName string, secure bool, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, fromCookie := sessionToken(c, cookieName)
		if token == "" {
			c.Set(SessionKey, session.Session{})
			c.Next()
			return
		}

		sess, err := auth.ParseSession(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidSession) {
				// The token may still be good; keep the cookie and let the client retry
				log.Error("failed to verify session", utils.Err(err), slog.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": unavailableMessage})
				return
			}
			if fromCookie {
				ClearSessionCookie(c, cookieName, secure)
			}
			sess = session.Session{}
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) (string, bool) {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie, true
	}

	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1], false
	}
	return "", false
}

// CurrentSession returns the request's session, anonymous if none was resolved
func CurrentSession(c *gin.Context) session.Session {
	val, exists := c.Get(SessionKey)
	if !exists {
		return session.Session{}
	}
	sess, _ := val.(session.Session)
	return sess
}

// SetSessionCookie stores the session token in an HttpOnly cookie
func SetSessionCookie(c *gin.Context, name, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie in the browser
func ClearSessionCookie(c *gin.Context, name string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", secure, true)
}
