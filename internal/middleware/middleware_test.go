package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kaamsetu/internal/metrics"
	"kaamsetu/internal/model"
	"kaamsetu/internal/service"
	"kaamsetu/internal/session"
	"kaamsetu/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "session"

func init() {
	gin.SetMode(gin.TestMode)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type failingRevoker struct{ err error }

func (r failingRevoker) Revoke(context.Context, string, time.Time) error { return r.err }

func (r failingRevoker) IsRevoked(context.Context, string) (bool, error) { return false, r.err }

func newRouter(jwtUtil *utils.JWTUtil) *gin.Engine {
	return newRouterWithRevoker(jwtUtil, nil)
}

func newRouterWithRevoker(jwtUtil *utils.JWTUtil, revoker session.Revoker) *gin.Engine {
	auth := service.NewAuthService(nil, jwtUtil, revoker)
	r := gin.New()
	r.Use(SessionMiddleware(auth, cookieName, false, discard))

	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, CurrentSession(c))
	})
	r.GET("/user-only", RequireRole(model.RoleUser), func(c *gin.Context) {
		c.String(http.StatusOK, "user")
	})
	r.POST("/provider-only", RequireRole(model.RoleProvider), func(c *gin.Context) {
		c.String(http.StatusOK, "provider")
	})
	r.GET("/any", RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/login", RequireAnonymous(), func(c *gin.Context) {
		c.String(http.StatusOK, "login")
	})
	return r
}

func do(r *gin.Engine, method, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func withCookie(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
}

func TestRequireRole_AnonymousRedirectsToLogin(t *testing.T) {
	r := newRouter(utils.NewJWTUtil("secret", time.Hour))

	rec := do(r, http.MethodGet, "/user-only", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = do(r, http.MethodPost, "/provider-only", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = do(r, http.MethodGet, "/any", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireRole_WrongRoleRedirectsHome(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", time.Hour)
	r := newRouter(jwtUtil)
	userToken, _ := jwtUtil.GenerateToken(1, model.RoleUser, "Asha")
	providerToken, _ := jwtUtil.GenerateToken(2, model.RoleProvider, "Raj")

	rec := do(r, http.MethodGet, "/user-only", withCookie(userToken))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, "/user-only", withCookie(providerToken))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = do(r, http.MethodPost, "/provider-only", withCookie(userToken))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = do(r, http.MethodPost, "/provider-only", withCookie(providerToken))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionMiddleware_BearerToken(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", time.Hour)
	r := newRouter(jwtUtil)
	token, _ := jwtUtil.GenerateToken(2, model.RoleProvider, "Raj")

	rec := do(r, http.MethodGet, "/whoami", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"account_id":2,"role":"provider","name":"Raj"}`, rec.Body.String())
}

func TestSessionMiddleware_InvalidCookieIsCleared(t *testing.T) {
	r := newRouter(utils.NewJWTUtil("secret", time.Hour))
	forged, _ := utils.NewJWTUtil("forged", time.Hour).GenerateToken(1, model.RoleUser, "Asha")

	rec := do(r, http.MethodGet, "/user-only", withCookie(forged))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), cookieName+"=;")
}

func TestSessionMiddleware_RevocationStoreDown(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", time.Hour)
	r := newRouterWithRevoker(jwtUtil, failingRevoker{err: errors.New("dial tcp: connection refused")})
	token, _ := jwtUtil.GenerateToken(1, model.RoleUser, "Asha")

	rec := do(r, http.MethodGet, "/user-only", withCookie(token))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Empty(t, rec.Header().Get("Set-Cookie"), "cookie must survive a store outage")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestSessionMiddleware_RevokedTokenIsCleared(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", time.Hour)
	auth := service.NewAuthService(nil, jwtUtil, nil)
	token, _ := jwtUtil.GenerateToken(1, model.RoleUser, "Asha")
	sess, err := auth.ParseSession(context.Background(), token)
	require.NoError(t, err)

	revoker := &denylist{ids: map[string]bool{sess.TokenID: true}}
	r := newRouterWithRevoker(jwtUtil, revoker)

	rec := do(r, http.MethodGet, "/user-only", withCookie(token))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), cookieName+"=;")
}

type denylist struct{ ids map[string]bool }

func (d *denylist) Revoke(_ context.Context, id string, _ time.Time) error {
	d.ids[id] = true
	return nil
}

func (d *denylist) IsRevoked(_ context.Context, id string) (bool, error) { return d.ids[id], nil }

func TestSessionMiddleware_ExpiredTokenIsAnonymous(t *testing.T) {
	r := newRouter(utils.NewJWTUtil("secret", time.Hour))
	expired, _ := utils.NewJWTUtil("secret", -time.Hour).GenerateToken(1, model.RoleUser, "Asha")

	rec := do(r, http.MethodGet, "/any", withCookie(expired))
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRequireAnonymous(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", time.Hour)
	r := newRouter(jwtUtil)
	token, _ := jwtUtil.GenerateToken(1, model.RoleUser, "Asha")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/login", nil).Code)

	rec := do(r, http.MethodGet, "/login", withCookie(token))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCurrentSession_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, session.Session{}, CurrentSession(c))
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(NewIPRateLimiter(0.001, 2), discard), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/login", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/login", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/login", nil).Code)

	// Another client has its own bucket
	rec := do(r, http.MethodPost, "/login", func(req *http.Request) {
		req.RemoteAddr = "10.0.0.9:1234"
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	clock := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(0.001, 1).WithIdleTTL(time.Minute)
	l.now = func() time.Time { return clock }

	for i := 0; i < 100; i++ {
		l.Allow(fmt.Sprintf("203.0.113.%d", i))
	}
	assert.False(t, l.Allow("203.0.113.1"))
	assert.Len(t, l.limiters, 100)

	clock = clock.Add(2 * time.Minute)
	assert.True(t, l.Allow("198.51.100.7"))
	assert.Len(t, l.limiters, 1)

	// a returning client starts with a fresh bucket
	assert.True(t, l.Allow("203.0.113.1"))
}

func TestRateLimit_IgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.POST("/login", RateLimit(NewIPRateLimiter(0.001, 1), discard), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := do(r, http.MethodPost, "/login", func(req *http.Request) {
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		})
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRequestLogger_RecordsMetrics(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(RequestLogger(discard, m))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do(r, http.MethodGet, "/ping", nil)
	do(r, http.MethodGet, "/missing", nil)

	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}
