package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kaamsetu/internal/metrics"
	"kaamsetu/internal/middleware"
	"kaamsetu/internal/model"
	"kaamsetu/internal/service"
	"kaamsetu/internal/utils"

	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	service service.AuthService
	cookie  CookieConfig
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, cookie CookieConfig, m *metrics.Metrics, log *slog.Logger) *AuthHandler {
	return &AuthHandler{service: s, cookie: cookie, metrics: m, log: log}
}

// homeFor is where a freshly authenticated account lands
func homeFor(role string) string {
	if role == model.RoleProvider {
		return "/provider"
	}
	return "/home"
}

// Root dispatches a visitor to the page matching their session
func (h *AuthHandler) Root(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess.Anonymous() {
		middleware.Redirect(c, middleware.LoginPath)
		return
	}
	middleware.Redirect(c, homeFor(sess.Role))
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": []string{"phone", "password"}})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	account, token, err := h.service.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.metrics.LoginFailures.Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
			return
		}
		internalError(c, h.log, "failed to login", err)
		return
	}

	middleware.SetSessionCookie(c, h.cookie.Name, token, h.cookie.TTL, h.cookie.Secure)
	h.log.Info("account logged in", slog.Int64("account_id", account.ID), slog.String("role", account.Role))
	middleware.Redirect(c, homeFor(account.Role))
}

func (h *AuthHandler) SignupForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"phone", "password", "name", "role"},
		"roles":  []string{model.RoleUser, model.RoleProvider},
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	account, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicatePhone):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			internalError(c, h.log, "failed to sign up", err)
		}
		return
	}

	h.metrics.Signups.WithLabelValues(account.Role).Inc()
	h.log.Info("account created", slog.Int64("account_id", account.ID), slog.String("role", account.Role))
	middleware.Redirect(c, middleware.LoginPath)
}

// Logout ends the session. Failing to record the revocation is logged but the
// cookie is cleared regardless.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := h.service.Logout(c.Request.Context(), sess); err != nil {
		h.log.Error("failed to revoke session", utils.Err(err), slog.Int64("account_id", sess.AccountID))
	}
	middleware.ClearSessionCookie(c, h.cookie.Name, h.cookie.Secure)
	middleware.Redirect(c, middleware.LoginPath)
}

// Profile shows the current session's identity
func (h *AuthHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentSession(c), "active": "profile"})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(r gin.IRouter, limitMW gin.HandlerFunc) {
	r.GET("/", h.Root)

	anon := r.Group("")
	anon.Use(middleware.RequireAnonymous())
	{
		anon.GET("/login", h.LoginForm)
		anon.POST("/login", limitMW, h.Login)
		anon.GET("/signup", h.SignupForm)
		anon.POST("/signup", limitMW, h.Signup)
	}

	// GET stays for plain logout links; with a Lax cookie a cross-site link can
	// also end the session, so forms should POST.
	r.GET("/logout", h.Logout)
	r.POST("/logout", h.Logout)
	r.GET("/profile", middleware.RequireAuth(), h.Profile)
}
