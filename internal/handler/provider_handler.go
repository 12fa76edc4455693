package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"kaamsetu/internal/metrics"
	"kaamsetu/internal/middleware"
	"kaamsetu/internal/service"

	"github.com/gin-gonic/gin"
)

// ProviderHandler handles the provider's dashboard and job acceptance
type ProviderHandler struct {
	service service.BookingService
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(s service.BookingService, m *metrics.Metrics, log *slog.Logger) *ProviderHandler {
	return &ProviderHandler{service: s, metrics: m, log: log}
}

// Dashboard lists open jobs and the provider's own jobs
func (h *ProviderHandler) Dashboard(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	pending, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		internalError(c, h.log, "failed to list pending bookings", err)
		return
	}
	mine, err := h.service.ListAssignedTo(c.Request.Context(), sess.AccountID)
	if err != nil {
		internalError(c, h.log, "failed to list assigned bookings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": pending, "my_jobs": mine, "active": "home"})
}

// Accept claims a pending booking for the current provider
func (h *ProviderHandler) Accept(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.service.AcceptBooking(c.Request.Context(), bookingID, sess.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyAssigned):
			h.metrics.AcceptConflicts.Inc()
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			internalError(c, h.log, "failed to accept booking", err)
		}
		return
	}

	h.metrics.BookingsAccepted.Inc()
	h.log.Info("booking accepted", slog.Int64("booking_id", booking.ID), slog.Int64("provider_id", sess.AccountID))
	middleware.Redirect(c, "/provider")
}

// RegisterProviderRoutes registers provider routes behind providerMW
func (h *ProviderHandler) RegisterProviderRoutes(r gin.IRouter, providerMW gin.HandlerFunc) {
	provider := r.Group("")
	provider.Use(providerMW)
	{
		provider.GET("/provider", h.Dashboard)
		provider.POST("/accept/:bookingId", h.Accept)
	}
}
