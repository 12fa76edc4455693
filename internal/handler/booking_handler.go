package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"kaamsetu/internal/metrics"
	"kaamsetu/internal/middleware"
	"kaamsetu/internal/model"
	"kaamsetu/internal/service"

	"github.com/gin-gonic/gin"
)

// BookingHandler handles the requesting user's side of bookings
type BookingHandler struct {
	service service.BookingService
	catalog *CatalogHandler
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(s service.BookingService, catalog *CatalogHandler, m *metrics.Metrics, log *slog.Logger) *BookingHandler {
	return &BookingHandler{service: s, catalog: catalog, metrics: m, log: log}
}

// Confirm shows the service about to be booked
func (h *BookingHandler) Confirm(c *gin.Context) {
	svc, ok := h.catalog.lookup(c, "serviceId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": svc, "fields": []string{"address"}})
}

// Finalize creates the booking and sends the user to their bookings list
func (h *BookingHandler) Finalize(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	serviceID, err := strconv.Atoi(c.Param("serviceId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	var req model.FinalizeBookingRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), sess.AccountID, serviceID, req.Address)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		case errors.Is(err, service.ErrAddressRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			internalError(c, h.log, "failed to create booking", err)
		}
		return
	}

	h.metrics.BookingsCreated.Inc()
	h.log.Info("booking created",
		slog.Int64("booking_id", booking.ID), slog.Int64("user_id", booking.UserID), slog.Int("service_id", serviceID))
	middleware.Redirect(c, "/bookings")
}

// MyBookings lists the user's bookings, newest first
func (h *BookingHandler) MyBookings(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	bookings, err := h.service.ListBookingsFor(c.Request.Context(), sess.AccountID)
	if err != nil {
		internalError(c, h.log, "failed to list bookings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "active": "bookings"})
}

// RegisterBookingRoutes registers booking routes behind userMW
func (h *BookingHandler) RegisterBookingRoutes(r gin.IRouter, userMW gin.HandlerFunc) {
	bookings := r.Group("")
	bookings.Use(userMW)
	{
		bookings.GET("/book/confirm/:serviceId", h.Confirm)
		bookings.POST("/book/finalize/:serviceId", h.Finalize)
		bookings.GET("/bookings", h.MyBookings)
	}
}
