package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kaamsetu/internal/catalog"
	"kaamsetu/internal/model"
	"kaamsetu/internal/repository"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrAlreadyAssigned = errors.New("booking has already been accepted")
	ErrAddressRequired = errors.New("address is required")
)

// BookingService drives the booking lifecycle: Pending -> On The Way
type BookingService interface {
	CreateBooking(ctx context.Context, requesterID int64, serviceID int, address string) (*model.Booking, error)
	ListBookingsFor(ctx context.Context, accountID int64) ([]model.Booking, error)
	ListPending(ctx context.Context) ([]model.Booking, error)
	ListAssignedTo(ctx context.Context, providerID int64) ([]model.Booking, error)
	AcceptBooking(ctx context.Context, bookingID, providerID int64) (*model.Booking, error)
}

type bookingService struct {
	repo    repository.BookingRepository
	catalog catalog.Provider
	now     func() time.Time
}

// NewBookingService creates a new BookingService
func NewBookingService(repo repository.BookingRepository, catalog catalog.Provider) BookingService {
	return &bookingService{repo: repo, catalog: catalog, now: time.Now}
}

// CreateBooking copies the catalog item's title, price and image into a new
// Pending booking, so later catalog changes never reach existing bookings
func (s *bookingService) CreateBooking(ctx context.Context, requesterID int64, serviceID int, address string) (*model.Booking, error) {
	item, ok := s.catalog.Service(serviceID)
	if !ok {
		return nil, ErrServiceNotFound
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrAddressRequired
	}

	now := s.now()
	booking := &model.Booking{
		UserID:      requesterID,
		ServiceName: item.Title,
		Price:       item.Price,
		Image:       item.Image,
		Status:      model.BookingStatusPending,
		Date:        now.Format(model.BookingDateLayout),
		Address:     address,
		CreatedAt:   now,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking in repo: %w", err)
	}
	return booking, nil
}

func (s *bookingService) ListBookingsFor(ctx context.Context, accountID int64) ([]model.Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for account: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) ListPending(ctx context.Context) ([]model.Booking, error) {
	bookings, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) ListAssignedTo(ctx context.Context, providerID int64) ([]model.Booking, error) {
	bookings, err := s.repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned bookings: %w", err)
	}
	return bookings, nil
}

// AcceptBooking binds providerID to a Pending booking. Only one provider can
// win; everyone else gets ErrAlreadyAssigned.
func (s *bookingService) AcceptBooking(ctx context.Context, bookingID, providerID int64) (*model.Booking, error) {
	booking, err := s.repo.Accept(ctx, bookingID, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to accept booking: %w", err)
	}
	if booking != nil {
		return booking, nil
	}

	// Nothing matched: either the booking is missing or it already left Pending.
	// On The Way is terminal, so this read cannot race back to Pending.
	existing, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find booking after rejected accept: %w", err)
	}
	if existing == nil {
		return nil, ErrBookingNotFound
	}
	return nil, ErrAlreadyAssigned
}
