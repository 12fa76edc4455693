package service

import (
	"context"
	"sync"

	"kaamsetu/internal/model"
	"kaamsetu/internal/repository"

	"github.com/stretchr/testify/mock"
)

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) Create(ctx context.Context, a *model.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockAccountRepo) FindByPhone(ctx context.Context, phone string) (*model.Account, error) {
	args := m.Called(ctx, phone)
	a, _ := args.Get(0).(*model.Account)
	return a, args.Error(1)
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Account)
	return a, args.Error(1)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, b *model.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id int64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockBookingRepo) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).([]model.Booking)
	return b, args.Error(1)
}

func (m *mockBookingRepo) ListPending(ctx context.Context) ([]model.Booking, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]model.Booking)
	return b, args.Error(1)
}

func (m *mockBookingRepo) ListByProvider(ctx context.Context, providerID int64) ([]model.Booking, error) {
	args := m.Called(ctx, providerID)
	b, _ := args.Get(0).([]model.Booking)
	return b, args.Error(1)
}

func (m *mockBookingRepo) Accept(ctx context.Context, bookingID, providerID int64) (*model.Booking, error) {
	args := m.Called(ctx, bookingID, providerID)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

// memoryBookingRepo mimics the conditional UPDATE of the Postgres repository
type memoryBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]model.Booking
}

var _ repository.BookingRepository = (*memoryBookingRepo)(nil)

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{bookings: map[int64]model.Booking{}}
}

func (r *memoryBookingRepo) Create(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	r.bookings[b.ID] = *b
	return nil
}

func (r *memoryBookingRepo) FindByID(_ context.Context, id int64) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memoryBookingRepo) filter(keep func(model.Booking) bool, newestFirst bool) []model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Booking{}
	for id := int64(1); id <= r.nextID; id++ {
		if b, ok := r.bookings[id]; ok && keep(b) {
			out = append(out, b)
		}
	}
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func (r *memoryBookingRepo) ListByUser(_ context.Context, userID int64) ([]model.Booking, error) {
	return r.filter(func(b model.Booking) bool { return b.UserID == userID }, true), nil
}

func (r *memoryBookingRepo) ListPending(_ context.Context) ([]model.Booking, error) {
	return r.filter(func(b model.Booking) bool { return b.Status == model.BookingStatusPending }, false), nil
}

func (r *memoryBookingRepo) ListByProvider(_ context.Context, providerID int64) ([]model.Booking, error) {
	return r.filter(func(b model.Booking) bool { return b.ProviderID != nil && *b.ProviderID == providerID }, true), nil
}

func (r *memoryBookingRepo) Accept(_ context.Context, bookingID, providerID int64) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != model.BookingStatusPending {
		return nil, nil
	}
	b.Status = model.BookingStatusOnTheWay
	b.ProviderID = &providerID
	r.bookings[bookingID] = b
	return &b, nil
}
