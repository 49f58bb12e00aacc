package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time {
	return c.now
}

type fakeBookingRepo struct {
	byActionToken       map[domain.ActionToken]*domain.Booking
	byModificationToken map[domain.ModificationToken]*domain.Booking

	discardedIDs []int64
	discardErr   error
}

func (r *fakeBookingRepo) GetByActionToken(_ context.Context, token domain.ActionToken) (*domain.Booking, error) {
	if b, ok := r.byActionToken[token]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeBookingRepo) GetByModificationToken(_ context.Context, token domain.ModificationToken) (*domain.Booking, error) {
	if b, ok := r.byModificationToken[token]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeBookingRepo) DiscardProposal(_ context.Context, id int64) error {
	r.discardedIDs = append(r.discardedIDs, id)
	return r.discardErr
}

var testNow = time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

func pendingModificationBooking(expiresAt time.Time) *domain.Booking {
	return &domain.Booking{
		ID:                         42,
		BusinessID:                 1,
		Status:                     domain.StatusModificationPending,
		ProposedDate:               ptr.Ptr(testNow.AddDate(0, 0, 3)),
		ProposedStart:              ptr.Ptr(types.TimeString("14:00")),
		ProposedEnd:                ptr.Ptr(types.TimeString("15:00")),
		ModificationToken:          ptr.Ptr("mod-token"),
		ModificationTokenExpiresAt: &expiresAt,
	}
}

func TestResolveActionToken(t *testing.T) {
	booking := &domain.Booking{ID: 7, ActionToken: "act-token", Status: domain.StatusConfirmed}
	repo := &fakeBookingRepo{
		byActionToken: map[domain.ActionToken]*domain.Booking{"act-token": booking},
	}
	svc := NewService(repo, fakeClock{now: testNow}, nopLogger{})

	t.Run("resolves booking", func(t *testing.T) {
		got, err := svc.ResolveActionToken(context.Background(), "act-token")
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.ResolveActionToken(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.ResolveActionToken(context.Background(), "")
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})
}

func TestResolveModificationToken(t *testing.T) {
	t.Run("valid token resolves booking", func(t *testing.T) {
		booking := pendingModificationBooking(testNow.Add(time.Hour))
		repo := &fakeBookingRepo{
			byModificationToken: map[domain.ModificationToken]*domain.Booking{"mod-token": booking},
		}
		svc := NewService(repo, fakeClock{now: testNow}, nopLogger{})

		got, err := svc.ResolveModificationToken(context.Background(), "mod-token")
		require.NoError(t, err)
		assert.Equal(t, int64(42), got.ID)
		assert.Empty(t, repo.discardedIDs)
	})

	t.Run("expired token reverts proposal lazily", func(t *testing.T) {
		booking := pendingModificationBooking(testNow.Add(-time.Minute))
		repo := &fakeBookingRepo{
			byModificationToken: map[domain.ModificationToken]*domain.Booking{"mod-token": booking},
		}
		svc := NewService(repo, fakeClock{now: testNow}, nopLogger{})

		_, err := svc.ResolveModificationToken(context.Background(), "mod-token")
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.Equal(t, []int64{42}, repo.discardedIDs)
	})

	t.Run("expiry boundary counts as expired", func(t *testing.T) {
		booking := pendingModificationBooking(testNow)
		repo := &fakeBookingRepo{
			byModificationToken: map[domain.ModificationToken]*domain.Booking{"mod-token": booking},
		}
		svc := NewService(repo, fakeClock{now: testNow}, nopLogger{})

		_, err := svc.ResolveModificationToken(context.Background(), "mod-token")
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("expired token tolerates already reverted proposal", func(t *testing.T) {
		booking := pendingModificationBooking(testNow.Add(-time.Minute))
		repo := &fakeBookingRepo{
			byModificationToken: map[domain.ModificationToken]*domain.Booking{"mod-token": booking},
			discardErr:          bookingRepo.ErrNoProposal,
		}
		svc := NewService(repo, fakeClock{now: testNow}, nopLogger{})

		_, err := svc.ResolveModificationToken(context.Background(), "mod-token")
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("used token", func(t *testing.T) {
		booking := pendingModificationBooking(testNow.Add(time.Hour))
		booking.ModificationTokenUsedAt = &testNow
		repo := &fakeBookingRepo{
			byModificationToken: map[domain.ModificationToken]*domain.Booking{"mod-token": booking},
		}
		svc := NewService(repo, fakeClock{now: testNow}, nopLogger{})

		_, err := svc.ResolveModificationToken(context.Background(), "mod-token")
		assert.ErrorIs(t, err, ErrTokenAlreadyUsed)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := NewService(&fakeBookingRepo{}, fakeClock{now: testNow}, nopLogger{})

		_, err := svc.ResolveModificationToken(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})
}
