package confirm_modification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	tokenService "github.com/m04kA/SMC-AppointmentService/internal/service/tokens"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// inlineTxManager выполняет транзакционную функцию без настоящей транзакции
// и запоминает, вернула ли она ошибку (что означало бы откат побочных эффектов)
type inlineTxManager struct {
	fnErr error
}

func (m *inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.fnErr = fn(ctx)
	return m.fnErr
}

type fakeTokenResolver struct {
	booking *domain.Booking
	err     error
}

func (r *fakeTokenResolver) ResolveModificationToken(_ context.Context, _ domain.ModificationToken) (*domain.Booking, error) {
	return r.booking, r.err
}

type fakeBookingRepo struct {
	bucket []*domain.Booking

	markedUsedIDs []int64
	appliedIDs    []int64
	applyErr      error
}

func (r *fakeBookingRepo) GetActiveByScopeAndDate(_ context.Context, _ domain.Scope, _ time.Time) ([]*domain.Booking, error) {
	return r.bucket, nil
}

func (r *fakeBookingRepo) MarkModificationTokenUsed(_ context.Context, id int64) error {
	r.markedUsedIDs = append(r.markedUsedIDs, id)
	return nil
}

func (r *fakeBookingRepo) ApplyProposal(_ context.Context, id int64) error {
	r.appliedIDs = append(r.appliedIDs, id)
	return r.applyErr
}

type fakeScheduleRepo struct {
	rule    *domain.AvailabilityRule
	blocked []*domain.BlockedTime
}

func (r *fakeScheduleRepo) GetRuleForScopeAndWeekday(_ context.Context, _ domain.Scope, _ time.Weekday) (*domain.AvailabilityRule, error) {
	if r.rule == nil {
		return nil, scheduleRepo.ErrRuleNotFound
	}
	return r.rule, nil
}

func (r *fakeScheduleRepo) GetBlockedTimesInRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.BlockedTime, error) {
	return r.blocked, nil
}

type fakeNotifier struct {
	events []string
}

func (n *fakeNotifier) Notify(_ context.Context, eventType string, _, _ int64, _ any) {
	n.events = append(n.events, eventType)
}

// proposedMonday - понедельник, на который предложен перенос
var proposedMonday = time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC)

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:            42,
		BusinessID:    1,
		ServiceID:     2,
		BookingDate:   time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		EndTime:       "11:00",
		Status:        domain.StatusModificationPending,
		ServiceName:   "Стрижка",
		ServicePrice:  1500,
		ProposedDate:  ptr.Ptr(proposedMonday),
		ProposedStart: ptr.Ptr(types.TimeString("14:00")),
		ProposedEnd:   ptr.Ptr(types.TimeString("15:00")),
	}
}

func mondayRule() *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		BusinessID:          1,
		DayOfWeek:           time.Monday,
		StartTime:           "09:00",
		EndTime:             "18:00",
		SlotDurationMinutes: 60,
		MaxBookingsPerSlot:  1,
		IsOpen:              true,
	}
}

func TestExecute_AppliesProposal(t *testing.T) {
	repo := &fakeBookingRepo{}
	n := &fakeNotifier{}
	uc := NewUseCase(
		&fakeTokenResolver{booking: pendingBooking()},
		repo,
		&fakeScheduleRepo{rule: mondayRule()},
		n,
		&inlineTxManager{},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{Token: "mod-token"})
	require.NoError(t, err)

	assert.Equal(t, proposedMonday, resp.Date)
	assert.Equal(t, types.TimeString("14:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("15:00"), resp.EndTime)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, []int64{42}, repo.appliedIDs)
	assert.Empty(t, repo.markedUsedIDs)
	assert.Equal(t, []string{"booking.modification_applied"}, n.events)
}

func TestExecute_OwnSlotDoesNotConflict(t *testing.T) {
	// Перенос внутри одного дня: исходный слот брони лежит в той же корзине,
	// но исключается из подсчета занятости
	booking := pendingBooking()
	booking.BookingDate = proposedMonday

	repo := &fakeBookingRepo{bucket: []*domain.Booking{{
		ID: 42, BusinessID: 1, StartTime: "14:00", EndTime: "15:00", Status: domain.StatusModificationPending,
	}}}

	uc := NewUseCase(
		&fakeTokenResolver{booking: booking},
		repo,
		&fakeScheduleRepo{rule: mondayRule()},
		&fakeNotifier{},
		&inlineTxManager{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{Token: "mod-token"})
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, repo.appliedIDs)
}

func TestExecute_ConflictInvalidatesToken(t *testing.T) {
	// Слот занят за время жизни ссылки: токен гасится, перенос не применяется,
	// бронь остается в modification_pending
	repo := &fakeBookingRepo{bucket: []*domain.Booking{{
		ID: 77, BusinessID: 1, StartTime: "14:00", EndTime: "15:00", Status: domain.StatusConfirmed,
	}}}
	tx := &inlineTxManager{}

	uc := NewUseCase(
		&fakeTokenResolver{booking: pendingBooking()},
		repo,
		&fakeScheduleRepo{rule: mondayRule()},
		&fakeNotifier{},
		tx,
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{Token: "mod-token"})
	assert.ErrorIs(t, err, ErrSlotFull)

	assert.Equal(t, []int64{42}, repo.markedUsedIDs)
	assert.Empty(t, repo.appliedIDs)
	// Гашение токена должно закоммититься: транзакционная функция не вернула ошибку
	assert.NoError(t, tx.fnErr)
}

func TestExecute_NoRuleOnProposedDay(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := NewUseCase(
		&fakeTokenResolver{booking: pendingBooking()},
		repo,
		&fakeScheduleRepo{},
		&fakeNotifier{},
		&inlineTxManager{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{Token: "mod-token"})
	assert.ErrorIs(t, err, ErrOutsideAvailability)
	assert.Equal(t, []int64{42}, repo.markedUsedIDs)
}

func TestExecute_TokenFailures(t *testing.T) {
	tests := []struct {
		name       string
		resolveErr error
		want       error
	}{
		{name: "not found", resolveErr: tokenService.ErrTokenNotFound, want: ErrTokenNotFound},
		{name: "expired", resolveErr: tokenService.ErrTokenExpired, want: ErrTokenExpired},
		{name: "already used", resolveErr: tokenService.ErrTokenAlreadyUsed, want: ErrTokenAlreadyUsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &inlineTxManager{}
			uc := NewUseCase(
				&fakeTokenResolver{err: tt.resolveErr},
				&fakeBookingRepo{},
				&fakeScheduleRepo{rule: mondayRule()},
				&fakeNotifier{},
				tx,
				nopLogger{},
			)

			_, err := uc.Execute(context.Background(), &Request{Token: "mod-token"})
			assert.ErrorIs(t, err, tt.want)
			// Побочные эффекты резолвера (откат просроченного предложения)
			// должны закоммититься
			assert.NoError(t, tx.fnErr)
		})
	}
}

func TestExecute_NoProposal(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed

	uc := NewUseCase(
		&fakeTokenResolver{booking: booking},
		&fakeBookingRepo{},
		&fakeScheduleRepo{rule: mondayRule()},
		&fakeNotifier{},
		&inlineTxManager{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{Token: "mod-token"})
	assert.ErrorIs(t, err, ErrNoProposal)
}

func TestExecute_EmptyToken(t *testing.T) {
	uc := NewUseCase(
		&fakeTokenResolver{},
		&fakeBookingRepo{},
		&fakeScheduleRepo{},
		&fakeNotifier{},
		&inlineTxManager{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{Token: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
