package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/customerservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
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

type staticTokenGen struct{}

func (staticTokenGen) Generate() (string, error) {
	return "action-token", nil
}

// inlineTxManager выполняет транзакционную функцию без настоящей транзакции
type inlineTxManager struct {
	serializableCalls int
}

func (m *inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.serializableCalls++
	return fn(ctx)
}

type fakeBookingRepo struct {
	existing []*domain.Booking
	created  *domain.Booking
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	created.ID = 100
	r.created = &created
	return &created, nil
}

func (r *fakeBookingRepo) GetActiveByScopeAndDate(_ context.Context, _ domain.Scope, _ time.Time) ([]*domain.Booking, error) {
	return r.existing, nil
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

type fakeCatalogRepo struct {
	service *domain.Service
	staff   *domain.StaffMember
}

func (r *fakeCatalogRepo) GetBusinessByID(_ context.Context, id int64) (*domain.Business, error) {
	return &domain.Business{ID: id, Name: "Барбершоп", Timezone: "UTC"}, nil
}

func (r *fakeCatalogRepo) GetServiceByID(_ context.Context, _, _ int64) (*domain.Service, error) {
	return r.service, nil
}

func (r *fakeCatalogRepo) GetStaffByID(_ context.Context, _, _ int64) (*domain.StaffMember, error) {
	return r.staff, nil
}

func (r *fakeCatalogRepo) StaffProvidesService(_ context.Context, _, _ int64) (bool, error) {
	return true, nil
}

type fakeCustomerClient struct {
	customer *customerservice.Customer
	err      error
}

func (c *fakeCustomerClient) FindByEmailWithGracefulDegradation(_ context.Context, _ string) (*customerservice.Customer, error) {
	return c.customer, c.err
}

type fakeNotifier struct {
	events []string
}

func (n *fakeNotifier) Notify(_ context.Context, eventType string, _, _ int64, _ any) {
	n.events = append(n.events, eventType)
}

// testNow - понедельник
var testNow = time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)

func nextMonday() time.Time {
	return time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC)
}

func testService(requiresConfirmation bool) *domain.Service {
	return &domain.Service{
		ID:                   2,
		BusinessID:           1,
		Name:                 "Стрижка",
		DurationMinutes:      30,
		Price:                1500,
		IsActive:             true,
		RequiresConfirmation: requiresConfirmation,
	}
}

func testRule() *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		BusinessID:          1,
		DayOfWeek:           time.Monday,
		StartTime:           "09:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
		MaxBookingsPerSlot:  1,
		IsOpen:              true,
	}
}

func validRequest() *Request {
	return &Request{
		BusinessID:    1,
		ServiceID:     2,
		Date:          nextMonday(),
		StartTime:     "10:00",
		CustomerName:  "Анна Иванова",
		CustomerEmail: "anna@example.com",
	}
}

type useCaseDeps struct {
	bookingRepo  *fakeBookingRepo
	scheduleRepo *fakeScheduleRepo
	catalogRepo  *fakeCatalogRepo
	customer     *fakeCustomerClient
	notifier     *fakeNotifier
	txManager    *inlineTxManager
}

func newTestUseCase(deps useCaseDeps, cfg Config) *UseCase {
	if deps.bookingRepo == nil {
		deps.bookingRepo = &fakeBookingRepo{}
	}
	if deps.scheduleRepo == nil {
		deps.scheduleRepo = &fakeScheduleRepo{rule: testRule()}
	}
	if deps.catalogRepo == nil {
		deps.catalogRepo = &fakeCatalogRepo{service: testService(false)}
	}
	if deps.customer == nil {
		deps.customer = &fakeCustomerClient{err: customerservice.ErrCustomerNotFound}
	}
	if deps.notifier == nil {
		deps.notifier = &fakeNotifier{}
	}
	if deps.txManager == nil {
		deps.txManager = &inlineTxManager{}
	}

	uc := NewUseCase(
		deps.bookingRepo,
		deps.scheduleRepo,
		deps.catalogRepo,
		deps.customer,
		deps.notifier,
		staticTokenGen{},
		deps.txManager,
		nopLogger{},
		cfg,
	)
	uc.timeProvider = fakeClock{now: testNow}
	return uc
}

func TestExecute_Success(t *testing.T) {
	deps := useCaseDeps{
		bookingRepo: &fakeBookingRepo{},
		notifier:    &fakeNotifier{},
		txManager:   &inlineTxManager{},
	}
	uc := newTestUseCase(deps, Config{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "10:30", resp.EndTime.String())
	assert.Equal(t, "action-token", resp.ActionToken)
	assert.Nil(t, resp.CustomerID)
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, 1, deps.txManager.serializableCalls)
	assert.Equal(t, []string{"booking.created"}, deps.notifier.events)
}

func TestExecute_RequiresConfirmationStartsPending(t *testing.T) {
	deps := useCaseDeps{
		catalogRepo: &fakeCatalogRepo{service: testService(true)},
	}
	uc := newTestUseCase(deps, Config{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestExecute_LinksRegisteredCustomer(t *testing.T) {
	deps := useCaseDeps{
		customer: &fakeCustomerClient{customer: &customerservice.Customer{ID: 55, Email: "anna@example.com"}},
	}
	uc := newTestUseCase(deps, Config{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.CustomerID)
	assert.Equal(t, int64(55), *resp.CustomerID)
}

func TestExecute_CustomerServiceDegradationDoesNotBlock(t *testing.T) {
	deps := useCaseDeps{
		customer: &fakeCustomerClient{err: customerservice.ErrServiceDegraded},
	}
	uc := newTestUseCase(deps, Config{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.CustomerID)
}

func TestExecute_Conflicts(t *testing.T) {
	t.Run("slot full", func(t *testing.T) {
		deps := useCaseDeps{
			bookingRepo: &fakeBookingRepo{existing: []*domain.Booking{{
				ID: 1, BusinessID: 1, StartTime: "10:00", EndTime: "10:30", Status: domain.StatusConfirmed,
			}}},
		}
		uc := newTestUseCase(deps, Config{})

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotFull)
	})

	t.Run("no rule means outside availability", func(t *testing.T) {
		deps := useCaseDeps{
			scheduleRepo: &fakeScheduleRepo{},
		}
		uc := newTestUseCase(deps, Config{})

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrOutsideAvailability)
	})

	t.Run("blocked time", func(t *testing.T) {
		deps := useCaseDeps{
			scheduleRepo: &fakeScheduleRepo{
				rule: testRule(),
				blocked: []*domain.BlockedTime{{
					BusinessID: 1,
					StartsAt:   nextMonday().Add(10 * time.Hour),
					EndsAt:     nextMonday().Add(11 * time.Hour),
				}},
			},
		}
		uc := newTestUseCase(deps, Config{})

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrBlocked)
	})
}

func TestExecute_DateValidation(t *testing.T) {
	t.Run("past date", func(t *testing.T) {
		uc := newTestUseCase(useCaseDeps{}, Config{})

		req := validRequest()
		req.Date = testNow.AddDate(0, 0, -1)
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("beyond advance horizon", func(t *testing.T) {
		uc := newTestUseCase(useCaseDeps{}, Config{AdvanceBookingDays: 3})

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("same-day minimum notice", func(t *testing.T) {
		uc := newTestUseCase(useCaseDeps{}, Config{MinBookingNoticeMinutes: 180})

		// now = 08:00, запись на 10:00 того же дня при минимальном
		// интервале 3 часа отклоняется
		req := validRequest()
		req.Date = testNow
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrTooLateToBook)
	})
}

func TestExecute_InactiveService(t *testing.T) {
	svc := testService(false)
	svc.IsActive = false
	uc := newTestUseCase(useCaseDeps{catalogRepo: &fakeCatalogRepo{service: svc}}, Config{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_InactiveStaff(t *testing.T) {
	uc := newTestUseCase(useCaseDeps{
		catalogRepo: &fakeCatalogRepo{
			service: testService(false),
			staff:   &domain.StaffMember{ID: 7, BusinessID: 1, IsActive: false},
		},
	}, Config{})

	req := validRequest()
	req.StaffID = ptr.Ptr(int64(7))
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_InputValidation(t *testing.T) {
	uc := newTestUseCase(useCaseDeps{}, Config{})

	t.Run("missing name", func(t *testing.T) {
		req := validRequest()
		req.CustomerName = "   "
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("broken email", func(t *testing.T) {
		req := validRequest()
		req.CustomerEmail = "not-an-email"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("slot does not fit into the day", func(t *testing.T) {
		req := validRequest()
		req.StartTime = "23:45"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
