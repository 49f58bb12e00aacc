package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// inlineTxManager выполняет транзакционные функции без настоящей транзакции
type inlineTxManager struct{}

func (inlineTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (inlineTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeScheduleRepo struct {
	rules         []*domain.AvailabilityRule
	replacedRules []*domain.AvailabilityRule
	createdBT     *domain.BlockedTime
	deleteErr     error
}

func (r *fakeScheduleRepo) GetRulesForScope(_ context.Context, _ domain.Scope) ([]*domain.AvailabilityRule, error) {
	return r.rules, nil
}

func (r *fakeScheduleRepo) ReplaceRulesForScope(_ context.Context, _ domain.Scope, rules []*domain.AvailabilityRule) error {
	r.replacedRules = rules
	return nil
}

func (r *fakeScheduleRepo) GetBlockedTimesInRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.BlockedTime, error) {
	return nil, nil
}

func (r *fakeScheduleRepo) CreateBlockedTime(_ context.Context, bt *domain.BlockedTime) (*domain.BlockedTime, error) {
	r.createdBT = bt
	created := *bt
	created.ID = 33
	created.CreatedAt = time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	return &created, nil
}

func (r *fakeScheduleRepo) DeleteBlockedTime(_ context.Context, _, _ int64) error {
	return r.deleteErr
}

type fakeCatalogRepo struct {
	businessErr error
	staffErr    error
}

func (r *fakeCatalogRepo) GetBusinessByID(_ context.Context, id int64) (*domain.Business, error) {
	if r.businessErr != nil {
		return nil, r.businessErr
	}
	return &domain.Business{ID: id, Timezone: "UTC"}, nil
}

func (r *fakeCatalogRepo) GetStaffByID(_ context.Context, businessID, staffID int64) (*domain.StaffMember, error) {
	if r.staffErr != nil {
		return nil, r.staffErr
	}
	return &domain.StaffMember{ID: staffID, BusinessID: businessID, IsActive: true}, nil
}

func newTestService(repo *fakeScheduleRepo, catalog *fakeCatalogRepo) *Service {
	if repo == nil {
		repo = &fakeScheduleRepo{}
	}
	if catalog == nil {
		catalog = &fakeCatalogRepo{}
	}
	return NewService(repo, catalog, inlineTxManager{}, nopLogger{})
}

func validRule(day int) models.RuleInput {
	return models.RuleInput{
		DayOfWeek: day,
		StartTime: "09:00",
		EndTime:   "18:00",
	}
}

func TestReplaceSchedule(t *testing.T) {
	t.Run("replaces rules and applies defaults", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		svc := newTestService(repo, nil)

		resp, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
			BusinessID: 1,
			Rules:      []models.RuleInput{validRule(1), validRule(2)},
		})
		require.NoError(t, err)

		require.Len(t, repo.replacedRules, 2)
		rule := repo.replacedRules[0]
		assert.Equal(t, time.Monday, rule.DayOfWeek)
		assert.Equal(t, domain.DefaultSlotDurationMinutes, rule.SlotDurationMinutes)
		assert.Equal(t, domain.DefaultMaxBookingsPerSlot, rule.MaxBookingsPerSlot)
		assert.True(t, rule.IsOpen)

		require.Len(t, resp.Rules, 2)
		assert.Equal(t, "09:00", resp.Rules[0].StartTime)
	})

	t.Run("explicit slot settings override defaults", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		svc := newTestService(repo, nil)

		input := validRule(3)
		input.SlotDurationMinutes = ptr.Ptr(60)
		input.MaxBookingsPerSlot = ptr.Ptr(5)
		input.IsOpen = ptr.Ptr(false)

		_, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
			BusinessID: 1,
			Rules:      []models.RuleInput{input},
		})
		require.NoError(t, err)

		rule := repo.replacedRules[0]
		assert.Equal(t, 60, rule.SlotDurationMinutes)
		assert.Equal(t, 5, rule.MaxBookingsPerSlot)
		assert.False(t, rule.IsOpen)
	})

	t.Run("staff schedule carries staff scope", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		svc := newTestService(repo, nil)

		_, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
			BusinessID: 1,
			StaffID:    ptr.Ptr(int64(7)),
			Rules:      []models.RuleInput{validRule(5)},
		})
		require.NoError(t, err)

		require.NotNil(t, repo.replacedRules[0].StaffID)
		assert.Equal(t, int64(7), *repo.replacedRules[0].StaffID)
	})

	t.Run("empty rules clears the schedule", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		svc := newTestService(repo, nil)

		resp, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
			BusinessID: 1,
			Rules:      []models.RuleInput{},
		})
		require.NoError(t, err)
		assert.NotNil(t, repo.replacedRules)
		assert.Empty(t, resp.Rules)
	})

	t.Run("validation failures", func(t *testing.T) {
		badDuration := validRule(1)
		badDuration.SlotDurationMinutes = ptr.Ptr(domain.MinSlotDurationMinutes - 1)

		hugeDuration := validRule(1)
		hugeDuration.SlotDurationMinutes = ptr.Ptr(domain.MaxSlotDurationMinutes + 1)

		badCapacity := validRule(1)
		badCapacity.MaxBookingsPerSlot = ptr.Ptr(0)

		overnight := validRule(1)
		overnight.StartTime = "18:00"
		overnight.EndTime = "09:00"

		badFormat := validRule(1)
		badFormat.StartTime = "9 утра"

		tests := []struct {
			name  string
			rules []models.RuleInput
		}{
			{name: "dayOfWeek below range", rules: []models.RuleInput{validRule(-1)}},
			{name: "dayOfWeek above range", rules: []models.RuleInput{validRule(7)}},
			{name: "duplicate dayOfWeek", rules: []models.RuleInput{validRule(2), validRule(2)}},
			{name: "slot duration too short", rules: []models.RuleInput{badDuration}},
			{name: "slot duration too long", rules: []models.RuleInput{hugeDuration}},
			{name: "capacity below minimum", rules: []models.RuleInput{badCapacity}},
			{name: "end before start", rules: []models.RuleInput{overnight}},
			{name: "bad time format", rules: []models.RuleInput{badFormat}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := &fakeScheduleRepo{}
				svc := newTestService(repo, nil)

				_, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
					BusinessID: 1,
					Rules:      tt.rules,
				})
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Nil(t, repo.replacedRules)
			})
		}
	})

	t.Run("unknown business", func(t *testing.T) {
		svc := newTestService(nil, &fakeCatalogRepo{businessErr: catalogRepo.ErrBusinessNotFound})

		_, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
			BusinessID: 99,
			Rules:      []models.RuleInput{validRule(1)},
		})
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("unknown staff", func(t *testing.T) {
		svc := newTestService(nil, &fakeCatalogRepo{staffErr: catalogRepo.ErrStaffNotFound})

		_, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
			BusinessID: 1,
			StaffID:    ptr.Ptr(int64(404)),
			Rules:      []models.RuleInput{validRule(1)},
		})
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})
}

func TestGetSchedule(t *testing.T) {
	t.Run("returns rules for scope", func(t *testing.T) {
		repo := &fakeScheduleRepo{rules: []*domain.AvailabilityRule{{
			ID:                  11,
			BusinessID:          1,
			DayOfWeek:           time.Monday,
			StartTime:           "09:00",
			EndTime:             "18:00",
			SlotDurationMinutes: 30,
			MaxBookingsPerSlot:  1,
			IsOpen:              true,
		}}}
		svc := newTestService(repo, nil)

		resp, err := svc.GetSchedule(context.Background(), 1, nil)
		require.NoError(t, err)

		assert.Equal(t, int64(1), resp.BusinessID)
		require.Len(t, resp.Rules, 1)
		assert.Equal(t, int64(11), resp.Rules[0].ID)
		assert.Equal(t, 1, resp.Rules[0].DayOfWeek)
	})

	t.Run("unknown business", func(t *testing.T) {
		svc := newTestService(nil, &fakeCatalogRepo{businessErr: catalogRepo.ErrBusinessNotFound})

		_, err := svc.GetSchedule(context.Background(), 99, nil)
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})
}

func TestAddBlockedTime(t *testing.T) {
	startsAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("creates blocked time", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		svc := newTestService(repo, nil)

		resp, err := svc.AddBlockedTime(context.Background(), &models.AddBlockedTimeRequest{
			BusinessID: 1,
			StartsAt:   startsAt,
			EndsAt:     startsAt.Add(2 * time.Hour),
			Reason:     ptr.Ptr("санитарный день"),
		})
		require.NoError(t, err)

		assert.Equal(t, int64(33), resp.ID)
		assert.Equal(t, startsAt, resp.StartsAt)
		require.NotNil(t, repo.createdBT)
		assert.Equal(t, int64(1), repo.createdBT.BusinessID)
	})

	t.Run("endsAt must be after startsAt", func(t *testing.T) {
		svc := newTestService(nil, nil)

		_, err := svc.AddBlockedTime(context.Background(), &models.AddBlockedTimeRequest{
			BusinessID: 1,
			StartsAt:   startsAt,
			EndsAt:     startsAt,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing timestamps", func(t *testing.T) {
		svc := newTestService(nil, nil)

		_, err := svc.AddBlockedTime(context.Background(), &models.AddBlockedTimeRequest{
			BusinessID: 1,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("reason too long", func(t *testing.T) {
		svc := newTestService(nil, nil)

		long := make([]byte, domain.MaxReasonLength+1)
		for i := range long {
			long[i] = 'x'
		}

		_, err := svc.AddBlockedTime(context.Background(), &models.AddBlockedTimeRequest{
			BusinessID: 1,
			StartsAt:   startsAt,
			EndsAt:     startsAt.Add(time.Hour),
			Reason:     ptr.Ptr(string(long)),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRemoveBlockedTime(t *testing.T) {
	t.Run("removes existing blocked time", func(t *testing.T) {
		svc := newTestService(&fakeScheduleRepo{}, nil)

		err := svc.RemoveBlockedTime(context.Background(), 1, 33)
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		svc := newTestService(&fakeScheduleRepo{deleteErr: scheduleRepo.ErrBlockedTimeNotFound}, nil)

		err := svc.RemoveBlockedTime(context.Background(), 1, 404)
		assert.ErrorIs(t, err, ErrBlockedTimeNotFound)
	})
}
