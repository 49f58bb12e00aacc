package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий каталога тенанта: бизнесы, услуги, сотрудники
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusinessByID получает бизнес по ID
func (r *Repository) GetBusinessByID(ctx context.Context, id int64) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"slug",
		"timezone",
		"created_at",
		"updated_at",
	).
		From("businesses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessByID - build select query: %v", ErrBuildQuery, err)
	}

	var business domain.Business
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&business.ID,
		&business.Name,
		&business.Slug,
		&business.Timezone,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessByID - scan business: %v", ErrScanRow, err)
	}

	business.CreatedAt = createdAt.Time
	business.UpdatedAt = updatedAt.Time

	return &business, nil
}

// GetServiceByID получает услугу бизнеса по ID
func (r *Repository) GetServiceByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"duration_minutes",
		"price",
		"is_active",
		"requires_confirmation",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": serviceID}).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.BusinessID,
		&service.Name,
		&service.DurationMinutes,
		&service.Price,
		&service.IsActive,
		&service.RequiresConfirmation,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return &service, nil
}

// GetStaffByID получает сотрудника бизнеса по ID
func (r *Repository) GetStaffByID(ctx context.Context, businessID, staffID int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("staff_members").
		Where(squirrel.Eq{"id": staffID}).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffByID - build select query: %v", ErrBuildQuery, err)
	}

	var staff domain.StaffMember
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID,
		&staff.BusinessID,
		&staff.Name,
		&staff.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffByID - scan staff: %v", ErrScanRow, err)
	}

	staff.CreatedAt = createdAt.Time
	staff.UpdatedAt = updatedAt.Time

	return &staff, nil
}

// StaffProvidesService проверяет, что услуга входит в набор компетенций сотрудника
func (r *Repository) StaffProvidesService(ctx context.Context, staffID, serviceID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("staff_services").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"service_id": serviceID}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: StaffProvidesService - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: StaffProvidesService - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}
