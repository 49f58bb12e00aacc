package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var ruleColumns = []string{
	"id",
	"business_id",
	"staff_id",
	"day_of_week",
	"start_time",
	"end_time",
	"slot_duration_minutes",
	"max_bookings_per_slot",
	"is_open",
	"created_at",
	"updated_at",
}

var blockedColumns = []string{
	"id",
	"business_id",
	"staff_id",
	"starts_at",
	"ends_at",
	"reason",
	"created_at",
}

// Repository репозиторий недельных правил доступности и блокировок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRuleForScopeAndWeekday получает правило scope на день недели
// Для scope сотрудника ищутся ТОЛЬКО правила этого сотрудника: отсутствие
// правила означает "недоступен", отката к правилам бизнеса нет
func (r *Repository) GetRuleForScopeAndWeekday(ctx context.Context, scope domain.Scope, weekday time.Weekday) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(ruleColumns...).
		From("availability_rules").
		Where(squirrel.Eq{"business_id": scope.BusinessID}).
		Where(squirrel.Eq{"day_of_week": int(weekday)})

	if scope.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *scope.StaffID})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": nil})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRuleForScopeAndWeekday - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRuleForScopeAndWeekday - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// GetRulesForScope получает все недельные правила scope, упорядоченные по дню недели
func (r *Repository) GetRulesForScope(ctx context.Context, scope domain.Scope) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(ruleColumns...).
		From("availability_rules").
		Where(squirrel.Eq{"business_id": scope.BusinessID}).
		OrderBy("day_of_week ASC")

	if scope.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *scope.StaffID})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": nil})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesForScope - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesForScope - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.AvailabilityRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetRulesForScope - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRulesForScope - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// ReplaceRulesForScope атомарно заменяет недельное расписание scope
// Вызывается внутри транзакции: старые правила удаляются, новые вставляются
func (r *Repository) ReplaceRulesForScope(ctx context.Context, scope domain.Scope, rules []*domain.AvailabilityRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("availability_rules").
		Where(squirrel.Eq{"business_id": scope.BusinessID})

	if scope.StaffID != nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"staff_id": *scope.StaffID})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"staff_id": nil})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceRulesForScope - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceRulesForScope - execute delete: %v", ErrExecQuery, err)
	}

	if len(rules) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("availability_rules").
		Columns(
			"business_id",
			"staff_id",
			"day_of_week",
			"start_time",
			"end_time",
			"slot_duration_minutes",
			"max_bookings_per_slot",
			"is_open",
		)

	for _, rule := range rules {
		insertBuilder = insertBuilder.Values(
			scope.BusinessID,
			scope.StaffID,
			int(rule.DayOfWeek),
			rule.StartTime,
			rule.EndTime,
			rule.SlotDurationMinutes,
			rule.MaxBookingsPerSlot,
			rule.IsOpen,
		)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceRulesForScope - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceRulesForScope - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetBlockedTimesInRange получает все блокировки бизнеса, пересекающие диапазон [from, to)
// Возвращаются и блокировки уровня бизнеса, и блокировки всех сотрудников -
// фильтрация по scope выполняется в домене через BlockedTime.AppliesTo
func (r *Repository) GetBlockedTimesInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockedColumns...).
		From("blocked_times").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Lt{"starts_at": to}).
		Where(squirrel.Gt{"ends_at": from}).
		OrderBy("starts_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedTimesInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedTimesInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocked := make([]*domain.BlockedTime, 0)
	for rows.Next() {
		bt, err := scanBlockedTime(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetBlockedTimesInRange - scan row: %v", ErrScanRow, err)
		}
		blocked = append(blocked, bt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlockedTimesInRange - rows error: %v", ErrScanRow, err)
	}

	return blocked, nil
}

// CreateBlockedTime создает блокировку
func (r *Repository) CreateBlockedTime(ctx context.Context, bt *domain.BlockedTime) (*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_times").
		Columns(
			"business_id",
			"staff_id",
			"starts_at",
			"ends_at",
			"reason",
		).
		Values(
			bt.BusinessID,
			bt.StaffID,
			bt.StartsAt,
			bt.EndsAt,
			bt.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedTime - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&bt.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedTime - execute insert: %v", ErrExecQuery, err)
	}

	bt.CreatedAt = createdAt.Time
	return bt, nil
}

// DeleteBlockedTime удаляет блокировку бизнеса
func (r *Repository) DeleteBlockedTime(ctx context.Context, businessID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_times").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedTime - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedTime - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedTime - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedTimeNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.AvailabilityRule, error) {
	var rule domain.AvailabilityRule
	var weekday int
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&rule.ID,
		&rule.BusinessID,
		&rule.StaffID,
		&weekday,
		&rule.StartTime,
		&rule.EndTime,
		&rule.SlotDurationMinutes,
		&rule.MaxBookingsPerSlot,
		&rule.IsOpen,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.DayOfWeek = time.Weekday(weekday)
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}

func scanBlockedTime(row rowScanner) (*domain.BlockedTime, error) {
	var bt domain.BlockedTime
	var createdAt sql.NullTime

	err := row.Scan(
		&bt.ID,
		&bt.BusinessID,
		&bt.StaffID,
		&bt.StartsAt,
		&bt.EndsAt,
		&bt.Reason,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	bt.CreatedAt = createdAt.Time
	return &bt, nil
}
