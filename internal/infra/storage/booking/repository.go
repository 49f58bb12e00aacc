package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// bookingColumns полный список колонок таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"business_id",
	"staff_id",
	"service_id",
	"customer_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"service_name",
	"service_price",
	"action_token",
	"proposed_date",
	"proposed_start",
	"proposed_end",
	"modification_reason",
	"modification_token",
	"modification_token_expires_at",
	"modification_token_used_at",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается только из сериализуемой транзакции аллокатора: вставка и
// проверка конфликтов должны видеть одно и то же состояние корзины слотов
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"business_id",
			"staff_id",
			"service_id",
			"customer_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"service_name",
			"service_price",
			"action_token",
		).
		Values(
			booking.BusinessID,
			booking.StaffID,
			booking.ServiceID,
			booking.CustomerID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.ServiceName,
			booking.ServicePrice,
			booking.ActionToken,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByActionToken получает бронирование по постоянному self-service токену
func (r *Repository) GetByActionToken(ctx context.Context, token domain.ActionToken) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"action_token": token.String()})
}

// GetByModificationToken получает бронирование по одноразовому токену переноса
// Внутри транзакции строка блокируется (FOR UPDATE): проверка срока, гашение
// токена и применение перехода должны быть одной атомарной единицей,
// чтобы двойной клик клиента не погасил токен дважды
func (r *Repository) GetByModificationToken(ctx context.Context, token domain.ModificationToken) (*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"modification_token": token.String()})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.getOneFromBuilder(ctx, selectBuilder, "GetByModificationToken")
}

// GetActiveByScopeAndDate получает активные бронирования scope на дату
// Scope со StaffID == nil означает общий пул бизнеса (staff_id IS NULL),
// а не "все сотрудники". Внутри транзакции аллокатора строки корзины
// блокируются FOR UPDATE - это точка сериализации конкурентных аллокаций
func (r *Repository) GetActiveByScopeAndDate(ctx context.Context, scope domain.Scope, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"business_id": scope.BusinessID}).
		Where(squirrel.Eq{"booking_date": date}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		OrderBy("start_time ASC")

	if scope.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *scope.StaffID})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": nil})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByScopeAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByScopeAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByBusinessWithFilter получает бронирования бизнеса с гибкой фильтрацией
// для календаря: по сотруднику, периоду, статусу, с отменёнными или без
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	// Для конкретной даты сортируем по времени начала, для периода - сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus переводит бронирование из статуса from в статус to
// Compare-and-set: проверка перехода в сервисе и сам UPDATE разнесены по
// времени, поэтому условие на исходный статус повторяется в WHERE - иначе
// конкурентная отмена могла бы быть перезаписана. Строки bookings физически
// не удаляются, так что 0 затронутых строк означает конкурентную смену статуса
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	if err := r.execExpectingRow(ctx, executor, query, args, "UpdateStatus"); err != nil {
		if err == ErrBookingNotFound {
			return ErrStatusConflict
		}
		return err
	}
	return nil
}

// Cancel переводит бронирование в терминальный статус cancelled с причиной
// Уже отмененная строка не затрагивается: конкурентная двойная отмена не
// должна перезаписать причину первой
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, by domain.CancelledBy) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_by", by).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	if err := r.execExpectingRow(ctx, executor, query, args, "Cancel"); err != nil {
		if err == ErrBookingNotFound {
			return ErrStatusConflict
		}
		return err
	}
	return nil
}

// Proposal параметры предложения переноса
type Proposal struct {
	Date      time.Time
	Start     types.TimeString
	End       types.TimeString
	Reason    *string
	Token     domain.ModificationToken
	ExpiresAt time.Time
}

// SetProposal сохраняет предложение переноса и переводит бронь в modification_pending
// Исходные date/start/end не меняются - они остаются действующей резервацией.
// Переход разрешен только из confirmed, и WHERE повторяет это условие,
// чтобы конкурентная отмена не была перезаписана предложением
func (r *Repository) SetProposal(ctx context.Context, id int64, p Proposal) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusModificationPending).
		Set("proposed_date", p.Date).
		Set("proposed_start", p.Start).
		Set("proposed_end", p.End).
		Set("modification_reason", p.Reason).
		Set("modification_token", p.Token.String()).
		Set("modification_token_expires_at", p.ExpiresAt).
		Set("modification_token_used_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetProposal - build update query: %v", ErrBuildQuery, err)
	}

	if err := r.execExpectingRow(ctx, executor, query, args, "SetProposal"); err != nil {
		if err == ErrBookingNotFound {
			return ErrStatusConflict
		}
		return err
	}
	return nil
}

// MarkModificationTokenUsed гасит одноразовый токен переноса
// Предложение и статус не меняются: погашенный токен с сохранившимся
// предложением означает неудачное подтверждение - бизнес должен предложить заново
func (r *Repository) MarkModificationTokenUsed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("modification_token_used_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"modification_token": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkModificationTokenUsed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkModificationTokenUsed")
}

// DiscardProposal отбрасывает предложение переноса и возвращает бронь в confirmed
// Исходный слот не меняется, токен гасится безвозвратно
func (r *Repository) DiscardProposal(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusConfirmed).
		Set("proposed_date", nil).
		Set("proposed_start", nil).
		Set("proposed_end", nil).
		Set("modification_reason", nil).
		Set("modification_token", nil).
		Set("modification_token_expires_at", nil).
		Set("modification_token_used_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusModificationPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DiscardProposal - build update query: %v", ErrBuildQuery, err)
	}

	if err := r.execExpectingRow(ctx, executor, query, args, "DiscardProposal"); err != nil {
		if err == ErrBookingNotFound {
			return ErrNoProposal
		}
		return err
	}
	return nil
}

// ApplyProposal делает предложенный слот действующим: proposed поля становятся
// активными date/start/end, предложение и токен очищаются, статус - confirmed
func (r *Repository) ApplyProposal(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_date", squirrel.Expr("proposed_date")).
		Set("start_time", squirrel.Expr("proposed_start")).
		Set("end_time", squirrel.Expr("proposed_end")).
		Set("status", domain.StatusConfirmed).
		Set("proposed_date", nil).
		Set("proposed_start", nil).
		Set("proposed_end", nil).
		Set("modification_reason", nil).
		Set("modification_token", nil).
		Set("modification_token_expires_at", nil).
		Set("modification_token_used_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusModificationPending}).
		Where(squirrel.NotEq{"proposed_date": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ApplyProposal - build update query: %v", ErrBuildQuery, err)
	}

	if err := r.execExpectingRow(ctx, executor, query, args, "ApplyProposal"); err != nil {
		if err == ErrBookingNotFound {
			return ErrNoProposal
		}
		return err
	}
	return nil
}

// Вспомогательные методы

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where)

	return r.getOneFromBuilder(ctx, selectBuilder, "getOne")
}

func (r *Repository) getOneFromBuilder(ctx context.Context, selectBuilder squirrel.SelectBuilder, op string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в доменную модель
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.BusinessID,
		&booking.StaffID,
		&booking.ServiceID,
		&booking.CustomerID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.ServiceName,
		&booking.ServicePrice,
		&booking.ActionToken,
		&booking.ProposedDate,
		&booking.ProposedStart,
		&booking.ProposedEnd,
		&booking.ModificationReason,
		&booking.ModificationToken,
		&booking.ModificationTokenExpiresAt,
		&booking.ModificationTokenUsedAt,
		&booking.CancellationReason,
		&booking.CancelledBy,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
