package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return fmt.Errorf("%w: dateFrom and dateTo are required", ErrInvalidDateRange)
	}

	if req.DateTo.Before(req.DateFrom) {
		return fmt.Errorf("%w: dateTo must not be before dateFrom", ErrInvalidDateRange)
	}

	// Ограничиваем диапазон, чтобы один запрос не генерировал месяцы слотов
	days := int(req.DateTo.Sub(req.DateFrom).Hours()/24) + 1
	if days > domain.MaxSlotRangeDays {
		return fmt.Errorf("%w: range must not exceed %d days", ErrInvalidDateRange, domain.MaxSlotRangeDays)
	}

	return nil
}
