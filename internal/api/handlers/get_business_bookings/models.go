package get_business_bookings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// parseQuery строит запрос сервиса из path и query параметров
//
// Поддерживаемые фильтры:
// - staffId: бронирования конкретного сотрудника
// - startDate, endDate: период (YYYY-MM-DD)
// - status: pending | confirmed | modification_pending | cancelled
// - includeCancelled: включить отменённые бронирования
func parseQuery(businessID int64, query url.Values) (*models.GetBusinessBookingsRequest, error) {
	req := &models.GetBusinessBookingsRequest{
		BusinessID: businessID,
	}

	if raw := query.Get("staffId"); raw != "" {
		staffID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		includeCancelled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
