package cancel_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
// Отмена через защищенный API всегда выполняется от имени бизнеса
func (r *CancelBookingRequest) ToServiceRequest() *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		Reason: r.Reason,
		By:     domain.CancelledByBusiness,
	}
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	Cancelled        bool `json:"cancelled"`
	AlreadyCancelled bool `json:"alreadyCancelled"`
}
