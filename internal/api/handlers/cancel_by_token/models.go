package cancel_by_token

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// CancelByTokenRequest тело запроса на отмену клиентом (опционально)
type CancelByTokenRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP-запрос в модель сервиса
func (r *CancelByTokenRequest) ToServiceRequest() *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		Reason: r.Reason,
		By:     domain.CancelledByCustomer,
	}
}

// CancelByTokenResponse ответ на отмену по self-service токену
type CancelByTokenResponse struct {
	Cancelled        bool `json:"cancelled"`
	AlreadyCancelled bool `json:"alreadyCancelled"`
}
