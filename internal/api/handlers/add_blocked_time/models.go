package add_blocked_time

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// AddBlockedTimeRequest тело запроса на добавление блокировки
type AddBlockedTimeRequest struct {
	StaffID  *int64    `json:"staffId,omitempty"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Reason   *string   `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP-запрос в модель сервиса
func (r *AddBlockedTimeRequest) ToServiceRequest(businessID int64) *models.AddBlockedTimeRequest {
	return &models.AddBlockedTimeRequest{
		BusinessID: businessID,
		StaffID:    r.StaffID,
		StartsAt:   r.StartsAt,
		EndsAt:     r.EndsAt,
		Reason:     r.Reason,
	}
}
