package update_schedule

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// UpdateScheduleRequest тело запроса на полную замену расписания
// businessId берется из path, staffId опционален (nil = расписание бизнеса)
type UpdateScheduleRequest struct {
	StaffID *int64             `json:"staffId,omitempty"`
	Rules   []models.RuleInput `json:"rules"`
}

// ToServiceRequest конвертирует HTTP-запрос в модель сервиса
func (r *UpdateScheduleRequest) ToServiceRequest(businessID int64) *models.ReplaceScheduleRequest {
	return &models.ReplaceScheduleRequest{
		BusinessID: businessID,
		StaffID:    r.StaffID,
		Rules:      r.Rules,
	}
}
