package confirm_modification

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	confirmModification "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_modification"
)

// ConfirmModificationResponse бронирование на новом слоте
type ConfirmModificationResponse struct {
	ID           int64   `json:"id"`
	BusinessID   int64   `json:"businessId"`
	StaffID      *int64  `json:"staffId,omitempty"`
	ServiceID    int64   `json:"serviceId"`
	Date         string  `json:"date"`      // "2026-03-15"
	StartTime    string  `json:"startTime"` // "14:00"
	EndTime      string  `json:"endTime"`   // "15:00"
	Status       string  `json:"status"`
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP-модель
func FromUseCaseResponse(resp *confirmModification.Response) *ConfirmModificationResponse {
	if resp == nil {
		return nil
	}
	return &ConfirmModificationResponse{
		ID:           resp.ID,
		BusinessID:   resp.BusinessID,
		StaffID:      resp.StaffID,
		ServiceID:    resp.ServiceID,
		Date:         resp.Date.Format(domain.DateFormat),
		StartTime:    resp.StartTime.String(),
		EndTime:      resp.EndTime.String(),
		Status:       resp.Status,
		ServiceName:  resp.ServiceName,
		ServicePrice: resp.ServicePrice,
	}
}
