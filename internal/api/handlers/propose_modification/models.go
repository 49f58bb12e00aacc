package propose_modification

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ProposeModificationRequest HTTP request model
type ProposeModificationRequest struct {
	Date      string  `json:"date"`      // "2026-03-15"
	StartTime string  `json:"startTime"` // "14:00"
	Reason    *string `json:"reason,omitempty"`
}

// ProposeModificationResponse HTTP response model
type ProposeModificationResponse struct {
	Booking           *models.BookingResponse `json:"booking"`
	ModificationToken string                  `json:"modificationToken"`
	ExpiresAt         string                  `json:"expiresAt"` // ISO 8601 format
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *ProposeModificationRequest) ToServiceRequest() (*models.ProposeModificationRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &models.ProposeModificationRequest{
		Date:      date,
		StartTime: startTime,
		Reason:    r.Reason,
	}, nil
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.ProposeResponse) *ProposeModificationResponse {
	return &ProposeModificationResponse{
		Booking:           resp.Booking,
		ModificationToken: resp.ModificationToken,
		ExpiresAt:         resp.ExpiresAt.Format(time.RFC3339),
	}
}
