package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BusinessID    int64   `json:"businessId"`
	StaffID       *int64  `json:"staffId,omitempty"`
	ServiceID     int64   `json:"serviceId"`
	Date          string  `json:"date"`      // "2026-03-15"
	StartTime     string  `json:"startTime"` // "10:00"
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	BusinessID    int64   `json:"businessId"`
	StaffID       *int64  `json:"staffId,omitempty"`
	ServiceID     int64   `json:"serviceId"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	CustomerID    *int64  `json:"customerId,omitempty"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	ServiceName   string  `json:"serviceName"`
	ServicePrice  float64 `json:"servicePrice"`
	ActionToken   string  `json:"actionToken"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		BusinessID:    r.BusinessID,
		StaffID:       r.StaffID,
		ServiceID:     r.ServiceID,
		Date:          date,
		StartTime:     startTime,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		BusinessID:    resp.BusinessID,
		StaffID:       resp.StaffID,
		ServiceID:     resp.ServiceID,
		Date:          resp.Date.Format(domain.DateFormat),
		StartTime:     resp.StartTime.String(),
		EndTime:       resp.EndTime.String(),
		Status:        resp.Status,
		CustomerID:    resp.CustomerID,
		CustomerName:  resp.CustomerName,
		CustomerEmail: resp.CustomerEmail,
		CustomerPhone: resp.CustomerPhone,
		ServiceName:   resp.ServiceName,
		ServicePrice:  resp.ServicePrice,
		ActionToken:   resp.ActionToken,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
