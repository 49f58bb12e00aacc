package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason *string            `json:"reason,omitempty"`
	By     domain.CancelledBy `json:"-"`
}

// ProposeModificationRequest запрос на предложение переноса бронирования
// Длительность слота не передается - предложенный слот наследует длительность
// исходного бронирования
type ProposeModificationRequest struct {
	Date      time.Time        `json:"date"`
	StartTime types.TimeString `json:"startTime"`
	Reason    *string          `json:"reason,omitempty"`
}

// GetBusinessBookingsRequest запрос календаря бронирований бизнеса
type GetBusinessBookingsRequest struct {
	BusinessID       int64      `json:"businessId"`
	StaffID          *int64     `json:"staffId,omitempty"`          // Фильтр по сотруднику (опционально)
	StartDate        *time.Time `json:"startDate,omitempty"`        // Начало периода (опционально)
	EndDate          *time.Time `json:"endDate,omitempty"`          // Конец периода (опционально)
	Status           *string    `json:"status,omitempty"`           // Фильтр по статусу (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessBookingsRequest) ToDomainFilter() (domain.BusinessBookingsFilter, error) {
	filter := domain.BusinessBookingsFilter{
		BusinessID:       r.BusinessID,
		StaffID:          r.StaffID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ProposalResponse предложенный перенос в составе бронирования
type ProposalResponse struct {
	Date      string  `json:"date"`      // "2026-03-15"
	StartTime string  `json:"startTime"` // "14:00"
	EndTime   string  `json:"endTime"`   // "15:00"
	Reason    *string `json:"reason,omitempty"`
	ExpiresAt *string `json:"expiresAt,omitempty"` // ISO 8601 format
}

// BookingResponse ответ с данными бронирования
// Токены в ответ не входят: action-токен выдается один раз при создании,
// modification-токен - в ответе на предложение переноса
type BookingResponse struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"businessId"`
	StaffID    *int64 `json:"staffId,omitempty"`
	ServiceID  int64  `json:"serviceId"`

	CustomerID    *int64  `json:"customerId,omitempty"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone,omitempty"`

	BookingDate string `json:"bookingDate"` // "2026-03-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "10:30"
	Status      string `json:"status"`

	// Денормализованные данные услуги
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`

	Proposal *ProposalResponse `json:"proposal,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CancelResult результат отмены бронирования
type CancelResult struct {
	AlreadyCancelled bool `json:"alreadyCancelled"`
}

// ProposeResponse ответ на предложение переноса
// ModificationToken выдается единственный раз - бизнес передает его клиенту
// через канал нотификаций
type ProposeResponse struct {
	Booking           *BookingResponse `json:"booking"`
	ModificationToken string           `json:"modificationToken"`
	ExpiresAt         time.Time        `json:"expiresAt"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		BusinessID:         b.BusinessID,
		StaffID:            b.StaffID,
		ServiceID:          b.ServiceID,
		CustomerID:         b.CustomerID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		ServicePrice:       b.ServicePrice,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.HasProposal() {
		proposal := &ProposalResponse{
			Date:      b.ProposedDate.Format(domain.DateFormat),
			StartTime: b.ProposedStart.String(),
			EndTime:   b.ProposedEnd.String(),
			Reason:    b.ModificationReason,
		}
		if b.ModificationTokenExpiresAt != nil {
			expiresStr := b.ModificationTokenExpiresAt.Format(time.RFC3339)
			proposal.ExpiresAt = &expiresStr
		}
		resp.Proposal = proposal
	}

	if b.CancelledBy != nil {
		cancelledBy := string(*b.CancelledBy)
		resp.CancelledBy = &cancelledBy
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	// Валидируем статус
	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusModificationPending,
		domain.StatusCancelled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
