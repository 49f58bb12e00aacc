package domain

import "time"

// Business корневая сущность тенанта
// Владеет услугами, сотрудниками, расписанием и бронированиями
type Business struct {
	ID        int64
	Name      string
	Slug      string // уникальный публичный идентификатор
	Timezone  string // IANA-имя локального часового пояса, например "Europe/Moscow"
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service услуга, которую можно забронировать
type Service struct {
	ID                   int64
	BusinessID           int64
	Name                 string
	DurationMinutes      int
	Price                float64
	IsActive             bool // услуга с бронированиями не удаляется, а отключается
	RequiresConfirmation bool // новые бронирования начинают с pending вместо confirmed
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// InitialBookingStatus возвращает начальный статус бронирования этой услуги
func (s *Service) InitialBookingStatus() BookingStatus {
	if s.RequiresConfirmation {
		return StatusPending
	}
	return StatusConfirmed
}

// StaffMember сотрудник бизнеса с независимым недельным расписанием
type StaffMember struct {
	ID         int64
	BusinessID int64
	Name       string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Scope область применения правил доступности и проверок конфликтов:
// либо конкретный сотрудник, либо общий пул бизнеса (StaffID == nil)
type Scope struct {
	BusinessID int64
	StaffID    *int64
}

// IsStaffScoped проверяет, что scope указывает на конкретного сотрудника
func (s Scope) IsStaffScoped() bool {
	return s.StaffID != nil
}
