package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// RuleInput недельное правило в запросе на замену расписания
type RuleInput struct {
	DayOfWeek           int     `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	StartTime           string  `json:"startTime"` // "09:00"
	EndTime             string  `json:"endTime"`   // "18:00"
	SlotDurationMinutes *int    `json:"slotDurationMinutes,omitempty"`
	MaxBookingsPerSlot  *int    `json:"maxBookingsPerSlot,omitempty"`
	IsOpen              *bool   `json:"isOpen,omitempty"`
}

// ReplaceScheduleRequest запрос на полную замену недельного расписания scope
type ReplaceScheduleRequest struct {
	BusinessID int64       `json:"businessId"`
	StaffID    *int64      `json:"staffId,omitempty"` // nil = расписание бизнеса
	Rules      []RuleInput `json:"rules"`
}

// AddBlockedTimeRequest запрос на добавление блокировки
type AddBlockedTimeRequest struct {
	BusinessID int64     `json:"businessId"`
	StaffID    *int64    `json:"staffId,omitempty"` // nil = блокировка всего бизнеса
	StartsAt   time.Time `json:"startsAt"`
	EndsAt     time.Time `json:"endsAt"`
	Reason     *string   `json:"reason,omitempty"`
}

// Response модели

// RuleResponse недельное правило в ответе
type RuleResponse struct {
	ID                  int64  `json:"id"`
	DayOfWeek           int    `json:"dayOfWeek"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	MaxBookingsPerSlot  int    `json:"maxBookingsPerSlot"`
	IsOpen              bool   `json:"isOpen"`
}

// ScheduleResponse недельное расписание scope
type ScheduleResponse struct {
	BusinessID int64          `json:"businessId"`
	StaffID    *int64         `json:"staffId,omitempty"`
	Rules      []RuleResponse `json:"rules"`
}

// BlockedTimeResponse блокировка в ответе
type BlockedTimeResponse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessId"`
	StaffID    *int64    `json:"staffId,omitempty"`
	StartsAt   time.Time `json:"startsAt"`
	EndsAt     time.Time `json:"endsAt"`
	Reason     *string   `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Методы конвертации

// ToDomainRule конвертирует RuleInput в доменную модель
// Отсутствующие настройки слотов получают значения по умолчанию
func (r *RuleInput) ToDomainRule(businessID int64, staffID *int64) (*domain.AvailabilityRule, error) {
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	rule := &domain.AvailabilityRule{
		BusinessID:          businessID,
		StaffID:             staffID,
		DayOfWeek:           time.Weekday(r.DayOfWeek),
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
		MaxBookingsPerSlot:  domain.DefaultMaxBookingsPerSlot,
		IsOpen:              true,
	}

	if r.SlotDurationMinutes != nil {
		rule.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.MaxBookingsPerSlot != nil {
		rule.MaxBookingsPerSlot = *r.MaxBookingsPerSlot
	}
	if r.IsOpen != nil {
		rule.IsOpen = *r.IsOpen
	}

	return rule, nil
}

// FromDomainRule конвертирует доменную модель в DTO
func FromDomainRule(rule *domain.AvailabilityRule) RuleResponse {
	return RuleResponse{
		ID:                  rule.ID,
		DayOfWeek:           int(rule.DayOfWeek),
		StartTime:           rule.StartTime.String(),
		EndTime:             rule.EndTime.String(),
		SlotDurationMinutes: rule.SlotDurationMinutes,
		MaxBookingsPerSlot:  rule.MaxBookingsPerSlot,
		IsOpen:              rule.IsOpen,
	}
}

// FromDomainRules конвертирует расписание scope в DTO
func FromDomainRules(businessID int64, staffID *int64, rules []*domain.AvailabilityRule) *ScheduleResponse {
	resp := &ScheduleResponse{
		BusinessID: businessID,
		StaffID:    staffID,
		Rules:      make([]RuleResponse, len(rules)),
	}
	for i, rule := range rules {
		resp.Rules[i] = FromDomainRule(rule)
	}
	return resp
}

// FromDomainBlockedTime конвертирует блокировку в DTO
func FromDomainBlockedTime(bt *domain.BlockedTime) *BlockedTimeResponse {
	if bt == nil {
		return nil
	}
	return &BlockedTimeResponse{
		ID:         bt.ID,
		BusinessID: bt.BusinessID,
		StaffID:    bt.StaffID,
		StartsAt:   bt.StartsAt,
		EndsAt:     bt.EndsAt,
		Reason:     bt.Reason,
		CreatedAt:  bt.CreatedAt,
	}
}
