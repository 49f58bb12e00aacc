package get_available_slots

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

// DaySlotsResponse HTTP модель слотов одного дня
type DaySlotsResponse struct {
	Date     string         `json:"date"`
	IsClosed bool           `json:"isClosed"`
	Slots    []SlotResponse `json:"slots"`
}

// AvailableSlotsResponse HTTP модель ответа
type AvailableSlotsResponse struct {
	BusinessID int64              `json:"businessId"`
	StaffID    *int64             `json:"staffId,omitempty"`
	ServiceID  int64              `json:"serviceId"`
	Days       []DaySlotsResponse `json:"days"`
}

// parseQuery строит запрос use case из path и query параметров
func parseQuery(businessID int64, query url.Values) (*getAvailableSlots.Request, error) {
	serviceID, err := strconv.ParseInt(query.Get("serviceId"), 10, 64)
	if err != nil {
		return nil, err
	}

	dateFrom, err := time.Parse(domain.DateFormat, query.Get("dateFrom"))
	if err != nil {
		return nil, err
	}

	dateTo, err := time.Parse(domain.DateFormat, query.Get("dateTo"))
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
	}

	if raw := query.Get("staffId"); raw != "" {
		staffID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	if raw := query.Get("onlyAvailable"); raw != "" {
		onlyAvailable, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.OnlyAvailable = onlyAvailable
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	days := make([]DaySlotsResponse, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]SlotResponse, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = SlotResponse{
				StartTime:      slot.StartTime.String(),
				EndTime:        slot.EndTime.String(),
				AvailableSpots: slot.AvailableSpots,
				TotalSpots:     slot.TotalSpots,
			}
		}
		days[i] = DaySlotsResponse{
			Date:     day.Date.Format(domain.DateFormat),
			IsClosed: day.IsClosed,
			Slots:    slots,
		}
	}

	return &AvailableSlotsResponse{
		BusinessID: resp.BusinessID,
		StaffID:    resp.StaffID,
		ServiceID:  resp.ServiceID,
		Days:       days,
	}
}
