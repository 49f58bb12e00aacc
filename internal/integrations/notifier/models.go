package notifier

import "time"

// Типы событий жизненного цикла бронирования
const (
	EventBookingCreated       = "booking.created"
	EventBookingConfirmed     = "booking.confirmed"
	EventBookingCancelled     = "booking.cancelled"
	EventModificationProposed = "booking.modification_proposed"
	EventModificationApplied  = "booking.modification_applied"
	EventProposalDiscarded    = "booking.proposal_discarded"
)

// Event событие для отправки в сервис нотификаций
type Event struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	BookingID  int64     `json:"booking_id"`
	BusinessID int64     `json:"business_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}
