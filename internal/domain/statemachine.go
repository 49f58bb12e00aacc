package domain

import "errors"

var (
	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("domain: invalid status transition")

	// ErrAlreadyCancelled возвращается при переходе из терминального статуса cancelled
	// Повторная отмена - идемпотентный no-op, вызывающая сторона сообщает "уже отменено"
	ErrAlreadyCancelled = errors.New("domain: booking is already cancelled")
)

// TransitionEvent событие жизненного цикла бронирования
type TransitionEvent string

const (
	// EventConfirm бизнес подтверждает pending бронирование
	EventConfirm TransitionEvent = "confirm"

	// EventCancel отмена бронирования клиентом или бизнесом
	EventCancel TransitionEvent = "cancel"

	// EventProposeModification бизнес предлагает новое время
	EventProposeModification TransitionEvent = "propose_modification"

	// EventConfirmModification клиент подтверждает перенос по токену
	EventConfirmModification TransitionEvent = "confirm_modification"

	// EventDiscardProposal предложение отозвано или токен истёк - бронь возвращается к исходному слоту
	EventDiscardProposal TransitionEvent = "discard_proposal"
)

// transitions таблица допустимых переходов жизненного цикла
// Закрытое множество состояний: недопустимый переход - ошибка конструирования,
// а не разбросанные по вызывающим местам проверки флагов
var transitions = map[BookingStatus]map[TransitionEvent]BookingStatus{
	StatusPending: {
		EventConfirm: StatusConfirmed,
		EventCancel:  StatusCancelled,
	},
	StatusConfirmed: {
		EventCancel:              StatusCancelled,
		EventProposeModification: StatusModificationPending,
	},
	StatusModificationPending: {
		EventConfirmModification: StatusConfirmed,
		EventDiscardProposal:     StatusConfirmed,
		EventCancel:              StatusCancelled,
	},
	// StatusCancelled терминален - переходов нет
}

// NextStatus возвращает статус после применения события
// Для событий из статуса cancelled возвращает ErrAlreadyCancelled при повторной
// отмене и ErrInvalidTransition для остальных событий
func NextStatus(from BookingStatus, event TransitionEvent) (BookingStatus, error) {
	if from == StatusCancelled {
		if event == EventCancel {
			return "", ErrAlreadyCancelled
		}
		return "", ErrInvalidTransition
	}

	next, ok := transitions[from][event]
	if !ok {
		return "", ErrInvalidTransition
	}
	return next, nil
}

// CanTransition проверяет допустимость перехода без применения
func CanTransition(from BookingStatus, event TransitionEvent) bool {
	_, err := NextStatus(from, event)
	return err == nil
}
