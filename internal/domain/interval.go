package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ErrInvalidInterval возвращается для интервала с end <= start
// Ночные диапазоны (переход через полночь) не поддерживаются - это ошибка конфигурации
var ErrInvalidInterval = errors.New("domain: invalid interval, end must be after start")

// Interval полуоткрытый временной интервал [Start, End) внутри одного дня
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// NewInterval создает интервал с валидацией границ
func NewInterval(start, end types.TimeString) (Interval, error) {
	if err := start.Validate(); err != nil {
		return Interval{}, err
	}
	if err := end.Validate(); err != nil {
		return Interval{}, err
	}
	if !start.IsBefore(end) {
		return Interval{}, fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps проверяет пересечение полуоткрытых интервалов
// [s1,e1) и [s2,e2) пересекаются тогда и только тогда, когда s1 < e2 && s2 < e1
// Граничащие интервалы (конец одного равен началу другого) НЕ пересекаются
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.IsBefore(other.End) && other.Start.IsBefore(i.End)
}

// Contains проверяет, что other целиком лежит внутри интервала
func (i Interval) Contains(other Interval) bool {
	return !other.Start.IsBefore(i.Start) && !i.End.IsBefore(other.End)
}

// Subtract вычитает other из интервала
// Результат: 0, 1 или 2 оставшихся интервала - вычитаемый диапазон может
// поглотить интервал целиком, срезать край или разрезать его на две части
func (i Interval) Subtract(other Interval) []Interval {
	if !i.Overlaps(other) {
		return []Interval{i}
	}

	result := make([]Interval, 0, 2)

	// Левая часть: [i.Start, other.Start)
	if i.Start.IsBefore(other.Start) {
		result = append(result, Interval{Start: i.Start, End: other.Start})
	}

	// Правая часть: [other.End, i.End)
	if other.End.IsBefore(i.End) {
		result = append(result, Interval{Start: other.End, End: i.End})
	}

	return result
}

// SubtractAll последовательно вычитает все cuts из каждого интервала base
// Результат сохраняет порядок и не содержит пересечений, если base их не содержал
func SubtractAll(base []Interval, cuts []Interval) []Interval {
	result := base
	for _, cut := range cuts {
		next := make([]Interval, 0, len(result))
		for _, iv := range result {
			next = append(next, iv.Subtract(cut)...)
		}
		result = next
	}
	return result
}
