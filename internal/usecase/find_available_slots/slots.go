package find_available_slots

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/Salon-BookingService/internal/domain"
	"github.com/m04kA/Salon-BookingService/pkg/types"
)

// candidateStarts генерирует кандидатов начала для мастера в его рабочем окне.
// Сетка кандидатов привязана к началу окна с шагом slotInterval; слот обязан
// полностью помещаться в окно (окончание ровно в window.End допустимо).
func candidateStarts(
	window domain.WorkWindow,
	date time.Time,
	duration time.Duration,
	now time.Time,
	rules domain.BookingRules,
	preferredTime *types.TimeString,
) ([]time.Time, error) {
	windowStart, err := window.Start.At(date)
	if err != nil {
		return nil, fmt.Errorf("invalid window start: %w", err)
	}

	windowEnd, err := window.End.At(date)
	if err != nil {
		return nil, fmt.Errorf("invalid window end: %w", err)
	}

	interval := rules.SlotInterval()

	first := windowStart
	if preferredTime != nil {
		preferred, err := preferredTime.At(date)
		if err != nil {
			return nil, fmt.Errorf("invalid preferred time: %w", err)
		}
		if preferred.After(first) {
			// Округляем вверх до ближайшего узла сетки
			offset := preferred.Sub(windowStart)
			steps := offset / interval
			if offset%interval != 0 {
				steps++
			}
			first = windowStart.Add(steps * interval)
		}
	}

	// Граница минимального уведомления включительна: старт ровно
	// через minAdvance от текущего момента разрешен
	minStart := now.Add(rules.MinAdvance())
	maxStart := now.Add(rules.MaxAdvance())
	lastStart := windowEnd.Add(-duration)

	var candidates []time.Time
	for t := first; !t.After(lastStart); t = t.Add(interval) {
		if t.Before(minStart) {
			continue
		}
		if t.After(maxStart) {
			break
		}
		candidates = append(candidates, t)
	}

	return candidates, nil
}

// hasConflict проверяет пересечение слота [start, end) с активными записями
// с учетом буфера между записями
func hasConflict(appointments []*domain.Appointment, start, end time.Time, buffer time.Duration) bool {
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		if a.ConflictsWith(start, end, buffer) {
			return true
		}
	}
	return false
}

// mergeSlots сливает свободные слоты разных мастеров по точному совпадению
// времени начала и сортирует результат
func mergeSlots(byStart map[time.Time][]string) []Slot {
	starts := make([]time.Time, 0, len(byStart))
	for start := range byStart {
		starts = append(starts, start)
	}

	sort.Slice(starts, func(i, j int) bool {
		return starts[i].Before(starts[j])
	})

	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		stylistIDs := byStart[start]
		sort.Strings(stylistIDs)
		slots = append(slots, Slot{
			StartTime:  start,
			StylistIDs: stylistIDs,
		})
	}

	return slots
}
