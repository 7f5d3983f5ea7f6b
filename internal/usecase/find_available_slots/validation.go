package find_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/Salon-BookingService/internal/domain"
)

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	if req.ServiceName == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.PreferredTime != nil {
		if err := req.PreferredTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid preferred time: %v", ErrInvalidInput, err)
		}
	}

	if req.StylistID != nil && *req.StylistID == "" {
		return fmt.Errorf("%w: stylist id must not be empty", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше maxAdvanceDays
// Граница "сегодня" считается в таймзоне запрошенной даты, иначе при
// расхождении с часами сервера сместилась бы на сутки
func validateDate(date, now time.Time, rules domain.BookingRules) error {
	local := now.In(date.Location())
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, date.Location())
	if date.Before(today) {
		return fmt.Errorf("%w: date %s is in the past", ErrInvalidDate, date.Format(domain.DateFormat))
	}

	maxDate := today.AddDate(0, 0, rules.MaxAdvanceDays)
	if date.After(maxDate) {
		return fmt.Errorf("%w: date %s is beyond %d days", ErrDateTooFarInFuture, date.Format(domain.DateFormat), rules.MaxAdvanceDays)
	}

	return nil
}
