package schedule_appointment

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/Salon-BookingService/internal/domain"
)

const maxNotesLength = 1000

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ClientName) == "" {
		return fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}

	if req.ClientEmail == "" {
		return fmt.Errorf("%w: client email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.ClientEmail); err != nil {
		return fmt.Errorf("%w: invalid client email %q", ErrInvalidInput, req.ClientEmail)
	}

	if req.ServiceName == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}

	if req.StylistID != nil && *req.StylistID == "" {
		return fmt.Errorf("%w: stylist id must not be empty", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > maxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, maxNotesLength)
	}

	return nil
}

// validateAdvance проверяет окно бронирования относительно текущего момента
// Граница минимального уведомления включительна: старт ровно через
// minAdvance разрешен
func validateAdvance(start, now time.Time, rules domain.BookingRules) error {
	if start.Before(now.Add(rules.MinAdvance())) {
		return fmt.Errorf("%w: appointments require at least %d hours notice", ErrInvalidInput, rules.MinAdvanceHours)
	}

	if start.After(now.Add(rules.MaxAdvance())) {
		return fmt.Errorf("%w: appointments can be booked at most %d days in advance", ErrInvalidInput, rules.MaxAdvanceDays)
	}

	return nil
}
