package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a booked salon appointment
// Invariant: EndTime = StartTime + service duration, both on the same calendar day
type Appointment struct {
	ID int64

	ClientName  string
	ClientEmail string
	ClientPhone *string

	StylistID string

	// Denormalized service data for history
	ServiceName     string
	ServicePrice    float64
	DurationMinutes int

	StartTime time.Time
	EndTime   time.Time
	Status    AppointmentStatus

	Notes *string

	CancellationReason *string
	CancelledAt        *time.Time

	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot.
// Pending and confirmed appointments block the slot identically;
// only cancellation frees it.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCompleted returns true if the appointment can be marked completed
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsTerminal returns true if the appointment reached a final state
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// ConflictsWith reports whether an appointment with the given interval,
// expanded by buffer on both sides, would overlap this one.
// Boundary cases are not conflicts: an interval may start exactly where
// the buffered window of this appointment ends.
func (a *Appointment) ConflictsWith(start, end time.Time, buffer time.Duration) bool {
	return a.StartTime.Add(-buffer).Before(end) && a.EndTime.Add(buffer).After(start)
}

// StylistAppointmentsFilter фильтр для выборки записей мастера
type StylistAppointmentsFilter struct {
	StylistID       string             // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые записи
}
