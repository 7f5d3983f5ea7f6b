package domain

import "time"

// Default booking rule values
const (
	DefaultMinAdvanceHours      = 24
	DefaultMaxAdvanceDays       = 30
	DefaultSlotIntervalMinutes  = 15
	DefaultBufferMinutes        = 15
	DefaultMaxDailyAppointments = 20
)

// BookingRules booking constraints applied by the slot resolver
type BookingRules struct {
	MinAdvanceHours      int  // Minimum hours in advance for booking
	MaxAdvanceDays       int  // Maximum days in advance for booking
	SlotIntervalMinutes  int  // Granularity of generated candidate slots
	BufferMinutes        int  // Mandatory idle minutes between appointments
	MaxDailyAppointments int  // Per-stylist daily cap of active appointments
	AutoConfirm          bool // Create appointments as confirmed instead of pending
}

// MinAdvance returns the minimum advance notice as a duration
func (r BookingRules) MinAdvance() time.Duration {
	return time.Duration(r.MinAdvanceHours) * time.Hour
}

// MaxAdvance returns the maximum advance window as a duration
func (r BookingRules) MaxAdvance() time.Duration {
	return time.Duration(r.MaxAdvanceDays) * 24 * time.Hour
}

// SlotInterval returns the slot granularity as a duration
func (r BookingRules) SlotInterval() time.Duration {
	return time.Duration(r.SlotIntervalMinutes) * time.Minute
}

// Buffer returns the buffer between appointments as a duration
func (r BookingRules) Buffer() time.Duration {
	return time.Duration(r.BufferMinutes) * time.Minute
}

// InitialStatus returns the status newly created appointments receive
func (r BookingRules) InitialStatus() AppointmentStatus {
	if r.AutoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}
