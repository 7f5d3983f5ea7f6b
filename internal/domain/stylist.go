package domain

import (
	"time"

	"github.com/m04kA/Salon-BookingService/pkg/types"
)

// WorkWindow is the open interval of time-of-day a stylist works on a weekday
type WorkWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// WeeklySchedule maps weekdays to work windows.
// A missing weekday means the stylist does not work that day.
type WeeklySchedule map[time.Weekday]WorkWindow

// Stylist represents a stylist from the catalog.
// Immutable reference data loaded from configuration.
type Stylist struct {
	ID          string
	Name        string
	Email       string
	Specialties []string
	Schedule    WeeklySchedule
	Active      bool
}

// HasSpecialty returns true if the stylist is qualified for the service
func (s Stylist) HasSpecialty(serviceName string) bool {
	for _, specialty := range s.Specialties {
		if specialty == serviceName {
			return true
		}
	}
	return false
}

// WindowOn returns the work window for the weekday of date,
// or false if the stylist does not work that day
func (s Stylist) WindowOn(date time.Time) (WorkWindow, bool) {
	window, ok := s.Schedule[date.Weekday()]
	return window, ok
}
