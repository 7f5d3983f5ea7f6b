package domain

import "time"

// Service represents a salon service from the catalog.
// Immutable reference data loaded from configuration.
type Service struct {
	Name            string
	Description     string
	DurationMinutes int
	Price           float64
	Active          bool
}

// Duration returns the service duration as time.Duration
func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
