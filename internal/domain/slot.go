package domain

import "time"

// Slot represents a candidate appointment start time together with
// the stylists free to take it
type Slot struct {
	StartTime  time.Time
	StylistIDs []string
}
