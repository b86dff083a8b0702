package domain

import "github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"

// AvailableSlot represents a time slot available for booking
type AvailableSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	AvailableSpots  int // свободные места (вместимость сессии минус занятые)
	TotalSpots      int
}

// IsFull returns true if the slot has no available spots
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// IsFullyAvailable returns true if all spots are available
func (s *AvailableSlot) IsFullyAvailable() bool {
	return s.AvailableSpots == s.TotalSpots
}
