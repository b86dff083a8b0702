package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_IsBlocking(t *testing.T) {
	blocking := []BookingStatus{
		StatusRequested, StatusConfirmed, StatusArrived, StatusCompleted, StatusNoShow,
	}
	for _, status := range blocking {
		b := &Booking{Status: status}
		assert.True(t, b.IsBlocking(), "status %s should block the slot", status)
	}

	nonBlocking := []BookingStatus{
		StatusCancelledByUser, StatusCancelledByCompany, StatusDeclined,
	}
	for _, status := range nonBlocking {
		b := &Booking{Status: status}
		assert.False(t, b.IsBlocking(), "status %s should not block the slot", status)
	}
}

func TestBooking_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusRequested}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeCancelled())

	assert.False(t, (&Booking{Status: StatusArrived}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCancelledByUser}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusDeclined}).CanBeCancelled())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusRequested, StatusConfirmed, true},
		{StatusRequested, StatusDeclined, true},
		{StatusRequested, StatusCancelledByUser, true},
		{StatusRequested, StatusCancelledByCompany, true},
		{StatusRequested, StatusCompleted, false},
		{StatusRequested, StatusArrived, false},

		{StatusConfirmed, StatusArrived, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCancelledByUser, true},
		{StatusConfirmed, StatusCancelledByCompany, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusConfirmed, StatusRequested, false},

		{StatusArrived, StatusCompleted, true},
		{StatusArrived, StatusNoShow, false},
		{StatusArrived, StatusCancelledByUser, false},

		// Терминальные статусы не имеют исходящих переходов
		{StatusCompleted, StatusArrived, false},
		{StatusCancelledByUser, StatusRequested, false},
		{StatusDeclined, StatusConfirmed, false},
		{StatusNoShow, StatusCompleted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to),
			"transition %s -> %s", tt.from, tt.to)
	}
}

func TestTrainingSession_HasSpareCapacity(t *testing.T) {
	s := &TrainingSession{Status: SessionOpen, Capacity: 2, SeatsTaken: 1}
	assert.True(t, s.HasSpareCapacity())

	s.SeatsTaken = 2
	assert.False(t, s.HasSpareCapacity())

	s = &TrainingSession{Status: SessionCancelled, Capacity: 2, SeatsTaken: 0}
	assert.False(t, s.HasSpareCapacity())
}
