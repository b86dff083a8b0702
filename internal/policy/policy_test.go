package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
)

func TestIsAdvanceNoticeSatisfied(t *testing.T) {
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	minNotice := 2 * time.Hour

	// Ровно на границе now + minNotice - допускается
	assert.True(t, IsAdvanceNoticeSatisfied(now, now.Add(2*time.Hour), minNotice))

	// Секундой раньше границы - отклоняется
	assert.False(t, IsAdvanceNoticeSatisfied(now, now.Add(2*time.Hour-time.Second), minNotice))

	assert.True(t, IsAdvanceNoticeSatisfied(now, now.Add(3*time.Hour), minNotice))

	// Нулевой нотис пропускает всё, что не в прошлом
	assert.True(t, IsAdvanceNoticeSatisfied(now, now, 0))
	assert.False(t, IsAdvanceNoticeSatisfied(now, now.Add(-time.Minute), 0))
}

func booking(userID int64, status domain.BookingStatus, start, end string) *domain.Booking {
	s, _ := time.Parse(time.RFC3339, start)
	e, _ := time.Parse(time.RFC3339, end)
	return &domain.Booking{
		UserID:   userID,
		Status:   status,
		StartsAt: s,
		EndsAt:   e,
	}
}

func TestFindDuplicate(t *testing.T) {
	candidate, err := domain.NewInterval(
		time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	t.Run("overlapping booking of requester is duplicate", func(t *testing.T) {
		existing := []*domain.Booking{
			booking(42, domain.StatusRequested, "2026-09-10T10:30:00Z", "2026-09-10T11:30:00Z"),
		}

		found := FindDuplicate(existing, candidate, 42)
		require.NotNil(t, found)
		assert.Equal(t, int64(42), found.UserID)
		assert.True(t, IsDuplicate(existing, candidate, 42))
	})

	t.Run("other users bookings are ignored", func(t *testing.T) {
		existing := []*domain.Booking{
			booking(7, domain.StatusConfirmed, "2026-09-10T10:00:00Z", "2026-09-10T11:00:00Z"),
		}

		assert.Nil(t, FindDuplicate(existing, candidate, 42))
	})

	t.Run("cancelled and declined bookings are ignored", func(t *testing.T) {
		existing := []*domain.Booking{
			booking(42, domain.StatusCancelledByUser, "2026-09-10T10:00:00Z", "2026-09-10T11:00:00Z"),
			booking(42, domain.StatusCancelledByCompany, "2026-09-10T10:00:00Z", "2026-09-10T11:00:00Z"),
			booking(42, domain.StatusDeclined, "2026-09-10T10:00:00Z", "2026-09-10T11:00:00Z"),
		}

		assert.Nil(t, FindDuplicate(existing, candidate, 42))
	})

	t.Run("adjacent booking is not duplicate", func(t *testing.T) {
		existing := []*domain.Booking{
			booking(42, domain.StatusConfirmed, "2026-09-10T11:00:00Z", "2026-09-10T12:00:00Z"),
		}

		assert.Nil(t, FindDuplicate(existing, candidate, 42))
	})
}
