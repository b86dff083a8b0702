package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()

	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)

	iv, err := NewInterval(s, e)
	require.NoError(t, err)
	return iv
}

func TestNewInterval_RejectsDegenerate(t *testing.T) {
	now := time.Now()

	_, err := NewInterval(now, now)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(now, now.Add(-time.Minute))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	iv, err := NewInterval(now, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, iv.Duration())
}

func TestInterval_Overlaps(t *testing.T) {
	base := mustInterval(t, "2026-09-10T10:00:00Z", "2026-09-10T11:00:00Z")

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{
			name:  "identical",
			other: mustInterval(t, "2026-09-10T10:00:00Z", "2026-09-10T11:00:00Z"),
			want:  true,
		},
		{
			name:  "partial overlap from left",
			other: mustInterval(t, "2026-09-10T09:30:00Z", "2026-09-10T10:30:00Z"),
			want:  true,
		},
		{
			name:  "contained inside",
			other: mustInterval(t, "2026-09-10T10:15:00Z", "2026-09-10T10:45:00Z"),
			want:  true,
		},
		{
			name:  "touching at start is not overlap",
			other: mustInterval(t, "2026-09-10T09:00:00Z", "2026-09-10T10:00:00Z"),
			want:  false,
		},
		{
			name:  "touching at end is not overlap",
			other: mustInterval(t, "2026-09-10T11:00:00Z", "2026-09-10T12:00:00Z"),
			want:  false,
		},
		{
			name:  "fully before",
			other: mustInterval(t, "2026-09-10T08:00:00Z", "2026-09-10T09:00:00Z"),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			// Пересечение симметрично
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestInterval_OverlapsBuffered(t *testing.T) {
	existing := mustInterval(t, "2026-09-10T14:00:00Z", "2026-09-10T14:30:00Z")
	buffer := 15 * time.Minute

	// Кандидат в буферной зоне после существующего бронирования
	candidate := mustInterval(t, "2026-09-10T14:40:00Z", "2026-09-10T15:10:00Z")
	assert.True(t, candidate.OverlapsBuffered(existing, buffer))

	// Кандидат ровно на границе буфера - полуоткрытость сохраняется
	candidate = mustInterval(t, "2026-09-10T14:45:00Z", "2026-09-10T15:15:00Z")
	assert.False(t, candidate.OverlapsBuffered(existing, buffer))

	// Буферная зона перед существующим бронированием
	candidate = mustInterval(t, "2026-09-10T13:20:00Z", "2026-09-10T13:50:00Z")
	assert.True(t, candidate.OverlapsBuffered(existing, buffer))

	// Конец кандидата ровно на границе буфера - не конфликт
	candidate = mustInterval(t, "2026-09-10T13:15:00Z", "2026-09-10T13:45:00Z")
	assert.False(t, candidate.OverlapsBuffered(existing, buffer))

	candidate = mustInterval(t, "2026-09-10T13:00:00Z", "2026-09-10T13:46:00Z")
	assert.True(t, candidate.OverlapsBuffered(existing, buffer))

	candidate = mustInterval(t, "2026-09-10T13:00:00Z", "2026-09-10T13:40:00Z")
	assert.False(t, candidate.OverlapsBuffered(existing, buffer))

	// Нулевой буфер эквивалентен обычному пересечению
	candidate = mustInterval(t, "2026-09-10T14:30:00Z", "2026-09-10T15:00:00Z")
	assert.False(t, candidate.OverlapsBuffered(existing, 0))
}

func TestInterval_OverlapsBuffered_SwapGivesSameResult(t *testing.T) {
	a := mustInterval(t, "2026-09-10T14:00:00Z", "2026-09-10T14:30:00Z")
	b := mustInterval(t, "2026-09-10T14:40:00Z", "2026-09-10T15:10:00Z")
	buffer := 15 * time.Minute

	assert.Equal(t, a.OverlapsBuffered(b, buffer), b.OverlapsBuffered(a, buffer))
}

func TestInterval_Contains(t *testing.T) {
	outer := mustInterval(t, "2026-09-10T09:00:00Z", "2026-09-10T18:00:00Z")

	assert.True(t, outer.Contains(mustInterval(t, "2026-09-10T09:00:00Z", "2026-09-10T18:00:00Z")))
	assert.True(t, outer.Contains(mustInterval(t, "2026-09-10T10:00:00Z", "2026-09-10T11:00:00Z")))
	assert.False(t, outer.Contains(mustInterval(t, "2026-09-10T08:30:00Z", "2026-09-10T09:30:00Z")))
	assert.False(t, outer.Contains(mustInterval(t, "2026-09-10T17:30:00Z", "2026-09-10T18:30:00Z")))
}

func TestInterval_OverlapsAny(t *testing.T) {
	candidate := mustInterval(t, "2026-09-10T10:00:00Z", "2026-09-10T11:00:00Z")

	others := []Interval{
		mustInterval(t, "2026-09-10T08:00:00Z", "2026-09-10T09:00:00Z"),
		mustInterval(t, "2026-09-10T12:00:00Z", "2026-09-10T13:00:00Z"),
	}
	assert.False(t, candidate.OverlapsAny(others))

	others = append(others, mustInterval(t, "2026-09-10T10:30:00Z", "2026-09-10T11:30:00Z"))
	assert.True(t, candidate.OverlapsAny(others))
}
