package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowForPresets(t *testing.T) {
	now := time.Date(2026, 2, 15, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		opt       WindowOption
		wantSince time.Time
	}{
		{WindowLastDay, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)},
		{WindowLastWeek, time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)},
		{WindowLastMonth, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		w, err := WindowFor(tt.opt, now)
		require.NoError(t, err, "option %s", tt.opt)
		assert.Equal(t, tt.wantSince, w.Since, "option %s", tt.opt)
		assert.Equal(t, time.Date(2026, 2, 15, 23, 59, 59, 999999999, time.UTC), w.Until, "option %s", tt.opt)
	}
}

func TestWindowForUnknownOption(t *testing.T) {
	_, err := WindowFor("fortnight", time.Now())
	assert.Error(t, err)
}

func TestCustomWindowRejectsInvertedRange(t *testing.T) {
	start := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	_, err := CustomWindow(start, start.AddDate(0, 0, -1))
	assert.Error(t, err)
}

func TestCustomWindowSingleDay(t *testing.T) {
	day := time.Date(2026, 2, 10, 15, 30, 0, 0, time.UTC)

	w, err := CustomWindow(day, day)
	require.NoError(t, err)

	assert.True(t, w.Contains(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2026, 2, 10, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)))
}

func TestContainsIsBoundaryInclusive(t *testing.T) {
	w, err := CustomWindow(
		time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.True(t, w.Contains(w.Since), "start boundary is included")
	assert.True(t, w.Contains(w.Until), "end boundary is included")
	assert.False(t, w.Contains(w.Since.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.Until.Add(time.Nanosecond)))
}
