package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BMS-SchedulingService/pkg/types"
)

func mustWindow(t *testing.T, start, end string) TimeWindow {
	t.Helper()
	w, err := NewTimeWindow(types.TimeString(start), types.TimeString(end))
	require.NoError(t, err)
	return w
}

func TestNewTimeWindow(t *testing.T) {
	t.Run("valid window", func(t *testing.T) {
		w, err := NewTimeWindow("09:00", "18:00")
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("09:00"), w.Start)
		assert.Equal(t, types.TimeString("18:00"), w.End)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewTimeWindow("18:00", "09:00")
		assert.Error(t, err)
	})

	t.Run("zero length window", func(t *testing.T) {
		_, err := NewTimeWindow("12:00", "12:00")
		assert.Error(t, err)
	})

	t.Run("malformed time", func(t *testing.T) {
		_, err := NewTimeWindow("9am", "18:00")
		assert.Error(t, err)
	})
}

func TestSetWeekly(t *testing.T) {
	t.Run("windows are sorted", func(t *testing.T) {
		tmpl := NewScheduleTemplate(1)
		err := tmpl.SetWeekly(time.Monday, []TimeWindow{
			mustWindow(t, "14:00", "18:00"),
			mustWindow(t, "09:00", "12:00"),
		})
		require.NoError(t, err)
		require.Len(t, tmpl.Weekly[time.Monday], 2)
		assert.Equal(t, types.TimeString("09:00"), tmpl.Weekly[time.Monday][0].Start)
		assert.Equal(t, types.TimeString("14:00"), tmpl.Weekly[time.Monday][1].Start)
	})

	t.Run("overlapping windows are rejected", func(t *testing.T) {
		tmpl := NewScheduleTemplate(1)
		err := tmpl.SetWeekly(time.Monday, []TimeWindow{
			mustWindow(t, "09:00", "13:00"),
			mustWindow(t, "12:00", "18:00"),
		})
		assert.Error(t, err)
	})

	t.Run("touching windows are allowed", func(t *testing.T) {
		tmpl := NewScheduleTemplate(1)
		err := tmpl.SetWeekly(time.Monday, []TimeWindow{
			mustWindow(t, "09:00", "13:00"),
			mustWindow(t, "13:00", "18:00"),
		})
		assert.NoError(t, err)
	})
}

func TestWindowsOn(t *testing.T) {
	// 2025-06-09 - понедельник
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	newTemplate := func(t *testing.T) *ScheduleTemplate {
		tmpl := NewScheduleTemplate(1)
		require.NoError(t, tmpl.SetWeekly(time.Monday, []TimeWindow{mustWindow(t, "10:00", "18:00")}))
		return tmpl
	}

	t.Run("weekly template applies without exception", func(t *testing.T) {
		tmpl := newTemplate(t)
		windows := tmpl.WindowsOn(monday)
		require.Len(t, windows, 1)
		assert.Equal(t, types.TimeString("10:00"), windows[0].Start)
	})

	t.Run("exception overrides the weekly template", func(t *testing.T) {
		tmpl := newTemplate(t)
		require.NoError(t, tmpl.SetException(monday, []TimeWindow{mustWindow(t, "12:00", "15:00")}))
		windows := tmpl.WindowsOn(monday)
		require.Len(t, windows, 1)
		assert.Equal(t, types.TimeString("12:00"), windows[0].Start)
	})

	t.Run("empty exception means closed day", func(t *testing.T) {
		tmpl := newTemplate(t)
		require.NoError(t, tmpl.SetException(monday, nil))
		assert.Empty(t, tmpl.WindowsOn(monday))
	})

	t.Run("removing the exception restores the template", func(t *testing.T) {
		tmpl := newTemplate(t)
		require.NoError(t, tmpl.SetException(monday, nil))
		tmpl.RemoveException(monday)
		assert.Len(t, tmpl.WindowsOn(monday), 1)
	})

	t.Run("day without windows is empty", func(t *testing.T) {
		tmpl := newTemplate(t)
		sunday := monday.AddDate(0, 0, -1)
		assert.Empty(t, tmpl.WindowsOn(sunday))
	})
}
