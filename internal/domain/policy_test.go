package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestEffectiveDuration(t *testing.T) {
	t.Run("nil policy keeps service duration", func(t *testing.T) {
		var p *BookingPolicy
		got, ok := p.EffectiveDuration(45)
		require.True(t, ok)
		assert.Equal(t, 45, got)
	})

	t.Run("duration below minimum is clamped up", func(t *testing.T) {
		p := &BookingPolicy{MinDurationMinutes: 60}
		got, ok := p.EffectiveDuration(30)
		require.True(t, ok)
		assert.Equal(t, 60, got)
	})

	t.Run("duration above maximum cannot be offered", func(t *testing.T) {
		p := &BookingPolicy{MaxDurationMinutes: intPtr(90)}
		_, ok := p.EffectiveDuration(120)
		assert.False(t, ok)
	})

	t.Run("duration equal to maximum is allowed", func(t *testing.T) {
		p := &BookingPolicy{MaxDurationMinutes: intPtr(90)}
		got, ok := p.EffectiveDuration(90)
		require.True(t, ok)
		assert.Equal(t, 90, got)
	})

	t.Run("duration within bounds is unchanged", func(t *testing.T) {
		p := &BookingPolicy{MinDurationMinutes: 30, MaxDurationMinutes: intPtr(120)}
		got, ok := p.EffectiveDuration(60)
		require.True(t, ok)
		assert.Equal(t, 60, got)
	})
}

func TestStepMinutes(t *testing.T) {
	t.Run("fixed grid wins over hint", func(t *testing.T) {
		p := &BookingPolicy{UseFixedIntervals: true, IntervalMinutes: 15}
		assert.Equal(t, 15, p.StepMinutes(intPtr(45), 60))
	})

	t.Run("hint wins over effective duration", func(t *testing.T) {
		p := &BookingPolicy{}
		assert.Equal(t, 45, p.StepMinutes(intPtr(45), 60))
	})

	t.Run("falls back to effective duration", func(t *testing.T) {
		p := &BookingPolicy{}
		assert.Equal(t, 60, p.StepMinutes(nil, 60))
	})

	t.Run("nil policy honors hint", func(t *testing.T) {
		var p *BookingPolicy
		assert.Equal(t, 20, p.StepMinutes(intPtr(20), 60))
	})

	t.Run("non-positive hint is ignored", func(t *testing.T) {
		var p *BookingPolicy
		assert.Equal(t, 60, p.StepMinutes(intPtr(0), 60))
	})
}

func TestAllowsCancellationAt(t *testing.T) {
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	t.Run("nil policy always allows", func(t *testing.T) {
		var p *BookingPolicy
		assert.True(t, p.AllowsCancellationAt(start.Add(-time.Minute), start))
	})

	t.Run("zero window always allows", func(t *testing.T) {
		p := &BookingPolicy{CancellationWindowMinutes: 0}
		assert.True(t, p.AllowsCancellationAt(start.Add(-time.Second), start))
	})

	t.Run("exactly on the boundary is allowed", func(t *testing.T) {
		p := &BookingPolicy{CancellationWindowMinutes: 120}
		now := start.Add(-120 * time.Minute)
		assert.True(t, p.AllowsCancellationAt(now, start))
	})

	t.Run("inside the window is rejected", func(t *testing.T) {
		p := &BookingPolicy{CancellationWindowMinutes: 120}
		now := start.Add(-120*time.Minute + time.Second)
		assert.False(t, p.AllowsCancellationAt(now, start))
	})

	t.Run("before the window is allowed", func(t *testing.T) {
		p := &BookingPolicy{CancellationWindowMinutes: 120}
		now := start.Add(-121 * time.Minute)
		assert.True(t, p.AllowsCancellationAt(now, start))
	})
}

func TestWithinAdvanceWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("nil policy has no limit", func(t *testing.T) {
		var p *BookingPolicy
		assert.True(t, p.WithinAdvanceWindow(now.AddDate(2, 0, 0), now))
	})

	t.Run("date on the last allowed day", func(t *testing.T) {
		p := &BookingPolicy{MaxAdvanceDays: intPtr(14)}
		assert.True(t, p.WithinAdvanceWindow(now.AddDate(0, 0, 14), now))
	})

	t.Run("date one day beyond the limit", func(t *testing.T) {
		p := &BookingPolicy{MaxAdvanceDays: intPtr(14)}
		assert.False(t, p.WithinAdvanceWindow(now.AddDate(0, 0, 15), now))
	})

	t.Run("time of day does not matter", func(t *testing.T) {
		p := &BookingPolicy{MaxAdvanceDays: intPtr(1)}
		lateTomorrow := time.Date(2025, 6, 11, 23, 59, 0, 0, time.UTC)
		assert.True(t, p.WithinAdvanceWindow(lateTomorrow, now))
	})
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  BookingPolicy
		wantErr bool
	}{
		{"empty policy is valid", BookingPolicy{}, false},
		{"full valid policy", BookingPolicy{
			MinDurationMinutes:        30,
			MaxDurationMinutes:        intPtr(120),
			MaxDailyBookings:          intPtr(10),
			CancellationWindowMinutes: 120,
			MinAdvanceMinutes:         intPtr(60),
			MaxAdvanceDays:            intPtr(30),
			UseFixedIntervals:         true,
			IntervalMinutes:           15,
		}, false},
		{"negative min duration", BookingPolicy{MinDurationMinutes: -1}, true},
		{"min duration above max", BookingPolicy{MinDurationMinutes: 90, MaxDurationMinutes: intPtr(60)}, true},
		{"max duration above hard limit", BookingPolicy{MaxDurationMinutes: intPtr(MaxServiceDurationMinutes + 1)}, true},
		{"zero max daily bookings", BookingPolicy{MaxDailyBookings: intPtr(0)}, true},
		{"negative cancellation window", BookingPolicy{CancellationWindowMinutes: -10}, true},
		{"min advance above hard limit", BookingPolicy{MinAdvanceMinutes: intPtr(MaxMinAdvanceMinutes + 1)}, true},
		{"max advance above a year", BookingPolicy{MaxAdvanceDays: intPtr(MaxAdvanceBookingDays + 1)}, true},
		{"fixed intervals without step", BookingPolicy{UseFixedIntervals: true}, true},
		{"interval below hard limit", BookingPolicy{IntervalMinutes: MinIntervalMinutes - 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
