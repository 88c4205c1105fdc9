package slotcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

type stubComputer struct {
	slots   []domain.Slot
	err     error
	stepErr error
	calls   int
}

func (s *stubComputer) ComputeSlots(_ context.Context, _ *domain.Business, _ int64, _ time.Time, _ int64, _ *int) ([]domain.Slot, error) {
	s.calls++
	return s.slots, s.err
}

// SlotStep повторяет разрешение шага без политики: hint либо длительность услуги
func (s *stubComputer) SlotStep(_ context.Context, _ *domain.Business, _ int64, intervalHint *int) (int, error) {
	if s.stepErr != nil {
		return 0, s.stepErr
	}
	if intervalHint != nil && *intervalHint > 0 {
		return *intervalHint, nil
	}
	return 60, nil
}

type frozenTime struct {
	now time.Time
}

func (p *frozenTime) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type countingMetrics struct {
	outcomes map[string]int
}

func (m *countingMetrics) ObserveCache(outcome string) {
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

var (
	testBusiness = &domain.Business{ID: 1, Timezone: "UTC"}
	testDate     = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	testNow      = time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
)

func testSlots() []domain.Slot {
	return []domain.Slot{
		{StartTime: testDate.Add(10 * time.Hour), EndTime: testDate.Add(11 * time.Hour)},
		{StartTime: testDate.Add(11 * time.Hour), EndTime: testDate.Add(12 * time.Hour)},
	}
}

func newTestCache(t *testing.T, computer SlotComputer) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c := New(client, computer, nopLogger{})
	c.timeProvider = &frozenTime{now: testNow}
	return c, mr
}

func assertSameSlots(t *testing.T, want, got []domain.Slot) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].StartTime.Equal(got[i].StartTime))
		assert.True(t, want[i].EndTime.Equal(got[i].EndTime))
	}
}

func TestCache_MissThenHit(t *testing.T) {
	computer := &stubComputer{slots: testSlots()}
	cache, _ := newTestCache(t, computer)
	ctx := context.Background()

	first, err := cache.AvailableSlots(ctx, testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)
	assertSameSlots(t, testSlots(), first)
	assert.Equal(t, 1, computer.calls)

	second, err := cache.AvailableSlots(ctx, testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)
	assertSameSlots(t, testSlots(), second)
	assert.Equal(t, 1, computer.calls, "second call must be served from cache")
}

func TestCache_FutureDateTTL(t *testing.T) {
	computer := &stubComputer{slots: testSlots()}
	cache, mr := newTestCache(t, computer)

	_, err := cache.AvailableSlots(context.Background(), testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)

	key := cache.key(testBusiness.ID, 10, testDate, 100, 60, false, testNow)
	require.True(t, mr.Exists(key))
	assert.Equal(t, DefaultFutureTTL, mr.TTL(key))
}

func TestCache_TodayKeyAndTTL(t *testing.T) {
	computer := &stubComputer{slots: testSlots()}
	cache, mr := newTestCache(t, computer)
	cache.timeProvider = &frozenTime{now: testDate.Add(10*time.Hour + 30*time.Minute)}

	_, err := cache.AvailableSlots(context.Background(), testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)

	// В ключ для сегодняшней даты входит текущий час
	key := cache.key(testBusiness.ID, 10, testDate, 100, 60, true, testDate.Add(10*time.Hour+30*time.Minute))
	assert.Contains(t, key, "h10")
	require.True(t, mr.Exists(key))
	assert.Equal(t, DefaultTodayTTL, mr.TTL(key))
}

func TestCache_ExpiryTriggersRecompute(t *testing.T) {
	computer := &stubComputer{slots: testSlots()}
	cache, mr := newTestCache(t, computer)
	ctx := context.Background()

	_, err := cache.AvailableSlots(ctx, testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)

	mr.FastForward(DefaultFutureTTL + time.Second)

	_, err = cache.AvailableSlots(ctx, testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, computer.calls)
}

func TestCache_KeyVariesByInputs(t *testing.T) {
	computer := &stubComputer{slots: testSlots()}
	cache, _ := newTestCache(t, computer)
	ctx := context.Background()

	_, err := cache.AvailableSlots(ctx, testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)

	// Другой мастер, другая услуга и другой шаг - отдельные записи
	_, err = cache.AvailableSlots(ctx, testBusiness, 11, testDate, 100, nil)
	require.NoError(t, err)
	_, err = cache.AvailableSlots(ctx, testBusiness, 10, testDate, 200, nil)
	require.NoError(t, err)
	hint := 15
	_, err = cache.AvailableSlots(ctx, testBusiness, 10, testDate, 100, &hint)
	require.NoError(t, err)

	assert.Equal(t, 4, computer.calls)
}

func TestCache_KeyUsesEffectiveStep(t *testing.T) {
	computer := &stubComputer{slots: testSlots()}
	cache, _ := newTestCache(t, computer)
	ctx := context.Background()

	_, err := cache.AvailableSlots(ctx, testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)

	// Явный hint, равный эффективному шагу, попадает в тот же ключ
	hint := 60
	_, err = cache.AvailableSlots(ctx, testBusiness, 10, testDate, 100, &hint)
	require.NoError(t, err)
	assert.Equal(t, 1, computer.calls, "equivalent requests must share one cache entry")
}

func TestCache_StepErrorDegradesToCompute(t *testing.T) {
	computer := &stubComputer{slots: testSlots(), stepErr: errors.New("no such service")}
	cache, _ := newTestCache(t, computer)

	slots, err := cache.AvailableSlots(context.Background(), testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)
	assertSameSlots(t, testSlots(), slots)
	assert.Equal(t, 1, computer.calls)
}

func TestCache_RedisDownDegradesToCompute(t *testing.T) {
	computer := &stubComputer{slots: testSlots()}
	cache, mr := newTestCache(t, computer)
	mr.Close()

	slots, err := cache.AvailableSlots(context.Background(), testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)
	assertSameSlots(t, testSlots(), slots)
	assert.Equal(t, 1, computer.calls)
}

func TestCache_ComputeErrorPropagates(t *testing.T) {
	wantErr := errors.New("boom")
	computer := &stubComputer{err: wantErr}
	cache, _ := newTestCache(t, computer)

	_, err := cache.AvailableSlots(context.Background(), testBusiness, 10, testDate, 100, nil)
	assert.ErrorIs(t, err, wantErr)
}

func TestCache_Metrics(t *testing.T) {
	computer := &stubComputer{slots: testSlots()}
	cache, _ := newTestCache(t, computer)
	m := &countingMetrics{}
	cache.WithMetrics(m)
	ctx := context.Background()

	_, err := cache.AvailableSlots(ctx, testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)
	_, err = cache.AvailableSlots(ctx, testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, m.outcomes[outcomeMiss])
	assert.Equal(t, 1, m.outcomes[outcomeHit])
}

func TestPassthrough(t *testing.T) {
	computer := &stubComputer{slots: testSlots()}
	p := NewPassthrough(computer)
	ctx := context.Background()

	slots, err := p.AvailableSlots(ctx, testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)
	assertSameSlots(t, testSlots(), slots)

	_, err = p.AvailableSlots(ctx, testBusiness, 10, testDate, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, computer.calls, "passthrough never caches")
}
