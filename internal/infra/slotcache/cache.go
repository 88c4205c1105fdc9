// Package slotcache мемоизация расчета слотов в redis.
//
// Ключ зависит от (business, staff, date, service, step). Для сегодняшней
// даты в ключ добавляется текущий час (ключ сам ротируется каждый час) и
// используется короткий TTL: сегодняшняя доступность устаревает быстрее
// из-за фильтрации прошедшего времени и бронирований в последний момент.
// Явной инвалидации при мутациях нет - консистентность сразу после записи
// требует обхода кеша.
package slotcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

const (
	// DefaultTodayTTL TTL для слотов на сегодня
	DefaultTodayTTL = 2 * time.Minute
	// DefaultFutureTTL TTL для слотов на будущие даты
	DefaultFutureTTL = 10 * time.Minute
)

const (
	outcomeHit   = "hit"
	outcomeMiss  = "miss"
	outcomeError = "error"
)

// Cache кеширующая обертка над калькулятором слотов.
// Ошибки redis деградируют до пересчета, а не до ошибки вызова.
type Cache struct {
	client       *redis.Client
	computer     SlotComputer
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger

	todayTTL  time.Duration
	futureTTL time.Duration
}

// New создает кеш слотов поверх калькулятора
func New(client *redis.Client, computer SlotComputer, logger Logger) *Cache {
	return &Cache{
		client:       client,
		computer:     computer,
		timeProvider: &RealTimeProvider{},
		metrics:      noopMetrics{},
		logger:       logger,
		todayTTL:     DefaultTodayTTL,
		futureTTL:    DefaultFutureTTL,
	}
}

// WithMetrics подключает сбор hit/miss метрик
func (c *Cache) WithMetrics(m Metrics) *Cache {
	c.metrics = m
	return c
}

// AvailableSlots возвращает слоты из кеша или вычисляет и кеширует их
func (c *Cache) AvailableSlots(
	ctx context.Context,
	business *domain.Business,
	staffID int64,
	date time.Time,
	serviceID int64,
	intervalHint *int,
) ([]domain.Slot, error) {
	// Ключ строится по эффективному шагу, а не по сырому hint: иначе
	// эквивалентные запросы размазываются по разным ключам
	step, err := c.computer.SlotStep(ctx, business, serviceID, intervalHint)
	if err != nil {
		return c.computer.ComputeSlots(ctx, business, staffID, date, serviceID, intervalHint)
	}

	now := c.timeProvider.Now().In(business.Location())
	isToday := isSameDay(date, now)
	key := c.key(business.ID, staffID, date, serviceID, step, isToday, now)

	if slots, ok := c.get(ctx, key); ok {
		c.metrics.ObserveCache(outcomeHit)
		return slots, nil
	}

	slots, err := c.computer.ComputeSlots(ctx, business, staffID, date, serviceID, intervalHint)
	if err != nil {
		return nil, err
	}
	c.metrics.ObserveCache(outcomeMiss)

	ttl := c.futureTTL
	if isToday {
		ttl = c.todayTTL
	}
	c.set(ctx, key, slots, ttl)

	return slots, nil
}

// key строит ключ кеша по эффективному шагу. Для сегодняшней даты
// добавляется компонент часа, для будущих - статический маркер.
func (c *Cache) key(businessID, staffID int64, date time.Time, serviceID int64, step int, isToday bool, now time.Time) string {
	timeComponent := "static"
	if isToday {
		timeComponent = fmt.Sprintf("h%02d", now.Hour())
	}

	return fmt.Sprintf("slots:%d:%d:%s:%d:%d:%s",
		businessID, staffID, date.Format(domain.DateFormat), serviceID, step, timeComponent)
}

func (c *Cache) get(ctx context.Context, key string) ([]domain.Slot, bool) {
	payload, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.metrics.ObserveCache(outcomeError)
			c.logger.Warn("slotcache: failed to get key %s: %v", key, err)
		}
		return nil, false
	}

	var slots []domain.Slot
	if err := json.Unmarshal([]byte(payload), &slots); err != nil {
		c.metrics.ObserveCache(outcomeError)
		c.logger.Warn("slotcache: failed to unmarshal key %s: %v", key, err)
		return nil, false
	}
	return slots, true
}

func (c *Cache) set(ctx context.Context, key string, slots []domain.Slot, ttl time.Duration) {
	payload, err := json.Marshal(slots)
	if err != nil {
		c.logger.Error("slotcache: failed to marshal slots for key %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.metrics.ObserveCache(outcomeError)
		c.logger.Warn("slotcache: failed to set key %s: %v", key, err)
	}
}

func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
