package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePeriod(t *testing.T) {
	cases := map[string]string{
		"":       PeriodWeek,
		"Semana": PeriodWeek,
		"mes":    PeriodMonth,
		"anio":   PeriodYear,
		"año":    PeriodYear,
	}
	for in, want := range cases {
		got, err := NormalizePeriod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := NormalizePeriod("siglo")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestPeriodStart(t *testing.T) {
	// Thursday
	now := time.Date(2026, time.October, 15, 17, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), PeriodStart(PeriodWeek, now))
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), PeriodStart(PeriodMonth, now))
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), PeriodStart(PeriodYear, now))

	sunday := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), PeriodStart(PeriodWeek, sunday))
}

func TestComputeOrderStats(t *testing.T) {
	from := time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.October, 15, 18, 0, 0, 0, time.UTC)

	at := func(day, hour int) time.Time { return time.Date(2026, time.October, day, hour, 0, 0, 0, time.UTC) }
	orders := []*Order{
		{OrderedAt: at(13, 10), Total: decimal.NewFromInt(130000), Status: OrderStatusPending},
		{OrderedAt: at(13, 12), Total: decimal.NewFromInt(20000), Status: OrderStatusCancelled},
		{OrderedAt: at(12, 9), Total: decimal.NewFromInt(50000), Status: OrderStatusCompleted},
		{OrderedAt: at(11, 9), Total: decimal.NewFromInt(999), Status: OrderStatusCompleted},
		{OrderedAt: at(15, 20), Total: decimal.NewFromInt(999), Status: OrderStatusPending},
	}

	stats := ComputeOrderStats(orders, PeriodWeek, from, to)

	assert.Equal(t, 3, stats.TotalOrders)
	assert.True(t, stats.TotalSales.Equal(decimal.NewFromInt(200000)))
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Cancelled)

	require.Len(t, stats.ByDay, 2)
	assert.Equal(t, "2026-10-12", stats.ByDay[0].Date)
	assert.Equal(t, 1, stats.ByDay[0].Completed)
	assert.Equal(t, "2026-10-13", stats.ByDay[1].Date)
	assert.Equal(t, 2, stats.ByDay[1].Count)
	assert.True(t, stats.ByDay[1].Total.Equal(decimal.NewFromInt(150000)))
}

func TestComputeOrderStats_Empty(t *testing.T) {
	now := time.Now()
	stats := ComputeOrderStats(nil, PeriodMonth, PeriodStart(PeriodMonth, now), now)
	assert.Zero(t, stats.TotalOrders)
	assert.True(t, stats.TotalSales.IsZero())
	assert.NotNil(t, stats.ByDay)
}
