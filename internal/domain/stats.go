package domain

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Statistics periods. Each one starts at the beginning of the current
// calendar week (Monday), month or year.
const (
	PeriodWeek  = "semana"
	PeriodMonth = "mes"
	PeriodYear  = "anio"
)

var ErrInvalidPeriod = errors.New("invalid period, use semana, mes or anio")

// DailyOrderStats aggregates the orders of one calendar day.
type DailyOrderStats struct {
	Date      string          `json:"fecha"`
	Total     decimal.Decimal `json:"total"`
	Count     int             `json:"cantidad"`
	Pending   int             `json:"pendientes"`
	Completed int             `json:"completados"`
	Cancelled int             `json:"cancelados"`
}

// OrderStats summarises the orders placed in a period.
type OrderStats struct {
	Period      string            `json:"periodo"`
	From        time.Time         `json:"fechaInicio"`
	To          time.Time         `json:"fechaFin"`
	TotalOrders int               `json:"totalPedidos"`
	TotalSales  decimal.Decimal   `json:"totalVentas"`
	Pending     int               `json:"pendientes"`
	Completed   int               `json:"completados"`
	Cancelled   int               `json:"cancelados"`
	ByDay       []DailyOrderStats `json:"pedidosPorDia"`
}

// NormalizePeriod maps user input to a known period. Empty means a week.
func NormalizePeriod(period string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "", PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	case PeriodYear, "año":
		return PeriodYear, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// PeriodStart returns midnight of the first day of period containing now.
func PeriodStart(period string, now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		offset := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -offset)
	}
}

// ComputeOrderStats aggregates the orders placed in [from, to].
func ComputeOrderStats(orders []*Order, period string, from, to time.Time) OrderStats {
	stats := OrderStats{
		Period:     period,
		From:       from,
		To:         to,
		TotalSales: decimal.Zero,
		ByDay:      []DailyOrderStats{},
	}

	days := map[string]*DailyOrderStats{}
	for _, o := range orders {
		if o.OrderedAt.Before(from) || o.OrderedAt.After(to) {
			continue
		}

		key := o.OrderedAt.In(from.Location()).Format("2006-01-02")
		day, ok := days[key]
		if !ok {
			day = &DailyOrderStats{Date: key, Total: decimal.Zero}
			days[key] = day
		}

		stats.TotalOrders++
		stats.TotalSales = stats.TotalSales.Add(o.Total)
		day.Count++
		day.Total = day.Total.Add(o.Total)

		switch o.Status {
		case OrderStatusPending:
			stats.Pending++
			day.Pending++
		case OrderStatusCompleted:
			stats.Completed++
			day.Completed++
		case OrderStatusCancelled:
			stats.Cancelled++
			day.Cancelled++
		}
	}

	for _, day := range days {
		stats.ByDay = append(stats.ByDay, *day)
	}
	sort.Slice(stats.ByDay, func(i, j int) bool { return stats.ByDay[i].Date < stats.ByDay[j].Date })

	return stats
}
