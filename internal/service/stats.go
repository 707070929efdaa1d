package service

import (
	"context"
	"fmt"
	"sort"

	"vibecart/internal/domain"
)

// StatsSummary aggregates the whole order ledger for the dashboard.
type StatsSummary struct {
	Summary        SummaryTotals    `json:"summary"`
	RecentOrders   []domain.Order   `json:"recentOrders"`
	RevenueByMonth []MonthlyRevenue `json:"revenueByMonth"`
}

// SummaryTotals is the headline block of the dashboard.
type SummaryTotals struct {
	TotalOrders       int                        `json:"totalOrders"`
	TotalRevenue      float64                    `json:"totalRevenue"`
	OrdersByStatus    map[domain.OrderStatus]int `json:"ordersByStatus"`
	AverageOrderValue float64                    `json:"averageOrderValue"`
}

// MonthlyRevenue is one month's revenue bucket, newest first.
type MonthlyRevenue struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// RevenueMonths caps how many monthly buckets the dashboard reports.
const RevenueMonths = 6

// RecentOrderCount is how many recent orders the dashboard shows.
const RecentOrderCount = 5

// StatsService aggregates order data for reporting.
type StatsService interface {
	Summary(ctx context.Context) (*StatsSummary, error)
}

type statsService struct {
	orders OrderStore
}

// NewStatsService creates a new StatsService instance.
func NewStatsService(orders OrderStore) StatsService {
	return &statsService{orders: orders}
}

// Summary computes the dashboard aggregates in one pass over the ledger.
// Revenue counts only completed and delivered orders; the average order
// value divides that revenue by ALL orders regardless of status, so
// cancellations drag the average down rather than vanishing from it.
func (s *statsService) Summary(ctx context.Context) (*StatsSummary, error) {
	digests, err := s.orders.Digests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read order digests: %w", err)
	}

	byStatus := make(map[domain.OrderStatus]int)
	var revenue float64
	for _, d := range digests {
		byStatus[d.Status]++
		if d.Status.CountsAsRevenue() {
			revenue += d.Total
		}
	}

	var average float64
	if len(digests) > 0 {
		average = revenue / float64(len(digests))
	}

	recent, err := s.orders.Recent(ctx, RecentOrderCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent orders: %w", err)
	}

	return &StatsSummary{
		Summary: SummaryTotals{
			TotalOrders:       len(digests),
			TotalRevenue:      revenue,
			OrdersByStatus:    byStatus,
			AverageOrderValue: average,
		},
		RecentOrders:   recent,
		RevenueByMonth: s.revenueByMonth(digests),
	}, nil
}

// revenueByMonth groups the ledger into calendar months and returns the
// most recent months that saw any orders, newest first, capped at
// RevenueMonths. Every order counts toward a month's order count; revenue
// within the month counts completed and delivered orders only.
func (s *statsService) revenueByMonth(digests []OrderDigest) []MonthlyRevenue {
	index := make(map[[2]int]*MonthlyRevenue)
	for _, d := range digests {
		key := [2]int{d.OrderDate.Year(), int(d.OrderDate.Month())}
		m, ok := index[key]
		if !ok {
			m = &MonthlyRevenue{Year: key[0], Month: key[1]}
			index[key] = m
		}
		m.Orders++
		if d.Status.CountsAsRevenue() {
			m.Revenue += d.Total
		}
	}

	months := make([]MonthlyRevenue, 0, len(index))
	for _, m := range index {
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year > months[j].Year
		}
		return months[i].Month > months[j].Month
	})
	if len(months) > RevenueMonths {
		months = months[:RevenueMonths]
	}
	return months
}
