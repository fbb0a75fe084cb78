package services

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

// CoordinateLookup maps a location name to its position.
type CoordinateLookup map[string]models.Coordinates

// BuildCoordinateLookup keeps the first record seen for each location.
func BuildCoordinateLookup(records []models.Sale) CoordinateLookup {
	lookup := make(CoordinateLookup)
	for _, r := range records {
		if _, ok := lookup[r.Location]; !ok {
			lookup[r.Location] = models.Coordinates{Lat: r.Lat, Lon: r.Lon}
		}
	}
	return lookup
}

func (l CoordinateLookup) resolve(location string) (*float64, *float64) {
	c, ok := l[location]
	if !ok {
		return nil, nil
	}
	lat, lon := c.Lat, c.Lon
	return &lat, &lon
}

// Aggregates holds every table the overview charts are drawn from.
type Aggregates struct {
	StateRevenue    []models.StateRevenue    `json:"state_revenue"`
	MonthlyRevenue  []models.MonthlyRevenue  `json:"monthly_revenue"`
	StateCount      []models.StateCount      `json:"state_count"`
	MonthlyCount    []models.MonthlyCount    `json:"monthly_count"`
	CategoryRevenue []models.CategoryRevenue `json:"category_revenue"`
	CategoryCount   []models.CategoryCount   `json:"category_count"`
	Sellers         []models.SellerSummary   `json:"sellers"`
}

type group struct {
	revenue decimal.Decimal
	count   int
}

func (g *group) add(price float64) {
	g.revenue = g.revenue.Add(decimal.NewFromFloat(price))
	g.count++
}

func groupBy(records []models.Sale, key func(models.Sale) string) map[string]*group {
	groups := make(map[string]*group)
	for _, r := range records {
		k := key(r)
		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
		}
		g.add(r.Price)
	}
	return groups
}

// Aggregate derives the seven overview tables. Grouped tables come out in
// ascending key order unless stated otherwise; the result depends only on the
// multiset of records.
func Aggregate(records []models.Sale, lookup CoordinateLookup) Aggregates {
	byLocation := groupBy(records, func(s models.Sale) string { return s.Location })
	byCategory := groupBy(records, func(s models.Sale) string { return s.Category })
	bySeller := groupBy(records, func(s models.Sale) string { return s.Seller })

	agg := Aggregates{
		StateRevenue:    make([]models.StateRevenue, 0, len(byLocation)),
		StateCount:      make([]models.StateCount, 0, len(byLocation)),
		CategoryRevenue: make([]models.CategoryRevenue, 0, len(byCategory)),
		CategoryCount:   make([]models.CategoryCount, 0, len(byCategory)),
		Sellers:         make([]models.SellerSummary, 0, len(bySeller)),
	}

	for _, loc := range slices.Sorted(maps.Keys(byLocation)) {
		g := byLocation[loc]
		lat, lon := lookup.resolve(loc)
		agg.StateRevenue = append(agg.StateRevenue, models.StateRevenue{
			Location: loc,
			Revenue:  g.revenue.InexactFloat64(),
			Lat:      lat,
			Lon:      lon,
		})
		lat, lon = lookup.resolve(loc)
		agg.StateCount = append(agg.StateCount, models.StateCount{
			Location: loc,
			Count:    g.count,
			Lat:      lat,
			Lon:      lon,
		})
	}

	for _, cat := range slices.Sorted(maps.Keys(byCategory)) {
		g := byCategory[cat]
		agg.CategoryRevenue = append(agg.CategoryRevenue, models.CategoryRevenue{
			Category: cat,
			Revenue:  g.revenue.InexactFloat64(),
		})
		agg.CategoryCount = append(agg.CategoryCount, models.CategoryCount{
			Category: cat,
			Count:    g.count,
		})
	}
	slices.SortStableFunc(agg.CategoryRevenue, func(a, b models.CategoryRevenue) int {
		return cmp.Compare(b.Revenue, a.Revenue)
	})

	for _, seller := range slices.Sorted(maps.Keys(bySeller)) {
		g := bySeller[seller]
		agg.Sellers = append(agg.Sellers, models.SellerSummary{
			Seller:  seller,
			Revenue: g.revenue.InexactFloat64(),
			Count:   g.count,
		})
	}

	agg.MonthlyRevenue, agg.MonthlyCount = aggregateMonthly(records)
	return agg
}

// aggregateMonthly buckets records by calendar month. Every month between the
// first and the last populated one gets a row, zero-filled when empty.
func aggregateMonthly(records []models.Sale) ([]models.MonthlyRevenue, []models.MonthlyCount) {
	revenue := []models.MonthlyRevenue{}
	count := []models.MonthlyCount{}
	if len(records) == 0 {
		return revenue, count
	}

	byMonth := make(map[time.Time]*group)
	first, last := monthStart(records[0].PurchaseDate), monthStart(records[0].PurchaseDate)
	for _, r := range records {
		m := monthStart(r.PurchaseDate)
		g, ok := byMonth[m]
		if !ok {
			g = &group{}
			byMonth[m] = g
		}
		g.add(r.Price)
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}

	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		bucket := newMonthBucket(m)
		g := byMonth[m]
		if g == nil {
			g = &group{}
		}
		revenue = append(revenue, models.MonthlyRevenue{MonthBucket: bucket, Revenue: g.revenue.InexactFloat64()})
		count = append(count, models.MonthlyCount{MonthBucket: bucket, Count: g.count})
	}
	return revenue, count
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func newMonthBucket(start time.Time) models.MonthBucket {
	end := start.AddDate(0, 1, -1)
	return models.MonthBucket{
		MonthEnd:  end,
		Year:      end.Year(),
		MonthName: end.Month().String(),
		YearMonth: end.Format("2006-01"),
	}
}

// Totals returns the total revenue and the number of records.
func Totals(records []models.Sale) (float64, int) {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(decimal.NewFromFloat(r.Price))
	}
	return sum.InexactFloat64(), len(records)
}

// SellerMetric selects which seller column a ranking sorts by.
type SellerMetric string

const (
	SellerByRevenue SellerMetric = "sum"
	SellerByCount   SellerMetric = "count"
)

// TopSellers returns the n best sellers by metric, descending. Ties keep the
// seller-name order.
func TopSellers(sellers []models.SellerSummary, metric SellerMetric, n int) []models.SellerSummary {
	sorted := slices.Clone(sellers)
	slices.SortStableFunc(sorted, func(a, b models.SellerSummary) int {
		if metric == SellerByCount {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(b.Revenue, a.Revenue)
	})
	return head(sorted, n)
}

// TopStates returns the n locations with the highest revenue.
func TopStates(states []models.StateRevenue, n int) []models.StateRevenue {
	sorted := slices.Clone(states)
	slices.SortStableFunc(sorted, func(a, b models.StateRevenue) int {
		return cmp.Compare(b.Revenue, a.Revenue)
	})
	return head(sorted, n)
}

func head[T any](s []T, n int) []T {
	if n < 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
