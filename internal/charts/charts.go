// Package charts turns aggregate tables into declarative chart specs that the
// dashboard page hands to its charting library.
package charts

import (
	"fmt"
	"slices"
	"strconv"

	"sales-dashboard/internal/models"
)

type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
	KindGeo  Kind = "scatter_geo"
	KindHBar Kind = "hbar"
)

const (
	geoScope    = "south america"
	topStatesN  = 5
	topSellersN = 5
)

// Series is one named sequence of values aligned with Chart.Labels. A nil
// value is a gap: the label has no data in this series.
type Series struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

func dense(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

// Point is a sized marker on a geo chart.
type Point struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
	Size float64  `json:"size"`
}

type Chart struct {
	ID        string   `json:"id"`
	Kind      Kind     `json:"kind"`
	Title     string   `json:"title"`
	XTitle    string   `json:"x_title,omitempty"`
	YTitle    string   `json:"y_title,omitempty"`
	Scope     string   `json:"scope,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Series    []Series `json:"series,omitempty"`
	Points    []Point  `json:"points,omitempty"`
	TextAuto  bool     `json:"text_auto,omitempty"`
	Markers   bool     `json:"markers,omitempty"`
	DashByKey bool     `json:"dash_by_key,omitempty"`
}

func RevenueMap(rows []models.StateRevenue) Chart {
	c := Chart{ID: "mapa-receita", Kind: KindGeo, Title: "Receita por Estado", YTitle: "Receita (R$)", Scope: geoScope}
	c.Points = make([]Point, 0, len(rows))
	for _, r := range rows {
		c.Points = append(c.Points, Point{Name: r.Location, Lat: r.Lat, Lon: r.Lon, Size: r.Revenue})
	}
	return c
}

func CountMap(rows []models.StateCount) Chart {
	c := Chart{ID: "mapa-quantidade", Kind: KindGeo, Title: "Quantidade de vendas por Estado", Scope: geoScope}
	c.Points = make([]Point, 0, len(rows))
	for _, r := range rows {
		c.Points = append(c.Points, Point{Name: r.Location, Lat: r.Lat, Lon: r.Lon, Size: float64(r.Count)})
	}
	return c
}

// monthlyLines draws one line per year over the month names, in the order
// the months first appear. Months a year has no bucket for are gaps.
func monthlyLines(id, title, yTitle string, buckets []models.MonthBucket, values []float64) Chart {
	c := Chart{ID: id, Kind: KindLine, Title: title, XTitle: "Mes", YTitle: yTitle, Markers: true, DashByKey: true}
	c.Labels = []string{}

	byYear := make(map[int]map[string]*float64)
	var years []int
	for i, b := range buckets {
		if !slices.Contains(c.Labels, b.MonthName) {
			c.Labels = append(c.Labels, b.MonthName)
		}
		if _, ok := byYear[b.Year]; !ok {
			byYear[b.Year] = make(map[string]*float64)
			years = append(years, b.Year)
		}
		byYear[b.Year][b.MonthName] = &values[i]
	}

	for _, y := range years {
		s := Series{Name: strconv.Itoa(y), Values: make([]*float64, len(c.Labels))}
		for i, m := range c.Labels {
			s.Values[i] = byYear[y][m]
		}
		c.Series = append(c.Series, s)
	}
	return c
}

func MonthlyRevenue(rows []models.MonthlyRevenue) Chart {
	buckets := make([]models.MonthBucket, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		buckets[i], values[i] = r.MonthBucket, r.Revenue
	}
	return monthlyLines("receita-mensal", "Receita Mensal", "Receita (R$)", buckets, values)
}

func MonthlyCount(rows []models.MonthlyCount) Chart {
	buckets := make([]models.MonthBucket, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		buckets[i], values[i] = r.MonthBucket, float64(r.Count)
	}
	return monthlyLines("quantidade-mensal", "Quantidade de vendas por mês", "Quantidade", buckets, values)
}

func bar(id, title, xTitle, yTitle string, labels []string, values []float64) Chart {
	return Chart{
		ID:       id,
		Kind:     KindBar,
		Title:    title,
		XTitle:   xTitle,
		YTitle:   yTitle,
		Labels:   labels,
		Series:   []Series{{Name: yTitle, Values: dense(values)}},
		TextAuto: true,
	}
}

// TopStates expects rows already ranked by revenue.
func TopStates(rows []models.StateRevenue) Chart {
	rows = rows[:min(len(rows), topStatesN)]
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i], values[i] = r.Location, r.Revenue
	}
	return bar("top-estados", "Top estados", "Local da compra", "Receita", labels, values)
}

func CategoryRevenue(rows []models.CategoryRevenue) Chart {
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i], values[i] = r.Category, r.Revenue
	}
	return bar("receita-categoria", "Receita por categoria", "Categoria do Produto", "Receita", labels, values)
}

func CategoryCount(rows []models.CategoryCount) Chart {
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i], values[i] = r.Category, float64(r.Count)
	}
	return bar("quantidade-categoria", "Quantidade por categoria", "Categoria do Produto", "Quantidade", labels, values)
}

// TopSellers expects rows already ranked by revenue.
func TopSellers(rows []models.SellerSummary) Chart {
	rows = rows[:min(len(rows), topSellersN)]
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i], values[i] = r.Seller, r.Revenue
	}
	return bar("top-vendedores", "Top Vendedores", "Vendedor", "Receita (R$)", labels, values)
}

// RankedSellers draws a horizontal bar per seller with the seller name on the
// category axis. byCount selects the count column instead of revenue; n is the
// requested ranking size shown in the title.
func RankedSellers(rows []models.SellerSummary, n int, byCount bool) Chart {
	id, metric, title := "vendedores-receita", "sum", "receita"
	if byCount {
		id, metric, title = "vendedores-quantidade", "count", "Quantidade de Vendas"
	}
	c := Chart{
		ID:       id,
		Kind:     KindHBar,
		Title:    fmt.Sprintf("Top %d Vendedores (%s)", n, title),
		XTitle:   metric,
		YTitle:   "Vendedor",
		Labels:   make([]string, len(rows)),
		TextAuto: true,
	}
	values := make([]float64, len(rows))
	for i, r := range rows {
		c.Labels[i] = r.Seller
		if byCount {
			values[i] = float64(r.Count)
		} else {
			values[i] = r.Revenue
		}
	}
	c.Series = []Series{{Name: metric, Values: dense(values)}}
	return c
}
