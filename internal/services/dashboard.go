package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"sales-dashboard/internal/cache"
	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const (
	DefaultTopN = 5
	MinTopN     = 2
	MaxTopN     = 10
	PreviewRows = 5
)

// Dashboard runs the overview and raw-data pipelines. Every call fetches
// afresh; nothing but encoded exports outlives a request.
type Dashboard struct {
	source    RecordSource
	exports   *cache.LRU[[]byte]
	currency  string
	sheetName string
	logger    *slog.Logger
	now       func() time.Time

	overviews    atomic.Int64
	rawViews     atomic.Int64
	exportsBuilt atomic.Int64

	mu          sync.RWMutex
	lastFetch   time.Time
	lastRecords int
}

func NewDashboard(source RecordSource, cfg *config.Config, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		source:    source,
		exports:   cache.NewLRU[[]byte](cfg.Export.CacheSize, cfg.Export.CacheTTL),
		currency:  cfg.Dashboard.Currency,
		sheetName: cfg.Export.SheetName,
		logger:    logger,
		now:       time.Now,
	}
}

func (d *Dashboard) load(ctx context.Context, q Query) ([]models.Sale, error) {
	raw, err := d.source.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	records, err := ParseRecords(raw)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.lastFetch = d.now()
	d.lastRecords = len(records)
	d.mu.Unlock()
	return records, nil
}

// OverviewRequest carries the overview page controls.
type OverviewRequest struct {
	Region  string
	Year    int
	Sellers []string
	TopN    int
}

func (r OverviewRequest) validate() error {
	if r.Region != "" && !slices.Contains(Regions, r.Region) {
		return errors.Validation(fmt.Sprintf("unknown region %q", r.Region))
	}
	if r.Year != 0 && (r.Year < FirstYear || r.Year > LastYear) {
		return errors.Validation(fmt.Sprintf("year must be between %d and %d", FirstYear, LastYear))
	}
	return nil
}

func clampTopN(n int) int {
	if n == 0 {
		return DefaultTopN
	}
	return min(max(n, MinTopN), MaxTopN)
}

type Metrics struct {
	Revenue      string  `json:"revenue"`
	Count        string  `json:"count"`
	RevenueValue float64 `json:"revenue_value"`
	CountValue   int     `json:"count_value"`
}

type OverviewCharts struct {
	RevenueMap        charts.Chart `json:"revenue_map"`
	MonthlyRevenue    charts.Chart `json:"monthly_revenue"`
	TopStates         charts.Chart `json:"top_states"`
	CategoryRevenue   charts.Chart `json:"category_revenue"`
	CountMap          charts.Chart `json:"count_map"`
	MonthlyCount      charts.Chart `json:"monthly_count"`
	CategoryCount     charts.Chart `json:"category_count"`
	TopSellers        charts.Chart `json:"top_sellers"`
	TopSellersRevenue charts.Chart `json:"top_sellers_revenue"`
	TopSellersCount   charts.Chart `json:"top_sellers_count"`
}

type Overview struct {
	Region        string         `json:"region"`
	Year          int            `json:"year,omitempty"`
	TopN          int            `json:"top_n"`
	Metrics       Metrics        `json:"metrics"`
	SellerOptions []string       `json:"seller_options"`
	Aggregates    Aggregates     `json:"aggregates"`
	Charts        OverviewCharts `json:"charts"`
}

// Overview fetches the records for the region and year, narrows them to the
// selected sellers and derives metrics, tables and charts.
func (d *Dashboard) Overview(ctx context.Context, req OverviewRequest) (*Overview, error) {
	ctx, span := observability.StartSpan(ctx, "dashboard.overview")
	defer span.End(ctx, d.logger)

	if err := req.validate(); err != nil {
		span.SetError(err)
		return nil, err
	}
	d.overviews.Add(1)

	records, err := d.load(ctx, Query{Region: req.Region, Year: req.Year})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	sellerOptions := Options(records).Sellers
	records = FilterSellers(records, req.Sellers)
	agg := Aggregate(records, BuildCoordinateLookup(records))
	revenue, count := Totals(records)
	topN := clampTopN(req.TopN)

	region := req.Region
	if region == "" {
		region = AllRegions
	}
	span.SetTag("records", fmt.Sprint(count))

	return &Overview{
		Region: region,
		Year:   req.Year,
		TopN:   topN,
		Metrics: Metrics{
			Revenue:      FormatMagnitude(revenue, d.currency),
			Count:        FormatMagnitude(float64(count), ""),
			RevenueValue: revenue,
			CountValue:   count,
		},
		SellerOptions: sellerOptions,
		Aggregates:    agg,
		Charts:        buildCharts(agg, topN),
	}, nil
}

func buildCharts(agg Aggregates, topN int) OverviewCharts {
	return OverviewCharts{
		RevenueMap:        charts.RevenueMap(agg.StateRevenue),
		MonthlyRevenue:    charts.MonthlyRevenue(agg.MonthlyRevenue),
		TopStates:         charts.TopStates(TopStates(agg.StateRevenue, DefaultTopN)),
		CategoryRevenue:   charts.CategoryRevenue(agg.CategoryRevenue),
		CountMap:          charts.CountMap(agg.StateCount),
		MonthlyCount:      charts.MonthlyCount(agg.MonthlyCount),
		CategoryCount:     charts.CategoryCount(agg.CategoryCount),
		TopSellers:        charts.TopSellers(TopSellers(agg.Sellers, SellerByRevenue, DefaultTopN)),
		TopSellersRevenue: charts.RankedSellers(TopSellers(agg.Sellers, SellerByRevenue, topN), topN, false),
		TopSellersCount:   charts.RankedSellers(TopSellers(agg.Sellers, SellerByCount, topN), topN, true),
	}
}

// RawRequest carries the raw-data page filters and the visible columns. Nil
// Columns shows every column.
type RawRequest struct {
	Selection SelectionInput
	Columns   []string
}

type RawView struct {
	Table      models.Table  `json:"table"`
	RowCount   int           `json:"row_count"`
	ColCount   int           `json:"col_count"`
	Preview    models.Table  `json:"preview"`
	Options    FilterOptions `json:"options"`
	AllColumns []string      `json:"all_columns"`

	// Selection is the request's selection with every default filled in.
	Selection Selection `json:"-"`
}

// Raw fetches every record, applies the selection and projects the columns.
func (d *Dashboard) Raw(ctx context.Context, req RawRequest) (*RawView, error) {
	ctx, span := observability.StartSpan(ctx, "dashboard.raw")
	defer span.End(ctx, d.logger)

	d.rawViews.Add(1)
	view, err := d.raw(ctx, req)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.SetTag("rows", fmt.Sprint(view.RowCount))
	return view, nil
}

func (d *Dashboard) raw(ctx context.Context, req RawRequest) (*RawView, error) {
	records, err := d.load(ctx, Query{})
	if err != nil {
		return nil, err
	}

	sel := req.Selection.Resolve(records)
	filtered, err := Filter(records, sel)
	if err != nil {
		return nil, err
	}

	columns := req.Columns
	if columns == nil {
		columns = models.Columns
	}
	table, err := Project(filtered, columns)
	if err != nil {
		return nil, err
	}

	return &RawView{
		Table:      table,
		RowCount:   len(table.Rows),
		ColCount:   len(table.Columns),
		Preview:    Preview(table, PreviewRows),
		Options:    Options(records),
		AllColumns: models.Columns,
		Selection:  sel,
	}, nil
}

type ExportRequest struct {
	Format      Format
	FileBase    string
	IncludeDate bool
	SheetName   string
}

type ExportResult struct {
	Data     []byte
	Filename string
	MIME     string
	Rows     int
	Cached   bool
}

// Export encodes the raw view selected by raw. Encoded bytes are memoised by
// the full table content, format and sheet name.
func (d *Dashboard) Export(ctx context.Context, raw RawRequest, req ExportRequest) (*ExportResult, error) {
	ctx, span := observability.StartSpan(ctx, "dashboard.export")
	defer span.End(ctx, d.logger)
	span.SetTag("format", string(req.Format))

	view, err := d.raw(ctx, raw)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	sheet := req.SheetName
	if sheet == "" {
		sheet = d.sheetName
	}

	key, err := exportKey(view.Table, req.Format, sheet)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	result := &ExportResult{
		Filename: Filename(req.FileBase, req.Format, req.IncludeDate, d.now()),
		MIME:     req.Format.MIME(),
		Rows:     view.RowCount,
	}

	if data, ok := d.exports.Get(key); ok {
		result.Data, result.Cached = data, true
		return result, nil
	}

	data, err := Encode(view.Table, req.Format, ExportOptions{SheetName: sheet})
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	d.exports.Set(key, data)
	d.exportsBuilt.Add(1)

	result.Data = data
	return result, nil
}

func exportKey(table models.Table, f Format, sheet string) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(table); err != nil {
		return "", errors.Encoding(err, "hash export content")
	}
	fmt.Fprintf(h, "%s\x00%s", f, sheet)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// PurgeExports drops expired cached exports.
func (d *Dashboard) PurgeExports() int {
	return d.exports.Purge()
}

func (d *Dashboard) Stats() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return map[string]any{
		"overviews":     d.overviews.Load(),
		"raw_views":     d.rawViews.Load(),
		"exports_built": d.exportsBuilt.Load(),
		"export_cache":  d.exports.Stats(),
		"last_fetch":    d.lastFetch,
		"last_records":  d.lastRecords,
	}
}
