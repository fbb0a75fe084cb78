package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const purchaseDateLayout = "02/01/2006"

// AllRegions is the region entry that applies no region restriction.
const AllRegions = "Brasil"

var Regions = []string{AllRegions, "Centro-Oeste", "Nordeste", "Norte", "Sudeste", "Sul"}

const (
	FirstYear = 2020
	LastYear  = 2023
)

// Query restricts a fetch server-side. Zero values mean no restriction.
type Query struct {
	Region string
	Year   int
}

func (q Query) params() map[string]string {
	region := q.Region
	if region == AllRegions {
		region = ""
	}
	year := ""
	if q.Year != 0 {
		year = strconv.Itoa(q.Year)
	}
	return map[string]string{
		"regiao": cases.Lower(language.BrazilianPortuguese).String(region),
		"ano":    year,
	}
}

func (q Query) key() string {
	p := q.params()
	return p["regiao"] + "|" + p["ano"]
}

// RecordSource fetches sale records from the remote sales API.
type RecordSource interface {
	Fetch(ctx context.Context, q Query) ([]models.APIRecord, error)
}

type HTTPSource struct {
	client *resty.Client
	url    string
	group  singleflight.Group
	logger *slog.Logger
}

func NewHTTPSource(cfg config.SourceConfig, logger *slog.Logger) *HTTPSource {
	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", cfg.UserAgent)

	return &HTTPSource{
		client: client,
		url:    cfg.URL,
		logger: logger,
	}
}

// Fetch issues one GET per distinct query; concurrent callers asking for the
// same query share the in-flight response. The shared request is detached
// from any single caller and bounded by the client timeout; each caller
// stops waiting when its own context ends.
func (s *HTTPSource) Fetch(ctx context.Context, q Query) ([]models.APIRecord, error) {
	ch := s.group.DoChan(q.key(), func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), q)
	})

	select {
	case <-ctx.Done():
		return nil, errors.SourceUnavailable(ctx.Err(), "sales API request abandoned")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("shared in-flight fetch", "query", q.key())
		}
		return res.Val.([]models.APIRecord), nil
	}
}

func (s *HTTPSource) fetch(ctx context.Context, q Query) ([]models.APIRecord, error) {
	ctx, span := observability.StartSpan(ctx, "source.fetch")
	defer span.End(ctx, s.logger)

	params := q.params()
	span.SetTag("regiao", params["regiao"])
	span.SetTag("ano", params["ano"])

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(s.url)
	if err != nil {
		span.SetError(err)
		return nil, errors.SourceUnavailable(err, "sales API request failed")
	}

	if resp.IsError() {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode())
		span.SetError(err)
		return nil, errors.SourceUnavailable(err, "sales API returned an error status")
	}

	var records []models.APIRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		span.SetError(err)
		return nil, errors.SourceUnavailable(err, "sales API returned an unreadable body")
	}

	s.logger.Info("fetched sales records",
		"regiao", params["regiao"],
		"ano", params["ano"],
		"records", len(records),
		"duration", time.Since(start),
		"request_id", observability.GetRequestID(ctx),
	)

	return records, nil
}

// ParseRecords converts API records into sales, parsing the DD/MM/YYYY
// purchase dates. A single unparseable date fails the whole batch.
func ParseRecords(raw []models.APIRecord) ([]models.Sale, error) {
	sales := make([]models.Sale, len(raw))
	for i, r := range raw {
		date, err := time.Parse(purchaseDateLayout, r.PurchaseDate)
		if err != nil {
			return nil, errors.MalformedRecord(err, fmt.Sprintf("record %d has invalid purchase date %q", i, r.PurchaseDate))
		}
		sales[i] = models.Sale{
			Product:      r.Product,
			Category:     r.Category,
			Price:        r.Price,
			Freight:      r.Freight,
			PurchaseDate: date,
			Seller:       r.Seller,
			Location:     r.Location,
			Rating:       r.Rating,
			PaymentType:  r.PaymentType,
			Installments: r.Installments,
			Lat:          r.Lat,
			Lon:          r.Lon,
		}
	}
	return sales, nil
}
