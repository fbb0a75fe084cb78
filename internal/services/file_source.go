package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

// stateRegions maps each state abbreviation used as a purchase location to
// its macro-region.
var stateRegions = map[string]string{
	"AC": "Norte", "AP": "Norte", "AM": "Norte", "PA": "Norte",
	"RO": "Norte", "RR": "Norte", "TO": "Norte",
	"AL": "Nordeste", "BA": "Nordeste", "CE": "Nordeste", "MA": "Nordeste",
	"PB": "Nordeste", "PE": "Nordeste", "PI": "Nordeste", "RN": "Nordeste",
	"SE": "Nordeste",
	"DF": "Centro-Oeste", "GO": "Centro-Oeste", "MT": "Centro-Oeste", "MS": "Centro-Oeste",
	"ES": "Sudeste", "MG": "Sudeste", "RJ": "Sudeste", "SP": "Sudeste",
	"PR": "Sul", "RS": "Sul", "SC": "Sul",
}

// FileSource serves records from a full-column CSV export instead of the
// remote API. The file is read once; region and year are applied locally.
type FileSource struct {
	sales  []models.Sale
	logger *slog.Logger
}

// LoadFileSource reads path with DecodeCSV.
func LoadFileSource(ctx context.Context, path string, logger *slog.Logger) (*FileSource, error) {
	_, span := observability.StartSpan(ctx, "source.load_file")
	defer span.End(ctx, logger)
	span.SetTag("path", path)

	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		span.SetError(err)
		return nil, errors.SourceUnavailable(err, fmt.Sprintf("open %s", path))
	}
	defer f.Close()

	sales, err := DecodeCSV(f)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	logger.Info("loaded sales records from file",
		"path", path,
		"records", len(sales),
		"duration", time.Since(start),
	)
	return &FileSource{sales: sales, logger: logger}, nil
}

func (s *FileSource) Fetch(ctx context.Context, q Query) ([]models.APIRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.SourceUnavailable(err, "fetch cancelled")
	}

	region := q.Region
	if region == AllRegions {
		region = ""
	}

	out := make([]models.APIRecord, 0, len(s.sales))
	for _, sale := range s.sales {
		if region != "" && stateRegions[sale.Location] != region {
			continue
		}
		if q.Year != 0 && sale.PurchaseDate.Year() != q.Year {
			continue
		}
		out = append(out, toAPIRecord(sale))
	}
	return out, nil
}

func toAPIRecord(s models.Sale) models.APIRecord {
	return models.APIRecord{
		Product:      s.Product,
		Category:     s.Category,
		Price:        s.Price,
		Freight:      s.Freight,
		PurchaseDate: s.PurchaseDate.Format(purchaseDateLayout),
		Seller:       s.Seller,
		Location:     s.Location,
		Rating:       s.Rating,
		PaymentType:  s.PaymentType,
		Installments: s.Installments,
		Lat:          s.Lat,
		Lon:          s.Lon,
	}
}
