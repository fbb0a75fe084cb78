package services

import (
	"fmt"
	"slices"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

// Set is a membership predicate. An empty set matches nothing.
type Set map[string]struct{}

func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Range is an inclusive interval.
type Range[T int | float64] struct {
	Min T `json:"min"`
	Max T `json:"max"`
}

func (r Range[T]) Contains(v T) bool {
	return r.Min <= v && v <= r.Max
}

// widen extends r so that it also covers [lo, hi].
func (r Range[T]) widen(lo, hi T) Range[T] {
	return Range[T]{Min: min(r.Min, lo), Max: max(r.Max, hi)}
}

// DateRange is an inclusive interval of calendar days.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Selection is the full set of raw-data filters. Every field must pass for a
// record to be kept.
type Selection struct {
	Products     Set
	Categories   Set
	Sellers      Set
	Locations    Set
	PaymentTypes Set
	Price        Range[float64]
	Freight      Range[float64]
	PurchaseDate DateRange
	Rating       Range[int]
	Installments Range[int]
}

// Default slider bounds of the raw-data page.
var (
	DefaultPriceRange        = Range[float64]{Min: 0, Max: 5000}
	DefaultFreightRange      = Range[float64]{Min: 0, Max: 250}
	DefaultRatingRange       = Range[int]{Min: 1, Max: 5}
	DefaultInstallmentsRange = Range[int]{Min: 1, Max: 24}
)

// DefaultSelection selects every value present in records and the widest
// ranges that cover them.
func DefaultSelection(records []models.Sale) Selection {
	opts := Options(records)
	sel := Selection{
		Products:     NewSet(opts.Products...),
		Categories:   NewSet(opts.Categories...),
		Sellers:      NewSet(opts.Sellers...),
		Locations:    NewSet(opts.Locations...),
		PaymentTypes: NewSet(opts.PaymentTypes...),
		Price:        DefaultPriceRange,
		Freight:      DefaultFreightRange,
		PurchaseDate: DateRange{From: opts.FirstDate, To: opts.LastDate},
		Rating:       DefaultRatingRange,
		Installments: DefaultInstallmentsRange,
	}
	if len(records) == 0 {
		return sel
	}
	sel.Price = sel.Price.widen(opts.MinPrice, opts.MaxPrice)
	sel.Freight = sel.Freight.widen(opts.MinFreight, opts.MaxFreight)
	sel.Rating = sel.Rating.widen(opts.MinRating, opts.MaxRating)
	sel.Installments = sel.Installments.widen(opts.MinInstallments, opts.MaxInstallments)
	return sel
}

// Validate rejects ranges whose lower bound exceeds the upper bound.
func (s Selection) Validate() error {
	switch {
	case s.Price.Min > s.Price.Max:
		return boundsError(models.ColPrice, s.Price.Min, s.Price.Max)
	case s.Freight.Min > s.Freight.Max:
		return boundsError(models.ColFreight, s.Freight.Min, s.Freight.Max)
	case s.PurchaseDate.From.After(s.PurchaseDate.To):
		return boundsError(models.ColPurchaseDate,
			s.PurchaseDate.From.Format(time.DateOnly), s.PurchaseDate.To.Format(time.DateOnly))
	case s.Rating.Min > s.Rating.Max:
		return boundsError(models.ColRating, s.Rating.Min, s.Rating.Max)
	case s.Installments.Min > s.Installments.Max:
		return boundsError(models.ColInstallments, s.Installments.Min, s.Installments.Max)
	}
	return nil
}

func boundsError(field string, lo, hi any) error {
	return errors.InvalidRangeBounds(fmt.Sprintf("%s: lower bound %v exceeds upper bound %v", field, lo, hi))
}

func (s Selection) match(r models.Sale) bool {
	return s.Products.Has(r.Product) &&
		s.Categories.Has(r.Category) &&
		s.Price.Contains(r.Price) &&
		s.Freight.Contains(r.Freight) &&
		s.PurchaseDate.Contains(r.PurchaseDate) &&
		s.Sellers.Has(r.Seller) &&
		s.Locations.Has(r.Location) &&
		s.Rating.Contains(r.Rating) &&
		s.PaymentTypes.Has(r.PaymentType) &&
		s.Installments.Contains(r.Installments)
}

// Filter keeps the records matching every predicate of sel, in input order.
func Filter(records []models.Sale, sel Selection) ([]models.Sale, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	out := make([]models.Sale, 0, len(records))
	for _, r := range records {
		if sel.match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// FilterSellers is the lenient seller filter of the overview page: no
// selection means no filtering.
func FilterSellers(records []models.Sale, sellers []string) []models.Sale {
	if len(sellers) == 0 {
		return records
	}
	allowed := NewSet(sellers...)
	out := make([]models.Sale, 0, len(records))
	for _, r := range records {
		if allowed.Has(r.Seller) {
			out = append(out, r)
		}
	}
	return out
}

// FilterOptions lists the values each selection widget offers.
type FilterOptions struct {
	Products        []string  `json:"products"`
	Categories      []string  `json:"categories"`
	Sellers         []string  `json:"sellers"`
	Locations       []string  `json:"locations"`
	PaymentTypes    []string  `json:"payment_types"`
	FirstDate       time.Time `json:"first_date"`
	LastDate        time.Time `json:"last_date"`
	MinPrice        float64   `json:"min_price"`
	MaxPrice        float64   `json:"max_price"`
	MinFreight      float64   `json:"min_freight"`
	MaxFreight      float64   `json:"max_freight"`
	MinRating       int       `json:"min_rating"`
	MaxRating       int       `json:"max_rating"`
	MinInstallments int       `json:"min_installments"`
	MaxInstallments int       `json:"max_installments"`
}

// Options collects distinct values in first-seen order and the span of every
// ranged field of records.
func Options(records []models.Sale) FilterOptions {
	opts := FilterOptions{
		Products:     []string{},
		Categories:   []string{},
		Sellers:      []string{},
		Locations:    []string{},
		PaymentTypes: []string{},
	}
	seen := make(map[string]Set)
	add := func(field string, dst *[]string, v string) {
		s, ok := seen[field]
		if !ok {
			s = make(Set)
			seen[field] = s
		}
		if !s.Has(v) {
			s[v] = struct{}{}
			*dst = append(*dst, v)
		}
	}
	for i, r := range records {
		add(models.ColProduct, &opts.Products, r.Product)
		add(models.ColCategory, &opts.Categories, r.Category)
		add(models.ColSeller, &opts.Sellers, r.Seller)
		add(models.ColLocation, &opts.Locations, r.Location)
		add(models.ColPaymentType, &opts.PaymentTypes, r.PaymentType)
		if i == 0 {
			opts.FirstDate, opts.LastDate = r.PurchaseDate, r.PurchaseDate
			opts.MinPrice, opts.MaxPrice = r.Price, r.Price
			opts.MinFreight, opts.MaxFreight = r.Freight, r.Freight
			opts.MinRating, opts.MaxRating = r.Rating, r.Rating
			opts.MinInstallments, opts.MaxInstallments = r.Installments, r.Installments
			continue
		}
		if r.PurchaseDate.Before(opts.FirstDate) {
			opts.FirstDate = r.PurchaseDate
		}
		if r.PurchaseDate.After(opts.LastDate) {
			opts.LastDate = r.PurchaseDate
		}
		opts.MinPrice, opts.MaxPrice = min(opts.MinPrice, r.Price), max(opts.MaxPrice, r.Price)
		opts.MinFreight, opts.MaxFreight = min(opts.MinFreight, r.Freight), max(opts.MaxFreight, r.Freight)
		opts.MinRating, opts.MaxRating = min(opts.MinRating, r.Rating), max(opts.MaxRating, r.Rating)
		opts.MinInstallments = min(opts.MinInstallments, r.Installments)
		opts.MaxInstallments = max(opts.MaxInstallments, r.Installments)
	}
	return opts
}

func columnValue(r models.Sale, col string) (any, bool) {
	switch col {
	case models.ColProduct:
		return r.Product, true
	case models.ColCategory:
		return r.Category, true
	case models.ColPrice:
		return r.Price, true
	case models.ColFreight:
		return r.Freight, true
	case models.ColPurchaseDate:
		return r.PurchaseDate, true
	case models.ColSeller:
		return r.Seller, true
	case models.ColLocation:
		return r.Location, true
	case models.ColRating:
		return r.Rating, true
	case models.ColPaymentType:
		return r.PaymentType, true
	case models.ColInstallments:
		return r.Installments, true
	case models.ColLat:
		return r.Lat, true
	case models.ColLon:
		return r.Lon, true
	}
	return nil, false
}

// Project keeps only the named columns, in the given order.
func Project(records []models.Sale, columns []string) (models.Table, error) {
	for _, col := range columns {
		if !slices.Contains(models.Columns, col) {
			return models.Table{}, errors.Validation(fmt.Sprintf("unknown column %q", col))
		}
	}

	table := models.Table{
		Columns: slices.Clone(columns),
		Rows:    make([][]any, len(records)),
	}
	for i, r := range records {
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j], _ = columnValue(r, col)
		}
		table.Rows[i] = row
	}
	return table, nil
}

// Bounds overrides either end of a Range. A nil end keeps the default.
type Bounds[T int | float64] struct {
	Min *T
	Max *T
}

func (b Bounds[T]) apply(r Range[T]) Range[T] {
	if b.Min != nil {
		r.Min = *b.Min
	}
	if b.Max != nil {
		r.Max = *b.Max
	}
	return r
}

// DateBounds overrides either end of a DateRange.
type DateBounds struct {
	From *time.Time
	To   *time.Time
}

func (b DateBounds) apply(r DateRange) DateRange {
	if b.From != nil {
		r.From = *b.From
	}
	if b.To != nil {
		r.To = *b.To
	}
	return r
}

// SelectionInput is a partially specified selection as sent by a client.
// A nil membership slice selects every value; a non-nil empty slice selects
// none. Unset bounds keep the defaults.
type SelectionInput struct {
	Products     []string
	Categories   []string
	Sellers      []string
	Locations    []string
	PaymentTypes []string
	Price        Bounds[float64]
	Freight      Bounds[float64]
	PurchaseDate DateBounds
	Rating       Bounds[int]
	Installments Bounds[int]
}

// Resolve fills the unspecified parts of in from DefaultSelection(records).
func (in SelectionInput) Resolve(records []models.Sale) Selection {
	sel := DefaultSelection(records)
	pick := func(dst *Set, values []string) {
		if values != nil {
			*dst = NewSet(values...)
		}
	}
	pick(&sel.Products, in.Products)
	pick(&sel.Categories, in.Categories)
	pick(&sel.Sellers, in.Sellers)
	pick(&sel.Locations, in.Locations)
	pick(&sel.PaymentTypes, in.PaymentTypes)
	sel.Price = in.Price.apply(sel.Price)
	sel.Freight = in.Freight.apply(sel.Freight)
	sel.PurchaseDate = in.PurchaseDate.apply(sel.PurchaseDate)
	sel.Rating = in.Rating.apply(sel.Rating)
	sel.Installments = in.Installments.apply(sel.Installments)
	return sel
}
