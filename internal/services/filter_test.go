package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

func TestFilter_Identity(t *testing.T) {
	records := sampleSales()

	got, err := Filter(records, DefaultSelection(records))
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestFilter_IdentityBeyondSliderDefaults(t *testing.T) {
	records := sampleSales()
	records[0].Installments = 30
	records[1].Rating = 0
	records[2].Price = -5
	records[2].Freight = -1
	records[3].Price = 9000
	records[3].Freight = 400

	sel := DefaultSelection(records)
	assert.Equal(t, Range[float64]{Min: -5, Max: 9000}, sel.Price)
	assert.Equal(t, Range[float64]{Min: -1, Max: 400}, sel.Freight)
	assert.Equal(t, Range[int]{Min: 0, Max: 5}, sel.Rating)
	assert.Equal(t, Range[int]{Min: 1, Max: 30}, sel.Installments)

	got, err := Filter(records, sel)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestDefaultSelection_NoRecords(t *testing.T) {
	sel := DefaultSelection(nil)

	assert.Equal(t, DefaultPriceRange, sel.Price)
	assert.Equal(t, DefaultRatingRange, sel.Rating)
	assert.Equal(t, DefaultInstallmentsRange, sel.Installments)
}

func TestFilter_EmptyMembershipMatchesNothing(t *testing.T) {
	records := sampleSales()

	tests := []struct {
		name  string
		clear func(*Selection)
	}{
		{"products", func(s *Selection) { s.Products = NewSet() }},
		{"categories", func(s *Selection) { s.Categories = NewSet() }},
		{"sellers", func(s *Selection) { s.Sellers = NewSet() }},
		{"locations", func(s *Selection) { s.Locations = NewSet() }},
		{"payment types", func(s *Selection) { s.PaymentTypes = NewSet() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := DefaultSelection(records)
			tt.clear(&sel)

			got, err := Filter(records, sel)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestFilter_Predicates(t *testing.T) {
	records := sampleSales()

	tests := []struct {
		name     string
		narrow   func(*Selection)
		products []string
	}{
		{
			name:     "price bounds are inclusive",
			narrow:   func(s *Selection) { s.Price = Range[float64]{Min: 120, Max: 500} },
			products: []string{"Cama box", "Bola de basquete", "Cama box"},
		},
		{
			name:     "freight",
			narrow:   func(s *Selection) { s.Freight = Range[float64]{Min: 100, Max: 250} },
			products: []string{"Celular Plus X42"},
		},
		{
			name: "purchase date bounds are inclusive",
			narrow: func(s *Selection) {
				s.PurchaseDate = DateRange{From: day(2020, time.January, 20), To: day(2020, time.March, 2)}
			},
			products: []string{"Cama box", "Bola de basquete"},
		},
		{
			name:     "rating",
			narrow:   func(s *Selection) { s.Rating = Range[int]{Min: 4, Max: 5} },
			products: []string{"Celular Plus X42", "Cama box"},
		},
		{
			name:     "installments",
			narrow:   func(s *Selection) { s.Installments = Range[int]{Min: 2, Max: 24} },
			products: []string{"Celular Plus X42", "Cama box"},
		},
		{
			name: "conjunction",
			narrow: func(s *Selection) {
				s.Sellers = NewSet("Thiago Silva")
				s.PaymentTypes = NewSet("cartao_debito", "boleto")
			},
			products: []string{"Bola de basquete"},
		},
		{
			name: "location and category",
			narrow: func(s *Selection) {
				s.Locations = NewSet("RJ", "MG")
				s.Categories = NewSet("moveis")
				s.Products = NewSet("Cama box")
			},
			products: []string{"Cama box", "Cama box"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := DefaultSelection(records)
			tt.narrow(&sel)

			got, err := Filter(records, sel)
			require.NoError(t, err)

			products := make([]string, len(got))
			for i, r := range got {
				products[i] = r.Product
			}
			assert.Equal(t, tt.products, products)
		})
	}
}

func TestFilter_InvalidRangeBounds(t *testing.T) {
	records := sampleSales()

	tests := []struct {
		name   string
		broken func(*Selection)
	}{
		{"price", func(s *Selection) { s.Price = Range[float64]{Min: 10, Max: 1} }},
		{"freight", func(s *Selection) { s.Freight = Range[float64]{Min: 10, Max: 1} }},
		{"date", func(s *Selection) {
			s.PurchaseDate = DateRange{From: day(2021, time.January, 1), To: day(2020, time.January, 1)}
		}},
		{"rating", func(s *Selection) { s.Rating = Range[int]{Min: 5, Max: 1} }},
		{"installments", func(s *Selection) { s.Installments = Range[int]{Min: 12, Max: 2} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := DefaultSelection(records)
			tt.broken(&sel)

			_, err := Filter(records, sel)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeInvalidRangeBounds))
		})
	}
}

func TestSelectionInput_Resolve(t *testing.T) {
	records := sampleSales()

	t.Run("zero input selects everything", func(t *testing.T) {
		got, err := Filter(records, SelectionInput{}.Resolve(records))
		require.NoError(t, err)
		assert.Len(t, got, len(records))
	})

	t.Run("non-nil empty slice selects nothing", func(t *testing.T) {
		got, err := Filter(records, SelectionInput{Sellers: []string{}}.Resolve(records))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("bounds override defaults", func(t *testing.T) {
		lo := 1000.0
		in := SelectionInput{Price: Bounds[float64]{Min: &lo}}
		got, err := Filter(records, in.Resolve(records))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Celular Plus X42", got[0].Product)
	})
}

func TestFilterSellers_Lenient(t *testing.T) {
	records := sampleSales()

	assert.Len(t, FilterSellers(records, nil), 4)
	assert.Len(t, FilterSellers(records, []string{"Thiago Silva"}), 2)
}

func TestOptions(t *testing.T) {
	opts := Options(sampleSales())

	assert.Equal(t, []string{"Celular Plus X42", "Cama box", "Bola de basquete"}, opts.Products)
	assert.Equal(t, []string{"Thiago Silva", "Mariana Ferreira", "Lucas Oliveira"}, opts.Sellers)
	assert.Equal(t, []string{"SP", "RJ", "MG"}, opts.Locations)
	assert.Equal(t, day(2020, time.January, 15), opts.FirstDate)
	assert.Equal(t, day(2021, time.January, 5), opts.LastDate)
	assert.Equal(t, 120.0, opts.MinPrice)
	assert.Equal(t, 3000.0, opts.MaxPrice)
	assert.Equal(t, 10.0, opts.MinFreight)
	assert.Equal(t, 150.5, opts.MaxFreight)
	assert.Equal(t, 1, opts.MinRating)
	assert.Equal(t, 5, opts.MaxRating)
	assert.Equal(t, 1, opts.MinInstallments)
	assert.Equal(t, 8, opts.MaxInstallments)
}

func TestProject(t *testing.T) {
	records := sampleSales()

	table, err := Project(records, []string{models.ColSeller, models.ColPrice})
	require.NoError(t, err)
	assert.Equal(t, []string{models.ColSeller, models.ColPrice}, table.Columns)
	require.Len(t, table.Rows, 4)
	assert.Equal(t, []any{"Thiago Silva", 3000.0}, table.Rows[0])

	_, err = Project(records, []string{"Desconto"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeValidation))

	empty, err := Project(nil, models.Columns)
	require.NoError(t, err)
	assert.Len(t, empty.Columns, len(models.Columns))
	assert.Empty(t, empty.Rows)
}
