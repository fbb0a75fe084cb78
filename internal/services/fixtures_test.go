package services

import (
	"context"
	"sync/atomic"
	"time"

	"sales-dashboard/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleSales() []models.Sale {
	return []models.Sale{
		{
			Product: "Celular Plus X42", Category: "eletronicos", Price: 3000, Freight: 150.5,
			PurchaseDate: day(2020, time.January, 15), Seller: "Thiago Silva", Location: "SP",
			Rating: 4, PaymentType: "cartao_credito", Installments: 8, Lat: -22.19, Lon: -48.79,
		},
		{
			Product: "Cama box", Category: "moveis", Price: 500, Freight: 30,
			PurchaseDate: day(2020, time.January, 20), Seller: "Mariana Ferreira", Location: "RJ",
			Rating: 5, PaymentType: "boleto", Installments: 1, Lat: -22.25, Lon: -42.66,
		},
		{
			Product: "Bola de basquete", Category: "esporte e lazer", Price: 120, Freight: 10,
			PurchaseDate: day(2020, time.March, 2), Seller: "Thiago Silva", Location: "SP",
			Rating: 3, PaymentType: "cartao_debito", Installments: 1, Lat: -22.19, Lon: -48.79,
		},
		{
			Product: "Cama box", Category: "moveis", Price: 480, Freight: 25,
			PurchaseDate: day(2021, time.January, 5), Seller: "Lucas Oliveira", Location: "MG",
			Rating: 1, PaymentType: "cartao_credito", Installments: 3, Lat: -18.1, Lon: -44.38,
		},
	}
}

func toAPIRecords(sales []models.Sale) []models.APIRecord {
	out := make([]models.APIRecord, len(sales))
	for i, s := range sales {
		out[i] = toAPIRecord(s)
	}
	return out
}

type stubSource struct {
	records []models.APIRecord
	err     error
	calls   atomic.Int64
	last    Query
}

func (s *stubSource) Fetch(_ context.Context, q Query) ([]models.APIRecord, error) {
	s.calls.Add(1)
	s.last = q
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}
