package models

import "time"

// Column names as served by the sales API. They double as the headers of the
// raw table and of exported files.
const (
	ColProduct      = "Produto"
	ColCategory     = "Categoria do Produto"
	ColPrice        = "Preço"
	ColFreight      = "Frete"
	ColPurchaseDate = "Data da Compra"
	ColSeller       = "Vendedor"
	ColLocation     = "Local da compra"
	ColRating       = "Avaliação da compra"
	ColPaymentType  = "Tipo de pagamento"
	ColInstallments = "Quantidade de parcelas"
	ColLat          = "lat"
	ColLon          = "lon"
)

// Columns lists every column of a sale record in API order.
var Columns = []string{
	ColProduct,
	ColCategory,
	ColPrice,
	ColFreight,
	ColPurchaseDate,
	ColSeller,
	ColLocation,
	ColRating,
	ColPaymentType,
	ColInstallments,
	ColLat,
	ColLon,
}

// APIRecord is one element of the JSON array returned by the sales API.
// PurchaseDate is still the raw DD/MM/YYYY string.
type APIRecord struct {
	Product      string  `json:"Produto"`
	Category     string  `json:"Categoria do Produto"`
	Price        float64 `json:"Preço"`
	Freight      float64 `json:"Frete"`
	PurchaseDate string  `json:"Data da Compra"`
	Seller       string  `json:"Vendedor"`
	Location     string  `json:"Local da compra"`
	Rating       int     `json:"Avaliação da compra"`
	PaymentType  string  `json:"Tipo de pagamento"`
	Installments int     `json:"Quantidade de parcelas"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
}

// Sale is a parsed sale record.
type Sale struct {
	Product      string    `json:"Produto"`
	Category     string    `json:"Categoria do Produto"`
	Price        float64   `json:"Preço"`
	Freight      float64   `json:"Frete"`
	PurchaseDate time.Time `json:"Data da Compra"`
	Seller       string    `json:"Vendedor"`
	Location     string    `json:"Local da compra"`
	Rating       int       `json:"Avaliação da compra"`
	PaymentType  string    `json:"Tipo de pagamento"`
	Installments int       `json:"Quantidade de parcelas"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
}

// Coordinates is a geographic position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Table is a projected, ordered view over sale records.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}
