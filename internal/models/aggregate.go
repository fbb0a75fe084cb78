package models

import "time"

// StateRevenue is one row of the revenue-by-location table. Lat and Lon are
// nil when the location has no entry in the coordinate lookup.
type StateRevenue struct {
	Location string   `json:"location"`
	Revenue  float64  `json:"revenue"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

type StateCount struct {
	Location string   `json:"location"`
	Count    int      `json:"count"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

// MonthBucket identifies a calendar month by its last day.
type MonthBucket struct {
	MonthEnd  time.Time `json:"month_end"`
	Year      int       `json:"year"`
	MonthName string    `json:"month"`
	YearMonth string    `json:"year_month"`
}

type MonthlyRevenue struct {
	MonthBucket
	Revenue float64 `json:"revenue"`
}

type MonthlyCount struct {
	MonthBucket
	Count int `json:"count"`
}

type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// SellerSummary holds both metrics for one seller.
type SellerSummary struct {
	Seller  string  `json:"seller"`
	Revenue float64 `json:"sum"`
	Count   int     `json:"count"`
}
