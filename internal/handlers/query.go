package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/services"
)

// Query parameter names shared by the JSON API and the export links.
const (
	paramRegion      = "regiao"
	paramYear        = "ano"
	paramTop         = "top"
	paramProduct     = "produto"
	paramCategory    = "categoria"
	paramSeller      = "vendedor"
	paramLocation    = "local"
	paramPayment     = "pagamento"
	paramColumn      = "coluna"
	paramFormat      = "formato"
	paramName        = "nome"
	paramIncludeDate = "incluir_data"
	paramSheet       = "planilha"
)

// membership reads a repeatable parameter. An absent parameter selects
// everything (nil); a present one with only empty values selects nothing.
func membership(q url.Values, name string) []string {
	values, ok := q[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func setMembership(q url.Values, name string, values []string) {
	if values == nil {
		return
	}
	if len(values) == 0 {
		q.Set(name, "")
		return
	}
	q[name] = values
}

func optionalFloat(q url.Values, name string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.BadRequestWrap(err, fmt.Sprintf("%s must be a number", name))
	}
	return &v, nil
}

func optionalInt(q url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.BadRequestWrap(err, fmt.Sprintf("%s must be an integer", name))
	}
	return &v, nil
}

func optionalDate(q url.Values, name string) (*time.Time, error) {
	return parseDate(name, q.Get(name))
}

func parseDate(name, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errors.BadRequestWrap(err, fmt.Sprintf("%s must be a YYYY-MM-DD date", name))
	}
	return &t, nil
}

func floatBounds(q url.Values, prefix string) (services.Bounds[float64], error) {
	lo, err := optionalFloat(q, prefix+"_min")
	if err != nil {
		return services.Bounds[float64]{}, err
	}
	hi, err := optionalFloat(q, prefix+"_max")
	if err != nil {
		return services.Bounds[float64]{}, err
	}
	return services.Bounds[float64]{Min: lo, Max: hi}, nil
}

func intBounds(q url.Values, prefix string) (services.Bounds[int], error) {
	lo, err := optionalInt(q, prefix+"_min")
	if err != nil {
		return services.Bounds[int]{}, err
	}
	hi, err := optionalInt(q, prefix+"_max")
	if err != nil {
		return services.Bounds[int]{}, err
	}
	return services.Bounds[int]{Min: lo, Max: hi}, nil
}

// parseOverviewQuery reads regiao, ano, the repeatable vendedor and top.
func parseOverviewQuery(q url.Values) (services.OverviewRequest, error) {
	req := services.OverviewRequest{
		Region:  strings.TrimSpace(q.Get(paramRegion)),
		Sellers: membership(q, paramSeller),
	}
	year, err := optionalInt(q, paramYear)
	if err != nil {
		return req, err
	}
	if year != nil {
		req.Year = *year
	}
	top, err := optionalInt(q, paramTop)
	if err != nil {
		return req, err
	}
	if top != nil {
		req.TopN = *top
	}
	return req, nil
}

// parseRawQuery reads the raw-data filters and the coluna projection.
func parseRawQuery(q url.Values) (services.RawRequest, error) {
	var (
		req services.RawRequest
		err error
	)
	sel := &req.Selection
	sel.Products = membership(q, paramProduct)
	sel.Categories = membership(q, paramCategory)
	sel.Sellers = membership(q, paramSeller)
	sel.Locations = membership(q, paramLocation)
	sel.PaymentTypes = membership(q, paramPayment)

	if sel.Price, err = floatBounds(q, "preco"); err != nil {
		return req, err
	}
	if sel.Freight, err = floatBounds(q, "frete"); err != nil {
		return req, err
	}
	if sel.Rating, err = intBounds(q, "avaliacao"); err != nil {
		return req, err
	}
	if sel.Installments, err = intBounds(q, "parcelas"); err != nil {
		return req, err
	}
	if sel.PurchaseDate.From, err = optionalDate(q, "data_inicio"); err != nil {
		return req, err
	}
	if sel.PurchaseDate.To, err = optionalDate(q, "data_fim"); err != nil {
		return req, err
	}

	req.Columns = membership(q, paramColumn)
	return req, nil
}

func parseExportQuery(q url.Values) (services.ExportRequest, error) {
	format, err := services.ParseFormat(q.Get(paramFormat))
	if err != nil {
		return services.ExportRequest{}, err
	}
	includeDate := false
	if raw := strings.TrimSpace(q.Get(paramIncludeDate)); raw != "" {
		if includeDate, err = strconv.ParseBool(raw); err != nil {
			return services.ExportRequest{}, errors.BadRequestWrap(err, paramIncludeDate+" must be a boolean")
		}
	}
	return services.ExportRequest{
		Format:      format,
		FileBase:    q.Get(paramName),
		IncludeDate: includeDate,
		SheetName:   q.Get(paramSheet),
	}, nil
}

func setFloat(q url.Values, name string, v *float64) {
	if v != nil {
		q.Set(name, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}

func setInt(q url.Values, name string, v *int) {
	if v != nil {
		q.Set(name, strconv.Itoa(*v))
	}
}

func setDate(q url.Values, name string, v *time.Time) {
	if v != nil {
		q.Set(name, v.Format(time.DateOnly))
	}
}

// exportQuery is the inverse of parseRawQuery plus parseExportQuery.
func exportQuery(raw services.RawRequest, exp services.ExportRequest) url.Values {
	q := url.Values{}
	sel := raw.Selection
	setMembership(q, paramProduct, sel.Products)
	setMembership(q, paramCategory, sel.Categories)
	setMembership(q, paramSeller, sel.Sellers)
	setMembership(q, paramLocation, sel.Locations)
	setMembership(q, paramPayment, sel.PaymentTypes)
	setFloat(q, "preco_min", sel.Price.Min)
	setFloat(q, "preco_max", sel.Price.Max)
	setFloat(q, "frete_min", sel.Freight.Min)
	setFloat(q, "frete_max", sel.Freight.Max)
	setInt(q, "avaliacao_min", sel.Rating.Min)
	setInt(q, "avaliacao_max", sel.Rating.Max)
	setInt(q, "parcelas_min", sel.Installments.Min)
	setInt(q, "parcelas_max", sel.Installments.Max)
	setDate(q, "data_inicio", sel.PurchaseDate.From)
	setDate(q, "data_fim", sel.PurchaseDate.To)
	setMembership(q, paramColumn, raw.Columns)

	q.Set(paramFormat, string(exp.Format))
	if exp.FileBase != "" {
		q.Set(paramName, exp.FileBase)
	}
	if exp.IncludeDate {
		q.Set(paramIncludeDate, "true")
	}
	if exp.SheetName != "" {
		q.Set(paramSheet, exp.SheetName)
	}
	return q
}
