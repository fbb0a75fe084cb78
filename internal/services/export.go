package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	DefaultSheetName = "Dados"
	DefaultFileBase  = "dados"

	columnPadding  = 2
	maxColumnWidth = 255
	csvDateLayout  = time.DateOnly
	fileDateLayout = "20060102"
)

// ParseFormat accepts the format names offered by the raw-data page.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", errors.Validation(fmt.Sprintf("unsupported export format %q", s))
}

func (f Format) MIME() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Filename builds the download name, optionally stamped with today's date.
func Filename(base string, f Format, includeDate bool, now time.Time) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultFileBase
	}
	if includeDate {
		base += "_" + now.Format(fileDateLayout)
	}
	return base + f.Extension()
}

type ExportOptions struct {
	SheetName string
}

// Encode serialises table in the requested format.
func Encode(table models.Table, f Format, opts ExportOptions) ([]byte, error) {
	switch f {
	case FormatCSV:
		return encodeCSV(table)
	case FormatXLSX:
		return encodeXLSX(table, opts)
	}
	return nil, errors.Encoding(fmt.Errorf("format %q", f), "unsupported export format")
}

// FormatCell renders a table cell the way exports write it.
func FormatCell(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case time.Time:
		return v.Format(csvDateLayout)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func encodeCSV(table models.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(table.Columns); err != nil {
		return nil, errors.Encoding(err, "write csv header")
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, v := range row {
			record[i] = FormatCell(v)
		}
		if err := w.Write(record); err != nil {
			return nil, errors.Encoding(err, "write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Encoding(err, "flush csv")
	}
	return buf.Bytes(), nil
}

func encodeXLSX(table models.Table, opts ExportOptions) (_ []byte, err error) {
	sheet := strings.TrimSpace(opts.SheetName)
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Encoding(cerr, "close workbook")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, errors.Encoding(err, "name sheet")
	}

	widths := make([]int, len(table.Columns))
	header := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
		widths[i] = utf8.RuneCountInString(col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, errors.Encoding(err, "write header")
	}

	for r, row := range table.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			if t, ok := v.(time.Time); ok {
				cells[i] = t.Format(csvDateLayout)
			} else {
				cells[i] = v
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(FormatCell(v)))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, errors.Encoding(err, "locate row")
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, errors.Encoding(err, "write row")
		}
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, errors.Encoding(err, "locate column")
		}
		width := float64(min(w+columnPadding, maxColumnWidth))
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return nil, errors.Encoding(err, "size column")
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Encoding(err, "write workbook")
	}
	return buf.Bytes(), nil
}

// DecodeCSV reads back a CSV export holding every sale column.
func DecodeCSV(r io.Reader) ([]models.Sale, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.MalformedRecord(err, "read csv")
	}
	if len(rows) == 0 {
		return nil, errors.MalformedRecord(fmt.Errorf("no header"), "read csv")
	}

	index := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		index[col] = i
	}
	for _, col := range models.Columns {
		if _, ok := index[col]; !ok {
			return nil, errors.MalformedRecord(fmt.Errorf("missing column %q", col), "read csv")
		}
	}

	sales := make([]models.Sale, 0, len(rows)-1)
	for n, row := range rows[1:] {
		p := cellParser{row: row, index: index}
		s := models.Sale{
			Product:      p.str(models.ColProduct),
			Category:     p.str(models.ColCategory),
			Price:        p.float(models.ColPrice),
			Freight:      p.float(models.ColFreight),
			PurchaseDate: p.date(models.ColPurchaseDate),
			Seller:       p.str(models.ColSeller),
			Location:     p.str(models.ColLocation),
			Rating:       p.int(models.ColRating),
			PaymentType:  p.str(models.ColPaymentType),
			Installments: p.int(models.ColInstallments),
			Lat:          p.float(models.ColLat),
			Lon:          p.float(models.ColLon),
		}
		if p.err != nil {
			return nil, errors.MalformedRecord(p.err, fmt.Sprintf("csv row %d", n+1))
		}
		sales = append(sales, s)
	}
	return sales, nil
}

type cellParser struct {
	row   []string
	index map[string]int
	err   error
}

func (p *cellParser) str(col string) string {
	return p.row[p.index[col]]
}

func (p *cellParser) float(col string) float64 {
	v, err := strconv.ParseFloat(p.str(col), 64)
	p.keep(col, err)
	return v
}

func (p *cellParser) int(col string) int {
	v, err := strconv.Atoi(p.str(col))
	p.keep(col, err)
	return v
}

func (p *cellParser) date(col string) time.Time {
	v, err := time.Parse(csvDateLayout, p.str(col))
	p.keep(col, err)
	return v
}

func (p *cellParser) keep(col string, err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", col, err)
	}
}

// Preview returns at most n rows of table.
func Preview(table models.Table, n int) models.Table {
	return models.Table{Columns: table.Columns, Rows: slices.Clone(head(table.Rows, n))}
}
