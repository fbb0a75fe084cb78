package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

func TestEncodeCSV_RoundTrip(t *testing.T) {
	records := sampleSales()
	table, err := Project(records, models.Columns)
	require.NoError(t, err)

	data, err := Encode(table, FormatCSV, ExportOptions{})
	require.NoError(t, err)

	decoded, err := DecodeCSV(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestEncodeCSV_Layout(t *testing.T) {
	table, err := Project(sampleSales()[:1], []string{models.ColPurchaseDate, models.ColProduct, models.ColPrice})
	require.NoError(t, err)

	data, err := Encode(table, FormatCSV, ExportOptions{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Data da Compra,Produto,Preço", lines[0])
	assert.Equal(t, "2020-01-15,Celular Plus X42,3000", lines[1])
}

func TestDecodeCSV_MissingColumn(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("Produto,Preço\nx,1\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeMalformedRecord))
}

func TestEncodeXLSX(t *testing.T) {
	records := sampleSales()
	columns := []string{models.ColProduct, models.ColPrice, models.ColPurchaseDate}
	table, err := Project(records, columns)
	require.NoError(t, err)

	data, err := Encode(table, FormatXLSX, ExportOptions{SheetName: "Vendas"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Vendas"}, f.GetSheetList())

	rows, err := f.GetRows("Vendas")
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1)
	assert.Equal(t, columns, rows[0])
	assert.Equal(t, []string{"Celular Plus X42", "3000", "2020-01-15"}, rows[1])

	// Longest product is "Celular Plus X42" (16) plus padding.
	width, err := f.GetColWidth("Vendas", "A")
	require.NoError(t, err)
	assert.Equal(t, 18.0, width)

	// Header "Data da Compra" (14) beats the 10-character dates.
	width, err = f.GetColWidth("Vendas", "C")
	require.NoError(t, err)
	assert.Equal(t, 16.0, width)
}

func TestEncodeXLSX_DefaultSheet(t *testing.T) {
	table, err := Project(nil, models.Columns)
	require.NoError(t, err)

	data, err := Encode(table, FormatXLSX, ExportOptions{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())
}

func TestEncodeXLSX_InvalidSheetName(t *testing.T) {
	table, err := Project(sampleSales(), models.Columns)
	require.NoError(t, err)

	_, err = Encode(table, FormatXLSX, ExportOptions{SheetName: "bad/name?"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeEncoding))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatCSV, "CSV": FormatCSV, "excel": FormatXLSX, "xlsx": FormatXLSX} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, time.March, 7, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "dados.csv", Filename("", FormatCSV, false, now))
	assert.Equal(t, "vendas.xlsx", Filename(" vendas ", FormatXLSX, false, now))
	assert.Equal(t, "vendas_20240307.xlsx", Filename("vendas", FormatXLSX, true, now))
	assert.Equal(t, "text/csv", FormatCSV.MIME())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatXLSX.MIME())
}

func TestPreview(t *testing.T) {
	table, err := Project(sampleSales(), []string{models.ColProduct})
	require.NoError(t, err)

	assert.Len(t, Preview(table, 2).Rows, 2)
	assert.Len(t, Preview(table, 10).Rows, 4)
}
