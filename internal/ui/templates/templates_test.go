package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestDashboard(t *testing.T) {
	html := render(t, Dashboard(NewDashboardPage("Jácion Silva")))

	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "DASHBOARD DE VENDAS")
	assert.Contains(t, html, "Cliente: Jácion Silva")
	assert.Contains(t, html, `<a href="/" aria-current>Dashboard</a>`)
	assert.Contains(t, html, `<option value="Centro-Oeste">Centro-Oeste</option>`)
	assert.Contains(t, html, `min="2020" max="2023"`)
	assert.Contains(t, html, `data-init="@get('/sse/overview')"`)
	for _, id := range []string{"mapa-receita", "receita-mensal", "top-estados", "vendedores-quantidade"} {
		assert.Contains(t, html, `id="`+id+`"`)
	}
	// Signals are JSON inside an attribute, so quotes are escaped.
	assert.Contains(t, html, `&#34;regiao&#34;:&#34;Brasil&#34;`)
}

func TestRaw(t *testing.T) {
	html := render(t, Raw(NewRawPage("Jácion Silva", "Dados")))

	assert.Contains(t, html, "DADOS BRUTOS")
	assert.Contains(t, html, `<a href="/dados" aria-current>Dados brutos</a>`)
	assert.Contains(t, html, `<option value="Preço" selected>Preço</option>`)
	assert.Contains(t, html, `data-bind="precoMin"`)
	assert.Contains(t, html, `id="records-error"`)
	assert.Contains(t, html, `&#34;pronto&#34;:false`)
}

func TestMetrics(t *testing.T) {
	html := render(t, Metrics(services.Metrics{Revenue: "R$ 4.10 mil", Count: " 4.00 "}))

	assert.Contains(t, html, `<div id="metrics" class="metrics">`)
	assert.Contains(t, html, "<strong>R$ 4.10 mil</strong>")
}

func TestSellerOptions(t *testing.T) {
	html := render(t, SellerOptions([]string{"Ana", "Bruno"}, []string{"Bruno"}))

	assert.Contains(t, html, `<option value="Ana">Ana</option>`)
	assert.Contains(t, html, `<option value="Bruno" selected>Bruno</option>`)
}

func TestErrorBanner_Escapes(t *testing.T) {
	html := render(t, ErrorBanner("overview-error", "<b>falhou</b>"))

	assert.Equal(t, `<div id="overview-error" class="error" role="alert">&lt;b&gt;falhou&lt;/b&gt;</div>`, html)
}

func TestRecordFilters(t *testing.T) {
	html := render(t, RecordFilters(services.FilterOptions{
		Sellers:   []string{"Ana"},
		FirstDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		LastDate:  time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC),
	}))

	assert.Contains(t, html, `<select multiple data-bind="vendedores"><option value="Ana">Ana</option></select>`)
	assert.Contains(t, html, `min="2020-01-01" max="2023-12-31" data-bind="dataInicio"`)
}

func TestRecordsTable(t *testing.T) {
	view := &services.RawView{
		Table: models.Table{
			Columns: []string{models.ColProduct, models.ColPrice, models.ColPurchaseDate},
			Rows:    [][]any{{"Cama box", 500.5, time.Date(2020, time.January, 20, 0, 0, 0, 0, time.UTC)}},
		},
		RowCount: 1,
		ColCount: 3,
	}

	html := render(t, RecordsTable(view))

	assert.Contains(t, html, "A tabela possui <strong>1</strong> linhas e <strong>3</strong> colunas")
	assert.Contains(t, html, "<th>Preço</th>")
	assert.Contains(t, html, "<tr><td>Cama box</td><td>500.5</td><td>2020-01-20</td></tr>")
	assert.NotContains(t, html, "Exibindo")
}

func TestRecordsTable_CapsRows(t *testing.T) {
	rows := make([][]any, maxVisibleRows+3)
	for i := range rows {
		rows[i] = []any{"x"}
	}
	view := &services.RawView{Table: models.Table{Columns: []string{models.ColProduct}, Rows: rows}, RowCount: len(rows), ColCount: 1}

	html := render(t, RecordsTable(view))

	assert.Equal(t, maxVisibleRows, strings.Count(html, "<td>x</td>"))
	assert.Contains(t, html, "Exibindo as primeiras 500 linhas.")
}
