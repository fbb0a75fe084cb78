package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/services"
)

func sseRequest(t *testing.T, path string, signals map[string]any) *http.Request {
	t.Helper()
	if signals == nil {
		return httptest.NewRequest(http.MethodGet, path, nil)
	}
	b, err := json.Marshal(signals)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodGet, path+"?datastar="+url.QueryEscape(string(b)), nil)
}

func TestNewSSEHandlers(t *testing.T) {
	dashboard, _ := createTestDashboard(t)
	logger := testLogger()

	h := NewSSEHandlers(dashboard, logger)

	require.NotNil(t, h)
	assert.Same(t, dashboard, h.dashboard)
	assert.Same(t, logger, h.logger)
}

func TestSSEHandlers_HandleOverview(t *testing.T) {
	dashboard, src := createTestDashboard(t)
	h := NewSSEHandlers(dashboard, testLogger())

	w := httptest.NewRecorder()
	h.HandleOverview(w, sseRequest(t, "/sse/overview", map[string]any{
		"regiao":     "Sudeste",
		"todos":      false,
		"ano":        "2020",
		"vendedores": []string{"Thiago Silva"},
		"top":        "7",
	}))

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, services.Query{Region: "Sudeste", Year: 2020}, src.lastQuery())

	body := w.Body.String()
	assert.Contains(t, body, "event: datastar-patch-elements")
	assert.Contains(t, body, `<div id="overview-error" class="error" role="alert"></div>`)
	assert.Contains(t, body, "<strong>R$ 3.12 mil</strong>")
	assert.Contains(t, body, `<option value="Thiago Silva" selected>Thiago Silva</option>`)
	assert.Contains(t, body, `<option value="Lucas Oliveira">Lucas Oliveira</option>`)
	assert.Contains(t, body, "event: datastar-patch-signals")
	assert.Contains(t, body, `"top":7`)
	assert.Contains(t, body, "Top 7 Vendedores (receita)")
}

func TestSSEHandlers_HandleOverview_AllYearsIgnoresYear(t *testing.T) {
	dashboard, src := createTestDashboard(t)
	h := NewSSEHandlers(dashboard, testLogger())

	h.HandleOverview(httptest.NewRecorder(), sseRequest(t, "/sse/overview", map[string]any{
		"regiao": "Brasil",
		"todos":  true,
		"ano":    2019,
	}))

	assert.Equal(t, services.Query{Region: "Brasil"}, src.lastQuery())
}

func TestSSEHandlers_HandleOverview_WithoutSignals(t *testing.T) {
	dashboard, _ := createTestDashboard(t)
	h := NewSSEHandlers(dashboard, testLogger())

	w := httptest.NewRecorder()
	h.HandleOverview(w, sseRequest(t, "/sse/overview", nil))

	assert.Contains(t, w.Body.String(), "<strong>R$ 4.10 mil</strong>")
	assert.Contains(t, w.Body.String(), `"top":5`)
}

func TestSSEHandlers_HandleOverview_Errors(t *testing.T) {
	tests := []struct {
		name    string
		signals map[string]any
		message string
	}{
		{"unknown region", map[string]any{"regiao": "Marte", "todos": true}, "unknown region"},
		{"fractional top", map[string]any{"todos": true, "top": 2.5}, "top must be an integer"},
		{"year out of range", map[string]any{"todos": false, "ano": 2030}, "year must be between 2020 and 2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dashboard, _ := createTestDashboard(t)
			h := NewSSEHandlers(dashboard, testLogger())

			w := httptest.NewRecorder()
			h.HandleOverview(w, sseRequest(t, "/sse/overview", tt.signals))

			body := w.Body.String()
			assert.Contains(t, body, `<div id="overview-error" class="error" role="alert">`)
			assert.Contains(t, body, tt.message)
			assert.NotContains(t, body, "datastar-patch-signals")
		})
	}
}

func TestSSEHandlers_HandleOverview_InvalidSignals(t *testing.T) {
	dashboard, _ := createTestDashboard(t)
	h := NewSSEHandlers(dashboard, testLogger())

	w := httptest.NewRecorder()
	h.HandleOverview(w, httptest.NewRequest(http.MethodGet, "/sse/overview?datastar=%7Bnope", nil))

	assert.Contains(t, w.Body.String(), "invalid signals")
}

func TestSSEHandlers_HandleRecords_FirstLoad(t *testing.T) {
	dashboard, _ := createTestDashboard(t)
	h := NewSSEHandlers(dashboard, testLogger())

	w := httptest.NewRecorder()
	h.HandleRecords(w, sseRequest(t, "/sse/records", map[string]any{
		"pronto":     false,
		"produtos":   []string{},
		"precoMin":   "",
		"dataInicio": "",
		"formato":    "csv",
		"nome":       "dados",
	}))

	body := w.Body.String()
	assert.Contains(t, body, "A tabela possui <strong>4</strong> linhas e <strong>12</strong> colunas")
	assert.Contains(t, body, `<div id="record-filters" class="filters">`)
	assert.Contains(t, body, `"pronto":true`)
	assert.Contains(t, body, `"produtos":["Celular Plus X42","Cama box","Bola de basquete"]`)
	assert.Contains(t, body, `"dataInicio":"2020-01-15"`)
	assert.Contains(t, body, `"dataFim":"2021-01-05"`)
	assert.Contains(t, body, `"avaliacaoMin":1`)
	assert.Contains(t, body, `"avaliacaoMax":5`)
	assert.Contains(t, body, `/api/export?formato=csv`)
}

func TestSSEHandlers_HandleRecords_Filtered(t *testing.T) {
	dashboard, _ := createTestDashboard(t)
	h := NewSSEHandlers(dashboard, testLogger())

	w := httptest.NewRecorder()
	h.HandleRecords(w, sseRequest(t, "/sse/records", map[string]any{
		"pronto":       true,
		"produtos":     []string{"Cama box", "Celular Plus X42"},
		"categorias":   []string{"moveis", "eletronicos"},
		"vendedores":   []string{"Mariana Ferreira", "Lucas Oliveira", "Thiago Silva"},
		"locais":       []string{"SP", "RJ", "MG"},
		"pagamentos":   []string{"boleto", "cartao_credito"},
		"precoMin":     "",
		"precoMax":     "",
		"avaliacaoMin": "3",
		"avaliacaoMax": 5,
		"dataInicio":   "2020-01-01",
		"dataFim":      "",
		"colunas":      []string{"Produto", "Vendedor"},
		"formato":      "xlsx",
		"nome":         "relatorio",
	}))

	body := w.Body.String()
	assert.Contains(t, body, "A tabela possui <strong>2</strong> linhas e <strong>2</strong> colunas")
	assert.Contains(t, body, "<tr><td>Celular Plus X42</td><td>Thiago Silva</td></tr>")
	assert.Contains(t, body, "<tr><td>Cama box</td><td>Mariana Ferreira</td></tr>")
	assert.Contains(t, body, `"avaliacaoMin":3`)
	assert.Contains(t, body, `"colunas":["Produto","Vendedor"]`)
	assert.Contains(t, body, "formato=xlsx")
	assert.Contains(t, body, "nome=relatorio")
	assert.Contains(t, body, "avaliacao_min=3")
	assert.Contains(t, body, "data_inicio=2020-01-01")
}

func TestSSEHandlers_HandleRecords_EmptySelection(t *testing.T) {
	dashboard, _ := createTestDashboard(t)
	h := NewSSEHandlers(dashboard, testLogger())

	w := httptest.NewRecorder()
	h.HandleRecords(w, sseRequest(t, "/sse/records", map[string]any{
		"pronto":     true,
		"categorias": []string{},
	}))

	assert.Contains(t, w.Body.String(), "A tabela possui <strong>0</strong> linhas")
}

func TestSSEHandlers_HandleRecords_Errors(t *testing.T) {
	tests := []struct {
		name    string
		signals map[string]any
		message string
	}{
		{"inverted rating", map[string]any{"pronto": true, "avaliacaoMin": 5, "avaliacaoMax": 1}, "lower bound 5 exceeds upper bound 1"},
		{"bad date", map[string]any{"pronto": true, "dataInicio": "15/01/2020"}, "dataInicio must be a YYYY-MM-DD date"},
		{"bad format", map[string]any{"formato": "pdf"}, "unsupported export format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dashboard, _ := createTestDashboard(t)
			h := NewSSEHandlers(dashboard, testLogger())

			w := httptest.NewRecorder()
			h.HandleRecords(w, sseRequest(t, "/sse/records", tt.signals))

			body := w.Body.String()
			assert.Contains(t, body, `<div id="records-error" class="error" role="alert">`)
			assert.Contains(t, body, tt.message)
			assert.NotContains(t, body, "datastar-patch-signals")
		})
	}
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		set  bool
		want float64
	}{
		{`12.5`, true, 12.5},
		{`"7"`, true, 7},
		{`""`, false, 0},
		{`null`, false, 0},
	}
	for _, tt := range tests {
		var n number
		require.NoError(t, json.Unmarshal([]byte(tt.in), &n), tt.in)
		assert.Equal(t, tt.set, n.set, tt.in)
		assert.Equal(t, tt.want, n.value, tt.in)
	}

	var n number
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &n))
}
