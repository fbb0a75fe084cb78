package templates

import (
	"encoding/json"
	"slices"
	"strconv"
	"time"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const (
	pageDashboard = "dashboard"
	pageRaw       = "dados"

	// maxVisibleRows caps the HTML table. Downloads always carry every row.
	maxVisibleRows = 500
)

// DashboardPage feeds the overview page shell. Data arrives later over SSE.
type DashboardPage struct {
	Client  string
	Regions []string
	Years   []int
	TopN    int
	MinTopN int
	MaxTopN int
}

func NewDashboardPage(client string) DashboardPage {
	years := make([]int, 0, services.LastYear-services.FirstYear+1)
	for y := services.FirstYear; y <= services.LastYear; y++ {
		years = append(years, y)
	}
	return DashboardPage{
		Client:  client,
		Regions: services.Regions,
		Years:   years,
		TopN:    services.DefaultTopN,
		MinTopN: services.MinTopN,
		MaxTopN: services.MaxTopN,
	}
}

// Signals is the initial Datastar signal set of the overview page.
func (p DashboardPage) Signals() string {
	return mustJSON(map[string]any{
		"regiao":     services.AllRegions,
		"todos":      true,
		"ano":        services.LastYear,
		"vendedores": []string{},
		"top":        p.TopN,
		"aba":        "receita",
		"charts":     nil,
	})
}

// RawPage feeds the raw-data page shell.
type RawPage struct {
	Client    string
	Columns   []string
	FileBase  string
	SheetName string
}

func NewRawPage(client, sheetName string) RawPage {
	return RawPage{
		Client:    client,
		Columns:   slices.Clone(models.Columns),
		FileBase:  services.DefaultFileBase,
		SheetName: sheetName,
	}
}

// Signals starts with pronto unset, which makes the first refresh ignore
// the filter signals and answer with every value selected.
func (p RawPage) Signals() string {
	return mustJSON(map[string]any{
		"pronto":       false,
		"produtos":     []string{},
		"categorias":   []string{},
		"vendedores":   []string{},
		"locais":       []string{},
		"pagamentos":   []string{},
		"precoMin":     "",
		"precoMax":     "",
		"freteMin":     "",
		"freteMax":     "",
		"dataInicio":   "",
		"dataFim":      "",
		"avaliacaoMin": "",
		"avaliacaoMax": "",
		"parcelasMin":  "",
		"parcelasMax":  "",
		"colunas":      p.Columns,
		"formato":      string(services.FormatCSV),
		"nome":         p.FileBase,
		"incluirData":  true,
		"planilha":     p.SheetName,
		"exportUrl":    "",
	})
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func isSelected(selected []string, v string) bool {
	return slices.Contains(selected, v)
}

func visibleRows(t models.Table) [][]any {
	return t.Rows[:min(len(t.Rows), maxVisibleRows)]
}

func dateValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
