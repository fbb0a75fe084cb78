package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const (
	overviewErrorID = "overview-error"
	recordsErrorID  = "records-error"
)

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// number is a numeric signal. Bound inputs report numbers as strings and an
// emptied input as "", so both forms are accepted.
type number struct {
	set   bool
	value float64
}

func (n *number) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(strings.Trim(string(b), `"`))
	if raw == "" || raw == "null" {
		*n = number{}
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	*n = number{set: true, value: v}
	return nil
}

func (n number) float() *float64 {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}

func (n number) int(name string) (*int, error) {
	if !n.set {
		return nil, nil
	}
	if n.value != math.Trunc(n.value) {
		return nil, errors.BadRequest(name + " must be an integer")
	}
	v := int(n.value)
	return &v, nil
}

type overviewSignals struct {
	Region   string   `json:"regiao"`
	AllYears bool     `json:"todos"`
	Year     number   `json:"ano"`
	Sellers  []string `json:"vendedores"`
	TopN     number   `json:"top"`
}

func (s overviewSignals) request() (services.OverviewRequest, error) {
	req := services.OverviewRequest{Region: s.Region, Sellers: s.Sellers}
	if !s.AllYears {
		year, err := s.Year.int("ano")
		if err != nil {
			return req, err
		}
		if year != nil {
			req.Year = *year
		}
	}
	top, err := s.TopN.int("top")
	if err != nil {
		return req, err
	}
	if top != nil {
		req.TopN = *top
	}
	return req, nil
}

type recordSignals struct {
	Ready           bool     `json:"pronto"`
	Products        []string `json:"produtos"`
	Categories      []string `json:"categorias"`
	Sellers         []string `json:"vendedores"`
	Locations       []string `json:"locais"`
	PaymentTypes    []string `json:"pagamentos"`
	PriceMin        number   `json:"precoMin"`
	PriceMax        number   `json:"precoMax"`
	FreightMin      number   `json:"freteMin"`
	FreightMax      number   `json:"freteMax"`
	DateFrom        string   `json:"dataInicio"`
	DateTo          string   `json:"dataFim"`
	RatingMin       number   `json:"avaliacaoMin"`
	RatingMax       number   `json:"avaliacaoMax"`
	InstallmentsMin number   `json:"parcelasMin"`
	InstallmentsMax number   `json:"parcelasMax"`
	Columns         []string `json:"colunas"`
	Format          string   `json:"formato"`
	FileBase        string   `json:"nome"`
	IncludeDate     bool     `json:"incluirData"`
	Sheet           string   `json:"planilha"`
}

// nonNil keeps an explicitly emptied multi-select distinct from an unset one.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func intBoundsOf(name string, lo, hi number) (services.Bounds[int], error) {
	lower, err := lo.int(name + "Min")
	if err != nil {
		return services.Bounds[int]{}, err
	}
	upper, err := hi.int(name + "Max")
	if err != nil {
		return services.Bounds[int]{}, err
	}
	return services.Bounds[int]{Min: lower, Max: upper}, nil
}

func (s recordSignals) requests() (services.RawRequest, services.ExportRequest, error) {
	var raw services.RawRequest
	if len(s.Columns) > 0 {
		raw.Columns = s.Columns
	}
	format, err := services.ParseFormat(s.Format)
	if err != nil {
		return raw, services.ExportRequest{}, err
	}
	exp := services.ExportRequest{
		Format:      format,
		FileBase:    s.FileBase,
		IncludeDate: s.IncludeDate,
		SheetName:   s.Sheet,
	}
	if !s.Ready {
		return raw, exp, nil
	}

	sel := &raw.Selection
	sel.Products = nonNil(s.Products)
	sel.Categories = nonNil(s.Categories)
	sel.Sellers = nonNil(s.Sellers)
	sel.Locations = nonNil(s.Locations)
	sel.PaymentTypes = nonNil(s.PaymentTypes)
	sel.Price = services.Bounds[float64]{Min: s.PriceMin.float(), Max: s.PriceMax.float()}
	sel.Freight = services.Bounds[float64]{Min: s.FreightMin.float(), Max: s.FreightMax.float()}
	if sel.Rating, err = intBoundsOf("avaliacao", s.RatingMin, s.RatingMax); err != nil {
		return raw, exp, err
	}
	if sel.Installments, err = intBoundsOf("parcelas", s.InstallmentsMin, s.InstallmentsMax); err != nil {
		return raw, exp, err
	}
	if sel.PurchaseDate.From, err = parseDate("dataInicio", s.DateFrom); err != nil {
		return raw, exp, err
	}
	if sel.PurchaseDate.To, err = parseDate("dataFim", s.DateTo); err != nil {
		return raw, exp, err
	}
	return raw, exp, nil
}

func renderHTML(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// patch renders every component and sends them as one batch of element
// patches. Nothing is sent if any component fails to render.
func (h *SSEHandlers) patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, components ...templ.Component) error {
	fragments := make([]string, 0, len(components))
	for _, c := range components {
		html, err := renderHTML(ctx, c)
		if err != nil {
			return err
		}
		fragments = append(fragments, html)
	}
	for _, html := range fragments {
		if err := sse.PatchElements(html); err != nil {
			return err
		}
	}
	return nil
}

// patchError shows err in the banner with the given id.
func (h *SSEHandlers) patchError(w http.ResponseWriter, r *http.Request, sse *datastar.ServerSentEventGenerator, id string, err error) {
	requestID := observability.GetRequestID(r.Context())
	errors.Log(h.logger, "sse request failed", err, requestID)
	if perr := h.patch(r.Context(), sse, templates.ErrorBanner(id, errors.Message(err))); perr != nil {
		h.logger.Error("render error banner", "error", perr, "request_id", requestID)
	}
	flush(w)
}

func (h *SSEHandlers) patchSignals(sse *datastar.ServerSentEventGenerator, signals map[string]any) error {
	b, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	return sse.PatchSignals(b)
}

// HandleOverview refreshes the metrics, the seller list and the chart
// signals of the overview page.
func (h *SSEHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	var signals overviewSignals
	readErr := datastar.ReadSignals(r, &signals)
	sse := datastar.NewSSE(w, r)
	if readErr != nil {
		h.patchError(w, r, sse, overviewErrorID, errors.BadRequestWrap(readErr, "invalid signals"))
		return
	}

	req, err := signals.request()
	if err != nil {
		h.patchError(w, r, sse, overviewErrorID, err)
		return
	}
	overview, err := h.dashboard.Overview(r.Context(), req)
	if err != nil {
		h.patchError(w, r, sse, overviewErrorID, err)
		return
	}

	err = h.patch(r.Context(), sse,
		templates.ErrorBanner(overviewErrorID, ""),
		templates.Metrics(overview.Metrics),
		templates.SellerOptions(overview.SellerOptions, signals.Sellers),
	)
	if err != nil {
		h.logger.Error("patch overview", "error", err)
		return
	}
	if err := h.patchSignals(sse, map[string]any{
		"top":    overview.TopN,
		"charts": overview.Charts,
	}); err != nil {
		h.logger.Error("patch overview signals", "error", err)
		return
	}

	flush(w)
}

// HandleRecords refreshes the raw-data table and filter widgets, then writes
// the resolved selection and the download link back into the signals.
func (h *SSEHandlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	var signals recordSignals
	readErr := datastar.ReadSignals(r, &signals)
	sse := datastar.NewSSE(w, r)
	if readErr != nil {
		h.patchError(w, r, sse, recordsErrorID, errors.BadRequestWrap(readErr, "invalid signals"))
		return
	}

	raw, exp, err := signals.requests()
	if err != nil {
		h.patchError(w, r, sse, recordsErrorID, err)
		return
	}
	view, err := h.dashboard.Raw(r.Context(), raw)
	if err != nil {
		h.patchError(w, r, sse, recordsErrorID, err)
		return
	}

	err = h.patch(r.Context(), sse,
		templates.ErrorBanner(recordsErrorID, ""),
		templates.RecordFilters(view.Options),
		templates.RecordsTable(view),
	)
	if err != nil {
		h.logger.Error("patch records", "error", err)
		return
	}

	sel := view.Selection
	resolved := map[string]any{
		"pronto":       true,
		"produtos":     members(view.Options.Products, sel.Products),
		"categorias":   members(view.Options.Categories, sel.Categories),
		"vendedores":   members(view.Options.Sellers, sel.Sellers),
		"locais":       members(view.Options.Locations, sel.Locations),
		"pagamentos":   members(view.Options.PaymentTypes, sel.PaymentTypes),
		"precoMin":     sel.Price.Min,
		"precoMax":     sel.Price.Max,
		"freteMin":     sel.Freight.Min,
		"freteMax":     sel.Freight.Max,
		"dataInicio":   dateSignal(sel.PurchaseDate.From),
		"dataFim":      dateSignal(sel.PurchaseDate.To),
		"avaliacaoMin": sel.Rating.Min,
		"avaliacaoMax": sel.Rating.Max,
		"parcelasMin":  sel.Installments.Min,
		"parcelasMax":  sel.Installments.Max,
		"colunas":      view.Table.Columns,
		"exportUrl":    exportURL(raw, exp),
	}
	if err := h.patchSignals(sse, resolved); err != nil {
		h.logger.Error("patch record signals", "error", err)
		return
	}

	flush(w)
}

// members lists the options in s, in option order.
func members(options []string, s services.Set) []string {
	out := make([]string, 0, len(s))
	for _, o := range options {
		if s.Has(o) {
			out = append(out, o)
		}
	}
	return out
}

func dateSignal(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
