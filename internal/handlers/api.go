package handlers

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const version = "1.0.0"

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	req, err := parseOverviewQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	overview, err := h.dashboard.Overview(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, overview, map[string]string{
		"Cache-Control": "no-store",
	})
}

func (h *APIHandlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	req, err := parseRawQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.dashboard.Raw(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, view, map[string]string{
		"Cache-Control": "no-store",
	})
}

// HandleExport answers with the encoded table as an attachment.
func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw, err := parseRawQuery(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	exp, err := parseExportQuery(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.dashboard.Export(r.Context(), raw, exp)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.MIME)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set("X-Export-Rows", strconv.Itoa(result.Rows))
	w.Header().Set("X-Export-Cached", strconv.FormatBool(result.Cached))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		h.logger.Warn("write export", "error", err, "filename", result.Filename,
			"request_id", observability.GetRequestID(r.Context()))
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.dashboard.Stats()
	stats["version"] = version

	errors.WriteSuccess(w, stats)
}

// exportURL is the download link for the given raw view and export options.
func exportURL(raw services.RawRequest, exp services.ExportRequest) string {
	return fmt.Sprintf("/api/export?%s", exportQuery(raw, exp).Encode())
}
