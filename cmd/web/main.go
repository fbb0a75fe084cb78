package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const (
	version        = "1.0.0"
	renderTimeout  = 10 * time.Second
	csvLoadTimeout = 30 * time.Second
	cacheMaxAge    = "public, max-age=300"

	rateLimiterSweep   = time.Minute
	rateLimiterMaxIdle = 3 * time.Minute
)

// renderPage serves a static page shell. Page data arrives over SSE.
func renderPage(page templ.Component) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := page.Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func newTemplateHandlers(cfg *config.Config) *server.TemplateHandlers {
	return &server.TemplateHandlers{
		Dashboard: renderPage(templates.Dashboard(templates.NewDashboardPage(cfg.Dashboard.Client))),
		Raw:       renderPage(templates.Raw(templates.NewRawPage(cfg.Dashboard.Client, cfg.Export.SheetName))),
	}
}

// newSource picks the CSV file when one is configured and the remote API
// otherwise.
func newSource(cfg *config.Config, logger *slog.Logger) (services.RecordSource, error) {
	if cfg.Source.CSVFile == "" {
		return services.NewHTTPSource(cfg.Source, logger), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), csvLoadTimeout)
	defer cancel()
	return services.LoadFileSource(ctx, cfg.Source.CSVFile, logger)
}

// newHandler wires the routes behind the middleware chain.
func newHandler(cfg *config.Config, dashboard *services.Dashboard, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	srv := server.NewServer(dashboard, logger, newTemplateHandlers(cfg))

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", version,
		"source", cfg.Source.URL,
		"client", cfg.Dashboard.Client,
	)

	source, err := newSource(cfg, logger)
	if err != nil {
		logger.Error("failed to prepare record source", "error", err)
		os.Exit(1)
	}
	dashboard := services.NewDashboard(source, cfg, logger)
	limiter := middleware.NewRateLimiter(cfg.Security)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, dashboard, limiter, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterTask("export-cache-purge", server.Every(cfg.Export.CacheTTL, func(context.Context) {
		if n := dashboard.PurgeExports(); n > 0 {
			logger.Debug("purged expired exports", "count", n)
		}
	}))
	gracefulServer.RegisterTask("rate-limiter-cleanup", server.Every(rateLimiterSweep, func(context.Context) {
		limiter.Cleanup(rateLimiterMaxIdle)
	}))

	gracefulServer.RegisterShutdownHook("export-cache", func(ctx context.Context) error {
		logger.Info("purged expired exports", "count", dashboard.PurgeExports())
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
