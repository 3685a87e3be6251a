package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"emissionsdash/internal/binder"
	"emissionsdash/internal/charts"
	"emissionsdash/internal/config"
	"emissionsdash/internal/dataset"
	"emissionsdash/internal/logger"
	"emissionsdash/internal/metrics"
	"emissionsdash/internal/models"
	"emissionsdash/internal/options"
	"emissionsdash/internal/storage"
)

// Server represents the dashboard HTTP server
type Server struct {
	Config  *config.Config
	Table   *dataset.Table
	Catalog *options.Catalog
	Builder *charts.Builder
	Binder  *binder.Binder
	Storage storage.Client
	Notes   template.HTML

	page    *template.Template
	initial models.Selection
	log     *logger.Logger
}

// NewServer derives the catalogs, chart builder and binder from table.
// client is the storage the table was loaded from; it is closed with the server and may be nil.
func NewServer(cfg *config.Config, table *dataset.Table, client storage.Client) (*Server, error) {
	catalog, err := options.NewCatalog(table)
	if err != nil {
		return nil, fmt.Errorf("failed to build option catalogs: %w", err)
	}

	builder := charts.NewBuilder(table)
	deps := binder.TableDeps(table, builder)
	deps.Chart = metrics.InstrumentChart(deps.Chart)
	b, err := binder.New(deps)
	if err != nil {
		return nil, fmt.Errorf("failed to build binder: %w", err)
	}

	page, err := template.New("dashboard.html").ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	notes, err := loadNotes(cfg.NotesPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Config:  cfg,
		Table:   table,
		Catalog: catalog,
		Builder: builder,
		Binder:  b,
		Storage: client,
		Notes:   notes,
		page:    page,
		initial: models.Selection{
			SourceType: cfg.DefaultSourceType,
			FuelType:   cfg.DefaultFuelType,
			Pollutant:  cfg.DefaultPollutant,
			Year:       cfg.DefaultYear,
		},
		log: logger.GetGlobalLogger().WithComponent("server"),
	}

	if !catalog.HasSourceType(s.initial.SourceType) {
		s.log.Warn("default source type not present in dataset", map[string]interface{}{"source_type": s.initial.SourceType})
	}
	if !catalog.HasPollutant(s.initial.Pollutant) {
		s.log.Warn("default pollutant not present in dataset", map[string]interface{}{"pollutant": s.initial.Pollutant})
	}
	return s, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/api/options", s.HandleOptions)
	mux.HandleFunc("/api/init", s.HandleInit)
	mux.HandleFunc("/api/update", s.HandleUpdate)
	mux.HandleFunc("/api/chart", s.HandleChart)
	mux.HandleFunc("/export/png", s.HandleExportPNG)
	mux.HandleFunc("/export/html", s.HandleExportHTML)
	mux.Handle("/metrics", promhttp.Handler())

	// Catch-all
	mux.HandleFunc("/", s.HandleRoot)

	return s.withRequestLogging(mux)
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}

// InitialSelection returns the selection a new page load starts from
func (s *Server) InitialSelection() models.Selection {
	return s.initial
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
}

// RenderNotes converts markdown notes to HTML
func RenderNotes(markdown []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := newMarkdown().Convert(markdown, &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// loadNotes renders the markdown file at path, or the built-in notes when path is empty
func loadNotes(path string) (template.HTML, error) {
	content := defaultNotes
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read notes %s: %w", path, err)
		}
		content = data
	}
	return RenderNotes(content)
}
