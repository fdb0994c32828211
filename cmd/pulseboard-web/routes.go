package main

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/pulseboard/pulseboard"
	"github.com/pulseboard/pulseboard/internal/config"
)

//go:embed templates static
var embedded embed.FS

// newRouter sets up all routes using Go 1.22+ enhanced routing.
func newRouter(dashboard *pulseboard.Dashboard, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Static files
	staticFS, _ := fs.Sub(embedded, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	h := &handlers{dashboard: dashboard, cfg: cfg}

	mux.HandleFunc("GET /{$}", h.handleDashboard)
	// The auto-refresh route renders the same page; the meta refresh on
	// the base route points here so a half-typed form is never reloaded
	// away from under the user.
	mux.HandleFunc("GET "+cfg.Server.RerouteAddr, h.handleDashboard)

	mux.HandleFunc("POST /updates", h.handleScheduleUpdate)
	mux.HandleFunc("POST /updates/cancel", h.handleCancelUpdate)
	mux.HandleFunc("POST /articles/dismiss", h.handleDismissArticle)

	return mux
}
