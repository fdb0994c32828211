package main

import (
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pulseboard/pulseboard"
	"github.com/pulseboard/pulseboard/internal/config"
)

// handlers holds dependencies for all HTTP handler methods.
type handlers struct {
	dashboard *pulseboard.Dashboard
	cfg       *config.Config
	pages     map[string]*template.Template // per-page template sets
	policy    *bluemonday.Policy
}

// init parses templates and creates the sanitizer policy on first use.
// Each page gets its own template tree: base.html + page template, so
// page-level block names never collide.
func (h *handlers) init() {
	if h.pages != nil {
		return
	}

	funcMap := template.FuncMap{
		"count": func(n int64) string {
			if h.cfg.Stats.Commas {
				return humanize.Comma(n)
			}
			return strconv.FormatInt(n, 10)
		},
	}

	tmplFS, _ := fs.Sub(embedded, "templates")

	pages := []string{"dashboard.html", "error.html"}

	h.pages = make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t := template.Must(template.New("").Funcs(funcMap).ParseFS(tmplFS, "base.html", page))
		h.pages[page] = t
	}

	h.policy = bluemonday.UGCPolicy()
}

// --- Template data types ---

type dashboardData struct {
	Title          string
	Image          string
	Location       string
	RefreshPath    string
	RefreshSeconds int
	National       regionRow
	Local          regionRow
	Articles       []articleRow
	Updates        []pulseboard.ScheduledUpdate
}

type regionRow struct {
	AreaName      string
	SevenDayCases int64
	HospitalCases int64
	TotalDeaths   int64
}

type articleRow struct {
	Title string
	Body  template.HTML
}

type errorData struct {
	Message string
	Detail  string
}

// --- Helper methods ---

func (h *handlers) renderPage(w http.ResponseWriter, name string, data any) {
	h.init()

	t, ok := h.pages[name]
	if !ok {
		log.Printf("pulseboard-web: unknown page template: %s", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("pulseboard-web: template error: %v", err)
	}
}

func (h *handlers) renderError(w http.ResponseWriter, status int, message, detail string) {
	h.init()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	t := h.pages["error.html"]
	if err := t.ExecuteTemplate(w, "base.html", errorData{Message: message, Detail: detail}); err != nil {
		log.Printf("pulseboard-web: template error: %v", err)
	}
}

// --- Handlers ---

// handleDashboard advances the scheduler and renders the page. Both the
// base route and the auto-refresh route land here.
func (h *handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.init()
	h.dashboard.Tick(r.Context())
	snap := h.dashboard.Snapshot()

	articles := make([]articleRow, len(snap.Articles))
	for i, a := range snap.Articles {
		articles[i] = articleRow{
			Title: a.Title,
			Body:  template.HTML(h.policy.Sanitize(a.Body)), //nolint:gosec // sanitized above
		}
	}

	h.renderPage(w, "dashboard.html", dashboardData{
		Title:          snap.Title,
		Image:          snap.Image,
		Location:       snap.Location,
		RefreshPath:    h.cfg.Server.RerouteAddr,
		RefreshSeconds: 60,
		National:       regionRow(snap.National),
		Local:          regionRow(snap.Local),
		Articles:       articles,
		Updates:        snap.Updates,
	})
}

func (h *handlers) handleScheduleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, "Bad form data", err.Error())
		return
	}

	req := pulseboard.ScheduleRequest{
		Title:  r.PostFormValue("title"),
		At:     r.PostFormValue("at"),
		Repeat: r.PostFormValue("repeat") != "",
		Stats:  r.PostFormValue("stats") != "",
		News:   r.PostFormValue("news") != "",
	}

	if err := h.dashboard.ScheduleUpdate(req); err != nil {
		h.renderError(w, http.StatusBadRequest, "Could not schedule update", err.Error())
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) handleCancelUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, "Bad form data", err.Error())
		return
	}

	title := r.PostFormValue("title")
	if !h.dashboard.CancelUpdate(title) {
		log.Printf("pulseboard-web: cancel for unknown update %q", title)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) handleDismissArticle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, "Bad form data", err.Error())
		return
	}

	h.dashboard.DismissArticle(r.PostFormValue("title"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
