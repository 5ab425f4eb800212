package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swelljoe/weatherfinder/internal/db"
	"github.com/swelljoe/weatherfinder/internal/render"
	"github.com/swelljoe/weatherfinder/internal/widget"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const sessionCookie = "wf_session"

// History defines the lookup history operations needed by handlers
type History interface {
	RecordLookup(ctx context.Context, l db.Lookup) error
	RecentLookups(ctx context.Context, limit int) ([]db.Lookup, error)
	Ping() error
}

// Options configures the handlers.
type Options struct {
	IconBaseURL  string
	HistoryLimit int
}

// Handlers holds dependencies for HTTP handlers
type Handlers struct {
	sessions      *widget.Sessions
	newController func() *widget.Controller
	history       History
	opts          Options
	templates     *template.Template
	logger        *slog.Logger
}

// New creates a new Handlers instance. history may be nil when lookup history is disabled.
func New(sessions *widget.Sessions, newController func() *widget.Controller, history History, opts Options, logger *slog.Logger) *Handlers {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}

	return &Handlers{
		sessions:      sessions,
		newController: newController,
		history:       history,
		opts:          opts,
		templates:     template.Must(template.ParseFS(templateFS, "templates/*.html")),
		logger:        logger,
	}
}

// Routes returns the application's HTTP handler with middleware applied.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("POST /{$}", h.HandleSubmit)
	mux.HandleFunc("GET /api/weather", h.HandleWeatherAPI)
	mux.HandleFunc("GET /api/history", h.HandleHistory)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return RequestID(AccessLog(h.logger, mux))
}

type pageData struct {
	render.Page
	Recent []db.Lookup
}

// HandleIndex renders the widget for the caller's session
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	ctrl := h.session(w, r)
	data := pageData{Page: render.Project(ctrl.State(), h.opts.IconBaseURL)}

	// A recent-search link pre-fills the form without submitting it.
	if city := r.URL.Query().Get("city"); city != "" && !data.Loading {
		data.Query = city
	}

	if h.history != nil {
		recent, err := h.history.RecentLookups(r.Context(), h.opts.HistoryLimit)
		if err != nil {
			h.logger.WarnContext(r.Context(), "failed to load recent lookups", "error", err)
		}
		data.Recent = recent
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		h.logger.ErrorContext(r.Context(), "error executing template", "error", err)
	}
}

// HandleSubmit accepts the form and starts the lookup in the background. The
// browser is redirected back to the page, which refreshes until the lookup
// completes.
func (h *Handlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctrl := h.session(w, r)
	if req := ctrl.Start(r.PostFormValue("city")); req != nil {
		// The lookup outlives this request; only its values are kept.
		ctx := context.WithoutCancel(r.Context())
		go func() {
			st := req.Do(ctx)
			h.record(ctx, req.Query(), st)
		}()
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type weatherResponse struct {
	Weather any          `json:"weather,omitempty"`
	View    *render.View `json:"view,omitempty"`
	Error   any          `json:"error,omitempty"`
}

// HandleWeatherAPI performs a synchronous lookup and returns JSON
func (h *Handlers) HandleWeatherAPI(w http.ResponseWriter, r *http.Request) {
	ctrl := h.newController()
	req := ctrl.Start(r.URL.Query().Get("city"))
	if req == nil {
		st := ctrl.State()
		writeJSON(w, st.Err.HTTPStatus(), weatherResponse{Error: st.Err})
		return
	}

	st := req.Do(r.Context())
	h.record(r.Context(), req.Query(), st)

	if st.Err != nil {
		writeJSON(w, st.Err.HTTPStatus(), weatherResponse{Error: st.Err})
		return
	}

	view := render.Snapshot(st.Snapshot, h.opts.IconBaseURL)
	writeJSON(w, http.StatusOK, weatherResponse{Weather: st.Snapshot, View: &view})
}

// HandleHistory returns recent lookups
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusOK, []db.Lookup{})
		return
	}

	recent, err := h.history.RecentLookups(r.Context(), h.opts.HistoryLimit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "history error", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, recent)
}

// HandleHealth handles health check endpoint
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.history != nil {
		if err := h.history.Ping(); err != nil {
			status = "degraded"
		}
	} else {
		status = "no_database"
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// session returns the caller's controller, starting a session when the
// cookie is missing or has expired.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) *widget.Controller {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if ctrl, ok := h.sessions.Get(c.Value); ok {
			return ctrl
		}
	}

	id, ctrl := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ctrl
}

// record stores a completed lookup in the history, if enabled.
func (h *Handlers) record(ctx context.Context, query string, st widget.State) {
	if h.history == nil {
		return
	}

	l := db.Lookup{Query: query}
	switch {
	case st.Err != nil:
		l.Outcome = string(st.Err.Kind)
	case st.Snapshot != nil:
		l.Outcome = "success"
		l.Location = render.Snapshot(st.Snapshot, "").Location
	default:
		return
	}

	if err := h.history.RecordLookup(ctx, l); err != nil {
		h.logger.WarnContext(ctx, "failed to record lookup", "query", query, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
