package daemon

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"wordburn/internal/api"
	"wordburn/internal/logging"
	"wordburn/internal/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type indexPage struct {
	Jobs  []api.ItemView
	Error string
}

type jobPage struct {
	Job        api.ItemView
	Processing bool
}

// handleIndex renders the submission form with the current queue.
func (s *apiServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := s.daemon.ListQueue(r.Context(), nil)
	if err != nil {
		s.log().Error("queue listing for index page failed", logging.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := indexPage{
		Jobs:  api.FromItems(items, s.daemon.MediaURL),
		Error: strings.TrimSpace(r.URL.Query().Get("error")),
	}
	s.renderPage(w, "index.html", page)
}

// handleSubmitForm accepts the browser form post and redirects to the run's
// status page.
func (s *apiServer) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/?error=invalid+form", http.StatusSeeOther)
		return
	}

	item, err := s.daemon.Submit(r.Context(), r.PostFormValue("url"))
	if err != nil {
		http.Redirect(w, r, "/?error="+template.URLQueryEscaper(err.Error()), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/jobs/"+item.RunID, http.StatusSeeOther)
}

// handleJobPage renders the status page for a single run. Pages for runs
// still in flight refresh themselves until the run reaches a terminal state.
func (s *apiServer) handleJobPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	identifier := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if identifier == "" || strings.Contains(identifier, "/") {
		http.NotFound(w, r)
		return
	}

	item, err := s.lookupItem(r.Context(), identifier)
	if err != nil {
		s.log().Error("job page lookup failed", logging.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}

	page := jobPage{
		Job:        api.FromItem(item, s.daemon.MediaURL),
		Processing: !queue.IsTerminal(item.Status),
	}
	s.renderPage(w, "job.html", page)
}

func (s *apiServer) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		s.log().Error("template render failed",
			logging.String("template", name),
			logging.Error(err))
	}
}
