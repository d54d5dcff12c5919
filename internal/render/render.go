// Package render is the thin template-rendering collaborator handlers call
// into: give it a template name and a data context, get a page.
package render

import (
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/LaviAzankot/CharityChick/internal/logging"
)

// Renderer renders html/template files from a directory.
type Renderer struct {
	dir string
}

// New creates a renderer serving templates from dir.
func New(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// HTML renders the named template with the given data context.
func (rn *Renderer) HTML(w http.ResponseWriter, status int, name string, data map[string]interface{}) {
	tmpl, err := template.ParseFiles(filepath.Join(rn.dir, name))
	if err != nil {
		logging.Error().Err(err).Str("template", name).Msg("loading template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		logging.Error().Err(err).Str("template", name).Msg("rendering template")
	}
}

// NotFound renders the generic not-found page.
func (rn *Renderer) NotFound(w http.ResponseWriter) {
	rn.HTML(w, http.StatusNotFound, "error.html", map[string]interface{}{
		"Code":    http.StatusNotFound,
		"Title":   "404 Not Found",
		"Message": "The page you are looking for does not exist.",
	})
}
