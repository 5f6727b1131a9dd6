package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData is everything the board page shows
type PageData struct {
	Activities ActivitiesView
	Rankings   RankingsView
	Message    *MessageView
	Query      string
	// CSRFField is the hidden token input, empty when CSRF is disabled
	CSRFField template.HTML
}

// Renderer executes the embedded board templates
type Renderer struct {
	tpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tpl, err := template.New("board").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Page renders the full board
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.tpl.ExecuteTemplate(w, "page", data)
}

// ActivitiesFragment renders only the activity list and the dropdown options
func (r *Renderer) ActivitiesFragment(w io.Writer, data PageData) error {
	return r.tpl.ExecuteTemplate(w, "activities", data)
}

// Static serves the embedded stylesheet
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
