// Package view renders the catalog pages. Each page is an html/template file
// joined with the shared layout and exposed as a templ component.
package view

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
)

//go:embed templates/*.html
var files embed.FS

// Renderer resolves view names to components.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page against the layout.
func New() (*Renderer, error) {
	funcs := template.FuncMap{
		// Stored text is escaped on input; unescape so html/template escapes it exactly once.
		"plain": html.UnescapeString,
	}
	pages := make(map[string]*template.Template, len(Names))
	for _, name := range Names {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Component returns the page for name bound to data.
func (r *Renderer) Component(name string, data any) (templ.Component, error) {
	tmpl, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown view %q", name)
	}
	return templ.FromGoHTML(tmpl, data), nil
}
