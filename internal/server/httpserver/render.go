package httpserver

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/timex"
	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"signup", "login", "todo", "update", "tasks", "calendar"}

// page is the data every template receives.
type page struct {
	User    *models.User
	Flash   *Flash
	Today   string
	Heading string
	Todos   []*models.Todo
	Todo    *models.Todo
	Past    bool
}

type renderer struct {
	templates map[string]*template.Template
}

// newRenderer parses every page. Dates are shown in loc, the zone that
// decides which day is today.
func newRenderer(loc *time.Location) (*renderer, error) {
	if loc == nil {
		loc = time.Local
	}
	funcs := template.FuncMap{
		"date": func(t time.Time) string { return timex.FormatDate(t.In(loc)) },
	}

	r := &renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
