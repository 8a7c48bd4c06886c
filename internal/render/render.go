package render

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplate is the name of the pricing page template
const PageTemplate = "index.html"

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// Page writes the pricing page for v
func Page(w io.Writer, t *template.Template, v View) error {
	return t.ExecuteTemplate(w, PageTemplate, v)
}
