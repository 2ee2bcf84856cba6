// Package web holds the embedded HTML dashboards rendered by both services.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

// Templates parses the embedded pages once at startup.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.gohtml"))
}
