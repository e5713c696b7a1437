package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates holds the parsed page set. All user-authored text (titles,
// descriptions, review bodies) flows through html/template's contextual
// escaping; nothing is ever concatenated into raw markup.
type Templates struct{ t *template.Template }

func NewTemplates() (*Templates, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"stars":    stars,
		"truncate": truncate,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Templates{t: t}, nil
}

// Render executes into a buffer first so a template failure never leaves a
// half-written page behind a 200.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := t.t.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
