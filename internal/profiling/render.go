package profiling

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*
var templateFS embed.FS

var funcMap = template.FuncMap{
	"num":     func(f float64) string { return fmt.Sprintf("%.3f", f) },
	"percent": func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
}

type renderer struct {
	templates *template.Template
}

func newRenderer() (*renderer, error) {
	t, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing profile templates: %w", err)
	}
	return &renderer{templates: t}, nil
}

func (r *renderer) render(p Profile) (string, error) {
	var sb strings.Builder
	if err := r.templates.ExecuteTemplate(&sb, "profile", p); err != nil {
		return "", fmt.Errorf("rendering profile: %w", err)
	}
	return sb.String(), nil
}
