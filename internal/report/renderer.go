// Package report renders the inferential part of the report as an HTML
// fragment.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"autostat/domain/stats"
	"autostat/internal/correction"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed templates/*
var templateFS embed.FS

// DefaultContactURL is where the interpretation section's form posts
const DefaultContactURL = "https://formspree.io/f/xzzypzyb"

const (
	boxStyle       = "margin: 15px 0; padding: 10px; background-color: #f8f9fa; border: 1px solid #dee2e6; border-radius: 5px;"
	confirmedStyle = "background-color: #ffcccc;"
	boundaryStyle  = " border-top: 2px solid #ccc;"
)

// Renderer turns a ranking into the inferential report fragment
type Renderer struct {
	templates      *template.Template
	interpretation template.HTML
	contactURL     string
}

// NewRenderer parses the embedded templates and pre-renders the
// interpretation section
func NewRenderer(contactURL string) (*Renderer, error) {
	if contactURL == "" {
		contactURL = DefaultContactURL
	}
	templates, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing report templates: %w", err)
	}
	md, err := templateFS.ReadFile("templates/interpretation.md")
	if err != nil {
		return nil, fmt.Errorf("reading interpretation text: %w", err)
	}
	return &Renderer{
		templates:      templates,
		interpretation: renderMarkdown(md),
		contactURL:     contactURL,
	}, nil
}

func renderMarkdown(md []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	// the source is our own embedded file, not user input
	return template.HTML(markdown.ToHTML(md, p, r))
}

type row struct {
	Style    template.CSS
	Pair     string
	Category string
	Test     string
	PValue   string
	Effect   string
	Remarks  string
}

func toRow(r *stats.TestResult, style string) row {
	return row{
		Style:    template.CSS(style),
		Pair:     r.Pair,
		Category: string(r.Category),
		Test:     string(r.Test),
		PValue:   r.PValue.String(),
		Effect:   r.Effect.String(),
		Remarks:  r.Remarks,
	}
}

type page struct {
	BoxStyle       template.CSS
	Audit          string
	Threshold      string
	Rows           []row
	Confirmed      []row
	Interpretation template.HTML
	ContactURL     string
}

// Render builds the fragment: the full results table with confirmed rows
// highlighted and a separator between pairs, the confirmed summary when it is
// non-empty, and the interpretation section. An empty ranking renders a short
// notice instead. Every text field is escaped.
func (r *Renderer) Render(ranking correction.Ranking, audit string) (string, error) {
	var buf bytes.Buffer
	if len(ranking.Results) == 0 {
		if err := r.templates.ExecuteTemplate(&buf, "empty", nil); err != nil {
			return "", fmt.Errorf("rendering empty report: %w", err)
		}
		return buf.String(), nil
	}

	p := page{
		BoxStyle:       template.CSS(boxStyle),
		Audit:          audit,
		Threshold:      fmt.Sprintf("%.4f", ranking.Threshold),
		Interpretation: r.interpretation,
		ContactURL:     r.contactURL,
	}

	var last string
	for i := range ranking.Results {
		res := &ranking.Results[i]
		style := ""
		if ranking.ConfirmedAt(i) {
			style = confirmedStyle
		}
		if i > 0 && res.Pair != last {
			style += boundaryStyle
		}
		last = res.Pair
		p.Rows = append(p.Rows, toRow(res, style))
	}
	for _, c := range ranking.Confirmed {
		p.Confirmed = append(p.Confirmed, toRow(c, ""))
	}

	if err := r.templates.ExecuteTemplate(&buf, "inferential", p); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}
