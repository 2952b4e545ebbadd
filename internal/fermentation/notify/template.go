package notify

import (
	"bytes"
	"errors"
	"text/template"
)

const DefaultTemplate = `[Fermentation Advisory] {{.Title}}
Lot: {{.Lot}}{{ if .Varietal }} ({{.Varietal}}){{ end }}
Status: {{.Status}}
Days Fermenting: {{.DaysFermenting}}
Message: {{.Message}}
{{- range .Suggestions }}
- {{ . }}
{{- end }}
Evaluated At: {{.EvaluatedAt}}
{{ if .LotURL }}
Link: {{.LotURL}}
{{ end }}`

// TemplateData provides fields for rendering notification content.
type TemplateData struct {
	Lot            string
	LotID          string
	Varietal       string
	Status         string
	DaysFermenting int
	Title          string
	Message        string
	Priority       string
	Suggestions    []string
	EvaluatedAt    string
	LotURL         string
}

// Template renders notification content.
type Template struct {
	tpl *template.Template
}

// NewTemplate parses a notification template, falling back to DefaultTemplate.
func NewTemplate(tpl string) (*Template, error) {
	if tpl == "" {
		tpl = DefaultTemplate
	}
	parsed, err := template.New("advisory-notification").Parse(tpl)
	if err != nil {
		return nil, err
	}
	return &Template{tpl: parsed}, nil
}

// Render applies the template to data.
func (t *Template) Render(data TemplateData) (string, error) {
	if t == nil || t.tpl == nil {
		return "", errors.New("advisory template: nil")
	}
	var buf bytes.Buffer
	if err := t.tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
