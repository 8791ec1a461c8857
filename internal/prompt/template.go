package prompt

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// Template renders the assistant's main prompt around a customer question.
// Loaded once at startup; a missing file is a startup error, not a runtime
// one.
type Template struct {
	tmpl *template.Template
}

type templateData struct {
	Question string
}

func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt template not found: %w", err)
	}

	tmpl, err := template.New("main_prompt").Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	return &Template{tmpl: tmpl}, nil
}

func (t *Template) Render(question string) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, templateData{Question: question}); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}
