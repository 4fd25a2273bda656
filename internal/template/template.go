// Package template renders prompt and hook templates.
package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Context holds the values a template can reference.
type Context struct {
	RunID     string
	MentorID  string
	Endpoint  string
	Question  string
	Response  string
	Timestamp string

	// User-defined variables (from the grading config)
	Vars map[string]string
}

// Render resolves template expressions in tmpl, e.g. {{.Question}} or
// {{.Vars.audience}}. Referencing an unknown key is an error. Input without
// template delimiters is returned unchanged.
func Render(tmpl string, ctx *Context) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	t, err := template.New("").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("template: parse: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("template: render: %w", err)
	}

	return buf.String(), nil
}

// Validate parses tmpl without executing it.
func Validate(tmpl string) error {
	if _, err := template.New("").Option("missingkey=error").Parse(tmpl); err != nil {
		return fmt.Errorf("template: parse: %w", err)
	}
	return nil
}
