// Package template renders message bodies from template files. Rendering
// is a pre-step of building an outgoing message: the result is a plain,
// already-rendered body chunk.
package template

import (
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

// Render executes the text template at path with the given params and
// returns the rendered body.
func Render(path string, params map[string]any) (string, error) {
	tmpl, err := texttemplate.ParseFiles(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, params); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", path, err)
	}
	return sb.String(), nil
}

// RenderHTML executes the HTML template at path with the given params.
// Param values are escaped according to their position in the markup.
func RenderHTML(path string, params map[string]any) (string, error) {
	tmpl, err := htmltemplate.ParseFiles(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, params); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", path, err)
	}
	return sb.String(), nil
}
