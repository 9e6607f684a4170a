// Package templates renders text/template bodies with the registered filters
// available as template functions.
package templates

import (
	"bytes"
	"text/template"

	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/filters"
)

// Render parses and executes body with data. Every filter in reg is callable by
// name, e.g. {{ .Content | add_non_breaking_spaces }}. A nil reg uses the
// default registry. Date, Filters and Generator are added to data when absent.
//
// Output is not HTML-escaped, so entities inserted by filters reach the page
// as written.
func Render(name, body string, data map[string]any, reg *filters.Registry) (string, error) {
	if reg == nil {
		reg = filters.Default()
	}

	tpl, err := template.New(name).Funcs(reg.FuncMap()).Option("missingkey=error").Parse(body)
	if err != nil {
		return "", errors.TemplateError(name, err).WithContext("phase", "parse")
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, withBuiltins(data, reg)); err != nil {
		return "", errors.TemplateError(name, err).WithContext("phase", "execute")
	}
	return buf.String(), nil
}
