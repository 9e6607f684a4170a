package templates

import (
	"maps"
	"time"

	"git.home.luguber.info/inful/sitefilter/internal/filters"
	"git.home.luguber.info/inful/sitefilter/internal/version"
)

// Data keys every template can read unless the caller supplies its own value.
const (
	KeyDate      = "Date"      // UTC render date, YYYY-MM-DD
	KeyFilters   = "Filters"   // filter names callable from the template, sorted
	KeyGenerator = "Generator" // "sitefilter <version>", for a generator meta tag
)

func withBuiltins(data map[string]any, reg *filters.Registry) map[string]any {
	builtins := map[string]func() any{
		KeyDate:      func() any { return time.Now().UTC().Format(time.DateOnly) },
		KeyFilters:   func() any { return reg.Names() },
		KeyGenerator: func() any { return "sitefilter " + version.Version },
	}

	out := make(map[string]any, len(data)+len(builtins))
	maps.Copy(out, data)
	for key, value := range builtins {
		if _, ok := out[key]; !ok {
			out[key] = value()
		}
	}
	return out
}
