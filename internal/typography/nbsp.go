// Package typography rewrites rendered page text so that selected term pairs
// and inline code tokens do not wrap across lines.
package typography

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FilterName is the name under which AddNonBreakingSpaces is registered with
// template hosts.
const FilterName = "add_non_breaking_spaces"

const (
	nbsp          = "&nbsp;"
	nonBreakHyphn = "&#8209;"
)

// Rule describes one step of the rewrite sequence.
type Rule struct {
	Name    string
	Order   int
	Pattern string
}

type rule struct {
	name    string
	pattern string
	apply   func(s string) string
}

// hyphenReplacer covers ASCII hyphen-minus and U+2011.
var hyphenReplacer = strings.NewReplacer("-", nonBreakHyphn, "\u2011", nonBreakHyphn)

var rules = []rule{
	regexpRule("java_version", `Java (\d+)`, "Java"+nbsp+"${1}"),
	regexpRule("fat_jar", `(?i)(fat'?|uber'?) (JAR)`, "${1}"+nbsp+"${2}"),
	literalRule("maven_central", "Maven Central", "Maven"+nbsp+"Central"),
	regexpRule("super_pom", `(?i)(super) (POM)`, "${1}"+nbsp+"${2}"),
	literalRule("clojure_cli", "Clojure CLI", "Clojure"+nbsp+"CLI"),
	// RE2's \b only knows ASCII word characters; wordRule checks the
	// boundaries itself so that "éscope capture" is not joined.
	wordRule("scope_capture", `(?i)(\bscope) (capture\b)`, `(?i)(scope) (capture)`, "${1}"+nbsp+"${2}"),
	// Whitespace here is the ASCII set including \v, which RE2's \s lacks.
	spanRule("inline_hyphens", `>[^'"`+"`"+`\t\n\v\f\r <>]+</`, hyphenReplacer.Replace),
}

func regexpRule(name, pattern, template string) rule {
	re := regexp.MustCompile(pattern)
	return rule{name: name, pattern: re.String(), apply: func(s string) string {
		return re.ReplaceAllString(s, template)
	}}
}

func literalRule(name, old, replacement string) rule {
	return rule{name: name, pattern: old, apply: func(s string) string {
		return strings.ReplaceAll(s, old, replacement)
	}}
}

// spanRule rewrites only the text matched by pattern; the rest of the input is
// left as is.
func spanRule(name, pattern string, fn func(string) string) rule {
	re := regexp.MustCompile(pattern)
	return rule{name: name, pattern: re.String(), apply: func(s string) string {
		return re.ReplaceAllStringFunc(s, fn)
	}}
}

// wordRule replaces matches of pattern that are not part of a longer word.
// Word characters are Unicode letters, marks, decimal digits and connector
// punctuation. display is the pattern reported by Rules.
func wordRule(name, display, pattern, template string) rule {
	re := regexp.MustCompile(pattern)
	return rule{name: name, pattern: display, apply: func(s string) string {
		locs := re.FindAllStringSubmatchIndex(s, -1)
		if len(locs) == 0 {
			return s
		}
		var b strings.Builder
		last := 0
		for _, loc := range locs {
			if !wordBounded(s, loc[0], loc[1]) {
				continue
			}
			b.WriteString(s[last:loc[0]])
			b.Write(re.ExpandString(nil, template, s, loc))
			last = loc[1]
		}
		b.WriteString(s[last:])
		return b.String()
	}}
}

func wordBounded(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.In(r, unicode.L, unicode.M, unicode.Nd, unicode.Pc)
}

// AddNonBreakingSpaces applies every rule in order and returns the result.
// Input without any trigger phrase is returned unchanged.
func AddNonBreakingSpaces(input string) string {
	text := input
	for _, r := range rules {
		text = r.apply(text)
	}
	return text
}

// Rules lists the rewrite steps in the order they run.
func Rules() []Rule {
	out := make([]Rule, 0, len(rules))
	for i, r := range rules {
		out = append(out, Rule{Name: r.name, Order: i + 1, Pattern: r.pattern})
	}
	return out
}
