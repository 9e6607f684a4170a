// Package audit reports trigger phrases in rendered HTML that the
// non-breaking-space filter leaves alone because they are not separated by a
// single plain space, e.g. a line break between "Java" and "17".
package audit

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitefilter/internal/errors"
)

// Finding is one near-miss occurrence.
type Finding struct {
	File string
	Line int
	Rule string
	Text string
}

type nearMiss struct {
	rule string
	re   *regexp.Regexp
}

// Each pattern captures the separator so it can be compared with a single space.
var nearMisses = []nearMiss{
	{"java_version", regexp.MustCompile(`Java(\s+)\d+`)},
	{"fat_jar", regexp.MustCompile(`(?i)(?:fat'?|uber'?)(\s+)JAR`)},
	{"maven_central", regexp.MustCompile(`Maven(\s+)Central`)},
	{"super_pom", regexp.MustCompile(`(?i)super(\s+)POM`)},
	{"clojure_cli", regexp.MustCompile(`Clojure(\s+)CLI`)},
	{"scope_capture", regexp.MustCompile(`(?i)\bscope(\s+)capture\b`)},
}

var codeTags = map[string]bool{"code": true, "kbd": true, "samp": true}

// Reader scans HTML from r. file is only used to label findings.
func Reader(file string, r io.Reader) ([]Finding, error) {
	z := html.NewTokenizer(r)
	var (
		findings []Finding
		line     = 1
		skip     int // depth inside script/style
		code     int // depth inside inline code elements
	)

	for {
		tt := z.Next()
		raw := z.Raw()
		startLine := line
		line += bytes.Count(raw, []byte{'\n'})

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return findings, errors.Wrap(err, errors.CategoryValidation, errors.SeverityError, "failed to tokenize HTML").
					WithContext("file", file)
			}
			return findings, nil
		case html.StartTagToken, html.EndTagToken:
			name, _ := z.TagName()
			delta := 1
			if tt == html.EndTagToken {
				delta = -1
			}
			switch tag := string(name); {
			case tag == "script" || tag == "style":
				skip = max(0, skip+delta)
			case codeTags[tag]:
				code = max(0, code+delta)
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := string(z.Text())
			findings = append(findings, scanText(file, startLine, text)...)
			if code > 0 && strings.ContainsAny(text, "-\u2011") && strings.ContainsAny(text, " \t\r\n") {
				findings = append(findings, Finding{
					File: file,
					Line: startLine,
					Rule: "inline_hyphens",
					Text: strings.TrimSpace(text),
				})
			}
		}
	}
}

func scanText(file string, startLine int, text string) []Finding {
	var out []Finding
	for _, nm := range nearMisses {
		for _, loc := range nm.re.FindAllStringSubmatchIndex(text, -1) {
			if text[loc[2]:loc[3]] == " " {
				continue
			}
			out = append(out, Finding{
				File: file,
				Line: startLine + strings.Count(text[:loc[0]], "\n"),
				Rule: nm.rule,
				Text: text[loc[0]:loc[1]],
			})
		}
	}
	return out
}

// File scans one HTML file.
func File(path string) ([]Finding, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, errors.FileError("open", path, err)
	}
	defer func() {
		_ = f.Close() // read-only
	}()
	return Reader(path, f)
}

// Dir scans every file below root whose extension is in exts.
func Dir(root string, exts []string) ([]Finding, error) {
	var all []Finding
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasExt(path, exts) {
			return nil
		}
		found, err := File(path)
		if err != nil {
			return err
		}
		all = append(all, found...)
		return nil
	})
	if err != nil {
		return all, errors.FileError("walk", root, err)
	}
	return all, nil
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
