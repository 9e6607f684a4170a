// Package frontmatter separates YAML frontmatter from a markdown source.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a markdown source split into its parts.
type Document struct {
	// Raw is the frontmatter text without delimiters. Empty when absent.
	Raw []byte
	// Body is the markdown following the frontmatter.
	Body []byte
	// Had reports whether the source carried a frontmatter block.
	Had bool
}

// Split separates `---` delimited YAML frontmatter from the markdown body.
// LF and CRLF line endings are both accepted.
func Split(content []byte) (Document, error) {
	nl := []byte("\n")
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = []byte("\r\n")
	}

	open := append([]byte("---"), nl...)
	if !bytes.HasPrefix(content, open) {
		return Document{Body: content}, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return Document{Raw: []byte{}, Body: rest[len(open):], Had: true}, nil
	}

	closeSeq := append(append(append([]byte{}, nl...), "---"...), nl...)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		return Document{}, ErrMissingClosingDelimiter
	}

	return Document{
		Raw:  rest[:idx+len(nl)],
		Body: rest[idx+len(closeSeq):],
		Had:  true,
	}, nil
}

// Params decodes the frontmatter into a map. Absent frontmatter yields an
// empty map.
func (d Document) Params() (map[string]any, error) {
	if len(d.Raw) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(d.Raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
