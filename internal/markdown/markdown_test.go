package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_InlineCode(t *testing.T) {
	out, err := New(Options{}).Render([]byte("Run `mvn-install` on Java 17"))
	require.NoError(t, err)
	require.Equal(t, "<p>Run <code>mvn-install</code> on Java 17</p>\n", string(out))
}

func TestRender_HeadingIDs(t *testing.T) {
	out, err := New(Options{}).Render([]byte("# Fat JARs"))
	require.NoError(t, err)
	require.Equal(t, "<h1 id=\"fat-jars\">Fat JARs</h1>\n", string(out))
}

func TestRender_RawHTML(t *testing.T) {
	src := []byte("<kbd>ctrl-c</kbd>\n")

	safe, err := New(Options{}).Render(src)
	require.NoError(t, err)
	require.Contains(t, string(safe), "<!-- raw HTML omitted -->")

	unsafe, err := New(Options{Unsafe: true}).Render(src)
	require.NoError(t, err)
	require.Contains(t, string(unsafe), "<kbd>ctrl-c</kbd>")
}

func TestRender_Empty(t *testing.T) {
	out, err := New(Options{}).Render(nil)
	require.NoError(t, err)
	require.Empty(t, out)
}
