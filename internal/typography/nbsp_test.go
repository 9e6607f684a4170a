package typography

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNonBreakingSpaces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"no triggers", "plain text with no triggers", "plain text with no triggers"},
		{"java version", "Java 17", "Java&nbsp;17"},
		{"java multi digit", "runs on Java 21 and Java 8", "runs on Java&nbsp;21 and Java&nbsp;8"},
		{"java non numeric", "Java EE", "Java EE"},
		{"java lowercase", "java 17", "java 17"},
		{"fat jar", "a fat JAR file", "a fat&nbsp;JAR file"},
		{"uber jar casing", "an Uber jar", "an Uber&nbsp;jar"},
		{"fat apostrophe", "build a fat' JAR", "build a fat'&nbsp;JAR"},
		{"maven central", "Published to Maven Central today", "Published to Maven&nbsp;Central today"},
		{"maven central lowercase", "maven central", "maven central"},
		{"super pom", "the super POM defines...", "the super&nbsp;POM defines..."},
		{"super pom casing", "The Super pom", "The Super&nbsp;pom"},
		{"clojure cli", "use the Clojure CLI tool", "use the Clojure&nbsp;CLI tool"},
		{"scope capture", "a variable scope capture issue", "a variable scope&nbsp;capture issue"},
		{"scope capture casing", "Scope Capture", "Scope&nbsp;Capture"},
		{"scope capture inside word", "telescope captures", "telescope captures"},
		{"scope capture after accented letter", "éscope capture", "éscope capture"},
		{"scope capture before accented letter", "scope captureé", "scope captureé"},
		{"scope capture after underscore", "_scope capture", "_scope capture"},
		{"scope capture in parentheses", "(scope capture)", "(scope&nbsp;capture)"},
		{"scope capture repeated", "scope capture, Scope Capture", "scope&nbsp;capture, Scope&nbsp;Capture"},
		{"scope capture after accented word", "café scope capture", "café scope&nbsp;capture"},
		{"code hyphen", "<code>foo-bar</code>", "<code>foo&#8209;bar</code>"},
		{"code non-breaking hyphen", "<code>foo\u2011bar</code>", "<code>foo&#8209;bar</code>"},
		{
			"hyphens outside spans",
			"no-match-outside <code>inside-here</code> more-outside",
			"no-match-outside <code>inside&#8209;here</code> more-outside",
		},
		{"span with whitespace", "<code>foo - bar</code>", "<code>foo - bar</code>"},
		{"span with vertical tab", "<code>a\v-b</code>", "<code>a\v-b</code>"},
		{"span with quote", `<code>a-"b</code>`, `<code>a-"b</code>`},
		{
			"independent spans",
			"<code>a-b</code> x-y <kbd>c-d-e</kbd>",
			"<code>a&#8209;b</code> x-y <kbd>c&#8209;d&#8209;e</kbd>",
		},
		{"malformed fragment", "<code>foo-bar", "<code>foo-bar"},
		{
			"multiple triggers",
			"Java 11 builds a fat JAR for Maven Central",
			"Java&nbsp;11 builds a fat&nbsp;JAR for Maven&nbsp;Central",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddNonBreakingSpaces(tt.input))
		})
	}
}

func TestAddNonBreakingSpaces_Idempotent(t *testing.T) {
	inputs := []string{
		"Java 17",
		"an Uber jar and a fat' JAR",
		"Maven Central hosts the super POM",
		"Clojure CLI scope capture",
		"<p>Run <code>mvn-install</code> on Java 21</p>",
		"<code>Java 17</code>",
	}
	for _, in := range inputs {
		once := AddNonBreakingSpaces(in)
		assert.Equal(t, once, AddNonBreakingSpaces(once), "input %q", in)
	}
}

func TestAddNonBreakingSpaces_Concurrent(t *testing.T) {
	const in = "<li>Java 17 with a fat JAR from <code>my-lib</code></li>"
	want := AddNonBreakingSpaces(in)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, AddNonBreakingSpaces(in))
		}()
	}
	wg.Wait()
}

func TestRules_Order(t *testing.T) {
	got := Rules()
	require.Len(t, got, 7)

	names := make([]string, 0, len(got))
	for i, r := range got {
		require.Equal(t, i+1, r.Order)
		require.NotEmpty(t, r.Pattern)
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"java_version", "fat_jar", "maven_central", "super_pom",
		"clojure_cli", "scope_capture", "inline_hyphens",
	}, names)
	assert.Equal(t, "Maven Central", got[2].Pattern)
	assert.Equal(t, `(?i)(\bscope) (capture\b)`, got[5].Pattern)
}
