package filters

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/typography"
)

func TestRegister_Validation(t *testing.T) {
	r := NewRegistry()

	err := r.Register("", strings.ToUpper)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	require.Error(t, r.Register("upper", nil))

	require.NoError(t, r.Register("upper", strings.ToUpper))
	err = r.Register("upper", strings.ToLower)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	fn, ok := r.Lookup("upper")
	require.True(t, ok)
	assert.Equal(t, "ABC", fn("abc"))
}

func TestMustRegister_PanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("trim", strings.TrimSpace)
	assert.Panics(t, func() { r.MustRegister("trim", strings.TrimSpace) })
}

func TestNames_Sorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("zeta", strings.ToLower)
	r.MustRegister("alpha", strings.ToUpper)
	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
}

func TestChain(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("trim", strings.TrimSpace)
	r.MustRegister("upper", strings.ToUpper)

	fn, err := r.Chain("trim", "upper")
	require.NoError(t, err)
	assert.Equal(t, "JAVA 17", fn("  java 17 "))

	identity, err := r.Chain()
	require.NoError(t, err)
	assert.Equal(t, "as is", identity("as is"))

	_, err = r.Chain("trim", "missing")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestDefault_RegistersNonBreakingSpaces(t *testing.T) {
	reg := Default()
	assert.Same(t, reg, Default())

	fn, ok := reg.Lookup(typography.FilterName)
	require.True(t, ok)
	assert.Equal(t, "Java&nbsp;17", fn("Java 17"))
	assert.Contains(t, reg.Names(), "add_non_breaking_spaces")
}

func TestFuncMap_UsableFromTemplate(t *testing.T) {
	tpl, err := template.New("t").Funcs(Default().FuncMap()).
		Parse(`{{ .Body | add_non_breaking_spaces }}`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tpl.Execute(&buf, map[string]string{"Body": "a fat JAR on Maven Central"}))
	assert.Equal(t, "a fat&nbsp;JAR on Maven&nbsp;Central", buf.String())
}

func TestRegistry_ConcurrentLookup(t *testing.T) {
	reg := Default()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn, err := reg.Chain(typography.FilterName)
			assert.NoError(t, err)
			assert.Equal(t, "Clojure&nbsp;CLI", fn("Clojure CLI"))
		}()
	}
	wg.Wait()
}
