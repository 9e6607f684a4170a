package integration

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitefilter/internal/config"
	"git.home.luguber.info/inful/sitefilter/internal/filters"
	"git.home.luguber.info/inful/sitefilter/internal/markdown"
	"git.home.luguber.info/inful/sitefilter/internal/page"
	"git.home.luguber.info/inful/sitefilter/internal/site"
)

// runSite processes the configured source into a fresh directory and returns it.
func runSite(t *testing.T, configPath string) (string, *site.Summary) {
	t.Helper()

	cfg, err := config.Load(configPath)
	require.NoError(t, err, "failed to load golden config")

	reg := filters.Default()
	chain, err := reg.Chain(cfg.Filters...)
	require.NoError(t, err)

	var pages *page.Renderer
	if cfg.Markdown.Render {
		pages = page.NewRenderer("", chain, reg, markdown.Options{Unsafe: cfg.Markdown.Unsafe})
	}

	outputDir := t.TempDir()
	sum, err := site.NewProcessor(cfg, chain, pages).ProcessDir(context.Background(), cfg.Source, outputDir)
	require.NoError(t, err, "site processing failed")
	return outputDir, sum
}

// listFiles returns slash-separated relative paths of all regular files below root.
func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}

// verifyGolden compares every file below outputDir with goldenDir, or rewrites
// goldenDir from outputDir when update is set.
func verifyGolden(t *testing.T, outputDir, goldenDir string, update bool) {
	t.Helper()

	if update {
		require.NoError(t, os.RemoveAll(goldenDir))
		for _, rel := range listFiles(t, outputDir) {
			data, err := os.ReadFile(filepath.Join(outputDir, rel))
			require.NoError(t, err)
			dst := filepath.Join(goldenDir, filepath.FromSlash(rel))
			require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
			require.NoError(t, os.WriteFile(dst, data, 0o644))
		}
		t.Logf("Updated golden files in %s", goldenDir)
		return
	}

	require.Equal(t, listFiles(t, goldenDir), listFiles(t, outputDir), "output file set differs from golden")
	for _, rel := range listFiles(t, goldenDir) {
		want, err := os.ReadFile(filepath.Join(goldenDir, filepath.FromSlash(rel)))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(outputDir, filepath.FromSlash(rel)))
		require.NoError(t, err)
		require.Equal(t, string(want), string(got), "content mismatch for %s", rel)
	}
}
