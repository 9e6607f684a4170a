// Package site applies the filter chain to every matching file of a rendered
// site, optionally rendering markdown sources on the way.
package site

import (
	"bytes"
	"context"
	stdErrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitefilter/internal/config"
	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/filters"
	"git.home.luguber.info/inful/sitefilter/internal/logfields"
	"git.home.luguber.info/inful/sitefilter/internal/metrics"
	"git.home.luguber.info/inful/sitefilter/internal/page"
)

type action int

const (
	actionSkip action = iota
	actionFilter
	actionRender
	actionCopy
)

// Summary counts what a run did.
type Summary struct {
	Seen     int
	Filtered int
	Rendered int
	Changed  int
	Copied   int
	Skipped  int
	BytesIn  int64
	BytesOut int64
}

// Processor runs the filter chain over a directory tree.
type Processor struct {
	cfg   *config.Config
	chain filters.Func
	pages *page.Renderer

	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// NewProcessor builds a processor. pages may be nil, in which case markdown
// sources are treated like any other non-filtered file.
func NewProcessor(cfg *config.Config, chain filters.Func, pages *page.Renderer) *Processor {
	return &Processor{
		cfg:      cfg,
		chain:    chain,
		pages:    pages,
		Recorder: metrics.NoopRecorder{},
		Logger:   slog.Default(),
	}
}

type job struct {
	rel  string
	mode fs.FileMode
	act  action
}

// ProcessDir walks src and writes results below dst. When dst is empty or
// equal to src, filtered files are rewritten in place and only when their
// content changed.
func (p *Processor) ProcessDir(ctx context.Context, src, dst string) (*Summary, error) {
	start := time.Now()
	if dst == "" {
		dst = src
	}
	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return nil, errors.FileError("resolve source", src, err)
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return nil, errors.FileError("resolve output", dst, err)
	}
	inPlace := srcAbs == dstAbs

	info, err := os.Stat(srcAbs)
	if err != nil {
		return nil, errors.FileError("stat source", src, err)
	}
	if !info.IsDir() {
		return nil, errors.ValidationFailed("source", "must be a directory").WithContext("path", src)
	}

	jobs, err := p.collect(srcAbs, dstAbs, inPlace)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Seen: len(jobs)}
	var mu sync.Mutex

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)

	for _, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.handle(srcAbs, dstAbs, inPlace, j)
			if err != nil {
				p.Recorder.IncFileResult(metrics.ResultFailed)
				return err
			}
			mu.Lock()
			res.addTo(sum)
			mu.Unlock()
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return sum, err
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	d := time.Since(start)
	p.Recorder.ObserveRunDuration(d)
	p.Logger.Info("Site processed",
		logfields.Path(src),
		logfields.Count(sum.Seen),
		logfields.Changed(sum.Changed),
		logfields.DurationMS(float64(d.Microseconds())/1000))
	return sum, nil
}

func (p *Processor) collect(srcAbs, dstAbs string, inPlace bool) ([]job, error) {
	var jobs []job
	err := filepath.WalkDir(srcAbs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Output nested inside the source must not be read back.
			if !inPlace && path == dstAbs {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcAbs, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{rel: rel, mode: info.Mode().Perm(), act: p.classify(rel, inPlace)})
		return nil
	})
	if err != nil {
		return nil, errors.FileError("walk", srcAbs, err)
	}
	p.preferRendered(jobs)
	return jobs, nil
}

// preferRendered skips every job that would write the same output file as a
// rendered markdown page. The rendered page has already been through the
// filter chain. When two sources render to one name, the first in walk order
// is kept.
func (p *Processor) preferRendered(jobs []job) {
	rendered := make(map[string]bool)
	for i, j := range jobs {
		if j.act != actionRender {
			continue
		}
		name := renderedName(j.rel)
		if rendered[name] {
			p.Logger.Warn("Markdown source renders to an existing page, skipping", logfields.File(j.rel))
			jobs[i].act = actionSkip
			continue
		}
		rendered[name] = true
	}
	if len(rendered) == 0 {
		return
	}
	for i, j := range jobs {
		if j.act == actionFilter || j.act == actionCopy {
			if rendered[j.rel] {
				p.Logger.Debug("Skipping file replaced by rendered page", logfields.File(j.rel))
				jobs[i].act = actionSkip
			}
		}
	}
}

func renderedName(rel string) string {
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
}

func (p *Processor) classify(rel string, inPlace bool) action {
	ext := filepath.Ext(rel)
	switch {
	case p.cfg.HasExtension(ext):
		return actionFilter
	case p.pages != nil && strings.EqualFold(ext, ".md"):
		return actionRender
	case !inPlace:
		return actionCopy
	default:
		return actionSkip
	}
}

type result struct {
	act      action
	changed  bool
	bytesIn  int
	bytesOut int
}

func (r result) addTo(s *Summary) {
	s.BytesIn += int64(r.bytesIn)
	s.BytesOut += int64(r.bytesOut)
	switch r.act {
	case actionFilter:
		s.Filtered++
	case actionRender:
		s.Rendered++
	case actionCopy:
		s.Copied++
	case actionSkip:
		s.Skipped++
	}
	if r.changed {
		s.Changed++
	}
}

func (p *Processor) handle(srcAbs, dstAbs string, inPlace bool, j job) (result, error) {
	res := result{act: j.act}
	if j.act == actionSkip {
		return res, nil
	}

	srcPath := filepath.Join(srcAbs, j.rel)
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return res, errors.FileError("read", srcPath, err)
	}
	res.bytesIn = len(data)

	var out []byte
	outRel := j.rel
	switch j.act {
	case actionFilter:
		t := time.Now()
		filtered := p.chain(string(data))
		p.Recorder.ObserveFilterDuration(time.Since(t))
		out = []byte(filtered)
		res.changed = filtered != string(data)
	case actionRender:
		pg, err := p.pages.RenderPage(j.rel, data)
		if err != nil {
			return res, err
		}
		out = []byte(pg.HTML)
		outRel = renderedName(j.rel)
		res.changed = !sameContent(filepath.Join(dstAbs, outRel), out)
	case actionCopy:
		out = data
	}
	res.bytesOut = len(out)

	// Unchanged outputs are never rewritten.
	if !res.changed && (j.act == actionRender || (inPlace && j.act == actionFilter)) {
		p.Recorder.IncFileResult(metrics.ResultUnchanged)
		return res, nil
	}

	dstPath := filepath.Join(dstAbs, outRel)
	if err := writeFile(dstPath, out, j.mode); err != nil {
		return res, err
	}

	switch {
	case j.act == actionCopy:
		p.Recorder.IncFileResult(metrics.ResultCopied)
	case res.changed:
		p.Recorder.IncFileResult(metrics.ResultChanged)
		p.Recorder.AddBytesRewritten(len(out))
	default:
		p.Recorder.IncFileResult(metrics.ResultUnchanged)
	}
	p.Logger.Debug("File written", logfields.File(outRel), slog.Bool("changed", res.changed))
	return res, nil
}

func sameContent(path string, data []byte) bool {
	existing, err := os.ReadFile(path)
	return err == nil && bytes.Equal(existing, data)
}

func writeFile(path string, data []byte, mode fs.FileMode) error {
	if mode == 0 {
		mode = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.FileError("create directory", filepath.Dir(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sitefilter-*")
	if err != nil {
		return errors.FileError("create temp file", path, err)
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := stdErrors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmpName)
		return errors.FileError("write", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return errors.FileError("chmod", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.FileError("rename", path, err)
	}
	return nil
}
