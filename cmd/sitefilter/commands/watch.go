package commands

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitefilter/internal/config"
	"git.home.luguber.info/inful/sitefilter/internal/logfields"
	"git.home.luguber.info/inful/sitefilter/internal/metrics"
	"git.home.luguber.info/inful/sitefilter/internal/site"
	"git.home.luguber.info/inful/sitefilter/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Source      string        `arg:"" optional:"" help:"Directory to watch (defaults to the configured source)"`
	Output      string        `short:"o" help:"Write results here instead of rewriting the source in place"`
	Markdown    bool          `help:"Also render markdown sources to HTML"`
	Debounce    time.Duration `help:"Quiet period before re-running (defaults to the configured value)"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	w.override(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return runWatch(ctx, g, cfg)
}

func (w *WatchCmd) override(cfg *config.Config) {
	if w.Source != "" {
		cfg.Source = w.Source
	}
	if w.Output != "" {
		cfg.Output = w.Output
	}
	if w.Markdown {
		cfg.Markdown.Render = true
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce
	}
	if w.MetricsAddr != "" {
		cfg.Metrics.Addr = w.MetricsAddr
	}
}

func runWatch(ctx context.Context, g *Global, cfg *config.Config) error {
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Addr != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		stop := serveMetrics(cfg.Metrics.Addr, reg)
		defer stop()
	}
	withRecorder := func(p *site.Processor) { p.Recorder = recorder }

	run := func(ctx context.Context) error {
		sum, err := runApply(ctx, cfg, withRecorder)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(g.Stdout, "%d files: %d changed\n", sum.Seen, sum.Changed)
		return err
	}
	if err := run(ctx); err != nil {
		return err
	}

	var opts []watch.Option
	if !cfg.InPlace() {
		if out, err := filepath.Abs(cfg.Output); err == nil {
			opts = append(opts, watch.WithIgnore(func(p string) bool {
				return p == out || strings.HasPrefix(p, out+string(filepath.Separator))
			}))
		}
	}

	watcher, err := watch.New(cfg.Source, cfg.Watch.Debounce, run, opts...)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

// serveMetrics exposes reg on addr until the returned stop function runs.
func serveMetrics(addr string, reg *prom.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("Serving metrics", logfields.Addr(addr))
		if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
