package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"wsoverview/internal/compositor"
	"wsoverview/internal/compositor/sim"
	"wsoverview/internal/compositor/x11"
	"wsoverview/internal/config"
	"wsoverview/internal/logging"
	"wsoverview/internal/loop"
	"wsoverview/internal/metrics"
	"wsoverview/internal/overview"
	"wsoverview/internal/prefs"
	"wsoverview/internal/trace"
	"wsoverview/internal/ui"
)

// flags holds the parsed command line.
type flags struct {
	workspaces int
	monitors   int
	x11        bool
	prefsFile  string
	verbose    bool
}

func parseFlags() flags {
	var f flags

	flag.IntVar(&f.workspaces, "workspaces", 4, "number of workspaces to start with")
	flag.IntVar(&f.monitors, "monitors", 1, "number of simulated monitors (ignored with -x11)")
	flag.BoolVar(&f.x11, "x11", false, "take monitor geometry from the X server via Xinerama")
	flag.StringVar(&f.prefsFile, "prefs", "", "preference file, watched for changes (overrides PREFS_FILE)")
	flag.BoolVar(&f.verbose, "verbose", false, "enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wsoverview [flags]\n\n")
		fmt.Fprintf(os.Stderr, "wsoverview runs the workspace overview against a simulated compositor\n")
		fmt.Fprintf(os.Stderr, "in the terminal. Press o to open it, SPC for more.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if f.workspaces < 1 || f.monitors < 1 {
		fmt.Fprintln(os.Stderr, "error: -workspaces and -monitors must be at least 1")
		flag.Usage()
		os.Exit(1)
	}
	return f
}

func main() {
	f := parseFlags()
	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if f.prefsFile != "" {
		cfg.Prefs.File = f.prefsFile
	}

	logCfg := logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{cfg.Logging.Output},
	}
	if f.verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Logger

	lp := loop.New(nil)

	store := prefs.New(log)
	if cfg.Prefs.File != "" {
		if err := store.Load(cfg.Prefs.File); err != nil {
			return err
		}
	}
	store.SetDispatcher(lp.Post)
	defer store.Close()

	monitors, err := monitorLayout(f, log)
	if err != nil {
		return err
	}
	comp := sim.New(lp, sim.Options{
		OpenDuration:  cfg.Overview.OpenDuration / 2,
		CloseDuration: cfg.Overview.CloseDuration / 2,
	}, f.workspaces, monitors[0])
	comp.SetMonitors(monitors, 0)

	ctx := context.Background()
	exporter, err := trace.NewOTLPExporter(ctx)
	if err != nil {
		log.Warn("tracing export disabled", zap.Error(err))
	}
	var traceExporter trace.Exporter
	if exporter != nil {
		traceExporter = exporter
	}
	traces := trace.NewManager(20, traceExporter, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := traces.Shutdown(shutdownCtx); err != nil {
			log.Warn("trace shutdown", zap.Error(err))
		}
	}()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, m, traces, log)
		defer srv.Close()
	}

	ctrl := overview.New(overview.Deps{
		Workspaces: comp,
		Monitors:   comp,
		Layers:     comp,
		Grabber:    comp,
		Drags:      comp,
		Stage:      comp,
		Prefs:      store,
		Scheduler:  lp,
		Metrics:    m,
		Tracer:     trace.NewRecorder(traces, time.Now),
		Log:        log,
	}, cfg.Overview)
	defer ctrl.Close()

	app := ui.NewAppModel(ui.AppDeps{
		Controller: ctrl,
		Sim:        comp,
		Prefs:      store,
		Traces:     traces,
		Log:        log,
	})
	defer app.Close()

	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen(), tea.WithMouseCellMotion())
	// Send blocks until p.Run starts reading, so callbacks queued so far are
	// flushed off the main goroutine.
	go lp.SetPost(func(fn func()) { p.Send(ui.RunMsg{Fn: fn}) })

	// Reloads are dispatched through the loop, which holds them until the
	// program is running.
	if cfg.Prefs.File != "" {
		if err := store.Watch(); err != nil {
			log.Warn("preference file not watched", zap.Error(err))
		}
	}

	log.Info("starting",
		zap.Int("workspaces", f.workspaces),
		zap.Int("monitors", len(monitors)),
		zap.Bool("x11", f.x11))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// monitorLayout returns the monitor geometry to simulate: the X server's
// screens with -x11, otherwise f.monitors side-by-side 1920x1080 screens.
func monitorLayout(f flags, log *zap.Logger) ([]compositor.Rect, error) {
	if f.x11 {
		rects, err := x11.QueryMonitors()
		if err != nil {
			return nil, err
		}
		if len(rects) == 0 {
			return nil, errors.New("x11: no monitors reported")
		}
		log.Info("monitors from x11", zap.Int("count", len(rects)))
		return rects, nil
	}
	rects := make([]compositor.Rect, f.monitors)
	for i := range rects {
		rects[i] = compositor.Rect{X: i * 1920, Width: 1920, Height: 1080}
	}
	return rects, nil
}

// serveMetrics exposes Prometheus metrics and recent sessions on addr.
func serveMetrics(addr string, m *metrics.Metrics, traces *trace.Manager, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	mux.Handle("/traces", trace.Handler(traces))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()
	log.Info("metrics listening", zap.String("addr", addr))
	return srv
}
