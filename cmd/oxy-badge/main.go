// Package main runs the interactive badge: a spinning cube whose faces show the attendee's name,
// company and logos, customised from the keyboard and shared as a link.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gogpu/gg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine"
	"github.com/Carmen-Shannon/oxy-badge/engine/camera"
	"github.com/Carmen-Shannon/oxy-badge/engine/config"
	"github.com/Carmen-Shannon/oxy-badge/engine/controller"
	"github.com/Carmen-Shannon/oxy-badge/engine/link"
	"github.com/Carmen-Shannon/oxy-badge/engine/loader"
	"github.com/Carmen-Shannon/oxy-badge/engine/params"
	"github.com/Carmen-Shannon/oxy-badge/engine/profiler"
	"github.com/Carmen-Shannon/oxy-badge/engine/renderer"
	"github.com/Carmen-Shannon/oxy-badge/engine/window"
)

// notificationTTL is how long a share notification stays in the title bar.
const notificationTTL = 3 * time.Second

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", config.LookupConfigPath(), "YAML config file (also "+config.EnvPrefix+"CONFIG)")
	initialLink := flag.String("link", "", "share link or query string to restore the badge from")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("Oxy Badge")
		fmt.Println()
		fmt.Println("Usage: oxy-badge [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if cfg == nil {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	gg.SetLogger(logger.With("component", "gg"))
	for _, err := range errs {
		logger.Warn("config value ignored", "error", err)
	}
	logger.Info("starting badge", cfg.LogAttrs()...)

	if *initialLink != "" {
		cfg.Share.InitialLink = *initialLink
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("badge stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("badge stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	defer win.Close()

	// Missing assets fall back to the built-in fonts and logos.
	ld := loader.NewLoader(
		loader.WithHTTPTimeout(cfg.Assets.HTTPTimeout),
		loader.WithMaxBytes(cfg.Assets.MaxBytes),
		loader.WithWorkers(cfg.Assets.Workers),
		loader.WithLogger(logger.With("component", "loader")),
	)
	manifest := cfg.Manifest()
	assets, err := ld.LoadAll(ctx, manifest)
	if err != nil {
		logger.Warn("some assets failed to load", "error", err)
	}

	rdr, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode(cfg.Render.VSync)),
		renderer.WithMSAA(msaa(cfg.Render.MSAA)),
		renderer.WithTextureSize(cfg.Render.TextureSize),
		renderer.WithInitialAssets(assets),
		renderer.WithForceSoftwareRenderer(cfg.Render.ForceSoftware),
		renderer.WithLogger(logger.With("component", "renderer")),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer rdr.Release()

	notifier := controller.NewChannelNotifier(8)
	ctrl, err := controller.NewController(
		controller.WithCodec(link.NewCodec(link.WithFullState(cfg.Share.IncludeFullState))),
		controller.WithClipboard(controller.NewWindowClipboard(win)),
		controller.WithNotifier(notifier),
		controller.WithLocation(cfg.Share.Location),
		controller.WithShareTimeout(cfg.Share.ClipboardTimeout),
		controller.WithOnChange(func(p params.Parameters, field params.Field) {
			logger.Debug("badge changed", "field", field, "name", p.DisplayName, "environment", p.Environment)
		}),
		controller.WithLogger(logger.With("component", "controller")),
	)
	if err != nil {
		return fmt.Errorf("failed to create controller: %w", err)
	}
	defer ctrl.Close()
	ctrl.Activate(cfg.Share.InitialLink)

	g := ctrl.Graph()
	cam := camera.NewFromRig(g.Camera, float32(win.Width())/float32(max(win.Height(), 1)))

	title := &titleBar{base: cfg.Window.Title}
	panel := controller.NewPanel(ctrl)
	refresh := func() { win.SetTitle(title.compose(panel.Status(), time.Now())) }
	win.SetKeyDownCallback(func(key uint32, mods common.ModifierKey) {
		panel.KeyDown(key, mods)
		refresh()
	})
	win.SetCharCallback(func(r rune) {
		panel.Char(r)
		refresh()
	})
	refresh()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-notifier.Notifications():
				win.Post(func() {
					title.notify(n, time.Now())
					refresh()
				})
				// clear the note once it has expired
				time.AfterFunc(notificationTTL, func() { win.Post(refresh) })
			}
		}
	}()

	if cfg.Assets.Watch {
		go func() {
			err := ld.Watch(ctx, manifest, func(a loader.Assets) {
				win.Post(func() {
					if err := rdr.SetAssets(a); err != nil {
						logger.Error("failed to apply reloaded assets", "error", err)
					}
				})
			})
			if err != nil {
				logger.Error("asset watch stopped", "error", err)
			}
		}()
	}

	prof := profiler.NewProfiler(profiler.WithLogger(logger.With("component", "profiler")))
	if cfg.Metrics.ListenAddr != "" {
		srv, err := serveMetrics(cfg.Metrics.ListenAddr, logger, append(prof.Metrics().Collectors(), ld.Failures())...)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server forced to shutdown", "error", err)
			}
		}()
	}

	loop := engine.NewRenderLoop(
		engine.WithWindow(win),
		engine.WithRenderer(rdr),
		engine.WithCamera(cam),
		engine.WithGraphSource(ctrl.Graph),
		engine.WithRotationSpeed(ctrl.Store().RotationSpeed),
		engine.WithProfiler(prof),
		engine.WithProfiling(cfg.Render.Profiling || cfg.Metrics.ListenAddr != ""),
		engine.WithRenderFrameLimit(cfg.Render.FrameLimit),
		engine.WithLogger(logger.With("component", "engine")),
	)

	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// serveMetrics exposes collectors on addr/metrics from a private registry.
func serveMetrics(addr string, logger *slog.Logger, collectors ...prometheus.Collector) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
	return srv, nil
}

func presentMode(vsync bool) renderer.PresentMode {
	if vsync {
		return renderer.PresentModeVSync
	}
	return renderer.PresentModeUncapped
}

func msaa(enabled bool) renderer.MSAASampleCount {
	if enabled {
		return renderer.MSAA4x
	}
	return renderer.MSAAOff
}

// titleBar composes the window title from the base title, the panel status and the latest
// notification. It is only touched on the main thread.
type titleBar struct {
	base    string
	note    string
	noteEnd time.Time
}

func (t *titleBar) notify(n controller.Notification, now time.Time) {
	t.note = n.Message
	if n.Level == controller.NotificationError {
		t.note = "! " + n.Message
	}
	t.noteEnd = now.Add(notificationTTL)
}

func (t *titleBar) compose(status string, now time.Time) string {
	parts := []string{t.base}
	if status != "" {
		parts = append(parts, status)
	}
	if t.note != "" && now.Before(t.noteEnd) {
		parts = append(parts, t.note)
	}
	return strings.Join(parts, "  |  ")
}
