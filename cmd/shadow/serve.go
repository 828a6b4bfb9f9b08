package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vango-dev/shadow/internal/config"
	"github.com/vango-dev/shadow/pkg/dom"
	"github.com/vango-dev/shadow/pkg/inspect"
	"github.com/vango-dev/shadow/pkg/layout"
	"github.com/vango-dev/shadow/pkg/render"
	"github.com/vango-dev/shadow/pkg/script"
)

func serveCmd(load loadFunc) *cobra.Command {
	var (
		addr       string
		scriptPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP inspector",
		Long: `Serve starts the inspector on the configured address. It exposes the
tree as JSON, a websocket stream of commits and Prometheus metrics.

With --script the given batch script is replayed once at startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspector.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, scriptPath)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Batch script to replay at startup")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, scriptPath string) error {
	logger := cfg.Log.Logger(os.Stderr)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hub := inspect.NewHub(logger)
	rec := render.NewRecorder(
		render.WithHistory(cfg.Inspector.History),
		render.OnCommit(hub.Publish),
	)
	backend := render.NewTracing(
		render.NewMetrics(
			render.NewLogging(rec, logger),
			render.WithNamespace(cfg.Metrics.Namespace),
			render.WithRegistry(reg),
		),
		render.WithTracerName(cfg.Tracing.TracerName),
	)

	m := dom.NewManager(cfg.Root.ID, backend,
		dom.WithLayouter(layout.New()),
		dom.WithLogger(logger))
	if cfg.Root.Width > 0 || cfg.Root.Height > 0 {
		m.SetRootSize(cfg.Root.Width, cfg.Root.Height)
	}

	var mu sync.Mutex
	if scriptPath != "" {
		s, err := script.Load(scriptPath)
		if err != nil {
			return err
		}
		if err := script.Replay(m, s, &mu); err != nil {
			return err
		}
		info("replayed %s (%d batches)", displayPath(scriptPath), len(s.Batches))
	}

	srv := &http.Server{
		Addr: cfg.Inspector.Addr,
		Handler: inspect.New(m, inspect.Options{
			Lock:     &mu,
			Recorder: rec,
			Hub:      hub,
			Gatherer: reg,
			Logger:   logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	success("inspector listening on http://%s", cfg.Inspector.Addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
