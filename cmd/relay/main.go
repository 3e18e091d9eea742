package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/radar-overlay/internal/config"
	"github.com/DoyleJ11/radar-overlay/internal/httpapi"
	"github.com/DoyleJ11/radar-overlay/internal/hub"
	"github.com/DoyleJ11/radar-overlay/internal/journal"
	"github.com/DoyleJ11/radar-overlay/internal/logging"
	"github.com/DoyleJ11/radar-overlay/internal/snapshot"
	"github.com/DoyleJ11/radar-overlay/internal/supervisor"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var jw *journal.Writer
	var reader httpapi.DiagnosticsReader
	if cfg.JournalDriver != "" {
		jr, err := journal.Open(cfg.JournalDriver, cfg.JournalDSN)
		if err != nil {
			log.Error("journal", zap.Error(err))
			return 1
		}
		defer jr.Close()
		reader = jr

		jw = journal.NewWriter(jr, 256, log)
		defer jw.Close()
	}

	h := hub.NewHub(ctx, log)

	// Build the router *with* the hub injected
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:       h,
			Journal:   reader,
			StaticDir: cfg.StaticDir,
			Shell:     cfg.Shell,
			Logger:    log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sup := &supervisor.Supervisor{
		Path:   cfg.Executable,
		Logger: log,
		OnStderr: func(line []byte) {
			select {
			case h.Inbox() <- hub.Broadcast{Line: line}:
			case <-h.Done():
			}
			if jw != nil && snapshot.Classify(line).Kind == snapshot.KindDiagnostic {
				jw.Submit(string(line))
			}
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return sup.Run(gctx)
	})

	err = g.Wait()
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		log.Info("relay stopped")
		return 0
	default:
		// the extractor is gone or never started: nothing left to relay
		log.Error("relay exiting", zap.Error(err))
		return 1
	}
}
