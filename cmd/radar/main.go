package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/DoyleJ11/radar-overlay/internal/calibration"
	"github.com/DoyleJ11/radar-overlay/internal/config"
	"github.com/DoyleJ11/radar-overlay/internal/conn"
	"github.com/DoyleJ11/radar-overlay/internal/logging"
	"github.com/DoyleJ11/radar-overlay/internal/present"
	"github.com/DoyleJ11/radar-overlay/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl, err := session.NewController(ctx, session.Options{
		MapID:     cfg.MapID,
		RadarType: calibration.RadarType(cfg.RadarType),
		Canvas:    float64(cfg.Canvas),
		Presenter: present.NewTerminal(os.Stdout),
		Logger:    log,
	})
	if err != nil {
		log.Fatal("session", zap.Error(err))
	}

	m := conn.NewManager(conn.Options{
		Logger:     log,
		OnFrame:    func(b []byte) { _ = ctrl.Send(session.Frame{Data: b}) },
		OnLiveness: func(s conn.State) { _ = ctrl.Send(session.Liveness{State: s}) },
	})
	m.Connect(ctx, cfg.Endpoint)
	log.Info("radar started", zap.String("endpoint", cfg.Endpoint), zap.String("map", cfg.MapID))

	<-ctx.Done()
	m.Close()
	<-ctrl.Done()
}
