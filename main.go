package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.bug.st/serial"

	"i4.energy/across/ltecheck/check"
	"i4.energy/across/ltecheck/modem"
)

func main() {
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port to connect to the modem")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.String("sim-pin", "", "SIM card PIN code (if required)")
	flag.String("remote-host", "192.0.2.50", "UDP echo peer address")
	flag.Int("remote-port", 10510, "UDP echo peer port")
	flag.String("payload", "Hello", "Payload sent on each echo check")
	flag.Duration("check-interval", 5*time.Minute, "Interval between periodic echo checks")
	flag.String("script", "", "Path to a TOML preamble command script")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	var script *check.Script
	if config.ScriptPath != "" {
		script, err = check.LoadScript(config.ScriptPath)
		if err != nil {
			logger.Error("Failed to load command script", "error", err)
			os.Exit(1)
		}
	}

	modemConfig, err := modem.NewConfigBuilder().
		WithATTimeout(5 * time.Second).
		WithInitTimeout(30 * time.Second).
		WithSimPIN(config.SimPIN).
		WithDialer(modem.SerialDialer{
			PortName: config.SerialPort,
			Mode:     &serial.Mode{BaudRate: config.BaudRate},
		}).
		Build()
	if err != nil {
		logger.Error("Failed to create modem config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m, err := modem.New(ctx, modemConfig)
	if err != nil {
		logger.Error("Failed to create modem", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := m.Loop(ctx); err != nil && ctx.Err() == nil && err != io.EOF {
			logger.Error("Modem event loop stopped", "error", err)
		}
	}()

	session := check.NewSession(check.Config{
		RemoteHost: config.RemoteHost,
		RemotePort: config.RemotePort,
		Payload:    []byte(config.Payload),
		Script:     script,
		Logger:     logger.With("component", "check"),
	})
	runner := check.NewRunner(session, m)

	logger.Info("Starting LTE echo checker",
		"serial_port", config.SerialPort,
		"remote", config.RemoteHost,
		"interval", config.CheckInterval)

	httpServer := &http.Server{
		Addr: config.BindAddress,
		Handler: &Server{
			Logger: logger.With("component", "server"),
			Runner: runner,
		},
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Periodic checks until shutdown
	ticker := time.NewTicker(config.CheckInterval)
	defer ticker.Stop()

	runner.Check(ctx)

loop:
	for {
		select {
		case <-ticker.C:
			runner.Check(ctx)
		case sig := <-sigChan:
			logger.Info("Received shutdown signal", "signal", sig)
			break loop
		}
	}

	cancel()

	logger.Info("Closing modem connection")
	if err := m.Close(); err != nil {
		logger.Error("Failed to close modem", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Closing HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to gracefully shutdown server", "error", err)
		os.Exit(1)
	}
}
