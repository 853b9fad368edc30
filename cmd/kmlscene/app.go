package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/OCAP2/kmlscene/internal/cache"
	"github.com/OCAP2/kmlscene/internal/config"
	"github.com/OCAP2/kmlscene/internal/dispatcher"
	"github.com/OCAP2/kmlscene/internal/index"
	"github.com/OCAP2/kmlscene/internal/influx"
	"github.com/OCAP2/kmlscene/internal/logging"
	kmlotel "github.com/OCAP2/kmlscene/internal/otel"
	"github.com/OCAP2/kmlscene/internal/storage"
	"github.com/OCAP2/kmlscene/internal/worker"
	"github.com/rs/zerolog"
)

// app holds the services shared by every command of one run.
type app struct {
	start    time.Time
	logFile  *os.File
	slog     *logging.SlogManager
	logger   *slog.Logger
	zerolog  zerolog.Logger
	otel     *kmlotel.Provider
	gelf     *gelf.Writer
	influx   *influx.Manager
	backend  storage.Backend
	index    *index.Index
	docs     *cache.DocumentCache
	names    *cache.NodeCache
	closeFns []func() error
}

func newApp(ctx context.Context, configDir string) (*app, error) {
	a := &app{
		start: time.Now(),
		slog:  logging.NewSlogManager(),
		index: index.New(),
		docs:  cache.NewDocumentCache(),
		names: cache.NewNodeCache(),
	}

	if err := config.Load(configDir); err != nil {
		return nil, err
	}
	if err := a.setupLogging(ctx); err != nil {
		return nil, err
	}

	a.influx = influx.NewManager(a.zerolog, config.GetInfluxConfig())
	if err := a.influx.Connect(ctx); err != nil {
		if !errors.Is(err, influx.ErrDisabled) {
			a.logger.Warn("InfluxDB unavailable, build stats will not be recorded", "error", err)
		}
		a.influx = nil
	} else {
		a.closeFns = append(a.closeFns, a.influx.Close)
	}

	return a, nil
}

func (a *app) setupLogging(ctx context.Context) error {
	level := config.GetString("logLevel")
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	var err error
	a.logFile, err = os.OpenFile(logging.LogFilePath(logsDir, AppName, a.start), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	a.otel, err = kmlotel.New(ctx, kmlotel.FromConfig(config.GetOTelConfig(), a.logFile))
	if err != nil {
		return fmt.Errorf("failed to set up OTel: %w", err)
	}

	var extra []slog.Handler
	if gl := config.GetGraylogConfig(); gl.Enabled {
		a.gelf, err = logging.NewGELFWriter(gl.Address, AppName)
		if err != nil {
			return err
		}
		extra = append(extra, logging.NewGELFHandler(a.gelf, level))
	}

	a.slog.Setup(io.MultiWriter(a.logFile, os.Stderr), level, a.otel.LoggerProvider(), extra...)
	a.logger = a.slog.Logger()
	a.zerolog = logging.NewZerolog(level, a.logFile, os.Stderr)
	return nil
}

// openStorage creates and initializes the configured storage backend.
func (a *app) openStorage() (storage.Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	cfg := config.GetStorageConfig()
	backend, err := storage.NewBackend(cfg, config.GetDBConfig(), a.logger)
	if err != nil {
		return nil, err
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.Type, err)
	}
	a.logger.Info("Storage backend initialized", "type", cfg.Type)
	a.backend = backend
	return backend, nil
}

// newLoader wires a worker manager to a fresh dispatcher.
func (a *app) newLoader() (*worker.Manager, *dispatcher.Dispatcher, error) {
	backend, err := a.openStorage()
	if err != nil {
		return nil, nil, err
	}

	manager := worker.NewManager(worker.Dependencies{
		Documents: a.docs,
		Names:     a.names,
		Index:     a.index,
		Influx:    a.influx,
		Logger:    a.logger,
		Build:     config.GetBuildConfig(),
	}, backend)

	d, err := dispatcher.New(a.logger)
	if err != nil {
		return nil, nil, err
	}
	manager.RegisterHandlers(d)
	return manager, d, nil
}

// load queues every file on the loader and waits until all are stored.
func (a *app) load(ctx context.Context, files []string) error {
	manager, d, err := a.newLoader()
	if err != nil {
		return err
	}

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		if _, err := d.Dispatch(dispatcher.Event{Command: worker.CmdLoad, Args: []string{f}}); err != nil {
			a.logger.Error("Failed to queue file", "file", f, "error", err)
		}
	}
	d.Close()

	if e, ok := a.backend.(storage.Exporter); ok && e.ExportedFilePath() != "" {
		a.logger.Info("Last scene exported", "path", e.ExportedFilePath())
	}
	if err := a.otel.Flush(ctx); err != nil {
		a.logger.Warn("Failed to flush OTel logs", "error", err)
	}
	a.logger.Info("Load complete",
		"documents", manager.Loaded(),
		"skipped", manager.Skipped(),
		"indexed", a.index.Len(),
		"duration", time.Since(a.start),
	)
	return ctx.Err()
}

// Close releases everything in reverse setup order.
func (a *app) Close(ctx context.Context) {
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Error("Failed to close storage backend", "error", err)
		}
	}
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		if err := a.closeFns[i](); err != nil {
			a.logger.Error("Failed to close", "error", err)
		}
	}
	if err := a.slog.Flush(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "failed to flush logs:", err)
	}
	if a.otel != nil {
		_ = a.otel.Shutdown(ctx)
	}
	if a.gelf != nil {
		_ = a.gelf.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
