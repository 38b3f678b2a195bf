package main

import (
	"fmt"

	"devconsole/internal/config"
	"devconsole/internal/console"
	"devconsole/internal/evaluator"
	"devconsole/internal/export"
	"devconsole/internal/extensions/httpext"
	"devconsole/internal/extensions/logtools"
	"devconsole/internal/extensions/storage"
	"devconsole/internal/logstore"
	"devconsole/internal/output"
	"devconsole/internal/testutils"
	"devconsole/pkg/consoletypes"
)

// app is a console with every bundled extension activated.
type app struct {
	cfg     config.Config
	console *console.Console
	http    *httpext.Extension
	storage *storage.Extension
	logs    *logtools.Extension
}

func newApp(cfg config.Config) (*app, error) {
	opts := []console.Option{
		console.WithConfig(
			consoletypes.WithMaxLogs(cfg.MaxLogs),
			consoletypes.WithConsoleOutput(cfg.ConsoleOutput),
			consoletypes.WithSourceTracking(cfg.SourceTracking),
		),
		console.WithHistorySize(cfg.HistorySize),
		console.WithExporter(export.NewFileExporter(cfg.ExportDir, cfg.ExportFormat)),
	}
	if cfg.TestMode {
		opts = append(opts, console.WithStoreOptions(
			logstore.WithIDGenerator(testutils.NewIDSequence().Next),
			logstore.WithClock(testutils.NewClock().Now),
		))
	}
	if cfg.Eval {
		eval, err := evaluator.New()
		if err != nil {
			return nil, fmt.Errorf("failed to start evaluator: %w", err)
		}
		opts = append(opts, console.WithEvaluator(eval))
	}

	c := console.New(opts...)
	httpExt := httpext.Activate(c, httpext.WithTimeout(cfg.HTTPTimeout))

	storageOpts := []storage.Option{
		storage.WithCookies(httpExt.Jar()),
		storage.WithExportDir(cfg.ExportDir),
	}
	if cfg.StorageFile != "" {
		storageOpts = append(storageOpts, storage.WithLocalFile(cfg.StorageFile))
	}
	if cfg.TestMode {
		storageOpts = append(storageOpts, storage.WithClock(testutils.NewClock().Now))
	}

	return &app{
		cfg:     cfg,
		console: c,
		http:    httpExt,
		storage: storage.Activate(c, storageOpts...),
		logs:    logtools.Activate(c),
	}, nil
}

// printerOptions maps the output setting onto entry rendering.
func (a *app) printerOptions() []output.Option {
	if a.cfg.TestMode {
		return []output.Option{output.TestMode()}
	}
	return []output.Option{output.WithMode(output.ParseMode(a.cfg.Output))}
}

// Close waits for in-flight requests and releases idle connections.
func (a *app) Close() {
	a.http.Close()
}
