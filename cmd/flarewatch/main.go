package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Bundle zone data so the WSMR clock resolves on hosts without a tzdata
	// package installed.
	_ "time/tzdata"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/flarewatch/flarewatch/internal/config"
	"github.com/flarewatch/flarewatch/internal/flare"
	"github.com/flarewatch/flarewatch/internal/telemetry"
	"github.com/flarewatch/flarewatch/internal/timeboard"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("flarewatch starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	// Swap in the configured logger (level, optional rotating file).
	slog.SetDefault(buildLogger(cfg.Logging))

	slog.Info("config loaded",
		"source", cfg.Telemetry.Source,
		"poll_interval", cfg.Telemetry.PollInterval,
		"registry", cfg.Alerts.Registry,
		"display", cfg.Display.Enabled,
	)

	reg, err := flare.Builtin(cfg.Alerts.Registry)
	if err != nil {
		slog.Error("failed to build registry", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Clock board — renders UTC/local/WSMR rows to stdout on its own ticker.
	var board *timeboard.Board
	if cfg.Display.Enabled {
		board = timeboard.New(cfg.Display.Interval)
		applyDisplay(board, cfg.Display)
		go board.Run(ctx, timeboard.WriterRenderer{W: os.Stdout})
	}

	// Watch the config file so the live registry and display toggles can be
	// switched without a restart. Only the newest pending reload is kept.
	reloads := make(chan *config.Config, 1)
	go func() {
		err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			select {
			case <-reloads:
			default:
			}
			reloads <- updated
		})
		if err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// Poll loop: re-read the drop file every tick, fold the readings into the
	// sample set, evaluate the live registry and track the flare lifecycle.
	set := telemetry.NewSampleSet(cfg.Telemetry.History)
	tr := &tracker{}
	go func() {
		ticker := time.NewTicker(cfg.Telemetry.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return

			case updated := <-reloads:
				if updated.Alerts.Registry != cfg.Alerts.Registry {
					next, err := flare.Builtin(updated.Alerts.Registry)
					if err != nil {
						slog.Error("registry switch failed, keeping current", "err", err)
					} else {
						reg = next
						tr.reset()
						slog.Info("registry switched", "registry", reg.Name())
					}
				}
				if board != nil {
					applyDisplay(board, updated.Display)
				}
				if updated.Telemetry != cfg.Telemetry {
					slog.Warn("telemetry settings changed, restart required to apply")
				}
				if updated.Display.Enabled != cfg.Display.Enabled ||
					updated.Display.Interval != cfg.Display.Interval {
					slog.Warn("display enable/interval changed, restart required to apply")
				}
				cfg = updated

			case <-ticker.C:
				if err := pollOnce(set, cfg.Telemetry.Source); err != nil {
					slog.Warn("poll failed", "source", cfg.Telemetry.Source, "err", err)
					continue
				}
				verdicts, err := flare.Evaluate(set, reg)
				if err != nil {
					if errors.Is(err, telemetry.ErrMissingChannel) {
						slog.Warn("evaluation skipped, channel not yet populated", "err", err)
					} else {
						slog.Error("evaluation failed", "err", err)
					}
					continue
				}
				tr.apply(verdicts, set, reg)
			}
		}
	}()

	<-ctx.Done()
	slog.Info("flarewatch shutting down")
}

// buildLogger constructs the JSON logger described by cfg. When a log file
// is configured, output goes to both stdout and a size-rotated file.
func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var w io.Writer = os.Stdout
	if cfg.File != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// applyDisplay pushes the configured zone toggles onto the board.
func applyDisplay(b *timeboard.Board, d config.DisplayConfig) {
	b.SetUTC(d.UTC)
	b.SetLocal(d.Local)
	b.SetWSMR(d.WSMR)
}

// pollOnce re-reads the exposition drop file and appends the decoded batch
// to the sample set.
func pollOnce(set *telemetry.SampleSet, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open drop file: %w", err)
	}
	defer f.Close()

	batch, err := telemetry.DecodeExposition(f)
	if err != nil {
		return err
	}
	for ch, v := range batch {
		set.Append(ch, v)
	}
	return nil
}

// tracker maintains the caller-side flare lifecycle. The evaluator only
// answers "does each gate hold right now"; deciding that a flare has started
// or ended from those verdicts happens here. A flare starts when every gate
// in the live registry holds at once and ends when the end condition holds
// on a later cycle.
type tracker struct {
	inProgress bool
	last       map[string]bool
}

// reset clears remembered verdicts, e.g. after a registry switch. A flare
// already in progress stays in progress.
func (tr *tracker) reset() {
	tr.last = nil
}

func (tr *tracker) apply(verdicts map[string]bool, set *telemetry.SampleSet, reg *flare.Registry) {
	passing := 0
	for _, label := range reg.Labels() {
		v := verdicts[label]
		if v {
			passing++
		}
		if v != tr.last[label] {
			if v {
				slog.Warn("trigger condition met", "registry", reg.Name(), "label", label)
			} else {
				slog.Info("trigger condition cleared", "registry", reg.Name(), "label", label)
			}
		}
	}
	tr.last = verdicts

	slog.Debug("cycle evaluated",
		"registry", reg.Name(),
		"passing", passing,
		"gates", reg.Len(),
		"in_progress", tr.inProgress,
	)

	if !tr.inProgress {
		if reg.Len() > 0 && passing == reg.Len() {
			tr.inProgress = true
			slog.Warn("flare triggered", "registry", reg.Name())
		}
		return
	}

	ended, err := flare.FlareEnd(set)
	if err != nil {
		// The end gate reads xrsb; if it is gone the trigger gates will
		// surface the same problem next cycle.
		slog.Debug("end condition unavailable", "err", err)
		return
	}
	if ended {
		tr.inProgress = false
		slog.Info("flare ended")
	}
}
