package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// startWatch runs Watch in the background and returns a channel carrying
// every reloaded config plus a done channel closed when Watch returns.
func startWatch(t *testing.T, ctx context.Context, path string) (<-chan *Config, <-chan struct{}) {
	t.Helper()
	reloads := make(chan *Config, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := Watch(ctx, path, func(cfg *Config) {
			select {
			case reloads <- cfg:
			default:
			}
		}); err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()
	return reloads, done
}

// awaitReload repeatedly applies save until a reload arrives, so the test
// does not race watcher startup. The first reload is returned.
func awaitReload(t *testing.T, reloads <-chan *Config, save func()) *Config {
	t.Helper()
	timeout := time.After(5 * time.Second)
	retry := time.NewTicker(100 * time.Millisecond)
	defer retry.Stop()

	save()
	for {
		select {
		case cfg := <-reloads:
			return cfg
		case <-retry.C:
			save()
		case <-timeout:
			t.Fatal("no reload observed")
			return nil
		}
	}
}

func TestWatch_ReloadOnRewrite(t *testing.T) {
	p := writeConfig(t, `telemetry:
  source: drop.prom
`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads, done := startWatch(t, ctx, p)

	updated := []byte(`telemetry:
  source: drop.prom
  poll_interval: 3s
`)
	cfg := awaitReload(t, reloads, func() {
		if err := os.WriteFile(p, updated, 0o600); err != nil {
			t.Fatalf("rewrite config: %v", err)
		}
	})
	if cfg.Telemetry.PollInterval != 3*time.Second {
		t.Errorf("reloaded poll_interval = %v, want 3s", cfg.Telemetry.PollInterval)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_AtomicSaveRename(t *testing.T) {
	// Editors and provisioning tools save by renaming a temp file over the
	// watched path; no write ever lands on it. The watcher must still reload.
	p := writeConfig(t, `telemetry:
  source: drop.prom
`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads, done := startWatch(t, ctx, p)

	updated := []byte(`telemetry:
  source: drop.prom
alerts:
  registry: new
`)
	tmp := filepath.Join(filepath.Dir(p), "config.yaml.tmp")
	cfg := awaitReload(t, reloads, func() {
		if err := os.WriteFile(tmp, updated, 0o600); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
		if err := os.Rename(tmp, p); err != nil {
			t.Fatalf("rename over watched file: %v", err)
		}
	})
	if cfg.Alerts.Registry != "new" {
		t.Errorf("reloaded registry = %q, want %q", cfg.Alerts.Registry, "new")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
