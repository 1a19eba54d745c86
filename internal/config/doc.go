// Package config loads and watches the monitor configuration file (config.yaml).
//
// Config sections:
//   - logging   — level (debug|info|warn|error), optional rotating log file
//     (file, max_size_mb, max_backups); stdout always receives the JSON stream
//   - telemetry — source (exposition drop file path), poll_interval (default
//     10s), history (readings retained per channel, default 120)
//   - alerts    — registry: which built-in trigger registry is live
//     ("original" or "new")
//   - display   — enabled, interval (default 900ms), utc/local/wsmr line
//     toggles (all default true)
//
// Load(path) reads the YAML file, applies defaults before unmarshalling,
// then validates required fields and enums.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config, so the live registry and display
// toggles can be switched without a restart. A reload that fails to parse or
// validate is logged and the previous config stays active.
package config
