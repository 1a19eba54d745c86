package timeboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultInterval is the refresh cadence. Sub-second so the seconds
	// column never visibly stalls between ticks.
	DefaultInterval = 900 * time.Millisecond

	// Layout is the timestamp format used on every line.
	Layout = "2006/01/02, 15:04:05"

	// wsmrZone is the IANA name for US/Mountain, the zone the White Sands
	// Missile Range ground station runs on.
	wsmrZone = "America/Denver"

	// prefixWidth left-pads the shorter prefixes so timestamps line up
	// across rows.
	prefixWidth = 15
)

// Zone identifiers carried on each Line.
const (
	ZoneUTC   = "utc"
	ZoneLocal = "local"
	ZoneWSMR  = "wsmr"
)

// Line prefixes shown ahead of each timestamp.
const (
	PrefixUTC   = "UTC Time: "
	PrefixLocal = "Local Time: "
	PrefixWSMR  = "WSMR Time: "
)

// Line is one rendered clock row.
type Line struct {
	Zone string
	Text string
}

// Renderer is the host-owned surface that receives the recomputed lines on
// every refresh. Render is called from the Run goroutine and must not block
// past the refresh interval.
type Renderer interface {
	Render(lines []Line)
}

// WriterRenderer writes each line of a refresh to W, one row per zone.
type WriterRenderer struct {
	W io.Writer
}

// Render implements Renderer.
func (r WriterRenderer) Render(lines []Line) {
	for _, ln := range lines {
		fmt.Fprintln(r.W, ln.Text)
	}
}

// Board computes formatted clock lines for the enabled zones. All three
// zones start enabled; toggles may be flipped while Run is ticking, so they
// sit behind a mutex. Everything else is fixed at construction.
type Board struct {
	interval time.Duration
	local    *time.Location
	wsmr     *time.Location
	now      func() time.Time // injectable for deterministic tests

	mu        sync.Mutex
	showUTC   bool
	showLocal bool
	showWSMR  bool
}

// New creates a Board with every zone enabled, refreshing at interval.
// A non-positive interval falls back to DefaultInterval.
func New(interval time.Duration) *Board {
	if interval <= 0 {
		interval = DefaultInterval
	}
	wsmr, err := time.LoadLocation(wsmrZone)
	if err != nil {
		slog.Warn("timeboard: WSMR zone unavailable, falling back to UTC",
			"zone", wsmrZone, "err", err)
		wsmr = time.UTC
	}
	return &Board{
		interval:  interval,
		local:     time.Local,
		wsmr:      wsmr,
		now:       time.Now,
		showUTC:   true,
		showLocal: true,
		showWSMR:  true,
	}
}

// SetUTC toggles the UTC line.
func (b *Board) SetUTC(show bool) {
	b.mu.Lock()
	b.showUTC = show
	b.mu.Unlock()
}

// SetLocal toggles the local-time line.
func (b *Board) SetLocal(show bool) {
	b.mu.Lock()
	b.showLocal = show
	b.mu.Unlock()
}

// SetWSMR toggles the WSMR line.
func (b *Board) SetWSMR(show bool) {
	b.mu.Lock()
	b.showWSMR = show
	b.mu.Unlock()
}

// Lines recomputes the clock lines for the enabled zones, always in the
// order UTC, local, WSMR. All lines are derived from a single clock reading
// so the rows never disagree about the second.
func (b *Board) Lines() []Line {
	b.mu.Lock()
	utc, local, wsmr := b.showUTC, b.showLocal, b.showWSMR
	b.mu.Unlock()

	now := b.now()
	lines := make([]Line, 0, 3)
	if utc {
		lines = append(lines, line(ZoneUTC, PrefixUTC, now.UTC()))
	}
	if local {
		lines = append(lines, line(ZoneLocal, PrefixLocal, now.In(b.local)))
	}
	if wsmr {
		lines = append(lines, line(ZoneWSMR, PrefixWSMR, now.In(b.wsmr)))
	}
	return lines
}

// Run starts the refresh loop: every interval it recomputes the lines and
// hands them to r on the loop goroutine, so at most one refresh is ever in
// flight. A render that overruns the interval causes ticks to be dropped,
// not queued. Run blocks until ctx is cancelled.
func (b *Board) Run(ctx context.Context, r Renderer) {
	t := time.NewTicker(b.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Render(b.Lines())
		}
	}
}

func line(zone, prefix string, t time.Time) Line {
	return Line{
		Zone: zone,
		Text: fmt.Sprintf("%-*s%s", prefixWidth, prefix, t.Format(Layout)),
	}
}
