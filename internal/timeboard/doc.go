// Package timeboard renders live clock lines for the operator console.
//
// Board computes one formatted line per enabled zone (UTC, local, WSMR) from
// an injectable clock. Board.Run drives the refresh: on every tick it
// recomputes the lines and hands them to the host's Renderer, synchronously,
// so a refresh is never concurrent with the previous one. Zones can be
// toggled on and off while the board runs.
//
// The board never fails at refresh time: zone resolution happens once at
// construction and falls back to UTC if the IANA database is unavailable.
package timeboard
