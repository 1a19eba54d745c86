package telemetry

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Canonical channel names, preserved from the GOES science feed.
const (
	ChannelXRSA         = "xrsa"
	ChannelXRSB         = "xrsb"
	ChannelTemp5Min     = "5min Temp"
	ChannelXRSADiff3Min = "3minxrsadiff"
	ChannelEM5Min       = "5min emission measure"
)

var (
	// ErrMissingChannel is returned when a referenced channel is absent from
	// the sample set or holds no readings.
	ErrMissingChannel = errors.New("telemetry: missing channel")

	// ErrShortHistory is returned when a channel has readings but not enough
	// of them for the requested lookback.
	ErrShortHistory = errors.New("telemetry: not enough readings")
)

// Reading is a single observation on one channel.
type Reading struct {
	At    time.Time
	Value float64
}

// SampleSet holds time-ordered readings per named channel. Per-channel
// history is capped at the configured length; appending beyond the cap
// discards the oldest readings.
//
// A SampleSet is not safe for concurrent use. The polling loop that appends
// readings is also the only evaluator caller, so no locking is needed.
type SampleSet struct {
	history  int
	channels map[string][]Reading
	now      func() time.Time // injectable for deterministic tests
}

// NewSampleSet creates an empty SampleSet retaining up to history readings
// per channel. The cap is clamped to a minimum of 2 so the second-to-last
// reading is always retained once available.
func NewSampleSet(history int) *SampleSet {
	if history < 2 {
		history = 2
	}
	return &SampleSet{
		history:  history,
		channels: make(map[string][]Reading),
		now:      time.Now,
	}
}

// Append records value as the newest reading on channel, stamped with the
// current time. A channel appears in the set the first time it is appended to.
func (s *SampleSet) Append(channel string, value float64) {
	rs := append(s.channels[channel], Reading{At: s.now(), Value: value})
	if len(rs) > s.history {
		rs = rs[len(rs)-s.history:]
	}
	s.channels[channel] = rs
}

// Last returns the most recent reading on channel.
// Returns ErrMissingChannel if the channel is absent or empty.
func (s *SampleSet) Last(channel string) (float64, error) {
	rs := s.channels[channel]
	if len(rs) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrMissingChannel, channel)
	}
	return rs[len(rs)-1].Value, nil
}

// Prev returns the second-to-last reading on channel.
// Returns ErrMissingChannel if the channel is absent or empty, and
// ErrShortHistory if it holds exactly one reading.
func (s *SampleSet) Prev(channel string) (float64, error) {
	rs := s.channels[channel]
	if len(rs) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrMissingChannel, channel)
	}
	if len(rs) < 2 {
		return 0, fmt.Errorf("%w: %q has 1, want 2", ErrShortHistory, channel)
	}
	return rs[len(rs)-2].Value, nil
}

// LastDelta returns the difference between the last and second-to-last
// readings on channel. Errors as Prev does.
func (s *SampleSet) LastDelta(channel string) (float64, error) {
	last, err := s.Last(channel)
	if err != nil {
		return 0, err
	}
	prev, err := s.Prev(channel)
	if err != nil {
		return 0, err
	}
	return last - prev, nil
}

// Len returns the number of retained readings on channel; 0 if absent.
func (s *SampleSet) Len(channel string) int {
	return len(s.channels[channel])
}

// Channels returns the names of all channels holding at least one reading,
// sorted for deterministic logging.
func (s *SampleSet) Channels() []string {
	out := make([]string, 0, len(s.channels))
	for ch, rs := range s.channels {
		if len(rs) > 0 {
			out = append(out, ch)
		}
	}
	sort.Strings(out)
	return out
}
