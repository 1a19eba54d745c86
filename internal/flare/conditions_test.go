package flare

import (
	"errors"
	"testing"

	"github.com/flarewatch/flarewatch/internal/telemetry"
)

// newSet builds a sample set from per-channel reading slices, appended in order.
func newSet(channels map[string][]float64) *telemetry.SampleSet {
	s := telemetry.NewSampleSet(16)
	for ch, vs := range channels {
		for _, v := range vs {
			s.Append(ch, v)
		}
	}
	return s
}

func TestConditions_Thresholds(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		set  map[string][]float64
		want bool
	}{
		{"XRSAHigh above", XRSAHigh, map[string][]float64{telemetry.ChannelXRSA: {5e-7}}, true},
		{"XRSAHigh at threshold is strict", XRSAHigh, map[string][]float64{telemetry.ChannelXRSA: {4.5e-7}}, false},
		{"XRSAHigh below", XRSAHigh, map[string][]float64{telemetry.ChannelXRSA: {4e-7}}, false},

		{"XRSBHigh above", XRSBHigh, map[string][]float64{telemetry.ChannelXRSB: {6e-6}}, true},
		{"XRSBHigh at threshold is strict", XRSBHigh, map[string][]float64{telemetry.ChannelXRSB: {5e-6}}, false},
		{"XRSBHigh below", XRSBHigh, map[string][]float64{telemetry.ChannelXRSB: {1e-6}}, false},
		// Only the newest reading counts.
		{"XRSBHigh ignores older readings", XRSBHigh, map[string][]float64{telemetry.ChannelXRSB: {6e-6, 1e-6}}, false},
		{"XRSBHigh fires on newest reading", XRSBHigh, map[string][]float64{telemetry.ChannelXRSB: {1e-6, 6e-6}}, true},

		{"XRSBHighAlt above", XRSBHighAlt, map[string][]float64{telemetry.ChannelXRSB: {4e-6}}, true},
		{"XRSBHighAlt at threshold is strict", XRSBHighAlt, map[string][]float64{telemetry.ChannelXRSB: {3e-6}}, false},
		{"XRSBHighAlt below", XRSBHighAlt, map[string][]float64{telemetry.ChannelXRSB: {2e-6}}, false},

		{"Temp5MinHigh above", Temp5MinHigh, map[string][]float64{telemetry.ChannelTemp5Min: {10.5}}, true},
		{"Temp5MinHigh at threshold is strict", Temp5MinHigh, map[string][]float64{telemetry.ChannelTemp5Min: {10.0}}, false},
		{"Temp5MinHigh below", Temp5MinHigh, map[string][]float64{telemetry.ChannelTemp5Min: {9.2}}, false},

		{"XRSADiff3MinHigh above", XRSADiff3MinHigh, map[string][]float64{telemetry.ChannelXRSADiff3Min: {6e-8}}, true},
		{"XRSADiff3MinHigh at threshold is strict", XRSADiff3MinHigh, map[string][]float64{telemetry.ChannelXRSADiff3Min: {5e-8}}, false},

		{"EM3MinHigh above", EM3MinHigh, map[string][]float64{telemetry.ChannelEM5Min: {2e47}}, true},
		{"EM3MinHigh at threshold is strict", EM3MinHigh, map[string][]float64{telemetry.ChannelEM5Min: {1e47}}, false},
		{"EM3MinHigh below", EM3MinHigh, map[string][]float64{telemetry.ChannelEM5Min: {5e46}}, false},

		{"FlareEnd below gate", FlareEnd, map[string][]float64{telemetry.ChannelXRSB: {2e-6}}, true},
		{"FlareEnd at gate is strict", FlareEnd, map[string][]float64{telemetry.ChannelXRSB: {2.5e-6}}, false},
		{"FlareEnd above gate", FlareEnd, map[string][]float64{telemetry.ChannelXRSB: {3e-6}}, false},
		// Decaying flare: newest reading is under the gate.
		{"FlareEnd on decay", FlareEnd, map[string][]float64{telemetry.ChannelXRSB: {4e-6, 2e-6}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.cond(newSet(tc.set))
			if err != nil {
				t.Fatalf("condition error: %v", err)
			}
			if got != tc.want {
				t.Errorf("condition = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConditions_DecayingFlareScenario(t *testing.T) {
	// One decaying flare seen by both gates: the newest XRSB reading has
	// dropped under the end gate, so the trigger is off and the end is on.
	set := newSet(map[string][]float64{telemetry.ChannelXRSB: {4e-6, 2e-6}})

	high, err := XRSBHigh(set)
	if err != nil {
		t.Fatalf("XRSBHigh: %v", err)
	}
	if high {
		t.Error("XRSBHigh = true, want false (2e-6 < 5e-6)")
	}

	ended, err := FlareEnd(set)
	if err != nil {
		t.Fatalf("FlareEnd: %v", err)
	}
	if !ended {
		t.Error("FlareEnd = false, want true (2e-6 < 2.5e-6)")
	}
}

func TestConditions_MissingChannel(t *testing.T) {
	conds := map[string]Condition{
		"XRSAHigh":         XRSAHigh,
		"XRSBHigh":         XRSBHigh,
		"XRSBHighAlt":      XRSBHighAlt,
		"Temp5MinHigh":     Temp5MinHigh,
		"XRSADiff3MinHigh": XRSADiff3MinHigh,
		"EM3MinHigh":       EM3MinHigh,
		"FlareEnd":         FlareEnd,
	}
	empty := telemetry.NewSampleSet(4)

	for name, cond := range conds {
		t.Run(name, func(t *testing.T) {
			_, err := cond(empty)
			if !errors.Is(err, telemetry.ErrMissingChannel) {
				t.Errorf("err = %v, want ErrMissingChannel", err)
			}
		})
	}
}

func TestAlwaysTriggers(t *testing.T) {
	// Placeholder gates hold regardless of input, including an empty set.
	empty := telemetry.NewSampleSet(4)

	if got, err := SpecialTrigger(empty); err != nil || !got {
		t.Errorf("SpecialTrigger = (%v, %v), want (true, nil)", got, err)
	}
	if got, err := MagicTrigger(empty); err != nil || !got {
		t.Errorf("MagicTrigger = (%v, %v), want (true, nil)", got, err)
	}
}

func TestFlareEndSettling(t *testing.T) {
	tests := []struct {
		name string
		set  map[string][]float64
		want bool
	}{
		{
			name: "flux under gate and XRSA flat",
			set: map[string][]float64{
				telemetry.ChannelXRSB: {2e-6},
				telemetry.ChannelXRSA: {3e-7, 3e-7}, // delta 0 < 1e-9
			},
			want: true,
		},
		{
			name: "flux under gate and XRSA falling",
			set: map[string][]float64{
				telemetry.ChannelXRSB: {2e-6},
				telemetry.ChannelXRSA: {3.2e-7, 3e-7}, // delta -2e-8
			},
			want: true,
		},
		{
			name: "flux under gate but XRSA still rising",
			set: map[string][]float64{
				telemetry.ChannelXRSB: {2e-6},
				telemetry.ChannelXRSA: {3e-7, 3.1e-7}, // delta 1e-8 > 1e-9
			},
			want: false,
		},
		{
			name: "flux above gate",
			set: map[string][]float64{
				telemetry.ChannelXRSB: {3e-6},
				telemetry.ChannelXRSA: {3e-7, 3e-7},
			},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FlareEndSettling(newSet(tc.set))
			if err != nil {
				t.Fatalf("FlareEndSettling: %v", err)
			}
			if got != tc.want {
				t.Errorf("FlareEndSettling = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFlareEndSettling_NeedsTwoXRSAReadings(t *testing.T) {
	set := newSet(map[string][]float64{
		telemetry.ChannelXRSB: {2e-6},
		telemetry.ChannelXRSA: {3e-7},
	})
	if _, err := FlareEndSettling(set); !errors.Is(err, telemetry.ErrShortHistory) {
		t.Errorf("err = %v, want ErrShortHistory", err)
	}

	noXRSA := newSet(map[string][]float64{telemetry.ChannelXRSB: {2e-6}})
	if _, err := FlareEndSettling(noXRSA); !errors.Is(err, telemetry.ErrMissingChannel) {
		t.Errorf("err without xrsa = %v, want ErrMissingChannel", err)
	}
}
