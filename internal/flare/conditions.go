package flare

import (
	"github.com/flarewatch/flarewatch/internal/telemetry"
)

// Trigger and end thresholds. Flux values are W/m², the temperature estimate
// is MK, the emission measure is cm⁻³. All comparisons are strict.
const (
	// ThresholdXRSAHigh is the XRSA flux level that marks a rise worth trigger
	// consideration.
	ThresholdXRSAHigh = 4.5e-7

	// ThresholdXRSBHigh is the XRSB flux gate used by the original registry
	// (a C5-class flare in GOES terms).
	ThresholdXRSBHigh = 5e-6

	// ThresholdXRSBHighAlt is the lower XRSB gate used by the new registry.
	ThresholdXRSBHighAlt = 3e-6

	// ThresholdTemp5MinHigh gates on the 5-minute temperature estimate.
	ThresholdTemp5MinHigh = 10.0

	// ThresholdXRSADiff3Min gates on the 3-minute XRSA flux increase.
	ThresholdXRSADiff3Min = 5e-8

	// ThresholdEM3MinHigh gates on the emission measure derivative channel.
	ThresholdEM3MinHigh = 1e47

	// ThresholdFlareEnd is the XRSB flux level below which a flare counts
	// as over.
	ThresholdFlareEnd = 2.5e-6

	// ThresholdXRSADecay bounds the XRSA last-minus-previous difference in
	// the settling variant of the end condition.
	ThresholdXRSADecay = 1e-9
)

// Condition decides whether one trigger or end gate holds for the current
// sample set. Conditions are pure: they read only the supplied readings,
// hold no state, and have no side effects. The error is non-nil only when a
// referenced channel is absent or empty (telemetry.ErrMissingChannel).
type Condition func(set *telemetry.SampleSet) (bool, error)

// XRSAHigh reports whether the latest XRSA flux exceeds 4.5e-7 W/m².
func XRSAHigh(set *telemetry.SampleSet) (bool, error) {
	return lastAbove(set, telemetry.ChannelXRSA, ThresholdXRSAHigh)
}

// XRSBHigh reports whether the latest XRSB flux exceeds 5e-6 W/m².
func XRSBHigh(set *telemetry.SampleSet) (bool, error) {
	return lastAbove(set, telemetry.ChannelXRSB, ThresholdXRSBHigh)
}

// XRSBHighAlt reports whether the latest XRSB flux exceeds 3e-6 W/m², the
// lower gate the new registry runs its countdown on.
func XRSBHighAlt(set *telemetry.SampleSet) (bool, error) {
	return lastAbove(set, telemetry.ChannelXRSB, ThresholdXRSBHighAlt)
}

// Temp5MinHigh reports whether the latest 5-minute temperature estimate
// exceeds 10.0.
func Temp5MinHigh(set *telemetry.SampleSet) (bool, error) {
	return lastAbove(set, telemetry.ChannelTemp5Min, ThresholdTemp5MinHigh)
}

// XRSADiff3MinHigh reports whether the latest 3-minute XRSA difference
// exceeds 5e-8, i.e. XRSA is still climbing.
func XRSADiff3MinHigh(set *telemetry.SampleSet) (bool, error) {
	return lastAbove(set, telemetry.ChannelXRSADiff3Min, ThresholdXRSADiff3Min)
}

// EM3MinHigh reports whether the latest emission measure exceeds 1e47.
// The deck label calls this gate "3 min" while the feed publishes the
// 5-minute series; the mismatch is historical and kept as-is.
func EM3MinHigh(set *telemetry.SampleSet) (bool, error) {
	return lastAbove(set, telemetry.ChannelEM5Min, ThresholdEM3MinHigh)
}

// FlareEnd reports whether the latest XRSB flux has fallen below 2.5e-6 W/m².
func FlareEnd(set *telemetry.SampleSet) (bool, error) {
	return lastBelow(set, telemetry.ChannelXRSB, ThresholdFlareEnd)
}

// FlareEndSettling is the stricter end variant: XRSB below the end gate and
// XRSA no longer rising (last-minus-previous under 1e-9). Needs two XRSA
// readings; with fewer it fails as telemetry.Prev does. Not wired into any
// built-in registry.
func FlareEndSettling(set *telemetry.SampleSet) (bool, error) {
	ended, err := FlareEnd(set)
	if err != nil {
		return false, err
	}
	delta, err := set.LastDelta(telemetry.ChannelXRSA)
	if err != nil {
		return false, err
	}
	return ended && delta < ThresholdXRSADecay, nil
}

// SpecialTrigger always holds. Placeholder gate for demo registries.
func SpecialTrigger(*telemetry.SampleSet) (bool, error) { return true, nil }

// MagicTrigger always holds. Placeholder gate for demo registries.
func MagicTrigger(*telemetry.SampleSet) (bool, error) { return true, nil }

// lastAbove reports whether the latest reading on channel strictly exceeds
// threshold.
func lastAbove(set *telemetry.SampleSet, channel string, threshold float64) (bool, error) {
	v, err := set.Last(channel)
	if err != nil {
		return false, err
	}
	return v > threshold, nil
}

// lastBelow reports whether the latest reading on channel is strictly under
// threshold.
func lastBelow(set *telemetry.SampleSet, channel string, threshold float64) (bool, error) {
	v, err := set.Last(channel)
	if err != nil {
		return false, err
	}
	return v < threshold, nil
}
