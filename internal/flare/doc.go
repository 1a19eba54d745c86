// Package flare implements the flare trigger and end conditions evaluated
// against the latest GOES telemetry readings.
//
// conditions.go provides the pure threshold predicates (one per gate, fixed
// thresholds, strict comparisons). Each predicate reads only the most recent
// value(s) of its channel and holds no state.
//
// registry.go provides the immutable label→Condition Registry, the two
// built-in registries selectable from configuration ("original" and "new"),
// and Evaluate, which produces the per-label verdict map for one sample set.
// Flare lifecycle tracking (in progress or not) belongs to the caller;
// this package only answers "does this gate hold right now".
package flare
