package flare

import (
	"fmt"

	"github.com/flarewatch/flarewatch/internal/telemetry"
)

// Names of the built-in registries accepted in configuration.
const (
	RegistryOriginal = "original"
	RegistryNew      = "new"
)

// Display labels, reproduced verbatim from the operator deck. The markup
// (<sup>, <br>) is interpreted by whatever surface renders verdicts, not here.
const (
	LabelXRSBHigh    = "XRSB>5e-6 W/m<sup>2</sup>"
	LabelEM3MinHigh  = "dEM (3 min)>1e47cm<sup>-2</sup>"
	LabelXRSBHighAlt = "XRSB>3e-6 W/m<sup>2</sup><br>5 minute countdown<br>Last XRSA must be increasing"
)

// Entry pairs a display label with the Condition evaluated under it.
type Entry struct {
	Label string
	Cond  Condition
}

// Registry is an immutable set of labelled conditions representing one
// alerting configuration. Build one with NewRegistry or Builtin; there is no
// way to add or remove entries afterwards.
type Registry struct {
	name   string
	labels []string // construction order, for deterministic evaluation
	conds  map[string]Condition
}

// NewRegistry builds a registry from entries. Labels must be unique and
// every condition non-nil.
func NewRegistry(name string, entries []Entry) (*Registry, error) {
	r := &Registry{
		name:  name,
		conds: make(map[string]Condition, len(entries)),
	}
	for _, e := range entries {
		if e.Cond == nil {
			return nil, fmt.Errorf("flare: registry %q: label %q has nil condition", name, e.Label)
		}
		if _, dup := r.conds[e.Label]; dup {
			return nil, fmt.Errorf("flare: registry %q: duplicate label %q", name, e.Label)
		}
		r.labels = append(r.labels, e.Label)
		r.conds[e.Label] = e.Cond
	}
	return r, nil
}

// Builtin returns the named built-in registry.
//
// "original" gates on the XRSB 5e-6 flux level plus the 3-minute emission
// measure. "new" gates on the lower XRSB 3e-6 level alone and leaves the
// countdown and XRSA-rising checks to the caller, as its label says.
func Builtin(name string) (*Registry, error) {
	switch name {
	case RegistryOriginal:
		return NewRegistry(RegistryOriginal, []Entry{
			{Label: LabelXRSBHigh, Cond: XRSBHigh},
			{Label: LabelEM3MinHigh, Cond: EM3MinHigh},
		})
	case RegistryNew:
		return NewRegistry(RegistryNew, []Entry{
			{Label: LabelXRSBHighAlt, Cond: XRSBHighAlt},
		})
	default:
		return nil, fmt.Errorf("flare: unknown registry %q: want %s|%s",
			name, RegistryOriginal, RegistryNew)
	}
}

// Name returns the registry's configured name.
func (r *Registry) Name() string { return r.name }

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.labels) }

// Labels returns the display labels in construction order.
func (r *Registry) Labels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Evaluate runs every condition in reg against set and returns the verdict
// per label. If any condition fails because a channel it reads is absent or
// empty, Evaluate returns that error and no verdicts at all; a partial map
// would let a caller mistake "could not evaluate" for "did not fire".
//
// Evaluate never mutates set and keeps no state between calls: the same
// sample set and registry always produce the same verdict map.
func Evaluate(set *telemetry.SampleSet, reg *Registry) (map[string]bool, error) {
	verdicts := make(map[string]bool, len(reg.labels))
	for _, label := range reg.labels {
		ok, err := reg.conds[label](set)
		if err != nil {
			return nil, fmt.Errorf("flare: evaluate %q: %w", label, err)
		}
		verdicts[label] = ok
	}
	return verdicts, nil
}
