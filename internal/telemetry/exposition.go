package telemetry

import (
	"fmt"
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// GOES exposition metric names published by the fetcher.
const (
	// X-ray flux in W/m², split by a channel label ("xrsa" or "xrsb").
	metricXRSFlux = "goes_xrs_flux"

	// 5-minute temperature estimate derived from the flux ratio.
	metricTemp5Min = "goes_temperature_5min"

	// 3-minute XRSA flux difference, for rise-detection conditions.
	metricXRSADiff3Min = "goes_xrsa_diff_3min"

	// 5-minute emission measure in cm⁻³.
	metricEM5Min = "goes_emission_measure_5min"
)

// fluxChannels maps the goes_xrs_flux channel label to the canonical channel name.
var fluxChannels = map[string]string{
	"xrsa": ChannelXRSA,
	"xrsb": ChannelXRSB,
}

// gaugeChannels maps single-valued exposition metrics to canonical channel names.
var gaugeChannels = map[string]string{
	metricTemp5Min:     ChannelTemp5Min,
	metricXRSADiff3Min: ChannelXRSADiff3Min,
	metricEM5Min:       ChannelEM5Min,
}

// Batch is one decoded exposition payload: at most one reading per channel.
type Batch map[string]float64

// DecodeExposition parses a Prometheus text exposition from r and extracts
// the GOES channel values. Metrics outside the known set are ignored; a
// payload containing none of them decodes to an empty Batch. Channels the
// payload omits simply do not appear — the evaluator reports them as missing
// if a predicate needs them.
func DecodeExposition(r io.Reader) (Batch, error) {
	mfs, err := parseFamilies(r)
	if err != nil {
		return nil, err
	}

	batch := make(Batch)

	if mf := mfs[metricXRSFlux]; mf != nil {
		for _, m := range mf.GetMetric() {
			ch, ok := fluxChannels[labelValue(m, "channel")]
			if !ok {
				continue
			}
			batch[ch] = sampleValue(m)
		}
	}

	for name, ch := range gaugeChannels {
		mf := mfs[name]
		if mf == nil || len(mf.GetMetric()) == 0 {
			continue
		}
		batch[ch] = sampleValue(mf.GetMetric()[0])
	}

	return batch, nil
}

// parseFamilies decodes a Prometheus text exposition from r into metric families.
// A partial result with a non-fatal parse warning is still returned successfully.
func parseFamilies(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("telemetry: parse exposition: %w", err)
	}
	return mfs, nil
}

// labelValue returns the value of the named label on m, or "" when unset.
func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// sampleValue extracts the numeric value of m regardless of metric type.
func sampleValue(m *dto.Metric) float64 {
	switch {
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	}
	return 0
}
