// Package telemetry holds the in-memory sample set of named GOES flux
// channels and decodes the Prometheus text exposition payloads the external
// fetcher drops on disk. Predicates read only the most recent reading(s) of
// a channel; history is retained (bounded) so derivative checks have a
// second-to-last value to work with.
package telemetry
