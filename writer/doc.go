// Package writer generates a WeftFile from a source.DataSource (§4.5):
// multi-year, monthly, and 48h blocks are fit with cheb.Fit according
// to coverage-ratio and sample-density thresholds (§4.7), then
// assembled into section headers and a preamble with an inferred
// timespan.
package writer
