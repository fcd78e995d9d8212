// Package compact wraps a combined WeftFile in a compressed envelope
// for archival or network transfer (§6.5's "persisted layout" is an
// external concern; this package is the supplemental implementation of
// it). It is not part of the core binary wire format: a Weft file on
// its own is never compressed, only the envelope this package produces
// around one.
package compact
