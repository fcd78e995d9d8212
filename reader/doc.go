// Package reader implements value lookup against a parsed WeftFile
// (§4.4): priority-ordered block selection (48h over monthly over
// multi-year), binary search within a section's 48h blocks, and a
// linear blend between adjacent 48h blocks across the midnight
// boundary where their coverage windows overlap.
package reader
