// Package weft implements the WeftFile container: parsing a binary
// Weft stream into its constituent blocks, serializing a container back
// to bytes, and combining several compatible containers into one (§4).
//
// A WeftFile holds the preamble plus three collections of blocks: loose
// multi-year and monthly blocks (always fully materialized, since they
// are few and cheap), and a slice of Sections, each a lazily
// materialized run of 48h blocks under one SectionHeader (§4.3, §5).
package weft
