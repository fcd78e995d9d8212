// Package section defines the low-level binary structures and constants
// for the Weft ephemeris container format.
//
// This package provides the foundational types that define the physical
// layout of a Weft file's blocks. It handles binary serialization and
// deserialization of the preamble, the four block kinds, and the value
// behavior that governs read post-processing and fit pre-processing.
//
// # Overview
//
// The section package defines:
//
//  1. Preamble: the single UTF-8 header line (id, data source, timespan, ...)
//  2. ValueBehavior: wrapping / bounded / unbounded range semantics
//  3. Block kinds: MultiYearBlock, MonthlyBlock, SectionHeader, FortyEightHourBlock
//
// All multi-byte integers are big-endian, two's-complement; floating
// point coefficients are IEEE 754 big-endian 32-bit. Every block is
// 16-bit aligned. These constraints are fixed by the format — unlike the
// source time-series blob formats this package's shape is modeled on,
// there is no per-file endianness option.
//
// # Block Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Preamble (variable, UTF-8, newline-terminated)           │
//	├─────────────────────────────────────────────────────────┤
//	│ Multi-year blocks (0x00 03), any chronological order     │
//	├─────────────────────────────────────────────────────────┤
//	│ Monthly blocks (0x00 00), any chronological order        │
//	├─────────────────────────────────────────────────────────┤
//	│ 48h sections: header (0x00 02) + N blocks (0x00 01),     │
//	│ strictly chronological within and across sections        │
//	└─────────────────────────────────────────────────────────┘
package section
