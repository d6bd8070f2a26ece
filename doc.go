// Package lilliput implements a compact binary object-serialization
// format: a tagged Value union, a header-byte wire grammar with
// compact (header-embedded) and extended (length-prefixed) variants
// per type, zig-zag signed integers, and generalized IEEE-754 float
// packing across eight widths (1-8 bytes).
//
// Encoder writes Values to an io.Writer; Decoder reads them back from
// an io.Reader. Both are single-threaded cooperative: an instance is
// owned by exactly one goroutine at a time, with no internal
// synchronization and no state persisted across top-level calls beyond
// an optional scratch buffer.
//
// There is no canonical form: the same Value can be encoded multiple
// ways (compact vs. extended, a float at a wider width than strictly
// needed), so equality comparisons should always go through
// Value.Equal on decoded values, never through comparing raw bytes.
package lilliput
