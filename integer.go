package lilliput

import "github.com/lilliput/lilliput/internal/bitio"

// zigzagEncode maps a signed 64-bit value to an unsigned one so that
// small-magnitude values of either sign stay small on the wire, per
// spec.md §4.2.1: (n << 1) ^ (n >> 63), computed on the two's-complement
// bit pattern (the arithmetic right shift of a negative int64 fills
// with 1 bits, which is exactly the mask zig-zag relies on).
func zigzagEncode(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

// zigzagDecode is zigzagEncode's inverse.
func zigzagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// integerCompactRange reports whether v (already zig-zag-encoded for
// signed values, or the raw magnitude for unsigned) fits the 5-bit
// compact field.
func integerCompactRange(v uint64) bool {
	return v <= integerCompactMax
}

// minWidthFor returns the number of bytes (1-8) needed to hold v,
// right-aligned.
func minWidthFor(v uint64) int {
	return bitio.MinBytes(v)
}
