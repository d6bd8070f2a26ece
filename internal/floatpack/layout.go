package floatpack

// Layout describes the bit geometry of one of the eight IEEE-754-style
// widths Lilliput supports on the wire: a sign bit, an exponent field,
// and a significand field, with the usual IEEE bias convention. This
// mirrors the per-width constant table the original Rust packer
// (lilliput-float) computes once at init rather than re-deriving per
// call, since every width's layout is fixed for the lifetime of the
// program.
type Layout struct {
	Width      int // encoded width, in bytes
	TotalBits  int
	ExpBits    int
	SigBits    int
	Bias       int
	expAllOnes uint64 // (1<<ExpBits)-1, precomputed
	sigMask    uint64 // (1<<SigBits)-1, precomputed
}

func newLayout(width, expBits, sigBits int) Layout {
	totalBits := width * 8
	bias := (1 << (expBits - 1)) - 1
	return Layout{
		Width:      width,
		TotalBits:  totalBits,
		ExpBits:    expBits,
		SigBits:    sigBits,
		Bias:       bias,
		expAllOnes: (uint64(1) << expBits) - 1,
		sigMask:    (uint64(1) << sigBits) - 1,
	}
}

// layouts indexes the supported widths, in bytes, from 1 (8-bit) to 8
// (64-bit, the host double). The bit-width split matches spec.md
// §4.2.5 exactly: sign/exponent/significand of 1/4/3, 1/5/10, 1/7/16,
// 1/8/23, 1/8/31, 1/9/38, 1/10/45, 1/11/52.
var layouts = [9]Layout{
	1: newLayout(1, 4, 3),
	2: newLayout(2, 5, 10),
	3: newLayout(3, 7, 16),
	4: newLayout(4, 8, 23),
	5: newLayout(5, 8, 31),
	6: newLayout(6, 9, 38),
	7: newLayout(7, 10, 45),
	8: newLayout(8, 11, 52),
}

// ForWidth returns the layout for the given byte width (1-8) and
// whether that width is supported.
func ForWidth(width int) (Layout, bool) {
	if width < 1 || width > 8 {
		return Layout{}, false
	}
	return layouts[width], true
}
