package lilliput

import "github.com/lilliput/lilliput/internal/floatpack"

// chooseFloatWidth implements the FloatWidthSmallest policy: try each
// supported width ascending until one round-trips f exactly, falling
// back to 8 (always exact, since it's the host representation).
func chooseFloatWidth(f float64) int {
	for w := 1; w <= 7; w++ {
		packed, ok := floatpack.Pack(f, w)
		if !ok {
			continue
		}
		back, ok := floatpack.Unpack(packed, w)
		if !ok {
			continue
		}
		if floatBitsEqual(back, f) {
			return w
		}
	}
	return 8
}

// packFloat truncates f to the given width's bit pattern.
func packFloat(f float64, width int) ([]byte, error) {
	buf, ok := floatpack.Pack(f, width)
	if !ok {
		return nil, newErr(KindInvalidFloat, "EncodeFloat", "unsupported float width")
	}
	return buf, nil
}

// unpackFloat expands a width-byte bit pattern back to a double.
func unpackFloat(buf []byte, width int) (float64, error) {
	f, ok := floatpack.Unpack(buf, width)
	if !ok {
		return 0, newErr(KindInvalidFloat, "DecodeValue", "unsupported float width")
	}
	return f, nil
}
