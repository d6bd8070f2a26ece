package lilliput

// FloatWidthPolicy controls how Encoder.EncodeFloat chooses an
// encoded width for a 64-bit double.
type FloatWidthPolicy uint8

const (
	// FloatWidthSmallest tries each supported width from 1 byte up to
	// 8, encoding at the first width that round-trips the value
	// exactly, and falling back to 8 bytes (the host double, always
	// exact) if no narrower width does. This is the default: it is
	// the whole reason Lilliput's float packer supports eight widths
	// instead of just the IEEE-standard three.
	FloatWidthSmallest FloatWidthPolicy = iota
	// FloatWidthAlwaysDouble always encodes at 8 bytes, skipping the
	// narrowing search — useful when callers know most values need the
	// full range and want to avoid paying the search cost.
	FloatWidthAlwaysDouble
)

// EncoderConfig controls Encoder behavior. The zero value is not a
// valid config; use DefaultEncoderConfig and override individual
// fields, matching the teacher's DefaultV2Options/DefaultPackedOptions
// pattern of a plain option struct plus a constructor rather than
// functional options — Encoder construction here has no optional
// variadic surface to thread functional options through.
type EncoderConfig struct {
	// PreferCompact controls whether values that fit a header's
	// compact (inline) form are encoded that way rather than always
	// using the extended form. Defaults to true: this is the entire
	// point of the compact/extended split in spec.md §4.2.
	PreferCompact bool
	// FloatWidthPolicy selects how EncodeFloat picks a width.
	FloatWidthPolicy FloatWidthPolicy
	// ValidateUTF8OnEncode rejects EncodeString calls with invalid
	// UTF-8 input rather than writing the bytes as given. Defaults to
	// true.
	ValidateUTF8OnEncode bool
}

// DefaultEncoderConfig returns the recommended EncoderConfig.
func DefaultEncoderConfig() EncoderConfig {
	return EncoderConfig{
		PreferCompact:        true,
		FloatWidthPolicy:     FloatWidthSmallest,
		ValidateUTF8OnEncode: true,
	}
}

// DecoderConfig controls Decoder behavior, in particular the resource
// bounds spec.md §9 requires against hostile or malformed input.
type DecoderConfig struct {
	// MaxDepth bounds nested Sequence/Map recursion. Exceeding it
	// produces a KindDepthExceeded error rather than recursing further.
	// Defaults to 128.
	MaxDepth int
	// MaxContainerLen bounds a single Sequence/Map's declared element
	// count and a single String/Bytes value's byte length. Exceeding it
	// produces a KindContainerTooLarge error before any allocation sized
	// by that length occurs. Defaults to 2^63.
	MaxContainerLen uint64
	// ValidateUTF8OnDecode rejects String payloads with invalid UTF-8
	// rather than returning them as-is. Defaults to true.
	ValidateUTF8OnDecode bool
	// StrictReservedBits rejects Integer-extended and String-extended
	// header bytes (spec.md §4.2.1, §4.2.2) whose reserved bits 4-3 are
	// nonzero, producing KindInvalidHeader, rather than ignoring them.
	// Defaults to false, for forward compatibility with future format
	// revisions that may assign meaning to bits this decoder doesn't
	// know about.
	StrictReservedBits bool
}

// DefaultMaxDepth is the default Decoder recursion bound.
const DefaultMaxDepth = 128

// DefaultMaxContainerLen is the default Decoder per-value length bound:
// 2^63, matching spec.md §9's guidance that container length is itself
// attacker-controlled input and must be checked before use as an
// allocation size.
const DefaultMaxContainerLen = uint64(1 << 63)

// DefaultDecoderConfig returns the recommended DecoderConfig.
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		MaxDepth:             DefaultMaxDepth,
		MaxContainerLen:      DefaultMaxContainerLen,
		ValidateUTF8OnDecode: true,
		StrictReservedBits:   false,
	}
}
