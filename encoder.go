package lilliput

import (
	"io"
	"math/bits"
	"unicode/utf8"

	"github.com/lilliput/lilliput/internal/bitio"
)

// containerFrame tracks one open Sequence or Map begin/end pair so the
// Encoder can catch a caller emitting the wrong number of items before
// the matching End call, the same kind of state-machine bookkeeping
// the teacher's stream.Writer performs around frame boundaries.
type containerFrame struct {
	kind     Type // TypeSequence or TypeMap
	expected uint64 // expected recordValueWritten calls at this level
}

// Encoder writes Values to an io.Writer in Lilliput's wire format. It
// is single-threaded cooperative: no internal synchronization, matching
// spec.md §5 — an Encoder is owned by exactly one goroutine at a time.
//
// Encoder wraps a plain io.Writer directly rather than introducing a
// custom sink interface: spec.md §6.1 explicitly places byte-sink
// abstractions out of scope ("any byte-sink... with single-byte and
// slice operations suffices"), and io.Writer already provides that,
// the same way the teacher's stream.Writer wraps io.Writer with no
// interface of its own in between.
type Encoder struct {
	w     io.Writer
	cfg   EncoderConfig
	stack []containerFrame
}

// NewEncoder returns an Encoder writing to w under cfg.
func NewEncoder(w io.Writer, cfg EncoderConfig) *Encoder {
	return &Encoder{w: w, cfg: cfg}
}

func (e *Encoder) writeByte(b byte) error {
	if bw, ok := e.w.(io.ByteWriter); ok {
		if err := bw.WriteByte(b); err != nil {
			return wrapErr(KindIO, "write", "", err)
		}
		return nil
	}
	if _, err := e.w.Write([]byte{b}); err != nil {
		return wrapErr(KindIO, "write", "", err)
	}
	return nil
}

func (e *Encoder) writeBytes(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if _, err := e.w.Write(b); err != nil {
		return wrapErr(KindIO, "write", "", err)
	}
	return nil
}

// recordValueWritten tallies one emitted value against the innermost
// open container frame, if any.
func (e *Encoder) recordValueWritten() {
	if len(e.stack) == 0 {
		return
	}
	e.stack[len(e.stack)-1].expected-- // counts down; see pushFrame
}

func (e *Encoder) pushFrame(kind Type, expectedUnits uint64) {
	e.stack = append(e.stack, containerFrame{kind: kind, expected: expectedUnits})
}

func (e *Encoder) popFrame(kind Type, op string) error {
	if len(e.stack) == 0 {
		return newErr(KindInvalidState, op, "no matching Begin call")
	}
	top := e.stack[len(e.stack)-1]
	if top.kind != kind {
		return newErr(KindInvalidState, op, "mismatched container type")
	}
	if top.expected != 0 {
		return newErr(KindInvalidState, op, "wrong number of items written before End call")
	}
	e.stack = e.stack[:len(e.stack)-1]
	return nil
}

// EncodeNull writes the Null value.
func (e *Encoder) EncodeNull() error {
	if err := e.writeByte(tagNull); err != nil {
		return err
	}
	e.recordValueWritten()
	return nil
}

// EncodeUnit writes the Unit value.
func (e *Encoder) EncodeUnit() error {
	if err := e.writeByte(tagUnit); err != nil {
		return err
	}
	e.recordValueWritten()
	return nil
}

// EncodeBool writes a Bool value.
func (e *Encoder) EncodeBool(b bool) error {
	if err := e.writeByte(boolHeader(b)); err != nil {
		return err
	}
	e.recordValueWritten()
	return nil
}

func (e *Encoder) encodeInteger(signed bool, v uint64) error {
	if e.cfg.PreferCompact && integerCompactRange(v) {
		if err := e.writeByte(integerCompactHeader(signed, v)); err != nil {
			return err
		}
		e.recordValueWritten()
		return nil
	}
	w := minWidthFor(v)
	if err := e.writeByte(integerExtendedHeader(signed, w-1)); err != nil {
		return err
	}
	p := getScratch()
	defer putScratch(p)
	*p = growTo(*p, w)
	bitio.PutUint(*p, v)
	if err := e.writeBytes(*p); err != nil {
		return err
	}
	e.recordValueWritten()
	return nil
}

// EncodeIntSigned writes a signed Integer value, zig-zag encoding it
// per spec.md §4.2.1 before choosing a compact or extended variant.
func (e *Encoder) EncodeIntSigned(v int64) error {
	return e.encodeInteger(true, zigzagEncode(v))
}

// EncodeIntUnsigned writes an unsigned Integer value.
func (e *Encoder) EncodeIntUnsigned(v uint64) error {
	return e.encodeInteger(false, v)
}

func (e *Encoder) encodeFloatAtWidth(f float64, width int) error {
	buf, err := packFloat(f, width)
	if err != nil {
		return err
	}
	if err := e.writeByte(floatHeader(width - 1)); err != nil {
		return err
	}
	if err := e.writeBytes(buf); err != nil {
		return err
	}
	e.recordValueWritten()
	return nil
}

// EncodeFloat writes a Float value, choosing a width per the Encoder's
// configured FloatWidthPolicy.
func (e *Encoder) EncodeFloat(f float64) error {
	width := 8
	if e.cfg.FloatWidthPolicy == FloatWidthSmallest {
		width = chooseFloatWidth(f)
	}
	return e.encodeFloatAtWidth(f, width)
}

// EncodeFloatWidth writes f truncated to an explicit width (1-8 bytes),
// overriding the configured policy.
func (e *Encoder) EncodeFloatWidth(f float64, width int) error {
	if width < 1 || width > 8 {
		return newErr(KindInvalidFloat, "EncodeFloatWidth", "width must be 1-8")
	}
	return e.encodeFloatAtWidth(f, width)
}

// EncodeString writes a String value.
func (e *Encoder) EncodeString(s string) error {
	if e.cfg.ValidateUTF8OnEncode && !utf8.ValidString(s) {
		return newErr(KindInvalidUTF8, "EncodeString", "input is not valid UTF-8")
	}
	n := len(s)
	if e.cfg.PreferCompact && n <= stringCompactMax {
		if err := e.writeByte(stringCompactHeader(n)); err != nil {
			return err
		}
		if err := e.writeBytes([]byte(s)); err != nil {
			return err
		}
		e.recordValueWritten()
		return nil
	}
	w := minWidthFor(uint64(n))
	if err := e.writeByte(stringExtendedHeader(w - 1)); err != nil {
		return err
	}
	p := getScratch()
	defer putScratch(p)
	*p = growTo(*p, w)
	bitio.PutUint(*p, uint64(n))
	if err := e.writeBytes(*p); err != nil {
		return err
	}
	if err := e.writeBytes([]byte(s)); err != nil {
		return err
	}
	e.recordValueWritten()
	return nil
}

// exponentOfPowerOfTwo returns e such that 2^e == n, and whether n is a
// positive power of two. Zero is not representable: the Bytes header
// stores a length exponent, and 2^e is never zero for any e >= 0
// (spec.md §9's "Bytes as powers of two" design note).
func exponentOfPowerOfTwo(n int) (int, bool) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, false
	}
	return bits.TrailingZeros(uint(n)), true
}

// EncodeBytes writes a Bytes value. len(b) must be a positive power of
// two; spec.md §9 flags this as an unusual, deliberate constraint of
// the wire format (the header stores a length exponent, not a byte
// count), so callers with arbitrary-length data pad or wrap it in a
// String/Sequence instead.
func (e *Encoder) EncodeBytes(b []byte) error {
	exp, ok := exponentOfPowerOfTwo(len(b))
	if !ok {
		return newErr(KindInvalidBytesLength, "EncodeBytes", "length must be a positive power of two")
	}
	w := minWidthFor(uint64(exp))
	if w > 4 {
		return newErr(KindIntegerOverflow, "EncodeBytes", "length exponent does not fit the 4-byte field")
	}
	if err := e.writeByte(bytesHeader(w - 1)); err != nil {
		return err
	}
	p := getScratch()
	defer putScratch(p)
	*p = growTo(*p, w)
	bitio.PutUint(*p, uint64(exp))
	if err := e.writeBytes(*p); err != nil {
		return err
	}
	if err := e.writeBytes(b); err != nil {
		return err
	}
	e.recordValueWritten()
	return nil
}

func (e *Encoder) writeLength(n uint64) (int, error) {
	w := minWidthFor(n)
	p := getScratch()
	defer putScratch(p)
	*p = growTo(*p, w)
	bitio.PutUint(*p, n)
	return w, e.writeBytes(*p)
}

// BeginSequence writes a Sequence header declaring n upcoming elements.
// The caller must then call EncodeValue (or the primitive Encode*
// methods) exactly n times before calling EndSequence.
func (e *Encoder) BeginSequence(n uint64) error {
	if e.cfg.PreferCompact && n <= sequenceCompactMax {
		if err := e.writeByte(sequenceCompactHeader(int(n))); err != nil {
			return err
		}
	} else {
		w := minWidthFor(n)
		if err := e.writeByte(sequenceExtendedHeader(w - 1)); err != nil {
			return err
		}
		if _, err := e.writeLength(n); err != nil {
			return err
		}
	}
	e.recordValueWritten()
	e.pushFrame(TypeSequence, n)
	return nil
}

// EndSequence closes the innermost open Sequence, failing if the
// number of items encoded since BeginSequence didn't match the
// declared length.
func (e *Encoder) EndSequence() error {
	return e.popFrame(TypeSequence, "EndSequence")
}

// BeginMap writes a Map header declaring n upcoming (key, value)
// pairs. The caller must then call EncodeValue 2*n times (key, value,
// key, value, ...) before calling EndMap.
func (e *Encoder) BeginMap(n uint64) error {
	if e.cfg.PreferCompact && n <= mapCompactMax {
		if err := e.writeByte(mapCompactHeader(int(n))); err != nil {
			return err
		}
	} else {
		w := minWidthFor(n)
		if err := e.writeByte(mapExtendedHeader(w - 1)); err != nil {
			return err
		}
		if _, err := e.writeLength(n); err != nil {
			return err
		}
	}
	e.recordValueWritten()
	e.pushFrame(TypeMap, n*2)
	return nil
}

// EndMap closes the innermost open Map, failing if the number of
// key/value values encoded since BeginMap didn't match 2 * declared
// pair count.
func (e *Encoder) EndMap() error {
	return e.popFrame(TypeMap, "EndMap")
}

// EncodeValue dispatches on v's Type and writes it, recursing into
// Sequence and Map contents.
func (e *Encoder) EncodeValue(v Value) error {
	switch v.Type() {
	case TypeNull:
		return e.EncodeNull()
	case TypeUnit:
		return e.EncodeUnit()
	case TypeBool:
		b, _ := v.AsBool()
		return e.EncodeBool(b)
	case TypeInteger:
		if v.IsSignedInteger() {
			n, _ := v.AsInt()
			return e.EncodeIntSigned(n)
		}
		n, _ := v.AsUint()
		return e.EncodeIntUnsigned(n)
	case TypeFloat:
		f, _ := v.AsFloat()
		return e.EncodeFloat(f)
	case TypeString:
		s, _ := v.AsString()
		return e.EncodeString(s)
	case TypeBytes:
		b, _ := v.AsBytes()
		return e.EncodeBytes(b)
	case TypeSequence:
		elems, _ := v.AsSequence()
		if err := e.BeginSequence(uint64(len(elems))); err != nil {
			return err
		}
		for _, el := range elems {
			if err := e.EncodeValue(el); err != nil {
				return err
			}
		}
		return e.EndSequence()
	case TypeMap:
		pairs, _ := v.AsMap()
		if err := e.BeginMap(uint64(len(pairs))); err != nil {
			return err
		}
		for _, p := range pairs {
			if err := e.EncodeValue(p.Key); err != nil {
				return err
			}
			if err := e.EncodeValue(p.Val); err != nil {
				return err
			}
		}
		return e.EndMap()
	default:
		return newErr(KindInvalidState, "EncodeValue", "unknown value type")
	}
}

func growTo(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}
